package terminal

import (
	"errors"
	"testing"
)

func TestRGBTo256Primaries(t *testing.T) {
	tests := []struct {
		name string
		c    RGB
		want uint8
	}{
		{"black", RGB{0, 0, 0}, 16},
		{"white", RGB{255, 255, 255}, 231},
		{"red", RGB{255, 0, 0}, 196},
		{"green", RGB{0, 255, 0}, 46},
		{"blue", RGB{0, 0, 255}, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGBTo256(tt.c); got != tt.want {
				t.Errorf("RGBTo256(%+v) = %d, want %d", tt.c, got, tt.want)
			}
		})
	}
}

func TestRGBTo256Grayscale(t *testing.T) {
	// Mid-grays should land on the grayscale ramp (232-255), not the cube
	for _, v := range []uint8{18, 58, 128, 208} {
		idx := RGBTo256(RGB{v, v, v})
		if idx < grayscaleStart {
			t.Errorf("RGBTo256 gray %d = %d, expected grayscale ramp index >= %d",
				v, idx, grayscaleStart)
		}
	}
}

func TestRGBTo256NearGrayPrefersCloser(t *testing.T) {
	// Exact cube levels that are also gray should pick whichever is nearer;
	// 95,95,95 sits exactly on cube level 1 (index 59)
	idx := RGBTo256(RGB{95, 95, 95})
	if idx != 59 && (idx < grayscaleStart) {
		t.Errorf("RGBTo256(95,95,95) = %d, expected cube 59 or a ramp index", idx)
	}
}

func TestDetectColorModeTrueColor(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("COLORTERM", "truecolor")
	if got := DetectColorMode(); got != ColorModeTrueColor {
		t.Errorf("expected ColorModeTrueColor for COLORTERM=truecolor, got %v", got)
	}
}

func TestDetectColorModeKitty(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("KITTY_WINDOW_ID", "1")
	if got := DetectColorMode(); got != ColorModeTrueColor {
		t.Errorf("expected ColorModeTrueColor for kitty, got %v", got)
	}
}

func TestDetectColorModeFallback(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("TERM", "xterm-256color")
	if got := DetectColorMode(); got != ColorMode256 {
		t.Errorf("expected ColorMode256 fallback, got %v", got)
	}
}

func clearColorEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"COLORTERM", "TERM", "KITTY_WINDOW_ID", "KONSOLE_VERSION",
		"ITERM_SESSION_ID", "ALACRITTY_WINDOW_ID", "WEZTERM_PANE",
	} {
		t.Setenv(k, "")
	}
}

func TestCheckTermSupported(t *testing.T) {
	tests := []struct {
		term    string
		wantErr bool
	}{
		{"", true},
		{"dumb", true},
		{"cons25", true},
		{"xterm-256color", false},
		{"screen", false},
	}

	for _, tt := range tests {
		t.Setenv("TERM", tt.term)
		err := checkTermSupported()
		if tt.wantErr {
			var ute *UnsupportedTerminalError
			if !errors.As(err, &ute) {
				t.Errorf("TERM=%q: expected *UnsupportedTerminalError, got %v", tt.term, err)
			}
		} else if err != nil {
			t.Errorf("TERM=%q: expected nil error, got %v", tt.term, err)
		}
	}
}
