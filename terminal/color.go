package terminal

import (
	"os"
	"strings"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the zero value black color
var RGBBlack = RGB{0, 0, 0}

// Equal returns true if colors match
func (c RGB) Equal(other RGB) bool {
	return c == other
}

// Color cube levels for the 6x6x6 palette (indices 16-231)
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// grayscaleStart is the first grayscale index (232-255 = 24 shades)
const grayscaleStart = 232

// cubeIndex returns the nearest cube level index for a channel value
func cubeIndex(v uint8) uint8 {
	best := 0
	bestDist := absInt(int(v) - int(cubeValues[0]))
	for j := 1; j < 6; j++ {
		d := absInt(int(v) - int(cubeValues[j]))
		if d < bestDist {
			bestDist = d
			best = j
		}
	}
	return uint8(best)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RGBTo256 converts RGB to the nearest xterm-256 palette index.
// Near-gray colors are matched against the grayscale ramp as well as the
// color cube; whichever is closer wins.
func RGBTo256(c RGB) uint8 {
	gray := (int(c.R) + int(c.G) + int(c.B)) / 3
	maxDiff := max(absInt(int(c.R)-gray), absInt(int(c.G)-gray), absInt(int(c.B)-gray))

	cr := cubeIndex(c.R)
	cg := cubeIndex(c.G)
	cb := cubeIndex(c.B)
	cube := 16 + 36*cr + 6*cg + cb

	if maxDiff >= 10 {
		return cube
	}

	// Grayscale ramp: 232-255 maps to luminance 8, 18, ..., 238
	if gray < 4 {
		return 16 // cube black
	}
	if gray > 243 {
		return 231 // cube white
	}
	grayIdx := grayscaleStart + (gray-8)/10
	if grayIdx > 255 {
		grayIdx = 255
	}

	grayLevel := 8 + (grayIdx-grayscaleStart)*10
	grayDist := absInt(int(c.R)-grayLevel) + absInt(int(c.G)-grayLevel) + absInt(int(c.B)-grayLevel)
	cubeDist := absInt(int(c.R)-int(cubeValues[cr])) +
		absInt(int(c.G)-int(cubeValues[cg])) +
		absInt(int(c.B)-int(cubeValues[cb]))

	if grayDist < cubeDist {
		return uint8(grayIdx)
	}
	return cube
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return ColorModeTrueColor
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}

// checkTermSupported validates the TERM environment before raw mode entry.
// A dumb or unset TERM cannot host cursor-addressed rendering.
func checkTermSupported() error {
	term := os.Getenv("TERM")
	if term == "" {
		return &UnsupportedTerminalError{Term: term, Reason: "TERM is not set"}
	}
	if term == "dumb" || term == "cons25" {
		return &UnsupportedTerminalError{Term: term, Reason: "terminal does not support cursor addressing"}
	}
	return nil
}
