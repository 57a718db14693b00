package terminal

var keyNames = map[Key]string{
	KeyNone:             "None",
	KeyRune:             "Rune",
	KeyEscape:           "Escape",
	KeyEnter:            "Enter",
	KeyTab:              "Tab",
	KeyBacktab:          "Backtab",
	KeyBackspace:        "Backspace",
	KeyDelete:           "Delete",
	KeySpace:            "Space",
	KeyUp:               "Up",
	KeyDown:             "Down",
	KeyLeft:             "Left",
	KeyRight:            "Right",
	KeyHome:             "Home",
	KeyEnd:              "End",
	KeyPageUp:           "PageUp",
	KeyPageDown:         "PageDown",
	KeyInsert:           "Insert",
	KeyF1:               "F1",
	KeyF2:               "F2",
	KeyF3:               "F3",
	KeyF4:               "F4",
	KeyF5:               "F5",
	KeyF6:               "F6",
	KeyF7:               "F7",
	KeyF8:               "F8",
	KeyF9:               "F9",
	KeyF10:              "F10",
	KeyF11:              "F11",
	KeyF12:              "F12",
	KeyCtrlSpace:        "Ctrl+Space",
	KeyCtrlBackslash:    "Ctrl+\\",
	KeyCtrlBracketRight: "Ctrl+]",
	KeyCtrlCaret:        "Ctrl+^",
	KeyCtrlUnderscore:   "Ctrl+_",
}

// String returns a human-readable key name
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= KeyCtrlA && k <= KeyCtrlZ {
		return "Ctrl+" + string(rune('A'+int(k-KeyCtrlA)))
	}
	return "Unknown"
}
