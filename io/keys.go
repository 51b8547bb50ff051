package snapio

import (
	"fmt"
	"strings"
	"unicode"
)

// Key identifies a non-character key. KeyNone means the key press produced
// the rune in KeyInfo.Rune.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = [...]string{
	KeyNone:      "",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyEscape:    "Escape",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
}

func (k Key) String() string {
	if k >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Modifiers is a set of modifier keys held during a key press.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModControl
)

func (m Modifiers) String() string {
	var parts []string
	if m&ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if m&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// KeyInfo describes one key press.
type KeyInfo struct {
	Key       Key
	Rune      rune
	Modifiers Modifiers
}

// RuneKey returns the KeyInfo for typing r.
func RuneKey(r rune) KeyInfo {
	switch r {
	case '\r', '\n':
		return KeyInfo{Key: KeyEnter, Rune: '\r'}
	case '\t':
		return KeyInfo{Key: KeyTab, Rune: '\t'}
	}
	return KeyInfo{Rune: r}
}

// CtrlKey returns the KeyInfo for Ctrl plus a letter.
func CtrlKey(r rune) KeyInfo {
	return KeyInfo{Rune: unicode.ToLower(r), Modifiers: ModControl}
}

// IsPrintable reports whether the key press types a visible character.
func (k KeyInfo) IsPrintable() bool {
	return k.Key == KeyNone && k.Modifiers&(ModControl|ModAlt) == 0 && unicode.IsPrint(k.Rune)
}

func (k KeyInfo) String() string {
	name := k.Key.String()
	if k.Key == KeyNone {
		switch {
		case k.Rune == ' ':
			name = "Space"
		case k.Modifiers&ModControl != 0:
			name = string(unicode.ToUpper(k.Rune))
		default:
			name = string(k.Rune)
		}
	}
	if mods := k.Modifiers.String(); mods != "" {
		return mods + "+" + name
	}
	return name
}
