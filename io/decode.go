package snapio

import (
	"bufio"
	"errors"
	stdio "io"
	"strconv"
	"strings"
)

// ErrBadCursorReport is returned when a cursor position report cannot be parsed.
var ErrBadCursorReport = errors.New("snapio: malformed cursor position report")

// KeyDecoder turns a raw terminal byte stream into key presses. It understands
// control characters, CSI and SS3 escape sequences (xterm modifier parameters
// included) and Alt-prefixed characters.
type KeyDecoder struct {
	r *bufio.Reader
}

// NewKeyDecoder reads key presses from r.
func NewKeyDecoder(r stdio.Reader) *KeyDecoder {
	return &KeyDecoder{r: bufio.NewReader(r)}
}

// ReadKey blocks for the next key press.
func (d *KeyDecoder) ReadKey() (KeyInfo, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return KeyInfo{}, err
	}
	if b != 0x1b {
		if err := d.r.UnreadByte(); err != nil {
			return KeyInfo{}, err
		}
		return d.readPlain()
	}

	// A lone escape is only distinguishable by nothing else being buffered.
	if d.r.Buffered() == 0 {
		return KeyInfo{Key: KeyEscape, Rune: 0x1b}, nil
	}
	next, _ := d.r.ReadByte()
	switch next {
	case '[':
		return d.readCSI()
	case 'O':
		return d.readSS3()
	case 0x1b:
		return KeyInfo{Key: KeyEscape, Rune: 0x1b, Modifiers: ModAlt}, nil
	}
	_ = d.r.UnreadByte()
	key, err := d.readPlain()
	if err != nil {
		return KeyInfo{}, err
	}
	key.Modifiers |= ModAlt
	return key, nil
}

func (d *KeyDecoder) readPlain() (KeyInfo, error) {
	r, _, err := d.r.ReadRune()
	if err != nil {
		return KeyInfo{}, err
	}
	switch {
	case r == '\r' || r == '\n':
		return KeyInfo{Key: KeyEnter, Rune: '\r'}, nil
	case r == '\t':
		return KeyInfo{Key: KeyTab, Rune: '\t'}, nil
	case r == 0x7f || r == 0x08:
		return KeyInfo{Key: KeyBackspace, Rune: r}, nil
	case r == 0:
		return KeyInfo{Rune: ' ', Modifiers: ModControl}, nil
	case r < 0x1b:
		return KeyInfo{Rune: 'a' + r - 1, Modifiers: ModControl}, nil
	case r < 0x20:
		return KeyInfo{Rune: r + 0x40, Modifiers: ModControl}, nil
	}
	return KeyInfo{Rune: r}, nil
}

var csiTilde = map[int]Key{
	1: KeyHome, 2: KeyInsert, 3: KeyDelete, 4: KeyEnd, 5: KeyPageUp, 6: KeyPageDown,
	7: KeyHome, 8: KeyEnd, 11: KeyF1, 12: KeyF2, 13: KeyF3, 14: KeyF4, 15: KeyF5,
	17: KeyF6, 18: KeyF7, 19: KeyF8, 20: KeyF9, 21: KeyF10, 23: KeyF11, 24: KeyF12,
}

var csiFinal = map[byte]Key{
	'A': KeyUp, 'B': KeyDown, 'C': KeyRight, 'D': KeyLeft, 'H': KeyHome, 'F': KeyEnd,
	'P': KeyF1, 'Q': KeyF2, 'R': KeyF3, 'S': KeyF4,
}

// readCSI parses "ESC [ params final". Unknown sequences are swallowed and
// reported as a bare escape.
func (d *KeyDecoder) readCSI() (KeyInfo, error) {
	params, final, err := d.readSequence()
	if err != nil {
		return KeyInfo{}, err
	}
	fields := strings.Split(params, ";")
	mods := xtermModifiers(fields)

	switch final {
	case '~':
		n, _ := strconv.Atoi(fields[0])
		if key, ok := csiTilde[n]; ok {
			return KeyInfo{Key: key, Modifiers: mods}, nil
		}
	case 'Z':
		return KeyInfo{Key: KeyTab, Rune: '\t', Modifiers: ModShift}, nil
	default:
		if key, ok := csiFinal[final]; ok {
			return KeyInfo{Key: key, Modifiers: mods}, nil
		}
	}
	return KeyInfo{Key: KeyEscape, Rune: 0x1b}, nil
}

func (d *KeyDecoder) readSS3() (KeyInfo, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return KeyInfo{}, err
	}
	if key, ok := csiFinal[b]; ok {
		return KeyInfo{Key: key}, nil
	}
	return KeyInfo{Key: KeyEscape, Rune: 0x1b}, nil
}

func (d *KeyDecoder) readSequence() (string, byte, error) {
	var params strings.Builder
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return "", 0, err
		}
		if b >= 0x40 && b <= 0x7e {
			return params.String(), b, nil
		}
		params.WriteByte(b)
	}
}

// xtermModifiers decodes the second CSI parameter: 1 + (shift|alt<<1|ctrl<<2).
func xtermModifiers(fields []string) Modifiers {
	if len(fields) < 2 {
		return 0
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return 0
	}
	n--
	var mods Modifiers
	if n&1 != 0 {
		mods |= ModShift
	}
	if n&2 != 0 {
		mods |= ModAlt
	}
	if n&4 != 0 {
		mods |= ModControl
	}
	return mods
}

// ReadCursorPosition reads a "ESC [ row ; col R" report, as sent by the
// terminal in reply to "ESC [ 6n". The result is zero-based.
func (d *KeyDecoder) ReadCursorPosition() (left, top int, err error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	if b != 0x1b {
		return 0, 0, ErrBadCursorReport
	}
	if b, err = d.r.ReadByte(); err != nil {
		return 0, 0, err
	}
	if b != '[' {
		return 0, 0, ErrBadCursorReport
	}
	params, final, err := d.readSequence()
	if err != nil {
		return 0, 0, err
	}
	row, col, ok := strings.Cut(params, ";")
	if final != 'R' || !ok {
		return 0, 0, ErrBadCursorReport
	}
	y, err1 := strconv.Atoi(row)
	x, err2 := strconv.Atoi(col)
	if err1 != nil || err2 != nil || x < 1 || y < 1 {
		return 0, 0, ErrBadCursorReport
	}
	return x - 1, y - 1, nil
}
