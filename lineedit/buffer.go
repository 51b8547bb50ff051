package lineedit

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an edit or read would go past the end of the buffer.
var ErrOutOfRange = errors.New("lineedit: out of range")

// SeekOrigin is the reference point for cursor moves.
type SeekOrigin int

const (
	SeekBegin SeekOrigin = iota
	SeekCurrent
	SeekEnd
)

// Buffer is an editable line of runes with a cursor in [0, Len()].
type Buffer struct {
	runes  []rune
	cursor int
}

// NewBuffer returns a buffer holding s with the cursor at the start.
func NewBuffer(s string) *Buffer {
	return &Buffer{runes: []rune(s)}
}

func (b *Buffer) Len() int       { return len(b.runes) }
func (b *Buffer) Cursor() int    { return b.cursor }
func (b *Buffer) String() string { return string(b.runes) }

func seek(origin SeekOrigin, offset, current, length int) (int, bool) {
	var base int
	switch origin {
	case SeekBegin:
		base = 0
	case SeekCurrent:
		base = current
	case SeekEnd:
		base = length
	default:
		return 0, false
	}
	target := base + offset
	if target < 0 || target > length {
		return 0, false
	}
	return target, true
}

// MoveCursor moves the cursor relative to origin. It returns false, leaving
// the cursor alone, if the target is outside [0, Len()].
func (b *Buffer) MoveCursor(origin SeekOrigin, offset int) bool {
	target, ok := seek(origin, offset, b.cursor, len(b.runes))
	if ok {
		b.cursor = target
	}
	return ok
}

// Insert inserts s at the cursor. The cursor does not move.
func (b *Buffer) Insert(s string) {
	b.insertRunes([]rune(s))
}

// InsertRune inserts r at the cursor. The cursor does not move.
func (b *Buffer) InsertRune(r rune) {
	b.insertRunes([]rune{r})
}

func (b *Buffer) insertRunes(rs []rune) {
	if len(rs) == 0 {
		return
	}
	out := make([]rune, 0, len(b.runes)+len(rs))
	out = append(out, b.runes[:b.cursor]...)
	out = append(out, rs...)
	b.runes = append(out, b.runes[b.cursor:]...)
}

// Replace overwrites runes starting at the cursor with s. The cursor does not
// move. It fails without changes if s would extend past the end.
func (b *Buffer) Replace(s string) error {
	rs := []rune(s)
	if b.cursor+len(rs) > len(b.runes) {
		return fmt.Errorf("%w: replacing %d runes at %d in a buffer of %d", ErrOutOfRange, len(rs), b.cursor, len(b.runes))
	}
	copy(b.runes[b.cursor:], rs)
	return nil
}

// Remove deletes count runes starting at the cursor. It returns false,
// changing nothing, if that would read past the end.
func (b *Buffer) Remove(count int) bool {
	if count < 0 || b.cursor+count > len(b.runes) {
		return false
	}
	b.runes = append(b.runes[:b.cursor], b.runes[b.cursor+count:]...)
	return true
}

// RemoveCharBeforeCursor deletes the rune before the cursor and moves the
// cursor back over it.
func (b *Buffer) RemoveCharBeforeCursor() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	return b.Remove(1)
}

// Truncate drops everything at and after the cursor.
func (b *Buffer) Truncate() {
	b.runes = b.runes[:b.cursor]
}

// ReadAt returns a copy of count runes starting at offset.
func (b *Buffer) ReadAt(offset, count int) ([]rune, error) {
	if offset < 0 || count < 0 || offset+count > len(b.runes) {
		return nil, fmt.Errorf("%w: reading %d runes at %d in a buffer of %d", ErrOutOfRange, count, offset, len(b.runes))
	}
	return append([]rune(nil), b.runes[offset:offset+count]...), nil
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.runes = b.runes[:0]
	b.cursor = 0
}

// Set replaces the contents with s and moves the cursor to the end.
func (b *Buffer) Set(s string) {
	b.runes = []rune(s)
	b.cursor = len(b.runes)
}
