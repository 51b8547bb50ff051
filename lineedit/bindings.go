package lineedit

import (
	snapio "github.com/dzonerzy/go-argline/io"
)

type (
	Key       = snapio.Key
	Modifiers = snapio.Modifiers
	KeyInfo   = snapio.KeyInfo
)

// chord identifies a key independent of modifiers: a special key, or a rune
// when key is KeyNone.
type chord struct {
	key  Key
	char rune
}

func chordOf(k KeyInfo) chord {
	if k.Key != snapio.KeyNone {
		return chord{key: k.Key}
	}
	return chord{char: k.Rune}
}

type exactChord struct {
	chord
	mods Modifiers
}

// KeyBindings maps key presses to operations. A binding for the exact
// modifier combination beats one registered with modifiers ignored.
// Printable characters without a binding insert themselves.
type KeyBindings struct {
	exact    map[exactChord]Operation
	wildcard map[chord]Operation
}

// NewKeyBindings returns an empty table.
func NewKeyBindings() *KeyBindings {
	return &KeyBindings{
		exact:    make(map[exactChord]Operation),
		wildcard: make(map[chord]Operation),
	}
}

// Bind binds a special key pressed with exactly mods.
func (b *KeyBindings) Bind(key Key, mods Modifiers, op Operation) {
	b.exact[exactChord{chord{key: key}, mods}] = op
}

// BindRune binds a character pressed with exactly mods.
func (b *KeyBindings) BindRune(r rune, mods Modifiers, op Operation) {
	b.exact[exactChord{chord{char: r}, mods}] = op
}

// BindIgnoringModifiers binds a special key regardless of held modifiers.
func (b *KeyBindings) BindIgnoringModifiers(key Key, op Operation) {
	b.wildcard[chord{key: key}] = op
}

// BindRuneIgnoringModifiers binds a character regardless of held modifiers.
func (b *KeyBindings) BindRuneIgnoringModifiers(r rune, op Operation) {
	b.wildcard[chord{char: r}] = op
}

// Unbind removes every binding of key press k's key or rune.
func (b *KeyBindings) Unbind(k KeyInfo) {
	c := chordOf(k)
	delete(b.exact, exactChord{c, k.Modifiers})
	delete(b.wildcard, c)
}

// Lookup returns the operation bound to k.
func (b *KeyBindings) Lookup(k KeyInfo) (Operation, bool) {
	c := chordOf(k)
	if op, ok := b.exact[exactChord{c, k.Modifiers}]; ok {
		return op, true
	}
	if op, ok := b.wildcard[c]; ok {
		return op, true
	}
	if k.IsPrintable() {
		return InsertChar, true
	}
	return NoOperation, false
}

// DefaultKeyBindings returns Emacs-style bindings.
func DefaultKeyBindings() *KeyBindings {
	b := NewKeyBindings()

	b.BindIgnoringModifiers(snapio.KeyEnter, AcceptLine)
	b.Bind(snapio.KeyBackspace, 0, BackwardDeleteChar)
	b.Bind(snapio.KeyBackspace, snapio.ModAlt, BackwardKillWord)
	b.Bind(snapio.KeyDelete, 0, DeleteChar)
	b.Bind(snapio.KeyInsert, 0, ToggleInsertMode)
	b.Bind(snapio.KeyEscape, 0, RevertLine)

	b.Bind(snapio.KeyLeft, 0, BackwardChar)
	b.Bind(snapio.KeyRight, 0, ForwardChar)
	b.Bind(snapio.KeyLeft, snapio.ModControl, BackwardWord)
	b.Bind(snapio.KeyRight, snapio.ModControl, ForwardWord)
	b.BindIgnoringModifiers(snapio.KeyHome, BeginningOfLine)
	b.BindIgnoringModifiers(snapio.KeyEnd, EndOfLine)

	b.Bind(snapio.KeyUp, 0, PreviousHistory)
	b.Bind(snapio.KeyDown, 0, NextHistory)
	b.Bind(snapio.KeyPageUp, 0, BeginningOfHistory)
	b.Bind(snapio.KeyPageDown, 0, EndOfHistory)

	b.Bind(snapio.KeyTab, 0, CompleteTokenNext)
	b.Bind(snapio.KeyTab, snapio.ModShift, CompleteTokenPrevious)

	ctrl := map[rune]Operation{
		'a': BeginningOfLine,
		'b': BackwardChar,
		'c': Abort,
		'd': EndOfFile,
		'e': EndOfLine,
		'f': ForwardChar,
		'g': Abort,
		'k': KillLine,
		'l': ClearScreen,
		'n': NextHistory,
		'p': PreviousHistory,
		'u': UnixLineDiscard,
		'w': BackwardKillWord,
		'y': Yank,
	}
	for r, op := range ctrl {
		b.BindRune(r, snapio.ModControl, op)
	}

	alt := map[rune]Operation{
		'b': BackwardWord,
		'f': ForwardWord,
		'd': KillWord,
		'<': BeginningOfHistory,
		'>': EndOfHistory,
		'r': RevertLine,
	}
	for r, op := range alt {
		b.BindRune(r, snapio.ModAlt, op)
	}

	return b
}
