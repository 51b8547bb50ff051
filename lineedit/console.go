package lineedit

import (
	snapio "github.com/dzonerzy/go-argline/io"
)

// ConsoleInput supplies key presses.
type ConsoleInput interface {
	// ReadKey blocks until a key is pressed.
	ReadKey(suppressEcho bool) (KeyInfo, error)
}

// ConsoleOutput is a character grid with a cursor. Positions are zero-based
// and bounded by the buffer size.
type ConsoleOutput interface {
	CursorLeft() int
	CursorTop() int
	SetCursorPosition(left, top int)
	BufferWidth() int
	BufferHeight() int
	WindowWidth() int
	WindowHeight() int
	Foreground() snapio.ColorSpec
	Background() snapio.ColorSpec
	SetForeground(c snapio.ColorSpec)
	SetBackground(c snapio.ColorSpec)
	// ScrollContents moves the contents up by lines without moving the cursor.
	ScrollContents(lines int)
	// Write prints text at the cursor, wrapping at the buffer width.
	Write(text string)
	Clear()
}

// Console is a ConsoleInput and ConsoleOutput in one, such as
// snapio.Terminal or snapio.VirtualConsole.
type Console interface {
	ConsoleInput
	ConsoleOutput
}

// LineSession is implemented by consoles that need setup around each line
// read, such as switching a terminal into raw mode.
type LineSession interface {
	BeginLine() error
	EndLine() error
}

// TokenCompleter produces completions for tokens[index], given the whole line.
type TokenCompleter interface {
	Complete(tokens []string, index int) []string
}

// CompleterFunc adapts a function to TokenCompleter.
type CompleterFunc func(tokens []string, index int) []string

func (f CompleterFunc) Complete(tokens []string, index int) []string { return f(tokens, index) }

var (
	_ Console = (*snapio.Terminal)(nil)
	_ Console = (*snapio.VirtualConsole)(nil)

	_ LineSession = (*snapio.Terminal)(nil)
)
