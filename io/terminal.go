package snapio

import (
	"fmt"
	stdio "io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// Terminal is an ANSI terminal console. Key presses are decoded from the
// input stream; output positioning uses relative cursor movement from a
// tracked position, seeded by a cursor position query at the start of each line.
type Terminal struct {
	io       *IOManager
	out      stdio.Writer
	keys     *KeyDecoder
	renderer *lipgloss.Renderer

	inFd  uintptr
	inTTY bool
	raw   *term.State

	width, height int
	left, top     int
	fg, bg        ColorSpec

	err error
}

// NewTerminal returns a console on m's input and output.
func NewTerminal(m *IOManager) *Terminal {
	t := &Terminal{
		io:       m,
		out:      m.Out(),
		keys:     NewKeyDecoder(m.In()),
		renderer: m.Renderer(),
		width:    m.Width(),
		height:   m.Height(),
	}
	if f, ok := m.In().(fdReader); ok && term.IsTerminal(f.Fd()) {
		t.inFd, t.inTTY = f.Fd(), true
	}
	return t
}

// BeginLine switches the input to raw mode and synchronizes the tracked
// cursor with the terminal.
func (t *Terminal) BeginLine() error {
	t.width, t.height = t.io.Width(), t.io.Height()
	if !t.inTTY || t.raw != nil {
		return nil
	}
	state, err := term.MakeRaw(t.inFd)
	if err != nil {
		return fmt.Errorf("snapio: entering raw mode: %w", err)
	}
	t.raw = state
	if t.io.IsTTY() {
		t.emit("\x1b[6n")
		if left, top, err := t.keys.ReadCursorPosition(); err == nil {
			t.left, t.top = left, top
		}
	}
	return nil
}

// EndLine restores the terminal mode saved by BeginLine.
func (t *Terminal) EndLine() error {
	if t.raw == nil {
		return nil
	}
	state := t.raw
	t.raw = nil
	return term.Restore(t.inFd, state)
}

// Close restores the terminal and reports the first output error.
func (t *Terminal) Close() error {
	if err := t.EndLine(); err != nil {
		return err
	}
	return t.err
}

// Err returns the first error encountered while writing.
func (t *Terminal) Err() error { return t.err }

// ReadKey blocks for the next key press, echoing printable keys unless suppressEcho.
func (t *Terminal) ReadKey(suppressEcho bool) (KeyInfo, error) {
	key, err := t.keys.ReadKey()
	if err != nil {
		return KeyInfo{}, err
	}
	if !suppressEcho && key.IsPrintable() {
		t.Write(string(key.Rune))
	}
	return key, nil
}

func (t *Terminal) CursorLeft() int           { return t.left }
func (t *Terminal) CursorTop() int            { return t.top }
func (t *Terminal) BufferWidth() int          { return t.width }
func (t *Terminal) BufferHeight() int         { return t.height }
func (t *Terminal) WindowWidth() int          { return t.width }
func (t *Terminal) WindowHeight() int         { return t.height }
func (t *Terminal) Foreground() ColorSpec     { return t.fg }
func (t *Terminal) Background() ColorSpec     { return t.bg }
func (t *Terminal) SetForeground(c ColorSpec) { t.fg = c }
func (t *Terminal) SetBackground(c ColorSpec) { t.bg = c }

// SetCursorPosition moves the cursor, clamped to the window.
func (t *Terminal) SetCursorPosition(left, top int) {
	left = clamp(left, 0, t.width-1)
	top = clamp(top, 0, t.height-1)
	var b strings.Builder
	switch dy := top - t.top; {
	case dy < 0:
		fmt.Fprintf(&b, "\x1b[%dA", -dy)
	case dy > 0:
		fmt.Fprintf(&b, "\x1b[%dB", dy)
	}
	fmt.Fprintf(&b, "\x1b[%dG", left+1)
	t.emit(b.String())
	t.left, t.top = left, top
}

// ScrollContents scrolls the screen up by lines. The cursor does not move.
func (t *Terminal) ScrollContents(lines int) {
	if lines > 0 {
		t.emit(fmt.Sprintf("\x1b[%dS", lines))
	}
}

// Clear erases the screen and homes the cursor.
func (t *Terminal) Clear() {
	t.emit("\x1b[2J\x1b[H")
	t.left, t.top = 0, 0
}

// Write prints text in the current colors, wrapping at the buffer width.
func (t *Terminal) Write(text string) {
	var chunk strings.Builder
	flush := func() {
		if chunk.Len() > 0 {
			t.emit(t.styled(chunk.String()))
			chunk.Reset()
		}
	}
	for _, r := range text {
		switch r {
		case '\n':
			flush()
			t.newline()
		case '\r':
			flush()
			t.emit("\r")
			t.left = 0
		default:
			chunk.WriteRune(r)
			t.left++
			if t.left >= t.width {
				flush()
				t.newline()
			}
		}
	}
	flush()
}

// newline moves to the start of the next row; "\r\n" also settles a pending
// autowrap in the last column.
func (t *Terminal) newline() {
	t.emit("\r\n")
	t.left = 0
	if t.top < t.height-1 {
		t.top++
	}
}

func (t *Terminal) styled(s string) string {
	if (t.fg.IsDefault() && t.bg.IsDefault()) || !t.io.SupportsColor() {
		return s
	}
	return NewStyle().Fg(t.fg).Bg(t.bg).Lipgloss(t.renderer).Render(s)
}

func (t *Terminal) emit(s string) {
	if t.err != nil {
		return
	}
	_, t.err = stdio.WriteString(t.out, s)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}
