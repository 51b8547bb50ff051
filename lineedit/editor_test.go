package lineedit

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	snapio "github.com/dzonerzy/go-argline/io"
)

var (
	keyEnter     = snapio.RuneKey('\n')
	keyTab       = snapio.RuneKey('\t')
	keyShiftTab  = KeyInfo{Key: snapio.KeyTab, Rune: '\t', Modifiers: snapio.ModShift}
	keyLeft      = KeyInfo{Key: snapio.KeyLeft}
	keyUp        = KeyInfo{Key: snapio.KeyUp}
	keyDown      = KeyInfo{Key: snapio.KeyDown}
	keyHome      = KeyInfo{Key: snapio.KeyHome}
	keyInsert    = KeyInfo{Key: snapio.KeyInsert}
	keyDelete    = KeyInfo{Key: snapio.KeyDelete}
	keyBackspace = KeyInfo{Key: snapio.KeyBackspace}
	keyEscape    = KeyInfo{Key: snapio.KeyEscape}
	keyPageUp    = KeyInfo{Key: snapio.KeyPageUp}
	keyPageDown  = KeyInfo{Key: snapio.KeyPageDown}
)

func altKey(r rune) KeyInfo { return KeyInfo{Rune: r, Modifiers: snapio.ModAlt} }

// queue scripts console input; strings are typed rune by rune.
func queue(c *snapio.VirtualConsole, keys ...any) {
	for _, k := range keys {
		switch k := k.(type) {
		case string:
			c.QueueString(k)
		case KeyInfo:
			c.QueueKeys(k)
		default:
			panic("queue: unsupported key")
		}
	}
}

func newTestEditor(width, height int, opts ...EditorOption) (*Editor, *snapio.VirtualConsole) {
	console := snapio.NewVirtualConsole(width, height)
	opts = append([]EditorOption{WithPrompt("> ")}, opts...)
	return NewEditor(console, console, opts...), console
}

func typeText(e *Editor, s string) {
	for _, r := range s {
		e.Process(InsertChar, snapio.RuneKey(r))
	}
}

func TestReadLineEditing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		keys    []any
		want    string
		display string
	}{
		{"plain", []any{"hello\n"}, "hello", "> hello"},
		{"insert in middle", []any{"helo", keyLeft, "l\n"}, "hello", "> hello"},
		{"overwrite", []any{"abc", keyHome, keyInsert, "xy", keyEnter}, "xyc", "> xyc"},
		{"overwrite appends at end", []any{"ab", keyInsert, "c\n"}, "abc", "> abc"},
		{"backspace and delete", []any{"abcd", keyBackspace, keyHome, keyDelete, keyEnter}, "bc", "> bc"},
		{"backspace at start", []any{keyBackspace, "a\n"}, "a", "> a"},
		{"word motions", []any{"foo bar baz", KeyInfo{Key: snapio.KeyLeft, Modifiers: snapio.ModControl}, altKey('b'), altKey('f'), "X\n"}, "foo barX baz", "> foo barX baz"},
		{"kill word and yank", []any{"hello world", snapio.CtrlKey('w'), snapio.CtrlKey('a'), snapio.CtrlKey('y'), keyEnter}, "worldhello ", "> worldhello"},
		{"kill line and discard", []any{"abcdef", keyLeft, keyLeft, keyLeft, snapio.CtrlKey('k'), snapio.CtrlKey('a'), snapio.CtrlKey('y'), snapio.CtrlKey('u'), keyEnter}, "abc", "> abc"},
		{"kill word forward", []any{"one two", keyHome, altKey('d'), keyEnter}, " two", ">  two"},
		{"alt backspace", []any{"one two", KeyInfo{Key: snapio.KeyBackspace, Modifiers: snapio.ModAlt}, keyEnter}, "one ", "> one"},
		{"emacs motions", []any{"bc", snapio.CtrlKey('a'), "a", snapio.CtrlKey('e'), "d", snapio.CtrlKey('b'), snapio.CtrlKey('f'), "e\n"}, "abcde", "> abcde"},
		{"unbound keys ignored", []any{"a", KeyInfo{Key: snapio.KeyF5}, snapio.CtrlKey('z'), "b\n"}, "ab", "> ab"},
		{"revert without history", []any{"abc", keyEscape, "d\n"}, "d", "> d"},
		{"end of file ignored on text", []any{"a", snapio.CtrlKey('d'), keyEnter}, "a", "> a"},
		{"abort", []any{"abc", snapio.CtrlKey('c')}, "", "> abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			e, console := newTestEditor(40, 5)
			queue(console, tt.keys...)

			line, err := e.ReadLine()
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(line).To(Equal(tt.want))
			g.Expect(console.Line(0)).To(Equal(tt.display))
			g.Expect(console.CursorLeft()).To(Equal(0))
			g.Expect(console.CursorTop()).To(Equal(1))
			g.Expect(console.Pending()).To(BeZero())
		})
	}
}

func TestReadLineEndOfInput(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e, console := newTestEditor(20, 4)
	queue(console, snapio.CtrlKey('d'))
	line, err := e.ReadLine()
	g.Expect(err).To(Equal(io.EOF))
	g.Expect(line).To(BeEmpty())
	g.Expect(console.CursorTop()).To(Equal(1))

	// The console running dry returns what was typed along with its error.
	queue(console, "partial")
	line, err = e.ReadLine()
	g.Expect(err).To(Equal(io.EOF))
	g.Expect(line).To(Equal("partial"))
}

func TestReadLineToggleInsertMode(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e, console := newTestEditor(20, 4)
	g.Expect(e.InsertMode()).To(BeTrue())
	queue(console, keyInsert, "x\n")
	_, err := e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(e.InsertMode()).To(BeFalse())
}

func TestReadLineHistory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	h := NewHistory(0)
	h.Add("first")
	h.Add("second")
	e, console := newTestEditor(20, 6, WithHistory(h))
	g.Expect(e.History()).To(BeIdenticalTo(h))

	queue(console, "draft", keyUp, keyUp, keyUp, keyEnter)
	line, err := e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(line).To(Equal("first"))
	// "second" was longer; its tail must be blanked.
	g.Expect(console.Line(0)).To(Equal("> first"))

	queue(console, "x", keyUp, keyDown, keyDown, keyEnter)
	line, err = e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(line).To(Equal("x"))
	g.Expect(console.Line(1)).To(Equal("> x"))

	queue(console, "zz", keyPageUp, keyPageDown, keyEnter)
	line, err = e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(line).To(Equal("zz"))

	queue(console, "x", snapio.CtrlKey('p'), "!!", keyEscape, keyEnter)
	line, err = e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(line).To(Equal("second"))
	g.Expect(console.Line(3)).To(Equal("> second"))

	// The editor never adds to history itself.
	g.Expect(h.Entries()).To(Equal([]string{"first", "second"}))
}

func TestReadLineWrapsAndScrolls(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e, console := newTestEditor(10, 3)
	queue(console, "abcdefghijklmnopqrstuvwxyz")
	_, err := e.ReadLine()
	g.Expect(err).To(Equal(io.EOF))
	g.Expect(console.Lines()).To(Equal([]string{"> abcdefgh", "ijklmnopqr", "stuvwxyz"}))

	e, console = newTestEditor(10, 3)
	queue(console, "abcdefghijklmnopqrstuvwxyz12")
	line, err := e.ReadLine()
	g.Expect(err).To(Equal(io.EOF))
	g.Expect(line).To(Equal("abcdefghijklmnopqrstuvwxyz12"))
	g.Expect(console.Lines()).To(Equal([]string{"ijklmnopqr", "stuvwxyz12", ""}))
	g.Expect(console.CursorLeft()).To(Equal(0))
	g.Expect(console.CursorTop()).To(Equal(2))
}

func TestReadLineWrappedDeletion(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e, console := newTestEditor(10, 4)
	queue(console, "abcdefghijkl", keyHome, keyDelete, keyDelete, keyDelete, keyDelete)
	_, err := e.ReadLine()
	g.Expect(err).To(Equal(io.EOF))
	g.Expect(console.Lines()).To(Equal([]string{"> efghijkl", "", "", ""}))
	g.Expect(console.CursorLeft()).To(Equal(2))
	g.Expect(console.CursorTop()).To(Equal(0))
}

func TestReadLineClearScreen(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e, console := newTestEditor(20, 4)
	console.Write("junk\n")
	queue(console, "abc", snapio.CtrlKey('l'), keyEnter)

	line, err := e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(line).To(Equal("abc"))
	g.Expect(console.Lines()).To(Equal([]string{"> abc", "", "", ""}))
}

func TestReadLinePromptColor(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	e, console := newTestEditor(20, 4, WithPromptColor(snapio.Green))
	console.SetForeground(snapio.Blue)
	queue(console, "a\n")
	_, err := e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(console.Foreground()).To(Equal(snapio.Blue))
}

type sessionConsole struct {
	*snapio.VirtualConsole
	begins, ends int
	beginErr     error
}

func (s *sessionConsole) BeginLine() error { s.begins++; return s.beginErr }
func (s *sessionConsole) EndLine() error   { s.ends++; return nil }

func TestReadLineSession(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	s := &sessionConsole{VirtualConsole: snapio.NewVirtualConsole(20, 4)}
	e := NewEditor(s, s)
	s.QueueString("ok\n")
	line, err := e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(line).To(Equal("ok"))
	g.Expect(s.begins).To(Equal(1))
	g.Expect(s.ends).To(Equal(1))

	s.beginErr = errors.New("not a terminal")
	_, err = e.ReadLine()
	g.Expect(err).To(MatchError("not a terminal"))
	g.Expect(s.ends).To(Equal(1))
}

func TestReadLineDebugLogging(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var out bytes.Buffer
	logger := snapio.NewLogger(snapio.New().WithOut(&out).NoColor()).
		WithFormat(snapio.LogFormatPlain).
		WithLevel(snapio.LevelDebug)
	e, console := newTestEditor(20, 4, WithLogger(logger))
	queue(console, "a\n")
	_, err := e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out.String()).To(ContainSubstring("lineedit: InsertChar"))
	g.Expect(out.String()).To(ContainSubstring("lineedit: AcceptLine"))
}

func gitCompleter(calls *int) TokenCompleter {
	return CompleterFunc(func(tokens []string, index int) []string {
		*calls++
		var out []string
		for _, c := range []string{"checkout", "commit", "clone", "my file"} {
			if strings.HasPrefix(c, tokens[index]) {
				out = append(out, c)
			}
		}
		return out
	})
}

func TestCompletionCycles(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var calls int
	console := snapio.NewVirtualConsole(40, 4)
	e := NewEditor(console, console, WithCompleter(gitCompleter(&calls)))

	typeText(e, "git c")
	steps := []struct {
		op   Operation
		want string
	}{
		{CompleteTokenNext, "git checkout"},
		{CompleteTokenNext, "git commit"},
		{CompleteTokenNext, "git clone"},
		{CompleteTokenNext, "git checkout"},
		{CompleteTokenPrevious, "git clone"},
	}
	for _, step := range steps {
		g.Expect(e.Process(step.op, keyTab)).To(Equal(Normal))
		g.Expect(e.Line()).To(Equal(step.want))
		g.Expect(e.Cursor()).To(Equal(len(step.want)))
	}
	g.Expect(calls).To(Equal(1))
	g.Expect(console.Line(0)).To(Equal("git clone"))

	typeText(e, " m")
	e.Process(CompleteTokenNext, keyTab)
	g.Expect(e.Line()).To(Equal("git clone 'my file'"))
	g.Expect(calls).To(Equal(2))
}

func TestCompletionPrevious(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var calls int
	e, console := newTestEditor(40, 4, WithCompleter(gitCompleter(&calls)))
	queue(console, "git c", keyShiftTab, keyEnter)
	line, err := e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(line).To(Equal("git clone"))
	g.Expect(calls).To(Equal(1))
}

func TestCompletionBetweenTokens(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var calls int
	console := snapio.NewVirtualConsole(40, 4)
	e := NewEditor(console, console, WithCompleter(gitCompleter(&calls)))

	typeText(e, "git  --amend")
	e.Process(BeginningOfLine, keyHome)
	for range 4 {
		e.Process(ForwardChar, KeyInfo{Key: snapio.KeyRight})
	}
	e.Process(CompleteTokenNext, keyTab)
	g.Expect(e.Line()).To(Equal("git checkout --amend"))
	g.Expect(e.Cursor()).To(Equal(12))
	g.Expect(console.Line(0)).To(Equal("git checkout --amend"))
}

func TestCompletionWithoutCandidates(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var calls int
	e, console := newTestEditor(40, 4, WithCompleter(gitCompleter(&calls)))
	queue(console, "zz", keyTab, keyTab, keyEnter)
	line, err := e.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(line).To(Equal("zz"))
	g.Expect(calls).To(Equal(1))

	plain, console := newTestEditor(40, 4)
	queue(console, "git c", keyTab, keyEnter)
	line, err = plain.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(line).To(Equal("git c"))
}
