package lineedit

import (
	"io"
	"unicode"

	"github.com/kballard/go-shellquote"

	snapio "github.com/dzonerzy/go-argline/io"
)

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithHistory shares h with the editor.
func WithHistory(h *History) EditorOption {
	return func(e *Editor) { e.history = h }
}

// WithCompleter enables token completion.
func WithCompleter(c TokenCompleter) EditorOption {
	return func(e *Editor) { e.completer = c }
}

// WithKeyBindings replaces the default Emacs-style bindings.
func WithKeyBindings(b *KeyBindings) EditorOption {
	return func(e *Editor) { e.bindings = b }
}

// WithPrompt sets the text written before each line.
func WithPrompt(prompt string) EditorOption {
	return func(e *Editor) { e.prompt = prompt }
}

// WithPromptColor writes the prompt in c.
func WithPromptColor(c snapio.ColorSpec) EditorOption {
	return func(e *Editor) { e.promptColor = c }
}

// WithLogger traces processed operations at debug level.
func WithLogger(l *snapio.Logger) EditorOption {
	return func(e *Editor) { e.logger = l }
}

type completionState struct {
	candidates []string
	index      int
	start      int
	length     int
}

// Editor is a single-line editor over a console. It owns its buffer and
// history cursor; one ReadLine runs at a time.
type Editor struct {
	in        ConsoleInput
	out       ConsoleOutput
	buf       *Buffer
	history   *History
	bindings  *KeyBindings
	completer TokenCompleter
	logger    *snapio.Logger

	prompt      string
	promptColor snapio.ColorSpec

	insertMode bool
	lastOp     Operation
	killBuffer string

	// original is the line RevertLine restores; pending is the line that was
	// being typed before history navigation started.
	original string
	pending  string

	// anchorLeft and anchorTop are the console position of buffer offset 0.
	anchorLeft, anchorTop int

	completion completionState
}

// NewEditor returns an editor reading keys from in and drawing on out.
func NewEditor(in ConsoleInput, out ConsoleOutput, opts ...EditorOption) *Editor {
	e := &Editor{
		in:         in,
		out:        out,
		buf:        NewBuffer(""),
		history:    NewHistory(1000),
		bindings:   DefaultKeyBindings(),
		insertMode: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.anchorLeft, e.anchorTop = out.CursorLeft(), out.CursorTop()
	return e
}

func (e *Editor) History() *History { return e.history }
func (e *Editor) Line() string      { return e.buf.String() }
func (e *Editor) Cursor() int       { return e.buf.Cursor() }
func (e *Editor) InsertMode() bool  { return e.insertMode }

// ReadLine reads one line. It returns io.EOF when the user ends input on an
// empty line; errors from the console are returned with the text typed so far.
func (e *Editor) ReadLine() (line string, err error) {
	if s, ok := e.in.(LineSession); ok {
		if err := s.BeginLine(); err != nil {
			return "", err
		}
		defer func() {
			if endErr := s.EndLine(); err == nil {
				err = endErr
			}
		}()
	}

	e.reset()
	for {
		key, err := e.in.ReadKey(true)
		if err != nil {
			return e.buf.String(), err
		}
		op, ok := e.bindings.Lookup(key)
		if !ok {
			e.debugf("unbound key %s", key)
			continue
		}
		switch e.Process(op, key) {
		case EndOfInputLine:
			return e.buf.String(), nil
		case EndOfInputStream:
			return "", io.EOF
		}
	}
}

func (e *Editor) reset() {
	e.buf.Clear()
	e.history.MoveCursor(SeekEnd, 0)
	e.original, e.pending = "", ""
	e.lastOp = NoOperation
	e.completion = completionState{}
	e.writePrompt()
}

func (e *Editor) writePrompt() {
	if e.prompt != "" {
		fg := e.out.Foreground()
		e.out.SetForeground(e.promptColor)
		e.out.Write(e.prompt)
		e.out.SetForeground(fg)
	}
	e.anchorLeft, e.anchorTop = e.out.CursorLeft(), e.out.CursorTop()
}

// Process applies op. key is the key press that triggered it; InsertChar
// inserts key.Rune.
func (e *Editor) Process(op Operation, key KeyInfo) Result {
	e.debugf("%s (%s) at %d", op, key, e.buf.Cursor())
	result := Normal

	switch op {
	case InsertChar:
		e.insertChar(key.Rune)
	case AcceptLine:
		e.finishLine()
		result = EndOfInputLine
	case EndOfFile:
		if e.buf.Len() == 0 {
			e.out.Write("\n")
			result = EndOfInputStream
		}
	case ForwardChar:
		e.moveTo(e.buf.Cursor() + 1)
	case BackwardChar:
		e.moveTo(e.buf.Cursor() - 1)
	case ForwardWord:
		e.moveTo(e.nextWordEnd())
	case BackwardWord:
		e.moveTo(e.prevWordStart())
	case BeginningOfLine:
		e.moveTo(0)
	case EndOfLine:
		e.moveTo(e.buf.Len())
	case DeleteChar:
		oldLen := e.buf.Len()
		if e.buf.Remove(1) {
			e.redraw(e.buf.Cursor(), oldLen)
		}
	case BackwardDeleteChar:
		oldLen := e.buf.Len()
		if e.buf.RemoveCharBeforeCursor() {
			e.redraw(e.buf.Cursor(), oldLen)
		}
	case KillLine:
		e.kill(e.buf.Cursor(), e.buf.Len())
	case UnixLineDiscard:
		e.kill(0, e.buf.Cursor())
	case BackwardKillWord:
		e.kill(e.prevWordStart(), e.buf.Cursor())
	case KillWord:
		e.kill(e.buf.Cursor(), e.nextWordEnd())
	case Yank:
		e.insertText(e.killBuffer)
	case PreviousHistory:
		e.navigateHistory(SeekCurrent, -1)
	case NextHistory:
		e.navigateHistory(SeekCurrent, 1)
	case BeginningOfHistory:
		e.navigateHistory(SeekBegin, 0)
	case EndOfHistory:
		e.navigateHistory(SeekEnd, 0)
	case CompleteTokenNext:
		e.complete(true)
	case CompleteTokenPrevious:
		e.complete(false)
	case ToggleInsertMode:
		e.insertMode = !e.insertMode
	case ClearScreen:
		e.out.Clear()
		e.writePrompt()
		e.redraw(0, 0)
	case RevertLine:
		e.replaceLine(e.original)
	case Abort:
		e.finishLine()
		e.buf.Clear()
		result = EndOfInputLine
	}

	e.lastOp = op
	return result
}

func (e *Editor) insertChar(r rune) {
	from, oldLen := e.buf.Cursor(), e.buf.Len()
	if e.insertMode || from == oldLen {
		e.buf.InsertRune(r)
	} else if err := e.buf.Replace(string(r)); err != nil {
		return
	}
	e.buf.MoveCursor(SeekCurrent, 1)
	e.redraw(from, oldLen)
}

func (e *Editor) insertText(s string) {
	if s == "" {
		return
	}
	from, oldLen := e.buf.Cursor(), e.buf.Len()
	e.buf.Insert(s)
	e.buf.MoveCursor(SeekCurrent, len([]rune(s)))
	e.redraw(from, oldLen)
}

// kill cuts [from, to) into the kill buffer.
func (e *Editor) kill(from, to int) {
	if from >= to {
		return
	}
	oldLen := e.buf.Len()
	e.killBuffer = string(e.buf.runes[from:to])
	e.buf.MoveCursor(SeekBegin, from)
	e.buf.Remove(to - from)
	e.redraw(from, oldLen)
}

func (e *Editor) replaceLine(s string) {
	oldLen := e.buf.Len()
	e.buf.Set(s)
	e.redraw(0, oldLen)
}

func (e *Editor) finishLine() {
	e.moveTo(e.buf.Len())
	e.out.Write("\n")
}

func (e *Editor) navigateHistory(origin SeekOrigin, offset int) {
	before := e.history.Cursor()
	if !e.history.MoveCursor(origin, offset) || e.history.Cursor() == before {
		return
	}
	if before == e.history.Count() {
		e.pending = e.buf.String()
	}
	line, ok := e.history.Current()
	if !ok {
		line = e.pending
	}
	e.original = line
	e.replaceLine(line)
}

func (e *Editor) nextWordEnd() int {
	rs, i := e.buf.runes, e.buf.Cursor()
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	for i < len(rs) && !unicode.IsSpace(rs[i]) {
		i++
	}
	return i
}

func (e *Editor) prevWordStart() int {
	rs, i := e.buf.runes, e.buf.Cursor()
	for i > 0 && unicode.IsSpace(rs[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(rs[i-1]) {
		i--
	}
	return i
}

// complete replaces the token under the cursor with the next or previous
// candidate. Consecutive completion keys cycle through the candidates of the
// first press instead of asking the completer again.
func (e *Editor) complete(forward bool) {
	if e.completer == nil {
		return
	}
	c := &e.completion
	if !e.lastOp.isCompletion() {
		tokens, idx := tokenAt(Tokenize(e.buf.String()), e.buf.Cursor())
		tok := tokens[idx]
		*c = completionState{
			candidates: e.completer.Complete(tokenTexts(tokens), idx),
			index:      -1,
			start:      tok.Start,
			length:     tok.End - tok.Start,
		}
		e.debugf("%d completions for token %d %q", len(c.candidates), idx, tok.Text)
	}

	n := len(c.candidates)
	if n == 0 {
		return
	}
	switch {
	case c.index < 0 && forward:
		c.index = 0
	case c.index < 0:
		c.index = n - 1
	case forward:
		c.index = (c.index + 1) % n
	default:
		c.index = (c.index - 1 + n) % n
	}

	text := shellquote.Join(c.candidates[c.index])
	oldLen := e.buf.Len()
	e.buf.MoveCursor(SeekBegin, c.start)
	e.buf.Remove(c.length)
	e.buf.Insert(text)
	c.length = len([]rune(text))
	e.buf.MoveCursor(SeekCurrent, c.length)
	e.redraw(c.start, oldLen)
}

// position maps a buffer offset to its console cell.
func (e *Editor) position(offset int) (left, top int) {
	width := max(e.out.BufferWidth(), 1)
	cell := e.anchorLeft + offset
	return cell % width, e.anchorTop + cell/width
}

func (e *Editor) moveTo(offset int) {
	if e.buf.MoveCursor(SeekBegin, offset) {
		e.syncCursor()
	}
}

func (e *Editor) syncCursor() {
	e.out.SetCursorPosition(e.position(e.buf.Cursor()))
}

// redraw rewrites the line from buffer offset from to the end, blanking the
// cells a longer previous line (oldLen) occupied, then places the cursor.
// When the text would run past the last row the contents are scrolled first.
func (e *Editor) redraw(from, oldLen int) {
	text := append([]rune(nil), e.buf.runes[from:]...)
	for i := e.buf.Len(); i < oldLen; i++ {
		text = append(text, ' ')
	}
	end := from + len(text)

	width := max(e.out.BufferWidth(), 1)
	lastRow := e.anchorTop + (e.anchorLeft+end)/width
	if overflow := lastRow - (e.out.BufferHeight() - 1); overflow > 0 {
		e.out.ScrollContents(overflow)
		e.anchorTop -= overflow
	}

	// Cells scrolled above the first row are gone.
	if first := -e.anchorTop*width - e.anchorLeft; from < first {
		skip := min(first-from, len(text))
		text, from = text[skip:], from+skip
	}

	e.out.SetCursorPosition(e.position(from))
	e.out.Write(string(text))
	e.syncCursor()
}

func (e *Editor) debugf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Debug("lineedit: "+format, args...)
	}
}
