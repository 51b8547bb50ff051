package snapio

import (
	stdio "io"
	"strings"
)

// VirtualConsole is an in-memory console: a fixed grid of cells with a cursor
// and a queue of scripted key presses. Writing past the last row scrolls.
type VirtualConsole struct {
	width, height int
	cells         [][]rune
	left, top     int
	fg, bg        ColorSpec
	keys          []KeyInfo
}

// NewVirtualConsole returns a blank console of the given size.
func NewVirtualConsole(width, height int) *VirtualConsole {
	v := &VirtualConsole{width: max(width, 1), height: max(height, 1)}
	v.cells = make([][]rune, v.height)
	for i := range v.cells {
		v.cells[i] = blankRow(v.width)
	}
	return v
}

func blankRow(width int) []rune {
	row := make([]rune, width)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// QueueKeys appends key presses to be returned by ReadKey.
func (v *VirtualConsole) QueueKeys(keys ...KeyInfo) {
	v.keys = append(v.keys, keys...)
}

// QueueString queues one key press per rune of s; '\n' is Enter.
func (v *VirtualConsole) QueueString(s string) {
	for _, r := range s {
		v.keys = append(v.keys, RuneKey(r))
	}
}

// Pending returns the number of queued key presses.
func (v *VirtualConsole) Pending() int { return len(v.keys) }

// ReadKey returns the next queued key press, or io.EOF when none remain.
func (v *VirtualConsole) ReadKey(suppressEcho bool) (KeyInfo, error) {
	if len(v.keys) == 0 {
		return KeyInfo{}, stdio.EOF
	}
	key := v.keys[0]
	v.keys = v.keys[1:]
	if !suppressEcho && key.IsPrintable() {
		v.Write(string(key.Rune))
	}
	return key, nil
}

func (v *VirtualConsole) CursorLeft() int           { return v.left }
func (v *VirtualConsole) CursorTop() int            { return v.top }
func (v *VirtualConsole) BufferWidth() int          { return v.width }
func (v *VirtualConsole) BufferHeight() int         { return v.height }
func (v *VirtualConsole) WindowWidth() int          { return v.width }
func (v *VirtualConsole) WindowHeight() int         { return v.height }
func (v *VirtualConsole) Foreground() ColorSpec     { return v.fg }
func (v *VirtualConsole) Background() ColorSpec     { return v.bg }
func (v *VirtualConsole) SetForeground(c ColorSpec) { v.fg = c }
func (v *VirtualConsole) SetBackground(c ColorSpec) { v.bg = c }

// SetCursorPosition moves the cursor, clamped to the grid.
func (v *VirtualConsole) SetCursorPosition(left, top int) {
	v.left = clamp(left, 0, v.width-1)
	v.top = clamp(top, 0, v.height-1)
}

// ScrollContents moves every row up by lines, blanking the rows uncovered at
// the bottom. The cursor does not move.
func (v *VirtualConsole) ScrollContents(lines int) {
	if lines <= 0 {
		return
	}
	lines = min(lines, v.height)
	copy(v.cells, v.cells[lines:])
	for i := v.height - lines; i < v.height; i++ {
		v.cells[i] = blankRow(v.width)
	}
}

func (v *VirtualConsole) Write(text string) {
	for _, r := range text {
		switch r {
		case '\n':
			v.newline()
		case '\r':
			v.left = 0
		default:
			v.cells[v.top][v.left] = r
			v.left++
			if v.left >= v.width {
				v.newline()
			}
		}
	}
}

func (v *VirtualConsole) newline() {
	v.left = 0
	v.top++
	if v.top >= v.height {
		v.ScrollContents(1)
		v.top = v.height - 1
	}
}

// Clear blanks the grid and homes the cursor.
func (v *VirtualConsole) Clear() {
	for i := range v.cells {
		v.cells[i] = blankRow(v.width)
	}
	v.left, v.top = 0, 0
}

// Line returns row i without trailing blanks.
func (v *VirtualConsole) Line(i int) string {
	if i < 0 || i >= v.height {
		return ""
	}
	return strings.TrimRight(string(v.cells[i]), " ")
}

// Lines returns every row without trailing blanks.
func (v *VirtualConsole) Lines() []string {
	out := make([]string, v.height)
	for i := range out {
		out[i] = v.Line(i)
	}
	return out
}

// Text returns the grid contents with trailing blank rows dropped.
func (v *VirtualConsole) Text() string {
	lines := v.Lines()
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
