package snapio

import (
	stdio "io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/termenv"
)

// fdReader is satisfied by *os.File and anything else backed by a descriptor.
type fdReader interface {
	Fd() uintptr
}

// IOManager centralizes IO and terminal capabilities
type IOManager struct {
	in  stdio.Reader
	out stdio.Writer
	err stdio.Writer

	forceColor         bool
	noColor            bool
	forceColorLevel    int
	hasForceColorLevel bool
}

// New returns a manager bound to process stdio
func New() *IOManager {
	return &IOManager{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// WithIn sets the input reader used by the manager and returns the manager for chaining.
func (m *IOManager) WithIn(r stdio.Reader) *IOManager { m.in = r; return m }

// WithOut sets the standard output writer and returns the manager for chaining.
func (m *IOManager) WithOut(w stdio.Writer) *IOManager { m.out = w; return m }

// WithErr sets the standard error writer and returns the manager for chaining.
func (m *IOManager) WithErr(w stdio.Writer) *IOManager { m.err = w; return m }

// ForceColor forces color output on, regardless of environment.
func (m *IOManager) ForceColor() *IOManager { m.forceColor = true; m.noColor = false; return m }

// NoColor disables color output, regardless of environment.
func (m *IOManager) NoColor() *IOManager { m.noColor = true; m.forceColor = false; return m }

// ColorAuto uses environment heuristics to determine color support.
func (m *IOManager) ColorAuto() *IOManager { m.noColor = false; m.forceColor = false; return m }

// ForceColorLevel forces a specific color level (0=none, 1=16, 2=256, 3=truecolor).
func (m *IOManager) ForceColorLevel(level int) *IOManager {
	m.forceColorLevel = level
	m.hasForceColorLevel = true
	return m
}

// In returns the configured input reader.
func (m *IOManager) In() stdio.Reader { return m.in }

// Out returns the configured standard output writer.
func (m *IOManager) Out() stdio.Writer { return m.out }

// Err returns the configured standard error writer.
func (m *IOManager) Err() stdio.Writer { return m.err }

func isTerminal(v any) bool {
	f, ok := v.(fdReader)
	return ok && term.IsTerminal(f.Fd())
}

// IsTTY reports whether the output writer is connected to a terminal.
func (m *IOManager) IsTTY() bool { return isTerminal(m.out) }

// IsInteractive reports whether input comes from a terminal outside CI.
func (m *IOManager) IsInteractive() bool { return isTerminal(m.in) && os.Getenv("CI") == "" }

func (m *IOManager) IsPiped() bool      { return !isTerminal(m.in) }
func (m *IOManager) IsRedirected() bool { return !isTerminal(m.out) }

func (m *IOManager) size() (int, int, bool) {
	f, ok := m.out.(fdReader)
	if !ok {
		return 0, 0, false
	}
	w, h, err := term.GetSize(f.Fd())
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// Width returns the terminal width, falling back to $COLUMNS and then 80.
func (m *IOManager) Width() int {
	if w, _, ok := m.size(); ok {
		return w
	}
	if w, _ := fallbackTermSizeFromEnv(); w > 0 {
		return w
	}
	return 80
}

// Height returns the terminal height, falling back to $LINES and then 24.
func (m *IOManager) Height() int {
	if _, h, ok := m.size(); ok {
		return h
	}
	if _, h := fallbackTermSizeFromEnv(); h > 0 {
		return h
	}
	return 24
}

// SupportsColor determines ANSI color capability
func (m *IOManager) SupportsColor() bool {
	if m.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if m.forceColor || os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return m.IsTTY() && m.profile() != termenv.Ascii
}

func (m *IOManager) profile() termenv.Profile {
	return termenv.NewOutput(m.out, termenv.WithTTY(m.forceColor || m.IsTTY())).EnvColorProfile()
}

// ColorLevel returns 0 for none, 1 for basic, 2 for 256 colors, and 3 for truecolor.
func (m *IOManager) ColorLevel() int {
	if m.hasForceColorLevel {
		return m.forceColorLevel
	}
	if !m.SupportsColor() {
		return 0
	}
	switch m.profile() {
	case termenv.TrueColor:
		return 3
	case termenv.ANSI256:
		return 2
	default:
		// Forced color on a terminal termenv cannot classify.
		return 1
	}
}

// Profile returns the termenv profile matching ColorLevel.
func (m *IOManager) Profile() termenv.Profile {
	switch m.ColorLevel() {
	case 3:
		return termenv.TrueColor
	case 2:
		return termenv.ANSI256
	case 1:
		return termenv.ANSI
	default:
		return termenv.Ascii
	}
}

// Renderer returns a lipgloss renderer writing to Out with the manager's color profile.
func (m *IOManager) Renderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(m.out)
	r.SetColorProfile(m.Profile())
	return r
}

func (m *IOManager) colorize(s string, style func(lipgloss.Style) lipgloss.Style) string {
	if !m.SupportsColor() {
		return s
	}
	return style(m.Renderer().NewStyle()).Render(s)
}

// Bold returns s in bold when color is supported; otherwise s unchanged.
func (m *IOManager) Bold(s string) string {
	return m.colorize(s, func(st lipgloss.Style) lipgloss.Style { return st.Bold(true) })
}

// Faint returns s in faint intensity when supported; otherwise s unchanged.
func (m *IOManager) Faint(s string) string {
	return m.colorize(s, func(st lipgloss.Style) lipgloss.Style { return st.Faint(true) })
}

// Italic returns s in italic when supported; otherwise s unchanged.
func (m *IOManager) Italic(s string) string {
	return m.colorize(s, func(st lipgloss.Style) lipgloss.Style { return st.Italic(true) })
}

// Underline returns s underlined when supported; otherwise s unchanged.
func (m *IOManager) Underline(s string) string {
	return m.colorize(s, func(st lipgloss.Style) lipgloss.Style { return st.Underline(true) })
}
