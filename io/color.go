package snapio

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type colorKind uint8

const (
	colorDefault colorKind = iota
	colorBasic
	colorIndexed
	colorTrue
)

// ColorSpec represents a color in one of three spaces: basic (16), indexed (256),
// or truecolor (RGB). The zero value is the terminal's default color.
type ColorSpec struct {
	kind    colorKind
	index   uint8
	r, g, b uint8
}

// Basic color helpers (0-7 normal, 8-15 bright)
var (
	Black   = basic(0)
	Red     = basic(1)
	Green   = basic(2)
	Yellow  = basic(3)
	Blue    = basic(4)
	Magenta = basic(5)
	Cyan    = basic(6)
	White   = basic(7)

	BrightBlack   = basic(8) // Gray
	BrightRed     = basic(9)
	BrightGreen   = basic(10)
	BrightYellow  = basic(11)
	BrightBlue    = basic(12)
	BrightMagenta = basic(13)
	BrightCyan    = basic(14)
	BrightWhite   = basic(15)
)

// A few 256-palette and RGB colors used by the default themes.
var (
	LightPurple = Indexed(141)
	Gray        = Indexed(244)

	TrueBrightBlue   = Truecolor(92, 148, 252)
	TrueBrightGreen  = Truecolor(80, 250, 123)
	TrueBrightYellow = Truecolor(255, 184, 108)
	TrueBrightRed    = Truecolor(255, 85, 85)
	TrueBrightCyan   = Truecolor(139, 233, 253)
	TrueLightPurple  = Truecolor(189, 147, 249)
	TrueGray         = Truecolor(128, 128, 128)
)

// DefaultColor is the terminal's own foreground or background color.
var DefaultColor = ColorSpec{}

func basic(i uint8) ColorSpec { return ColorSpec{kind: colorBasic, index: i} }

// Indexed returns a 256-color palette spec (0–255).
func Indexed(i uint8) ColorSpec { return ColorSpec{kind: colorIndexed, index: i} }

// Truecolor returns a 24‑bit RGB color spec.
func Truecolor(r, g, b uint8) ColorSpec { return ColorSpec{kind: colorTrue, r: r, g: g, b: b} }

// IsDefault reports whether c is the terminal default.
func (c ColorSpec) IsDefault() bool { return c.kind == colorDefault }

func (c ColorSpec) String() string {
	switch c.kind {
	case colorBasic, colorIndexed:
		return fmt.Sprintf("%d", c.index)
	case colorTrue:
		return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
	default:
		return "default"
	}
}

// TerminalColor converts c for use with lipgloss. The renderer degrades it to
// the output's color profile.
func (c ColorSpec) TerminalColor() lipgloss.TerminalColor {
	switch c.kind {
	case colorBasic, colorIndexed:
		return lipgloss.ANSIColor(c.index)
	case colorTrue:
		return lipgloss.Color(c.String())
	default:
		return lipgloss.NoColor{}
	}
}

// Style is a fluent style builder for foreground/background colors and
// attributes (bold, faint, italic, underline, inverse).
type Style struct {
	fg, bg                                  ColorSpec
	bold, faint, italic, underline, inverse bool
}

// NewStyle creates a new empty style builder.
func NewStyle() *Style                 { return &Style{} }
func (s *Style) Fg(c ColorSpec) *Style { s.fg = c; return s }
func (s *Style) Bg(c ColorSpec) *Style { s.bg = c; return s }
func (s *Style) Bold() *Style          { s.bold = true; return s }
func (s *Style) Faint() *Style         { s.faint = true; return s }
func (s *Style) Italic() *Style        { s.italic = true; return s }
func (s *Style) Underline() *Style     { s.underline = true; return s }
func (s *Style) Inverse() *Style       { s.inverse = true; return s }

// Lipgloss returns the equivalent lipgloss style built on r.
func (s *Style) Lipgloss(r *lipgloss.Renderer) lipgloss.Style {
	st := r.NewStyle().
		Bold(s.bold).
		Faint(s.faint).
		Italic(s.italic).
		Underline(s.underline).
		Reverse(s.inverse)
	if !s.fg.IsDefault() {
		st = st.Foreground(s.fg.TerminalColor())
	}
	if !s.bg.IsDefault() {
		st = st.Background(s.bg.TerminalColor())
	}
	return st
}

// Sprint returns a styled string if color is supported; otherwise it returns
// the text unchanged.
func (s *Style) Sprint(io *IOManager, text string) string {
	if !io.SupportsColor() {
		return text
	}
	return s.Lipgloss(io.Renderer()).Render(text)
}

// Sprintf formats the content with fmt.Sprintf and then applies the style.
func (s *Style) Sprintf(io *IOManager, format string, a ...any) string {
	return s.Sprint(io, fmt.Sprintf(format, a...))
}

// Theme provides semantic colors
type Theme struct {
	Primary, Success, Warning, Error, Info, Debug, Muted ColorSpec
}

// DefaultTheme16 returns a theme using basic 16 colors.
func DefaultTheme16() Theme {
	return Theme{
		Primary: BrightBlue,
		Success: BrightGreen,
		Warning: BrightYellow,
		Error:   BrightRed,
		Info:    BrightCyan,
		Debug:   BrightMagenta,
		Muted:   BrightBlack,
	}
}

// DefaultTheme256 returns a theme using the 256-color palette.
func DefaultTheme256() Theme {
	t := DefaultTheme16()
	t.Debug = LightPurple
	t.Muted = Gray
	return t
}

// DefaultThemeTruecolor returns a theme using 24-bit RGB colors.
func DefaultThemeTruecolor() Theme {
	return Theme{
		Primary: TrueBrightBlue,
		Success: TrueBrightGreen,
		Warning: TrueBrightYellow,
		Error:   TrueBrightRed,
		Info:    TrueBrightCyan,
		Debug:   TrueLightPurple,
		Muted:   TrueGray,
	}
}

// DefaultTheme returns the theme matching the IOManager's color level.
func DefaultTheme(io *IOManager) Theme {
	switch io.ColorLevel() {
	case 3:
		return DefaultThemeTruecolor()
	case 2:
		return DefaultTheme256()
	default:
		return DefaultTheme16()
	}
}
