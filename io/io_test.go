package snapio

import (
	"bytes"
	stdio "io"
	"strings"
	"testing"
)

func TestEnvFallbackSize(t *testing.T) {
	t.Setenv("COLUMNS", "101")
	t.Setenv("LINES", "55")
	m := New().WithOut(&bytes.Buffer{})
	if m.Width() != 101 || m.Height() != 55 {
		t.Fatalf("want 101x55, got %dx%d", m.Width(), m.Height())
	}

	t.Setenv("COLUMNS", "wide")
	t.Setenv("LINES", "")
	if m.Width() != 80 || m.Height() != 24 {
		t.Fatalf("want 80x24 defaults, got %dx%d", m.Width(), m.Height())
	}
}

func TestColorOverridesAndLevels(t *testing.T) {
	for _, name := range []string{"COLORTERM", "NO_COLOR", "FORCE_COLOR", "CLICOLOR", "CLICOLOR_FORCE"} {
		t.Setenv(name, "")
	}
	t.Setenv("TERM", "dumb")
	m := New().WithOut(&bytes.Buffer{}).ColorAuto()
	if m.SupportsColor() {
		t.Fatalf("a buffer is not a color terminal")
	}

	t.Setenv("NO_COLOR", "1")
	if m.ForceColor().SupportsColor() {
		t.Fatalf("NO_COLOR should disable")
	}
	t.Setenv("NO_COLOR", "")

	m.ForceColor()
	if m.ColorLevel() != 1 {
		t.Fatalf("forced color on an unknown terminal should be basic, got %d", m.ColorLevel())
	}
	t.Setenv("TERM", "xterm-256color")
	if m.ColorLevel() != 2 {
		t.Fatalf("expected 2 for 256color, got %d", m.ColorLevel())
	}
	t.Setenv("COLORTERM", "truecolor")
	if m.ColorLevel() != 3 {
		t.Fatalf("expected truecolor level 3, got %d", m.ColorLevel())
	}
	if m.ForceColorLevel(1).ColorLevel() != 1 {
		t.Fatalf("ForceColorLevel should override detection")
	}
}

func TestANSIStyles(t *testing.T) {
	for _, name := range []string{"COLORTERM", "NO_COLOR", "CLICOLOR"} {
		t.Setenv(name, "")
	}
	t.Setenv("TERM", "xterm-256color")
	m := New().WithOut(&bytes.Buffer{}).ForceColor()

	out := NewStyle().Bold().Underline().Fg(BrightBlue).Sprint(m, "x")
	if !strings.Contains(out, "\x1b[") || !strings.HasSuffix(out, "\x1b[0m") {
		t.Fatalf("missing ANSI: %q", out)
	}
	out = NewStyle().Fg(Indexed(202)).Sprint(m, "x")
	if !strings.Contains(out, "38;5;202") {
		t.Fatalf("expected 256 code, got %q", out)
	}

	t.Setenv("COLORTERM", "truecolor")
	out = NewStyle().Fg(Truecolor(1, 2, 3)).Bg(Truecolor(4, 5, 6)).Sprint(m, "x")
	if !strings.Contains(out, "38;2;1;2;3") || !strings.Contains(out, "48;2;4;5;6") {
		t.Fatalf("expected truecolor codes, got %q", out)
	}

	if got := NewStyle().Bold().Sprint(m.NoColor(), "x"); got != "x" {
		t.Fatalf("NoColor must leave text unchanged, got %q", got)
	}
}

func TestBufferIsNotATerminal(t *testing.T) {
	m := New().WithIn(strings.NewReader("")).WithOut(stdio.Discard)
	if m.IsTTY() || m.IsInteractive() {
		t.Fatalf("readers and writers without descriptors are not terminals")
	}
	if !m.IsPiped() || !m.IsRedirected() {
		t.Fatalf("expected piped input and redirected output")
	}
	if m.Out() != stdio.Discard {
		t.Fatalf("missing writer")
	}
}
