package snapio

import (
	"errors"
	"io"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestKeyDecoder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []KeyInfo
	}{
		{"plain", "ab", []KeyInfo{{Rune: 'a'}, {Rune: 'b'}}},
		{"utf8", "é", []KeyInfo{{Rune: 'é'}}},
		{"enter", "\r\n", []KeyInfo{{Key: KeyEnter, Rune: '\r'}, {Key: KeyEnter, Rune: '\r'}}},
		{"tab", "\t", []KeyInfo{{Key: KeyTab, Rune: '\t'}}},
		{"backspace", "\x7f", []KeyInfo{{Key: KeyBackspace, Rune: 0x7f}}},
		{"ctrl letter", "\x01\x17", []KeyInfo{CtrlKey('a'), CtrlKey('w')}},
		{"ctrl underscore", "\x1f", []KeyInfo{{Rune: '_', Modifiers: ModControl}}},
		{"lone escape", "\x1b", []KeyInfo{{Key: KeyEscape, Rune: 0x1b}}},
		{"arrow", "\x1b[A", []KeyInfo{{Key: KeyUp}}},
		{"ctrl arrow", "\x1b[1;5C", []KeyInfo{{Key: KeyRight, Modifiers: ModControl}}},
		{"delete", "\x1b[3~", []KeyInfo{{Key: KeyDelete}}},
		{"shift insert", "\x1b[2;2~", []KeyInfo{{Key: KeyInsert, Modifiers: ModShift}}},
		{"function key", "\x1b[15~", []KeyInfo{{Key: KeyF5}}},
		{"back tab", "\x1b[Z", []KeyInfo{{Key: KeyTab, Rune: '\t', Modifiers: ModShift}}},
		{"ss3 home", "\x1bOH", []KeyInfo{{Key: KeyHome}}},
		{"alt letter", "\x1bb", []KeyInfo{{Rune: 'b', Modifiers: ModAlt}}},
		{"alt backspace", "\x1b\x7f", []KeyInfo{{Key: KeyBackspace, Rune: 0x7f, Modifiers: ModAlt}}},
		{"unknown sequence", "\x1b[99xq", []KeyInfo{{Key: KeyEscape, Rune: 0x1b}, {Rune: 'q'}}},
		{"mixed", "a\x1b[Db", []KeyInfo{{Rune: 'a'}, {Key: KeyLeft}, {Rune: 'b'}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			d := NewKeyDecoder(strings.NewReader(tt.input))
			var got []KeyInfo
			for {
				key, err := d.ReadKey()
				if errors.Is(err, io.EOF) {
					break
				}
				g.Expect(err).NotTo(HaveOccurred())
				got = append(got, key)
			}
			g.Expect(got).To(Equal(tt.want))
		})
	}
}

func TestReadCursorPosition(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	left, top, err := NewKeyDecoder(strings.NewReader("\x1b[12;40R")).ReadCursorPosition()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(left).To(Equal(39))
	g.Expect(top).To(Equal(11))

	_, _, err = NewKeyDecoder(strings.NewReader("x")).ReadCursorPosition()
	g.Expect(err).To(MatchError(ErrBadCursorReport))

	_, _, err = NewKeyDecoder(strings.NewReader("\x1b[12R")).ReadCursorPosition()
	g.Expect(err).To(MatchError(ErrBadCursorReport))
}

func TestKeyInfoString(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(CtrlKey('A').String()).To(Equal("Ctrl+A"))
	g.Expect(KeyInfo{Key: KeyLeft, Modifiers: ModAlt}.String()).To(Equal("Alt+Left"))
	g.Expect(KeyInfo{Key: KeyTab, Modifiers: ModShift}.String()).To(Equal("Shift+Tab"))
	g.Expect(RuneKey('x').String()).To(Equal("x"))
	g.Expect(RuneKey(' ').String()).To(Equal("Space"))
	g.Expect(RuneKey('\n').String()).To(Equal("Enter"))
	g.Expect(RuneKey('x').IsPrintable()).To(BeTrue())
	g.Expect(CtrlKey('x').IsPrintable()).To(BeFalse())
}
