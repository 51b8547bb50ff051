package lineedit

import (
	"testing"

	. "github.com/onsi/gomega"

	snapio "github.com/dzonerzy/go-argline/io"
)

func TestDefaultKeyBindings(t *testing.T) {
	t.Parallel()

	b := DefaultKeyBindings()
	tests := []struct {
		key  KeyInfo
		want Operation
		ok   bool
	}{
		{snapio.RuneKey('x'), InsertChar, true},
		{snapio.RuneKey('\n'), AcceptLine, true},
		{KeyInfo{Key: snapio.KeyEnter, Modifiers: snapio.ModShift}, AcceptLine, true},
		{snapio.CtrlKey('a'), BeginningOfLine, true},
		{snapio.CtrlKey('C'), Abort, true},
		{KeyInfo{Key: snapio.KeyLeft}, BackwardChar, true},
		{KeyInfo{Key: snapio.KeyLeft, Modifiers: snapio.ModControl}, BackwardWord, true},
		{KeyInfo{Key: snapio.KeyHome, Modifiers: snapio.ModShift}, BeginningOfLine, true},
		{KeyInfo{Key: snapio.KeyTab, Rune: '\t', Modifiers: snapio.ModShift}, CompleteTokenPrevious, true},
		{KeyInfo{Key: snapio.KeyBackspace, Modifiers: snapio.ModAlt}, BackwardKillWord, true},
		{KeyInfo{Rune: 'f', Modifiers: snapio.ModAlt}, ForwardWord, true},
		{snapio.CtrlKey('z'), NoOperation, false},
		{KeyInfo{Rune: 'z', Modifiers: snapio.ModAlt}, NoOperation, false},
		{KeyInfo{Key: snapio.KeyF5}, NoOperation, false},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			op, ok := b.Lookup(tt.key)
			g.Expect(ok).To(Equal(tt.ok))
			g.Expect(op).To(Equal(tt.want))
		})
	}
}

func TestKeyBindingsPrecedence(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	b := NewKeyBindings()
	b.BindRuneIgnoringModifiers('q', Abort)
	b.BindRune('q', snapio.ModAlt, KillWord)

	op, _ := b.Lookup(KeyInfo{Rune: 'q', Modifiers: snapio.ModAlt})
	g.Expect(op).To(Equal(KillWord))
	op, _ = b.Lookup(KeyInfo{Rune: 'q', Modifiers: snapio.ModControl})
	g.Expect(op).To(Equal(Abort))
	op, _ = b.Lookup(snapio.RuneKey('q'))
	g.Expect(op).To(Equal(Abort))

	b.Unbind(KeyInfo{Rune: 'q', Modifiers: snapio.ModAlt})
	op, ok := b.Lookup(KeyInfo{Rune: 'q', Modifiers: snapio.ModAlt})
	g.Expect(ok).To(BeFalse())
	g.Expect(op).To(Equal(NoOperation))
	op, _ = b.Lookup(snapio.RuneKey('q'))
	g.Expect(op).To(Equal(InsertChar))

	b.Bind(snapio.KeyF5, 0, ClearScreen)
	op, _ = b.Lookup(KeyInfo{Key: snapio.KeyF5})
	g.Expect(op).To(Equal(ClearScreen))
	_, ok = b.Lookup(KeyInfo{Key: snapio.KeyF5, Modifiers: snapio.ModShift})
	g.Expect(ok).To(BeFalse())
}

func TestOperationString(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(CompleteTokenNext.String()).To(Equal("CompleteTokenNext"))
	g.Expect(Operation(99).String()).To(Equal("Operation(99)"))
	g.Expect(EndOfInputStream.String()).To(Equal("EndOfInputStream"))
}
