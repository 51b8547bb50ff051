//nolint:testpackage // using package name 'argset' to reach unexported helpers
package argset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestValueTypesParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		vt      ValueType
		input   string
		want    any
		wantErr bool
	}{
		{"string", String(), "hello", "hello", false},
		{"int", Int(), "-42", -42, false},
		{"int octal", Int(), "0o17", 15, false},
		{"int invalid", Int(), "4x", nil, true},
		{"uint", Uint(), "0xff", uint(255), false},
		{"uint negative", Uint(), "-1", nil, true},
		{"float", Float(), "2.5", 2.5, false},
		{"bool yes", Bool(), "YES", true, false},
		{"bool off", Bool(), "off", false, false},
		{"bool invalid", Bool(), "maybe", nil, true},
		{"duration", Duration(), "90s", 90 * time.Second, false},
		{"enum", Enum("Red", "Green"), "green", "Green", false},
		{"enum invalid", Enum("Red", "Green"), "blue", nil, true},
		{"path", FilePath(), "a/b.txt", "a/b.txt", false},
		{"collection element", Collection(Int()), "7", 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			got, err := tt.vt.Parse(nil, tt.input)
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
				return
			}
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(got).To(Equal(tt.want))
		})
	}
}

func TestValueTypesFormat(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	s, err := Int().Format(12)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s).To(Equal("12"))

	s, err = Collection(Int()).Format([]int{1, 2, 3})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s).To(Equal("1,2,3"))

	s, err = Duration().Format(time.Minute)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s).To(Equal("1m0s"))

	_, err = Int().Format("12")
	g.Expect(errors.Is(err, ErrTypeMismatch)).To(BeTrue())
}

func TestFloatRejectsNaN(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(Float().Validate(nil, math.NaN())).To(HaveOccurred())
	g.Expect(Float().Validate(nil, 1.0)).To(Succeed())
}

func TestPossibleValuesAndCompletions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(possibleValues(Bool())).To(Equal([]string{"false", "true"}))
	g.Expect(possibleValues(Collection(Enum("a", "b")))).To(Equal([]string{"a", "b"}))
	g.Expect(possibleValues(String())).To(BeNil())
	g.Expect(Enum("apple", "Avocado", "banana").Completions(nil, "a")).To(Equal([]string{"apple", "Avocado"}))
}

func TestCommandGroupFormat(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	group := CommandGroup(
		CommandSpec{Name: "build", New: func() any { return &buildCommand{} }},
		CommandSpec{Name: "version"},
	)

	name, err := group.Format(&buildCommand{})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(name).To(Equal("build"))

	v, err := group.Parse(nil, "VERSION")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal("version"))

	g.Expect(Commands(group)).To(HaveLen(2))
	g.Expect(Commands(String())).To(BeNil())
}

func TestBindingTypeMismatch(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var n int
	var list []int
	g.Expect(IntVar(&n).Dest.Set("nope")).To(MatchError(ErrTypeMismatch))
	g.Expect(IntsVar(&list).Dest.Set([]any{1, "two"})).To(MatchError(ErrTypeMismatch))
	g.Expect(IntsVar(&list).Dest.Set([]any{1, 2})).To(Succeed())
	g.Expect(list).To(Equal([]int{1, 2}))
}

func TestOSFileSystem(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	answers := filepath.Join(dir, "answers.txt")
	g.Expect(os.WriteFile(answers, []byte("--a\r\n\n# skip\n  b  \n"), 0o600)).To(Succeed())
	g.Expect(os.Mkdir(filepath.Join(dir, "sub"), 0o700)).To(Succeed())

	fsys := OSFileSystem{}
	g.Expect(fsys.FileExists(answers)).To(BeTrue())
	g.Expect(fsys.DirectoryExists(answers)).To(BeFalse())
	g.Expect(fsys.DirectoryExists(filepath.Join(dir, "sub"))).To(BeTrue())

	lines, err := fsys.GetLines(answers)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(answerFileTokens(lines)).To(Equal([]string{"--a", "b"}))

	g.Expect(completePath(fsys, filepath.Join(dir, "an"))).To(Equal([]string{answers}))
	g.Expect(completePath(fsys, filepath.Join(dir, "su"))).To(Equal([]string{filepath.Join(dir, "sub") + "/"}))
}
