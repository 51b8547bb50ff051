//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"testing"

	"github.com/dzonerzy/go-argline/internal/intern"
)

// Category: intern

func buildTable(caseSensitive bool) *intern.Table {
	t := intern.NewTable(caseSensitive, len(argumentNames))
	for i, name := range argumentNames {
		t.Add(name, i)
		t.Add(name[:1], i)
	}
	return t
}

func BenchmarkTable_Lookup(b *testing.B) {
	for _, tc := range []struct {
		name          string
		caseSensitive bool
		key           string
	}{
		{"CaseSensitive", true, "timeout"},
		{"CaseInsensitive", false, "TimeOut"},
		{"Missing", false, "nope"},
	} {
		b.Run(tc.name, func(b *testing.B) {
			t := buildTable(tc.caseSensitive)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				t.Lookup(tc.key)
			}
		})
	}
}

func BenchmarkTable_LookupRune(b *testing.B) {
	t := buildTable(false)
	runes := []rune{'h', 'V', 'c', 'x'}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t.LookupRune(runes[i%len(runes)])
	}
}

func BenchmarkTable_Build(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buildTable(false)
	}
}
