//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"testing"

	"github.com/dzonerzy/go-argline/internal/fuzzy"
)

// Category: fuzzy

var argumentNames = []string{
	"help", "version", "verbose", "config", "output", "input",
	"force", "debug", "port", "host", "timeout", "retry",
}

func BenchmarkMatcher_FindBest(b *testing.B) {
	matcher := fuzzy.NewMatcher(2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		matcher.FindBest("hepl", argumentNames)
	}
}

func BenchmarkMatcher_FindMatches(b *testing.B) {
	matcher := fuzzy.NewMatcher(0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		matcher.FindMatches("ver", argumentNames)
	}
}

func BenchmarkDistance(b *testing.B) {
	pairs := [][2]string{
		{"verbose", "verbsoe"},
		{"configuration", "configuraiton"},
		{"timeout", "retry"},
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := pairs[i%len(pairs)]
		fuzzy.Distance(p[0], p[1])
	}
}

func BenchmarkSuggest(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		fuzzy.Suggest("outptu", argumentNames, 3)
	}
}
