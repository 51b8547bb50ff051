// Package fuzzy provides "did you mean" matching for argument names.
// Used by argset when a token names an argument that does not exist.
package fuzzy

import (
	"sort"
	"strings"
)

// Matcher ranks candidate names against what the user typed.
//
// A candidate matches when either string is a case-insensitive prefix of the
// other, or when the Damerau-Levenshtein distance between them is at most
// half the length of the user's text.
type Matcher struct {
	maxSuggestions int
}

// NewMatcher creates a matcher returning at most maxSuggestions results.
// A non-positive value means unlimited.
func NewMatcher(maxSuggestions int) *Matcher {
	return &Matcher{maxSuggestions: maxSuggestions}
}

// Match represents a fuzzy match result
type Match struct {
	Value    string
	Distance int
	Prefix   bool
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindMatches finds all matching candidates, best first.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	if input == "" {
		return nil
	}

	lowered := strings.ToLower(input)
	threshold := len([]rune(lowered)) / 2

	var matches []Match
	seen := make(map[string]struct{}, len(candidates))

	for _, candidate := range candidates {
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}

		// A candidate spelled exactly like the input is not a suggestion.
		// One that differs only in case is.
		if candidate == input {
			continue
		}
		candidateLower := strings.ToLower(candidate)

		prefix := strings.HasPrefix(candidateLower, lowered) || strings.HasPrefix(lowered, candidateLower)
		distance := Distance(lowered, candidateLower)
		if !prefix && distance > threshold {
			continue
		}

		matches = append(matches, Match{
			Value:    candidate,
			Distance: distance,
			Prefix:   prefix,
			Score:    score(lowered, candidateLower, distance, prefix),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			if matches[i].Distance == matches[j].Distance {
				return matches[i].Value < matches[j].Value
			}
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})

	if m.maxSuggestions > 0 && len(matches) > m.maxSuggestions {
		matches = matches[:m.maxSuggestions]
	}

	return matches
}

// FindBest returns the best candidate or "" when nothing is close enough.
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// score computes a match quality score (0.0 to 1.0).
// Factors: edit distance, prefix relation, shared leading runes.
func score(input, candidate string, distance int, prefix bool) float64 {
	a, b := []rune(input), []rune(candidate)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}

	s := 1.0 - float64(distance)/float64(maxLen)

	if prefix {
		s += 0.3
	} else if common := commonPrefixLength(a, b); common > 0 {
		s += float64(common) / float64(min(len(a), len(b))) * 0.2
	}

	if s > 1.0 {
		s = 1.0
	}
	return s
}

// Distance computes the Damerau-Levenshtein distance (optimal string
// alignment variant) between a and b, counting runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Three rows are enough: transpositions look two rows back.
	width := len(rb) + 1
	prevPrev := make([]int, width)
	prev := make([]int, width)
	curr := make([]int, width)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[j] = min(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)

			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				curr[j] = min(curr[j], prevPrev[j-2]+1) // transposition
			}
		}
		prevPrev, prev, curr = prev, curr, prevPrev
	}

	return prev[len(rb)]
}

func commonPrefixLength(a, b []rune) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// Suggest returns up to maxSuggestions candidate names for input, best first.
func Suggest(input string, candidates []string, maxSuggestions int) []string {
	matches := NewMatcher(maxSuggestions).FindMatches(input, candidates)

	suggestions := make([]string, 0, len(matches))
	for _, match := range matches {
		suggestions = append(suggestions, match.Value)
	}

	return suggestions
}
