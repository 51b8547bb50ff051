package lineedit

import (
	"strings"
	"unicode"
)

// Token is one word of an input line. Text has quoting removed; Start and
// End are the rune offsets of the raw word, End exclusive.
type Token struct {
	Text       string
	Start, End int
}

// Tokenize splits line into shell-style words. Unlike a strict shell
// splitter it accepts unterminated quotes and a trailing backslash, so it
// can describe a line that is still being typed.
func Tokenize(line string) []Token {
	var (
		tokens  []Token
		text    strings.Builder
		inToken bool
		start   int
		quote   rune
		escaped bool
	)
	runes := []rune(line)
	for i, r := range runes {
		switch {
		case escaped:
			escaped = false
			// Inside double quotes only a few characters are escapable.
			if quote == '"' && !strings.ContainsRune("$`\"\\\n", r) {
				text.WriteRune('\\')
			}
			text.WriteRune(r)
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				text.WriteRune(r)
			}
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				text.WriteRune(r)
			}
		case unicode.IsSpace(r):
			if inToken {
				tokens = append(tokens, Token{Text: text.String(), Start: start, End: i})
				text.Reset()
				inToken = false
			}
			continue
		case r == '\'' || r == '"':
			quote = r
		case r == '\\':
			escaped = true
		default:
			text.WriteRune(r)
		}
		if !inToken {
			inToken, start = true, i
		}
	}
	if escaped {
		text.WriteRune('\\')
	}
	if inToken {
		tokens = append(tokens, Token{Text: text.String(), Start: start, End: len(runes)})
	}
	return tokens
}

// tokenAt returns the index of the token containing or touching cursor. If
// the cursor sits between tokens, an empty token is inserted there.
func tokenAt(tokens []Token, cursor int) ([]Token, int) {
	for i, t := range tokens {
		if cursor < t.Start {
			tokens = append(tokens[:i], append([]Token{{Start: cursor, End: cursor}}, tokens[i:]...)...)
			return tokens, i
		}
		if cursor <= t.End {
			return tokens, i
		}
	}
	return append(tokens, Token{Start: cursor, End: cursor}), len(tokens)
}

func tokenTexts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}
