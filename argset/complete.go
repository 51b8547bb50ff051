package argset

import (
	"sort"
	"strings"
)

// Completions returns the candidates for tokens[index], given the tokens
// before it. The prefix is parsed without touching any destination.
func (p *Parser) Completions(tokens []string, index int) []string {
	index = min(max(index, 0), len(tokens))

	c := &Parser{root: p.root, opts: p.opts, fs: p.fs, logger: p.logger, dryRun: true}
	c.Reset()
	c.parseTokens(tokens[:index])

	token := ""
	if index < len(tokens) {
		token = tokens[index]
	}
	return c.complete(token)
}

func (p *Parser) complete(token string) []string {
	if p.restDesc != nil {
		return p.valueCompletions(p.restDesc, token)
	}
	if p.pending != nil {
		return p.valueCompletions(p.pending, token)
	}

	if !p.endOfOpts {
		longLen := longestPrefix(token, p.opts.NamedArgumentPrefixes)
		shortLen := longestPrefix(token, p.opts.ShortNameArgumentPrefixes)
		if longLen > 0 || shortLen > 0 {
			body := token[max(longLen, shortLen):]
			if name, value, ok := p.splitValue(body); ok {
				return p.inlineValueCompletions(token, name, value)
			}
			return p.nameCompletions(token)
		}

		if prefix := p.opts.AnswerFileArgumentPrefix; prefix != "" && strings.HasPrefix(token, prefix) {
			paths := completePath(p.fs, token[len(prefix):])
			for i := range paths {
				paths[i] = prefix + paths[i]
			}
			return paths
		}
	}

	if _, d := p.nextPositional(); d != nil {
		return p.valueCompletions(d, token)
	}
	if token == "" && !p.endOfOpts {
		return p.nameCompletions(token)
	}
	return nil
}

func (p *Parser) inlineValueCompletions(token, name, value string) []string {
	_, d := p.findLong(name)
	if d == nil {
		_, d = p.findShort(name)
	}
	if d == nil {
		return nil
	}
	head := token[:len(token)-len(value)]
	values := p.valueCompletions(d, value)
	for i := range values {
		values[i] = head + values[i]
	}
	return values
}

func (p *Parser) valueCompletions(d *Descriptor, prefix string) []string {
	return d.binding.Type.Completions(p.valueContext(d), prefix)
}

// nameCompletions lists every visible name, formatted with the preferred
// prefixes, that starts with token.
func (p *Parser) nameCompletions(token string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(candidate string) {
		if _, dup := seen[candidate]; dup || !p.opts.hasPrefix(candidate, token) {
			return
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}

	for _, fr := range p.frames {
		for _, d := range fr.schema.named {
			if d.hidden {
				continue
			}
			add(p.opts.PreferredLongPrefix() + d.longName)
			if d.shortName != "" {
				add(p.opts.PreferredShortPrefix() + d.shortName)
			}
		}
	}

	sort.Strings(out)
	return out
}

// TokenCompleter completes command-line tokens against a schema. It
// satisfies lineedit.TokenCompleter.
type TokenCompleter struct {
	Schema *Schema
}

// Complete returns the candidates for tokens[index].
func (t TokenCompleter) Complete(tokens []string, index int) []string {
	if t.Schema == nil {
		return nil
	}
	return NewParser(t.Schema).Completions(tokens, index)
}
