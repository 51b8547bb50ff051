package argset

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/dzonerzy/go-argline/internal/fuzzy"
	"github.com/dzonerzy/go-argline/internal/pool"
	snapio "github.com/dzonerzy/go-argline/io"
)

const maxAnswerFileDepth = 16

// bindingState is the per-parse state of one descriptor.
type bindingState struct {
	seen   bool
	values []any
}

// frame is one active schema: the root, or the arguments of a selected command.
type frame struct {
	schema  *Schema
	parent  *Descriptor // group argument that opened this frame; nil for the root
	states  []bindingState
	nextPos int
}

func newFrame(s *Schema, parent *Descriptor) *frame {
	return &frame{
		schema: s,
		parent: parent,
		states: make([]bindingState, len(s.args)),
	}
}

// argValue is the value side of a named token.
type argValue struct {
	raw      string
	hasRaw   bool
	typed    any
	hasTyped bool
	fromEnv  bool
}

func (v argValue) present() bool { return v.hasRaw || v.hasTyped }

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithReporter sets the callback receiving every parse error.
func WithReporter(r Reporter) ParserOption {
	return func(p *Parser) { p.reporter = r }
}

// WithLogger enables debug tracing of token resolution.
func WithLogger(l *snapio.Logger) ParserOption {
	return func(p *Parser) { p.logger = l }
}

// Parser binds tokens to the arguments of a schema.
//
// A parser is single-use per invocation: Parse resets it, while ParseTokens
// may be called repeatedly to feed more tokens before Finalize.
type Parser struct {
	root     *Schema
	opts     Options
	fs       FileSystemReader
	reporter Reporter
	logger   *snapio.Logger
	dryRun   bool

	frames     []*frame
	result     ParseResult
	endOfOpts  bool
	finalizing bool

	// set while a prefix is parsed for completion
	pending  *Descriptor
	restDesc *Descriptor
	restFrom *frame
}

// NewParser creates a parser for schema.
func NewParser(schema *Schema, opts ...ParserOption) *Parser {
	p := &Parser{
		root: schema,
		opts: schema.Options(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.fs = p.opts.fileSystem()
	p.Reset()
	return p
}

// Reset discards all binding state.
func (p *Parser) Reset() {
	p.frames = []*frame{newFrame(p.root, nil)}
	p.result = ParseResult{}
	p.endOfOpts = false
	p.finalizing = false
	p.pending = nil
	p.restDesc = nil
	p.restFrom = nil
}

// Parse resets the parser, binds tokens and finalizes. Finalize runs even
// after a token error so every mistake is reported; the result keeps the
// kind of the first one.
func (p *Parser) Parse(tokens []string) ParseResult {
	p.Reset()
	p.ParseTokens(tokens)
	return p.Finalize()
}

// ParseTokens binds tokens without finalizing. Errors are reported and
// parsing continues; the result holds the first failure.
func (p *Parser) ParseTokens(tokens []string) ParseResult {
	p.parseTokens(tokens)
	return p.result
}

// Selected returns the command values selected so far, outermost first.
func (p *Parser) Selected() []*Descriptor {
	var out []*Descriptor
	for _, fr := range p.frames[1:] {
		out = append(out, fr.parent)
	}
	return out
}

// parseTokens binds tokens in order. An answer file token is replaced in
// place by the tokens of the file; depths tracks how deep each token is
// nested.
func (p *Parser) parseTokens(tokens []string) {
	depths := make([]int, len(tokens))
	for i := 0; i < len(tokens); {
		if name, ok := p.answerFileName(tokens[i]); ok {
			tokens, depths = p.spliceAnswerFile(tokens, depths, i, name)
			continue
		}
		n, stop := p.parseToken(tokens, i)
		if stop {
			return
		}
		i += n
	}
}

func (p *Parser) parseToken(tokens []string, i int) (consumed int, stop bool) {
	token := tokens[i]
	p.pending = nil

	if !p.endOfOpts {
		if token == "--" {
			p.debugf("end of options")
			p.endOfOpts = true
			return 1, false
		}

		if longLen, shortLen, ok := p.namedPrefix(token); ok {
			return p.parseNamed(tokens, i, longLen, shortLen)
		}
	}

	return p.parsePositional(tokens, i)
}

// namedPrefix returns the lengths of the long and short prefixes token
// starts with, and whether a name follows them.
func (p *Parser) namedPrefix(token string) (longLen, shortLen int, ok bool) {
	longLen = longestPrefix(token, p.opts.NamedArgumentPrefixes)
	shortLen = longestPrefix(token, p.opts.ShortNameArgumentPrefixes)
	return longLen, shortLen, (longLen > 0 || shortLen > 0) && len(token) > max(longLen, shortLen)
}

func (p *Parser) answerFileName(token string) (string, bool) {
	prefix := p.opts.AnswerFileArgumentPrefix
	if p.endOfOpts || prefix == "" || len(token) <= len(prefix) || !strings.HasPrefix(token, prefix) {
		return "", false
	}
	if _, _, named := p.namedPrefix(token); named {
		return "", false
	}
	return token[len(prefix):], true
}

func (p *Parser) parseNamed(tokens []string, i, longLen, shortLen int) (int, bool) {
	token := tokens[i]

	switch {
	case longLen > shortLen:
		return p.parseLong(tokens, i, token[longLen:])
	case shortLen > longLen:
		return p.parseShort(tokens, i, token[shortLen:])
	}

	// Same prefix for both forms: long names win, short names are the fallback.
	body := token[longLen:]
	if fr, d, v, ok := p.resolveLong(body); ok {
		return p.bindNamed(tokens, i, fr, d, v)
	}
	if p.opts.AllowMultipleShortNamesInOneToken {
		return p.parseShortCluster(tokens, i, body)
	}
	if fr, d, v, ok := p.resolveShort(body); ok {
		return p.bindNamed(tokens, i, fr, d, v)
	}
	name, _, _ := p.splitValue(body)
	p.unknownNamed(NameTypeLong, name, token)
	return 1, false
}

func (p *Parser) parseLong(tokens []string, i int, body string) (int, bool) {
	fr, d, v, ok := p.resolveLong(body)
	if !ok {
		name, _, _ := p.splitValue(body)
		p.unknownNamed(NameTypeLong, name, tokens[i])
		return 1, false
	}
	return p.bindNamed(tokens, i, fr, d, v)
}

func (p *Parser) parseShort(tokens []string, i int, body string) (int, bool) {
	if p.opts.AllowMultipleShortNamesInOneToken {
		return p.parseShortCluster(tokens, i, body)
	}
	if fr, d, v, ok := p.resolveShort(body); ok {
		return p.bindNamed(tokens, i, fr, d, v)
	}
	name, _, _ := p.splitValue(body)
	p.unknownNamed(NameTypeShort, name, tokens[i])
	return 1, false
}

// splitValue splits body at the first value separator.
func (p *Parser) splitValue(body string) (name, value string, hasValue bool) {
	for idx, r := range body {
		if p.opts.isSeparator(r) {
			return body[:idx], body[idx+utf8.RuneLen(r):], true
		}
	}
	return body, "", false
}

// toggled resolves a trailing '+' or '-' on a switch name.
func toggled(name string, find func(string) (*frame, *Descriptor)) (*frame, *Descriptor, argValue, bool) {
	if len(name) < 2 {
		return nil, nil, argValue{}, false
	}
	last := name[len(name)-1]
	if last != '+' && last != '-' {
		return nil, nil, argValue{}, false
	}
	fr, d := find(name[:len(name)-1])
	if d == nil {
		return nil, nil, argValue{}, false
	}
	sw, ok := isSwitch(d.binding.Type)
	if !ok || d.restOfLine {
		return nil, nil, argValue{}, false
	}
	return fr, d, argValue{typed: sw.SwitchValue(last == '+'), hasTyped: true}, true
}

func (p *Parser) resolveLong(body string) (*frame, *Descriptor, argValue, bool) {
	name, raw, hasRaw := p.splitValue(body)
	if fr, d := p.findLong(name); d != nil {
		return fr, d, argValue{raw: raw, hasRaw: hasRaw}, true
	}
	if !hasRaw {
		return toggled(name, p.findLong)
	}
	return nil, nil, argValue{}, false
}

func (p *Parser) resolveShort(body string) (*frame, *Descriptor, argValue, bool) {
	name, raw, hasRaw := p.splitValue(body)
	if fr, d := p.findShort(name); d != nil {
		return fr, d, argValue{raw: raw, hasRaw: hasRaw}, true
	}
	if !hasRaw {
		if fr, d, v, ok := toggled(name, p.findShort); ok {
			return fr, d, v, true
		}
	}
	if p.opts.AllowElidingSeparatorAfterShortName {
		r, size := utf8.DecodeRuneInString(body)
		if fr, d := p.findShortRune(r); d != nil && !d.IsSwitch() {
			return fr, d, argValue{raw: body[size:], hasRaw: true}, true
		}
	}
	return nil, nil, argValue{}, false
}

type shortStep struct {
	fr   *frame
	desc *Descriptor
	val  argValue
	last bool
}

// parseShortCluster handles several short names in one token ("-abc").
// Every name is resolved before anything is bound, so an unknown character
// fails the whole token. A name that takes a value and is not the last
// character takes the remainder of the token as its value when eliding is
// allowed ("-ofile", "-vofile").
func (p *Parser) parseShortCluster(tokens []string, i int, body string) (int, bool) {
	token := tokens[i]
	names, raw, hasRaw := p.splitValue(body)

	var steps []shortStep
	for offset := 0; offset < len(names); {
		r, size := utf8.DecodeRuneInString(names[offset:])
		fr, d := p.findShortRune(r)
		if d == nil {
			p.unknownNamed(NameTypeShort, string(r), token)
			return 1, false
		}

		next := offset + size
		rest := names[next:]
		step := shortStep{fr: fr, desc: d}

		switch {
		case d.IsSwitch() && (rest == "+" || rest == "-"):
			sw, _ := isSwitch(d.binding.Type)
			step.val = argValue{typed: sw.SwitchValue(rest == "+"), hasTyped: true}
			next = len(names)
		case rest == "":
			step.val = argValue{raw: raw, hasRaw: hasRaw}
			step.last = true
		case !d.IsSwitch() && p.opts.AllowElidingSeparatorAfterShortName:
			step.val = argValue{raw: body[next:], hasRaw: true}
			next = len(names)
		case !d.IsSwitch():
			p.missingOptionArgument(d, token)
			return 1, false
		}

		steps = append(steps, step)
		offset = next
	}

	for _, step := range steps {
		if step.last {
			return p.bindNamed(tokens, i, step.fr, step.desc, step.val)
		}
		p.bindNamed(tokens, i, step.fr, step.desc, step.val)
	}
	return 1, false
}

func (p *Parser) findLong(name string) (*frame, *Descriptor) {
	for i := len(p.frames) - 1; i >= 0; i-- {
		if d := p.frames[i].schema.lookupLong(name); d != nil {
			return p.frames[i], d
		}
	}
	return nil, nil
}

func (p *Parser) findShort(name string) (*frame, *Descriptor) {
	for i := len(p.frames) - 1; i >= 0; i-- {
		if d := p.frames[i].schema.lookupShort(name); d != nil {
			return p.frames[i], d
		}
	}
	return nil, nil
}

func (p *Parser) findShortRune(r rune) (*frame, *Descriptor) {
	for i := len(p.frames) - 1; i >= 0; i-- {
		if d := p.frames[i].schema.lookupShortRune(r); d != nil {
			return p.frames[i], d
		}
	}
	return nil, nil
}

// bindNamed stores the value of a resolved named argument, taking it from
// the next token when needed.
func (p *Parser) bindNamed(tokens []string, i int, fr *frame, d *Descriptor, v argValue) (int, bool) {
	token := tokens[i]
	p.debugf("token %q -> %s", token, p.display(d))

	if d.restOfLine {
		p.startRestOfLine(fr, d)
		if v.present() {
			p.bind(fr, d, token, v)
		}
		for _, rest := range tokens[i+1:] {
			p.bind(fr, d, rest, argValue{raw: rest, hasRaw: true})
		}
		return len(tokens) - i, true
	}

	if v.present() {
		p.bind(fr, d, token, v)
		return 1, false
	}

	if sw, ok := isSwitch(d.binding.Type); ok {
		p.bind(fr, d, token, argValue{typed: sw.SwitchValue(true), hasTyped: true})
		return 1, false
	}

	if p.opts.AllowNamedArgumentValueAsSucceedingToken {
		if i+1 < len(tokens) {
			p.bind(fr, d, tokens[i+1], argValue{raw: tokens[i+1], hasRaw: true})
			return 2, false
		}
		p.pending = d
	}

	p.missingOptionArgument(d, token)
	return 1, false
}

func (p *Parser) missingOptionArgument(d *Descriptor, token string) {
	err := NewParseError(ErrorTypeMissingRequiredOptionArgument,
		fmt.Sprintf("argument %s requires a value", p.display(d))).
		WithArgument(d.longName).
		WithToken(token).
		WithPossibleValues(possibleValues(d.binding.Type)...)
	if p.fail(ResultRequiresOptionArgument, err) {
		p.result.Descriptor = d
	}
}

func (p *Parser) startRestOfLine(fr *frame, d *Descriptor) {
	fr.states[d.id].seen = true
	p.restDesc = d
	p.restFrom = fr
}

func (p *Parser) parsePositional(tokens []string, i int) (int, bool) {
	token := tokens[i]
	fr, d := p.nextPositional()
	if d == nil {
		err := NewParseError(ErrorTypeUnknownPositionalArgument,
			fmt.Sprintf("unexpected argument %q", token)).WithToken(token)
		p.fail(ResultUnknownPositionalArgument, err)
		return 1, false
	}
	p.debugf("token %q -> %s", token, p.display(d))

	if d.restOfLine {
		p.startRestOfLine(fr, d)
		for _, rest := range tokens[i:] {
			p.bind(fr, d, rest, argValue{raw: rest, hasRaw: true})
		}
		return len(tokens) - i, true
	}

	p.bind(fr, d, token, argValue{raw: token, hasRaw: true})
	if !d.allowMultiple {
		fr.nextPos++
	}
	return 1, false
}

// nextPositional returns the positional argument of the lowest frame that
// still accepts one.
func (p *Parser) nextPositional() (*frame, *Descriptor) {
	for _, fr := range p.frames {
		if fr.nextPos < len(fr.schema.positional) {
			return fr, fr.schema.positional[fr.nextPos]
		}
	}
	return nil, nil
}

// spliceAnswerFile replaces tokens[i] with the tokens of the answer file
// it names. A file that cannot be read is reported and replaced by nothing.
func (p *Parser) spliceAnswerFile(tokens []string, depths []int, i int, name string) ([]string, []int) {
	token, depth := tokens[i], depths[i]
	var inserted []string

	switch {
	case depth >= maxAnswerFileDepth:
		p.fail(ResultInvalidAnswerFile, NewParseError(ErrorTypeInvalidAnswerFile,
			fmt.Sprintf("answer file %q nested too deeply", name)).WithToken(token).WithCause(ErrAnswerFileDepth))
	case !p.fs.FileExists(name):
		p.fail(ResultInvalidAnswerFile, NewParseError(ErrorTypeInvalidAnswerFile,
			fmt.Sprintf("answer file %q not found", name)).WithToken(token))
	default:
		lines, err := p.fs.GetLines(name)
		if err != nil {
			p.fail(ResultInvalidAnswerFile, NewParseError(ErrorTypeInvalidAnswerFile,
				fmt.Sprintf("cannot read answer file %q", name)).WithToken(token).WithCause(err))
			break
		}
		inserted = answerFileTokens(lines)
		p.debugf("answer file %q: %d tokens", name, len(inserted))
	}

	outTokens := make([]string, 0, len(tokens)-1+len(inserted))
	outTokens = append(outTokens, tokens[:i]...)
	outTokens = append(outTokens, inserted...)
	outTokens = append(outTokens, tokens[i+1:]...)

	outDepths := make([]int, 0, len(outTokens))
	outDepths = append(outDepths, depths[:i]...)
	for range inserted {
		outDepths = append(outDepths, depth+1)
	}
	outDepths = append(outDepths, depths[i+1:]...)
	return outTokens, outDepths
}

// bind converts and stores one value.
//
//nolint:gocognit,cyclop // mirrors the binding rules one check at a time
func (p *Parser) bind(fr *frame, d *Descriptor, token string, v argValue) bool {
	st := &fr.states[d.id]

	if !st.seen && !v.fromEnv {
		for _, c := range d.conflicts {
			if fr.states[c.id].seen {
				p.fail(ResultFailedParsing, NewParseError(ErrorTypeConflictingArgument,
					fmt.Sprintf("%s cannot be used together with %s", p.display(d), p.display(c))).
					WithArgument(d.longName).WithToken(token))
				return false
			}
		}
	}

	value := v.typed
	if !v.hasTyped {
		parsed, err := d.binding.Type.Parse(p.valueContext(d), v.raw)
		if err != nil {
			p.fail(ResultFailedParsing, NewParseError(ErrorTypeBadValue,
				fmt.Sprintf("invalid value %q for %s", v.raw, p.display(d))).
				WithArgument(d.longName).
				WithToken(token).
				WithPossibleValues(possibleValues(d.binding.Type)...).
				WithCause(err))
			return false
		}
		value = parsed
	}

	if err := p.validateValue(d, value); err != nil {
		p.fail(ResultFailedParsing, NewParseError(ErrorTypeValidationFailed,
			fmt.Sprintf("invalid value for %s: %v", p.display(d), err)).
			WithArgument(d.longName).WithToken(token).WithCause(err))
		return false
	}

	if d.binding.collection {
		if d.unique && containsValue(st.values, value) {
			p.fail(ResultFailedParsing, NewParseError(ErrorTypeDuplicateArgument,
				fmt.Sprintf("duplicate value %v for %s", value, p.display(d))).
				WithArgument(d.longName).WithToken(token))
			return false
		}
		st.values = append(st.values, value)
	} else {
		if st.seen && !d.allowMultiple {
			p.fail(ResultFailedParsing, NewParseError(ErrorTypeDuplicateArgument,
				fmt.Sprintf("%s specified more than once", p.display(d))).
				WithArgument(d.longName).WithToken(token))
			return false
		}
		if !p.dryRun {
			if err := d.binding.Dest.Set(value); err != nil {
				p.fail(ResultFailedParsing, NewParseError(ErrorTypeBadValue,
					fmt.Sprintf("cannot store value for %s", p.display(d))).
					WithArgument(d.longName).WithToken(token).WithCause(err))
				return false
			}
		}
		st.values = append(st.values[:0], value)
	}
	st.seen = true

	if d.Kind() == KindGroup {
		p.enterGroup(fr, d, value)
	}
	return true
}

// enterGroup activates the arguments of a selected command. Frames opened
// by an earlier selection at the same level are dropped.
func (p *Parser) enterGroup(fr *frame, d *Descriptor, value any) {
	provider, ok := value.(ArgumentProvider)
	if !ok {
		return
	}
	schema, err := provider.ArgumentSchema()
	if err != nil {
		p.fail(ResultFailedParsing, NewParseError(ErrorTypeBadValue,
			fmt.Sprintf("command %s has an invalid argument schema", p.display(d))).
			WithArgument(d.longName).WithCause(err))
		return
	}
	for idx, f := range p.frames {
		if f == fr {
			p.frames = p.frames[:idx+1]
			break
		}
	}
	p.debugf("entering %s (%d arguments)", p.display(d), schema.Len())
	p.frames = append(p.frames, newFrame(schema, d))
}

func (p *Parser) validateValue(d *Descriptor, v any) error {
	if err := d.binding.Type.Validate(p.valueContext(d), v); err != nil {
		return err
	}
	return d.runValidator(v)
}

func (p *Parser) valueContext(d *Descriptor) *ValueContext {
	return &ValueContext{Options: &p.opts, FileSystem: p.fs, Descriptor: d}
}

func containsValue(values []any, v any) bool {
	for _, existing := range values {
		if reflect.DeepEqual(existing, v) {
			return true
		}
	}
	return false
}

// unknownNamed reports an unknown name, suggesting every visible name of
// the same kind that is close to it.
func (p *Parser) unknownNamed(nameType NameType, name, token string) {
	err := NewParseError(ErrorTypeUnknownNamedArgument,
		fmt.Sprintf("unknown argument %q", token)).WithToken(token)

	candidates := pool.GetStringSlice()
	defer pool.PutStringSlice(candidates)
	for _, fr := range p.frames {
		table := fr.schema.longNames
		if nameType == NameTypeShort {
			table = fr.schema.shortNames
		}
		for _, d := range fr.schema.named {
			if d.hidden {
				continue
			}
			if spelled, ok := table.Name(d.id); ok {
				*candidates = append(*candidates, spelled)
			}
		}
	}

	prefix := p.opts.PreferredLongPrefix()
	if nameType == NameTypeShort {
		prefix = p.opts.PreferredShortPrefix()
	}
	for _, s := range fuzzy.Suggest(name, *candidates, 0) {
		err.WithSuggestions(prefix + s)
	}

	if p.fail(ResultUnknownNamedArgument, err) {
		p.result.NameType = nameType
		p.result.Name = name
	}
}

// fail records err and reports whether it is the first failure.
func (p *Parser) fail(kind ResultKind, err *ParseError) bool {
	if p.finalizing && kind == ResultFailedParsing {
		kind = ResultFailedFinalizing
	}
	p.result.errors = append(p.result.errors, err)
	if p.reporter != nil {
		p.reporter(err)
	}
	p.debugf("%s: %v", kind, err)

	if p.result.Kind != ResultReady {
		return false
	}
	p.result.Kind = kind
	return true
}

func (p *Parser) display(d *Descriptor) string {
	if d.positional {
		return "<" + d.longName + ">"
	}
	return p.opts.PreferredLongPrefix() + d.longName
}

func (p *Parser) debugf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Debug("argset: "+format, args...)
	}
}
