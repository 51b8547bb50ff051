package argset

import (
	"fmt"
	"os"
	"reflect"
	"strings"
)

// Finalize applies environment values and defaults, checks required
// arguments and stores collected lists, for every active frame. Named
// arguments of a frame are finalized before its positional ones.
func (p *Parser) Finalize() ParseResult {
	p.finalizing = true
	defer func() { p.finalizing = false }()

	// Frames may be appended when an environment value selects a command.
	for i := 0; i < len(p.frames); i++ {
		fr := p.frames[i]
		for _, d := range fr.schema.named {
			p.finalizeArgument(fr, d)
		}
		for _, d := range fr.schema.positional {
			p.finalizeArgument(fr, d)
		}
	}
	return p.result
}

func (p *Parser) finalizeArgument(fr *frame, d *Descriptor) {
	st := &fr.states[d.id]
	defaulted := false

	if !st.seen {
		switch {
		case p.applyEnvironment(fr, d):
		case d.hasDefault:
			p.applyDefault(d)
			defaulted = true
		case d.required:
			p.fail(ResultFailedFinalizing, NewParseError(ErrorTypeMissingRequiredArgument,
				fmt.Sprintf("missing required argument %s", p.display(d))).WithArgument(d.longName))
		}
	}

	if !d.binding.collection || defaulted || p.dryRun {
		return
	}
	// An absent rest-of-line argument leaves its destination untouched.
	if st.seen || !d.restOfLine {
		if err := d.binding.Dest.Set(st.values); err != nil {
			p.fail(ResultFailedFinalizing, NewParseError(ErrorTypeCollectionFailed,
				fmt.Sprintf("cannot store values for %s", p.display(d))).
				WithArgument(d.longName).WithCause(err))
		}
	}
}

// applyEnvironment binds the first non-empty environment variable listed for
// d. Lists are comma-separated.
func (p *Parser) applyEnvironment(fr *frame, d *Descriptor) bool {
	for _, name := range d.envVars {
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			continue
		}
		p.debugf("%s taken from $%s", p.display(d), name)

		token := "$" + name
		if !d.binding.collection {
			p.bind(fr, d, token, argValue{raw: raw, hasRaw: true, fromEnv: true})
			return true
		}
		for _, part := range strings.Split(raw, ",") {
			p.bind(fr, d, token, argValue{raw: strings.TrimSpace(part), hasRaw: true, fromEnv: true})
		}
		fr.states[d.id].seen = true
		return true
	}
	return false
}

func (p *Parser) applyDefault(d *Descriptor) {
	value := d.defaultValue

	if err := p.validateDefault(d, value); err != nil {
		p.fail(ResultFailedFinalizing, NewParseError(ErrorTypeValidationFailed,
			fmt.Sprintf("invalid default for %s: %v", p.display(d), err)).
			WithArgument(d.longName).WithCause(err))
		return
	}
	if p.dryRun {
		return
	}
	if err := d.binding.Dest.Set(value); err != nil {
		errType := ErrorTypeBadValue
		if d.binding.collection {
			errType = ErrorTypeCollectionFailed
		}
		p.fail(ResultFailedFinalizing, NewParseError(errType,
			fmt.Sprintf("cannot store default for %s", p.display(d))).
			WithArgument(d.longName).WithCause(err))
	}
}

func (p *Parser) validateDefault(d *Descriptor, value any) error {
	if !d.binding.collection {
		return p.validateValue(d, value)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("%w: default must be a slice, got %T", ErrTypeMismatch, value)
	}
	for i := range rv.Len() {
		if err := p.validateValue(d, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}
