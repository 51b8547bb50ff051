package argset

import "errors"

// ResultKind identifies the outcome of a parse.
type ResultKind int

const (
	ResultReady ResultKind = iota
	ResultUnknownNamedArgument
	ResultUnknownPositionalArgument
	ResultFailedParsing
	ResultFailedFinalizing
	ResultInvalidAnswerFile
	ResultRequiresOptionArgument
)

func (k ResultKind) String() string {
	switch k {
	case ResultReady:
		return "ready"
	case ResultUnknownNamedArgument:
		return "unknown named argument"
	case ResultUnknownPositionalArgument:
		return "unknown positional argument"
	case ResultFailedParsing:
		return "failed parsing"
	case ResultFailedFinalizing:
		return "failed finalizing"
	case ResultInvalidAnswerFile:
		return "invalid answer file"
	case ResultRequiresOptionArgument:
		return "requires option argument"
	default:
		return "unknown"
	}
}

// NameType tells whether an unknown name was given in long or short form.
type NameType int

const (
	NameTypeLong NameType = iota
	NameTypeShort
)

func (n NameType) String() string {
	if n == NameTypeShort {
		return "short"
	}
	return "long"
}

// ParseResult is the outcome of ParseTokens, Finalize or Parse.
//
// Kind holds the first failure encountered; NameType and Name are set for
// ResultUnknownNamedArgument and Descriptor for ResultRequiresOptionArgument.
// Errors lists everything that was reported, in order.
type ParseResult struct {
	Kind       ResultKind
	NameType   NameType
	Name       string
	Descriptor *Descriptor

	errors []*ParseError
}

// Ok reports whether the parse succeeded.
func (r ParseResult) Ok() bool {
	return r.Kind == ResultReady
}

// Errors returns every error reported during the parse.
func (r ParseResult) Errors() []*ParseError {
	return r.errors
}

// Err joins the reported errors, or returns nil on success.
func (r ParseResult) Err() error {
	if r.Ok() {
		return nil
	}
	if len(r.errors) == 0 {
		return errors.New("argset: " + r.Kind.String())
	}
	errs := make([]error, len(r.errors))
	for i, e := range r.errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
