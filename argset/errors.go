package argset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStyleNotSupported is returned when reading back a style from Options.
// Styles are write-only presets: SetStyle expands one into the individual fields.
var ErrStyleNotSupported = errors.New("argset: reading back a style is not supported")

// ErrTypeMismatch is wrapped when a parsed value cannot be stored in its destination.
var ErrTypeMismatch = errors.New("argset: value type does not match destination")

// ErrAnswerFileDepth is the cause reported when answer files reference each other too deeply.
var ErrAnswerFileDepth = errors.New("argset: answer files nested too deeply")

// SchemaErrorKind categorizes problems detected while building a schema.
type SchemaErrorKind string

const (
	SchemaErrorConflictingMemberNotFound         SchemaErrorKind = "conflicting_member_not_found"
	SchemaErrorDuplicateArgumentLongName         SchemaErrorKind = "duplicate_long_name"
	SchemaErrorDuplicateArgumentShortName        SchemaErrorKind = "duplicate_short_name"
	SchemaErrorNonConsecutivePositionalParameter SchemaErrorKind = "non_consecutive_positional"
	SchemaErrorInvalidShortName                  SchemaErrorKind = "invalid_short_name"
	SchemaErrorInvalidLongName                   SchemaErrorKind = "invalid_long_name"
	SchemaErrorUniqueOnNonCollection             SchemaErrorKind = "unique_on_non_collection"
	SchemaErrorRequiredWithDefault               SchemaErrorKind = "required_with_default"
	SchemaErrorRestOfLineWithAllowMultiple       SchemaErrorKind = "rest_of_line_with_allow_multiple"
	SchemaErrorInvalidRestOfLineType             SchemaErrorKind = "invalid_rest_of_line_type"
	SchemaErrorInvalidValidator                  SchemaErrorKind = "invalid_validator"
	SchemaErrorInvalidOptions                    SchemaErrorKind = "invalid_options"
	SchemaErrorInvalidBinding                    SchemaErrorKind = "invalid_binding"
)

// SchemaError reports an invalid argument definition. Schema errors are
// programming mistakes and are returned from NewSchema and AddArguments.
type SchemaError struct {
	Kind     SchemaErrorKind
	Argument string
	Message  string
}

func (e *SchemaError) Error() string {
	if e.Argument == "" {
		return "argset: " + e.Message
	}
	return fmt.Sprintf("argset: argument %q: %s", e.Argument, e.Message)
}

func newSchemaError(kind SchemaErrorKind, argument, format string, args ...any) *SchemaError {
	return &SchemaError{
		Kind:     kind,
		Argument: argument,
		Message:  fmt.Sprintf(format, args...),
	}
}

// ErrorType represents the category of a parse-time error.
type ErrorType string

const (
	ErrorTypeUnknownNamedArgument          ErrorType = "unknown_named_argument"
	ErrorTypeUnknownPositionalArgument     ErrorType = "unknown_positional_argument"
	ErrorTypeDuplicateArgument             ErrorType = "duplicate_argument"
	ErrorTypeConflictingArgument           ErrorType = "conflicting_argument"
	ErrorTypeMissingRequiredOptionArgument ErrorType = "missing_option_argument"
	ErrorTypeBadValue                      ErrorType = "bad_value"
	ErrorTypeInvalidAnswerFile             ErrorType = "invalid_answer_file"
	ErrorTypeMissingRequiredArgument       ErrorType = "missing_required"
	ErrorTypeValidationFailed              ErrorType = "validation"
	ErrorTypeCollectionFailed              ErrorType = "collection_failed"
)

// ParseError describes one problem found while parsing or finalizing.
// Every ParseError is delivered to the parser's reporter, and parsing
// continues with the next token.
type ParseError struct {
	Type           ErrorType
	Message        string
	Argument       string // long name of the descriptor involved, if any
	Token          string // token that triggered the error, if any
	Suggestions    []string
	PossibleValues []string
	Cause          error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		b.WriteString(" (did you mean ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
		b.WriteString("?)")
	}
	if len(e.PossibleValues) > 0 {
		b.WriteString(" (possible values: ")
		b.WriteString(strings.Join(e.PossibleValues, ", "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new ParseError with the given type and message
func NewParseError(errType ErrorType, message string) *ParseError {
	return &ParseError{
		Type:    errType,
		Message: message,
	}
}

// WithArgument records the descriptor the error is about.
func (e *ParseError) WithArgument(name string) *ParseError {
	e.Argument = name
	return e
}

// WithToken records the offending token.
func (e *ParseError) WithToken(token string) *ParseError {
	e.Token = token
	return e
}

// WithSuggestions attaches "did you mean" candidates.
func (e *ParseError) WithSuggestions(suggestions ...string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithPossibleValues attaches the values accepted by the argument's type.
func (e *ParseError) WithPossibleValues(values ...string) *ParseError {
	e.PossibleValues = append(e.PossibleValues, values...)
	return e
}

// WithCause adds an underlying cause to the error
func (e *ParseError) WithCause(cause error) *ParseError {
	e.Cause = cause
	return e
}

// Reporter receives every parse error as it is found.
type Reporter func(err *ParseError)
