package argset

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ValueContext is handed to value types while parsing and completing.
type ValueContext struct {
	Options    *Options
	FileSystem FileSystemReader
	Descriptor *Descriptor
}

// ValueType is the coercion strategy between string tokens and typed values.
type ValueType interface {
	Name() string
	Parse(ctx *ValueContext, s string) (any, error)
	Format(v any) (string, error)
	Completions(ctx *ValueContext, prefix string) []string
	Validate(ctx *ValueContext, v any) error
}

// Switch is implemented by value types whose arguments may appear without a
// value ("--verbose") and accept the "+"/"-" suffix ("--verbose-").
type Switch interface {
	ValueType
	SwitchValue(on bool) any
}

// PossibleValuer is implemented by value types with a closed set of values.
type PossibleValuer interface {
	PossibleValues() []string
}

func filterPrefix(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if len(v) >= len(prefix) && strings.EqualFold(v[:len(prefix)], prefix) {
			out = append(out, v)
		}
	}
	return out
}

func formatAs[T any](v any, f func(T) string) (string, error) {
	tv, ok := v.(T)
	if !ok {
		var zero T
		return "", fmt.Errorf("%w: got %T, want %T", ErrTypeMismatch, v, zero)
	}
	return f(tv), nil
}

type stringType struct{}

// String returns the identity value type.
func String() ValueType { return stringType{} }

func (stringType) Name() string                                 { return "string" }
func (stringType) Parse(_ *ValueContext, s string) (any, error) { return s, nil }
func (stringType) Completions(*ValueContext, string) []string   { return nil }
func (stringType) Validate(*ValueContext, any) error            { return nil }
func (stringType) Format(v any) (string, error) {
	return formatAs(v, func(s string) string { return s })
}

type intType struct{}

// Int parses base-prefixed integers (0x, 0o, 0b) into int.
func Int() ValueType { return intType{} }

func (intType) Name() string                               { return "int" }
func (intType) Completions(*ValueContext, string) []string { return nil }
func (intType) Validate(*ValueContext, any) error          { return nil }
func (intType) Parse(_ *ValueContext, s string) (any, error) {
	n, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return int(n), nil
}
func (intType) Format(v any) (string, error) {
	return formatAs(v, strconv.Itoa)
}

type uintType struct{}

// Uint parses base-prefixed non-negative integers into uint.
func Uint() ValueType { return uintType{} }

func (uintType) Name() string                               { return "uint" }
func (uintType) Completions(*ValueContext, string) []string { return nil }
func (uintType) Validate(*ValueContext, any) error          { return nil }
func (uintType) Parse(_ *ValueContext, s string) (any, error) {
	n, err := strconv.ParseUint(s, 0, strconv.IntSize)
	if err != nil {
		return nil, fmt.Errorf("invalid unsigned integer %q", s)
	}
	return uint(n), nil
}
func (uintType) Format(v any) (string, error) {
	return formatAs(v, func(n uint) string { return strconv.FormatUint(uint64(n), 10) })
}

type floatType struct{}

// Float parses float64 values.
func Float() ValueType { return floatType{} }

func (floatType) Name() string                               { return "float" }
func (floatType) Completions(*ValueContext, string) []string { return nil }
func (floatType) Parse(_ *ValueContext, s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}
func (floatType) Validate(_ *ValueContext, v any) error {
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return fmt.Errorf("NaN is not a valid value")
	}
	return nil
}
func (floatType) Format(v any) (string, error) {
	return formatAs(v, func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) })
}

type boolType struct{}

var boolWords = map[string]bool{
	"true": true, "yes": true, "on": true, "1": true,
	"false": false, "no": false, "off": false, "0": false,
}

// Bool accepts true/false, yes/no, on/off and 1/0. It is a Switch.
func Bool() ValueType { return boolType{} }

func (boolType) Name() string                      { return "bool" }
func (boolType) Validate(*ValueContext, any) error { return nil }
func (boolType) SwitchValue(on bool) any           { return on }
func (boolType) PossibleValues() []string          { return []string{"false", "true"} }
func (boolType) Parse(_ *ValueContext, s string) (any, error) {
	b, ok := boolWords[strings.ToLower(s)]
	if !ok {
		return nil, fmt.Errorf("invalid boolean %q", s)
	}
	return b, nil
}
func (t boolType) Completions(_ *ValueContext, prefix string) []string {
	return filterPrefix(t.PossibleValues(), prefix)
}
func (boolType) Format(v any) (string, error) {
	return formatAs(v, strconv.FormatBool)
}

type durationType struct{}

// Duration parses time.ParseDuration strings.
func Duration() ValueType { return durationType{} }

func (durationType) Name() string                               { return "duration" }
func (durationType) Completions(*ValueContext, string) []string { return nil }
func (durationType) Validate(*ValueContext, any) error          { return nil }
func (durationType) Parse(_ *ValueContext, s string) (any, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
func (durationType) Format(v any) (string, error) {
	return formatAs(v, time.Duration.String)
}

type enumType struct {
	values []string
}

// Enum accepts one of values, compared case-insensitively; the parsed value
// is the canonical spelling.
func Enum(values ...string) ValueType {
	return enumType{values: append([]string(nil), values...)}
}

func (enumType) Name() string                      { return "enum" }
func (enumType) Validate(*ValueContext, any) error { return nil }
func (e enumType) PossibleValues() []string        { return append([]string(nil), e.values...) }
func (e enumType) Completions(_ *ValueContext, prefix string) []string {
	return filterPrefix(e.values, prefix)
}
func (e enumType) Parse(_ *ValueContext, s string) (any, error) {
	for _, v := range e.values {
		if strings.EqualFold(v, s) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("invalid value %q", s)
}
func (e enumType) Format(v any) (string, error) {
	return formatAs(v, func(s string) string { return s })
}

type filePathType struct{}

// FilePath is a string value whose completions come from the file system.
func FilePath() ValueType { return filePathType{} }

func (filePathType) Name() string                                 { return "path" }
func (filePathType) Parse(_ *ValueContext, s string) (any, error) { return s, nil }
func (filePathType) Validate(*ValueContext, any) error            { return nil }
func (filePathType) Completions(ctx *ValueContext, prefix string) []string {
	fsys := FileSystemReader(OSFileSystem{})
	if ctx != nil && ctx.FileSystem != nil {
		fsys = ctx.FileSystem
	}
	return completePath(fsys, prefix)
}
func (filePathType) Format(v any) (string, error) {
	return formatAs(v, func(s string) string { return s })
}

type collectionType struct {
	elem ValueType
}

// Collection wraps an element type for list-valued arguments. Each token is
// parsed by the element type and appended.
func Collection(elem ValueType) ValueType {
	return collectionType{elem: elem}
}

func (c collectionType) Name() string { return "[]" + c.elem.Name() }
func (c collectionType) Parse(ctx *ValueContext, s string) (any, error) {
	return c.elem.Parse(ctx, s)
}
func (c collectionType) Completions(ctx *ValueContext, prefix string) []string {
	return c.elem.Completions(ctx, prefix)
}
func (c collectionType) Validate(ctx *ValueContext, v any) error {
	return c.elem.Validate(ctx, v)
}

// Format formats a slice as its comma-separated elements, or a single element.
func (c collectionType) Format(v any) (string, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return c.elem.Format(v)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		s, err := c.elem.Format(rv.Index(i).Interface())
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ","), nil
}

// Elem returns the element type.
func (c collectionType) Elem() ValueType { return c.elem }

// CommandSpec describes one command of a command group.
type CommandSpec struct {
	Name        string
	Description string
	// New creates the command's value. If it implements ArgumentProvider,
	// its schema becomes active for the tokens that follow.
	New func() any
}

// ArgumentProvider is implemented by command values that take arguments.
type ArgumentProvider interface {
	ArgumentSchema() (*Schema, error)
}

type commandGroupType struct {
	commands []CommandSpec
}

// CommandGroup selects one of cmds by name (case-insensitive) and produces
// the value returned by its New function.
func CommandGroup(cmds ...CommandSpec) ValueType {
	return &commandGroupType{commands: append([]CommandSpec(nil), cmds...)}
}

func (*commandGroupType) Name() string                      { return "command" }
func (*commandGroupType) Validate(*ValueContext, any) error { return nil }

func (g *commandGroupType) PossibleValues() []string {
	names := make([]string, len(g.commands))
	for i, c := range g.commands {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

func (g *commandGroupType) Completions(_ *ValueContext, prefix string) []string {
	return filterPrefix(g.PossibleValues(), prefix)
}

func (g *commandGroupType) lookup(name string) (CommandSpec, bool) {
	for _, c := range g.commands {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return CommandSpec{}, false
}

func (g *commandGroupType) Parse(_ *ValueContext, s string) (any, error) {
	cmd, ok := g.lookup(s)
	if !ok {
		return nil, fmt.Errorf("unknown command %q", s)
	}
	if cmd.New == nil {
		return cmd.Name, nil
	}
	return cmd.New(), nil
}

// Format returns the name of the command that produced v.
func (g *commandGroupType) Format(v any) (string, error) {
	if s, ok := v.(string); ok {
		if cmd, found := g.lookup(s); found {
			return cmd.Name, nil
		}
	}
	for _, c := range g.commands {
		if c.New == nil {
			continue
		}
		if reflect.TypeOf(c.New()) == reflect.TypeOf(v) {
			return c.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %T is not a command of this group", ErrTypeMismatch, v)
}

// Commands returns the group's commands.
func (g *commandGroupType) Commands() []CommandSpec {
	return append([]CommandSpec(nil), g.commands...)
}

// Commands returns the commands of a command-group value type, or nil.
func Commands(vt ValueType) []CommandSpec {
	if g, ok := vt.(*commandGroupType); ok {
		return g.Commands()
	}
	return nil
}

func possibleValues(vt ValueType) []string {
	if c, ok := vt.(collectionType); ok {
		vt = c.elem
	}
	if pv, ok := vt.(PossibleValuer); ok {
		return pv.PossibleValues()
	}
	return nil
}

func isSwitch(vt ValueType) (Switch, bool) {
	if c, ok := vt.(collectionType); ok {
		vt = c.elem
	}
	s, ok := vt.(Switch)
	return s, ok
}
