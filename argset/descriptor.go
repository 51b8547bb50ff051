package argset

import (
	"reflect"
	"unicode/utf8"
)

// Kind distinguishes plain arguments from command groups.
type Kind int

const (
	KindLeaf Kind = iota
	KindGroup
)

// Descriptor defines one argument. Build it with Named or Positional and the
// fluent modifiers, then hand it to Schema.AddArguments; the schema keeps its
// own copy, so a descriptor can be reused across schemas.
type Descriptor struct {
	id int

	longName      string
	shortName     string
	shortExplicit bool
	noShort       bool

	positional bool
	position   int

	binding Binding

	required      bool
	allowMultiple bool
	unique        bool
	restOfLine    bool
	hidden        bool

	defaultValue any
	hasDefault   bool

	conflictNames []string
	conflicts     []*Descriptor

	envVars     []string
	description string
	validator   any
}

// Named creates a named argument.
func Named(long string, b Binding) *Descriptor {
	return &Descriptor{id: -1, longName: long, binding: b}
}

// Positional creates a positional argument at the given zero-based position.
// The long name is used in messages and usage text.
func Positional(long string, position int, b Binding) *Descriptor {
	return &Descriptor{id: -1, longName: long, positional: true, position: position, binding: b}
}

// Short sets an explicit short name.
func (d *Descriptor) Short(name string) *Descriptor {
	d.shortName = name
	d.shortExplicit = name != ""
	d.noShort = false
	return d
}

// NoShort suppresses short-name generation for this argument.
func (d *Descriptor) NoShort() *Descriptor {
	d.shortName = ""
	d.shortExplicit = false
	d.noShort = true
	return d
}

// Required marks the argument as mandatory.
func (d *Descriptor) Required() *Descriptor {
	d.required = true
	return d
}

// Default sets the value applied when the argument is absent.
// Collections take a []T default.
func (d *Descriptor) Default(v any) *Descriptor {
	d.defaultValue = v
	d.hasDefault = true
	return d
}

// AllowMultiple lets a scalar appear repeatedly (last one wins), or lets a
// positional absorb every remaining positional token.
func (d *Descriptor) AllowMultiple() *Descriptor {
	d.allowMultiple = true
	return d
}

// Unique rejects duplicate elements in a collection.
func (d *Descriptor) Unique() *Descriptor {
	d.unique = true
	return d
}

// RestOfLine captures every token after this argument verbatim.
func (d *Descriptor) RestOfLine() *Descriptor {
	d.restOfLine = true
	return d
}

// Hidden excludes the argument from completion and usage.
func (d *Descriptor) Hidden() *Descriptor {
	d.hidden = true
	return d
}

// ConflictsWith names arguments (by long name, same batch) that cannot be
// combined with this one. Conflicts are symmetric.
func (d *Descriptor) ConflictsWith(names ...string) *Descriptor {
	d.conflictNames = append(d.conflictNames, names...)
	return d
}

// Env names environment variables consulted, in order, when the argument is absent.
func (d *Descriptor) Env(vars ...string) *Descriptor {
	d.envVars = append(d.envVars, vars...)
	return d
}

// Description sets the help text.
func (d *Descriptor) Description(text string) *Descriptor {
	d.description = text
	return d
}

// Validate sets a validator of type func(T) error, where T is the bound
// type (the element type for collections).
func (d *Descriptor) Validate(fn any) *Descriptor {
	d.validator = fn
	return d
}

func (d *Descriptor) ID() int                   { return d.id }
func (d *Descriptor) LongName() string          { return d.longName }
func (d *Descriptor) ShortName() string         { return d.shortName }
func (d *Descriptor) IsPositional() bool        { return d.positional }
func (d *Descriptor) Position() int             { return d.position }
func (d *Descriptor) IsRequired() bool          { return d.required }
func (d *Descriptor) AllowsMultiple() bool      { return d.allowMultiple }
func (d *Descriptor) IsUnique() bool            { return d.unique }
func (d *Descriptor) TakesRestOfLine() bool     { return d.restOfLine }
func (d *Descriptor) IsHidden() bool            { return d.hidden }
func (d *Descriptor) IsCollection() bool        { return d.binding.collection }
func (d *Descriptor) ValueType() ValueType      { return d.binding.Type }
func (d *Descriptor) Help() string              { return d.description }
func (d *Descriptor) EnvVars() []string         { return append([]string(nil), d.envVars...) }
func (d *Descriptor) DefaultValue() (any, bool) { return d.defaultValue, d.hasDefault }

// ConflictsWithDescriptors returns the resolved conflict set.
func (d *Descriptor) ConflictsWithDescriptors() []*Descriptor {
	return append([]*Descriptor(nil), d.conflicts...)
}

// Kind reports whether the argument selects a command group.
func (d *Descriptor) Kind() Kind {
	if _, ok := d.binding.Type.(*commandGroupType); ok {
		return KindGroup
	}
	return KindLeaf
}

// IsSwitch reports whether the argument may appear without a value.
func (d *Descriptor) IsSwitch() bool {
	_, ok := isSwitch(d.binding.Type)
	return ok && !d.restOfLine
}

// absorbs reports whether a positional consumes every remaining positional token.
func (d *Descriptor) absorbs() bool {
	return d.restOfLine || d.allowMultiple
}

func (d *Descriptor) clone() *Descriptor {
	c := *d
	c.conflictNames = append([]string(nil), d.conflictNames...)
	c.envVars = append([]string(nil), d.envVars...)
	c.conflicts = nil
	return &c
}

// validate checks attribute combinations that do not depend on other arguments.
func (d *Descriptor) validate(opts *Options) error {
	if d.longName == "" {
		return newSchemaError(SchemaErrorInvalidLongName, "", "long name must not be empty")
	}
	if d.binding.Type == nil || d.binding.Dest == nil {
		return newSchemaError(SchemaErrorInvalidBinding, d.longName, "argument has no binding")
	}
	if d.unique && !d.binding.collection {
		return newSchemaError(SchemaErrorUniqueOnNonCollection, d.longName, "unique requires a collection")
	}
	if d.required && d.hasDefault {
		return newSchemaError(SchemaErrorRequiredWithDefault, d.longName, "a required argument cannot have a default")
	}
	if d.restOfLine {
		if d.allowMultiple {
			return newSchemaError(SchemaErrorRestOfLineWithAllowMultiple, d.longName,
				"rest-of-line and allow-multiple are mutually exclusive")
		}
		if !d.binding.collection || d.binding.elemType.Kind() != reflect.String {
			return newSchemaError(SchemaErrorInvalidRestOfLineType, d.longName,
				"rest-of-line requires a collection of strings")
		}
	}
	if d.shortExplicit && d.positional {
		return newSchemaError(SchemaErrorInvalidShortName, d.longName, "positional arguments have no short name")
	}
	if d.shortExplicit && (opts.AllowMultipleShortNamesInOneToken || opts.AllowElidingSeparatorAfterShortName) &&
		utf8.RuneCountInString(d.shortName) != 1 {
		return newSchemaError(SchemaErrorInvalidShortName, d.longName,
			"short name %q must be a single character", d.shortName)
	}
	if d.positional && d.position < 0 {
		return newSchemaError(SchemaErrorNonConsecutivePositionalParameter, d.longName, "negative position %d", d.position)
	}
	if d.validator != nil {
		if err := d.checkValidator(); err != nil {
			return err
		}
	}
	return nil
}

var errorInterface = reflect.TypeFor[error]()

func (d *Descriptor) checkValidator() error {
	ft := reflect.TypeOf(d.validator)
	if ft.Kind() != reflect.Func || ft.NumIn() != 1 || ft.NumOut() != 1 ||
		!ft.Out(0).Implements(errorInterface) || !d.binding.elemType.AssignableTo(ft.In(0)) {
		return newSchemaError(SchemaErrorInvalidValidator, d.longName,
			"validator %s does not accept %s", ft, d.binding.elemType)
	}
	return nil
}

// runValidator calls the user validator with a single element value.
func (d *Descriptor) runValidator(v any) error {
	if d.validator == nil {
		return nil
	}
	in := reflect.ValueOf(v)
	if !in.IsValid() {
		in = reflect.Zero(reflect.TypeOf(d.validator).In(0))
	}
	out := reflect.ValueOf(d.validator).Call([]reflect.Value{in})
	if err, _ := out[0].Interface().(error); err != nil {
		return err
	}
	return nil
}
