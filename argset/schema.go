package argset

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dzonerzy/go-argline/internal/intern"
)

// Schema is the validated set of arguments a parser recognizes.
//
// Descriptors are stored in an arena indexed by id; the long and short name
// tables map folded names to those ids. A schema is not safe for concurrent
// modification, but once built it can back any number of parsers.
type Schema struct {
	opts Options

	args       []*Descriptor // indexed by id
	named      []*Descriptor // insertion order
	positional []*Descriptor // by position

	longNames  *intern.Table
	shortNames *intern.Table
}

// NewSchema creates an empty schema. The options are copied.
func NewSchema(opts Options) (*Schema, error) {
	opts = opts.Clone()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Schema{
		opts:       opts,
		longNames:  intern.NewTable(opts.CaseSensitive, 0),
		shortNames: intern.NewTable(opts.CaseSensitive, 0),
	}, nil
}

// Options returns a copy of the schema's options.
func (s *Schema) Options() Options {
	return s.opts.Clone()
}

// NamedArguments returns the named arguments in insertion order.
func (s *Schema) NamedArguments() []*Descriptor {
	return append([]*Descriptor(nil), s.named...)
}

// PositionalArguments returns the positional arguments ordered by position.
func (s *Schema) PositionalArguments() []*Descriptor {
	return append([]*Descriptor(nil), s.positional...)
}

// Len returns the number of arguments.
func (s *Schema) Len() int {
	return len(s.args)
}

// Lookup finds an argument by long name.
func (s *Schema) Lookup(longName string) (*Descriptor, bool) {
	id, ok := s.longNames.Lookup(longName)
	if !ok {
		return nil, false
	}
	return s.args[id], true
}

func (s *Schema) lookupLong(name string) *Descriptor {
	if d, ok := s.Lookup(name); ok && !d.positional {
		return d
	}
	return nil
}

func (s *Schema) lookupShort(name string) *Descriptor {
	if id, ok := s.shortNames.Lookup(name); ok {
		return s.args[id]
	}
	return nil
}

func (s *Schema) lookupShortRune(r rune) *Descriptor {
	if id, ok := s.shortNames.LookupRune(r); ok {
		return s.args[id]
	}
	return nil
}

type shortOwner struct {
	desc     *Descriptor
	explicit bool
	existing bool
}

// AddArguments validates and inserts a batch of descriptors. The batch is
// applied atomically: on error the schema is unchanged.
//
// Conflict names are resolved within the batch. When two arguments want the
// same short name and only one chose it explicitly, the generated one loses
// its short name; two explicit claims are an error.
//
//nolint:gocognit,gocyclo,cyclop // schema validation is a sequence of independent checks
func (s *Schema) AddArguments(descs ...*Descriptor) error {
	batch := make([]*Descriptor, 0, len(descs))
	for _, d := range descs {
		if d == nil {
			return newSchemaError(SchemaErrorInvalidBinding, "", "nil descriptor")
		}
		if err := d.validate(&s.opts); err != nil {
			return err
		}
		batch = append(batch, d.clone())
	}

	// Long names.
	byName := make(map[string]*Descriptor, len(batch))
	for _, d := range batch {
		key := s.longNames.Fold(d.longName)
		if _, exists := s.longNames.Lookup(d.longName); exists || byName[key] != nil {
			return newSchemaError(SchemaErrorDuplicateArgumentLongName, d.longName, "duplicate long name")
		}
		byName[key] = d
	}

	// Conflicts, made symmetric.
	for _, d := range batch {
		for _, name := range d.conflictNames {
			other := byName[s.longNames.Fold(name)]
			if other == nil || other == d {
				return newSchemaError(SchemaErrorConflictingMemberNotFound, d.longName,
					"conflicting argument %q not found", name)
			}
			d.conflicts = appendUnique(d.conflicts, other)
			other.conflicts = appendUnique(other.conflicts, d)
		}
	}

	// Short names.
	owners := make(map[string]shortOwner, len(s.named)+len(batch))
	for _, d := range s.named {
		if d.shortName != "" {
			owners[s.shortNames.Fold(d.shortName)] = shortOwner{desc: d, explicit: d.shortExplicit, existing: true}
		}
	}
	var cleared []*Descriptor
	for _, d := range batch {
		if d.positional {
			continue
		}
		if !d.shortExplicit {
			d.shortName = ""
			if d.noShort || s.opts.NameGeneration&GenerateShortNames == 0 {
				continue
			}
			d.shortName = s.generateShortName(d.longName)
		}

		key := s.shortNames.Fold(d.shortName)
		prev, taken := owners[key]
		switch {
		case !taken:
			owners[key] = shortOwner{desc: d, explicit: d.shortExplicit}
		case prev.explicit && d.shortExplicit:
			return newSchemaError(SchemaErrorDuplicateArgumentShortName, d.longName,
				"short name %q is already used by %q", d.shortName, prev.desc.longName)
		case d.shortExplicit:
			if prev.existing {
				cleared = append(cleared, prev.desc)
			} else {
				prev.desc.shortName = ""
			}
			owners[key] = shortOwner{desc: d, explicit: true}
		default:
			d.shortName = ""
		}
	}

	// Positions must be 0..n-1 and only the last may absorb the rest.
	positional := append([]*Descriptor(nil), s.positional...)
	for _, d := range batch {
		if d.positional {
			positional = append(positional, d)
		}
	}
	sort.SliceStable(positional, func(i, j int) bool {
		return positional[i].position < positional[j].position
	})
	for i, d := range positional {
		if d.position != i {
			return newSchemaError(SchemaErrorNonConsecutivePositionalParameter, d.longName,
				"positional arguments must be numbered consecutively from 0; expected position %d, got %d", i, d.position)
		}
		if d.absorbs() && i != len(positional)-1 {
			return newSchemaError(SchemaErrorNonConsecutivePositionalParameter, d.longName,
				"only the last positional argument may take multiple values")
		}
	}

	// Commit.
	for _, d := range cleared {
		s.shortNames.Remove(d.shortName)
		d.shortName = ""
	}
	for _, d := range batch {
		d.id = len(s.args)
		s.args = append(s.args, d)
		s.longNames.Add(d.longName, d.id)
		if d.positional {
			continue
		}
		s.named = append(s.named, d)
		if d.shortName != "" {
			s.shortNames.Add(d.shortName, d.id)
		}
	}
	s.positional = positional

	return nil
}

func (s *Schema) generateShortName(long string) string {
	r, _ := utf8.DecodeRuneInString(long)
	if s.opts.NameGeneration&PreferLowerCaseForShortNames != 0 {
		r = unicode.ToLower(r)
	}
	return string(r)
}

func appendUnique(list []*Descriptor, d *Descriptor) []*Descriptor {
	for _, existing := range list {
		if existing == d {
			return list
		}
	}
	return append(list, d)
}

// Syntax returns a one-line usage summary, for example
// "[--verbose] --value=<int> <file> [<rest>...]".
func (s *Schema) Syntax() string {
	var parts []string
	sep := string(s.opts.PreferredSeparator())
	if sep == "\x00" {
		sep = " "
	}

	for _, d := range s.named {
		if d.hidden {
			continue
		}
		part := s.opts.PreferredLongPrefix() + d.longName
		if !d.IsSwitch() {
			part += sep + "<" + d.binding.Type.Name() + ">"
		}
		if !d.required {
			part = "[" + part + "]"
		}
		if d.binding.collection || d.allowMultiple {
			part += "..."
		}
		parts = append(parts, part)
	}

	for _, d := range s.positional {
		if d.hidden {
			continue
		}
		part := "<" + d.longName + ">"
		if d.absorbs() {
			part += "..."
		}
		if !d.required {
			part = "[" + part + "]"
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, " ")
}
