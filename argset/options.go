package argset

import "strings"

// NameGenerationFlags controls automatic short-name derivation.
type NameGenerationFlags int

const (
	// GenerateShortNames derives a short name from the first rune of the long
	// name for every named argument that has none.
	GenerateShortNames NameGenerationFlags = 1 << iota
	// PreferLowerCaseForShortNames lower-cases generated short names.
	PreferLowerCaseForShortNames
)

// Options configures how tokens are recognized. The first entry of each
// prefix and separator list is the preferred one, used when formatting.
type Options struct {
	NamedArgumentPrefixes     []string
	ShortNameArgumentPrefixes []string
	ArgumentValueSeparators   []rune
	AnswerFileArgumentPrefix  string // empty disables answer files

	AllowNamedArgumentValueAsSucceedingToken bool
	AllowMultipleShortNamesInOneToken        bool
	AllowElidingSeparatorAfterShortName      bool
	CaseSensitive                            bool

	NameGeneration NameGenerationFlags

	// FileSystem backs answer files and path completion; nil means the OS.
	FileSystem FileSystemReader
}

// DefaultOptions returns the default style.
func DefaultOptions() Options {
	var o Options
	o.SetStyle(StyleDefault)
	return o
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	c := o
	c.NamedArgumentPrefixes = append([]string(nil), o.NamedArgumentPrefixes...)
	c.ShortNameArgumentPrefixes = append([]string(nil), o.ShortNameArgumentPrefixes...)
	c.ArgumentValueSeparators = append([]rune(nil), o.ArgumentValueSeparators...)
	return c
}

// Validate checks option combinations that would make tokens ambiguous.
func (o Options) Validate() error {
	if len(o.NamedArgumentPrefixes) == 0 && len(o.ShortNameArgumentPrefixes) == 0 {
		return newSchemaError(SchemaErrorInvalidOptions, "", "at least one argument prefix is required")
	}
	for _, p := range append(o.NamedArgumentPrefixes, o.ShortNameArgumentPrefixes...) {
		if p == "" {
			return newSchemaError(SchemaErrorInvalidOptions, "", "argument prefixes must not be empty")
		}
	}

	if !o.AllowMultipleShortNamesInOneToken && !o.AllowElidingSeparatorAfterShortName {
		return nil
	}
	for _, long := range o.NamedArgumentPrefixes {
		for _, short := range o.ShortNameArgumentPrefixes {
			if long == short {
				return newSchemaError(SchemaErrorInvalidOptions, "",
					"prefix %q is used for both long and short names; "+
						"short-name grouping and separator eliding need distinct prefixes", long)
			}
		}
	}
	return nil
}

// PreferredLongPrefix returns the prefix used when formatting long names.
func (o Options) PreferredLongPrefix() string {
	if len(o.NamedArgumentPrefixes) > 0 {
		return o.NamedArgumentPrefixes[0]
	}
	return o.PreferredShortPrefix()
}

// PreferredShortPrefix returns the prefix used when formatting short names.
func (o Options) PreferredShortPrefix() string {
	if len(o.ShortNameArgumentPrefixes) > 0 {
		return o.ShortNameArgumentPrefixes[0]
	}
	if len(o.NamedArgumentPrefixes) > 0 {
		return o.NamedArgumentPrefixes[0]
	}
	return ""
}

// PreferredSeparator returns the separator used when formatting values,
// or 0 when values must go in the succeeding token.
func (o Options) PreferredSeparator() rune {
	if len(o.ArgumentValueSeparators) > 0 {
		return o.ArgumentValueSeparators[0]
	}
	return 0
}

func (o Options) fileSystem() FileSystemReader {
	if o.FileSystem != nil {
		return o.FileSystem
	}
	return OSFileSystem{}
}

func (o Options) isSeparator(r rune) bool {
	for _, s := range o.ArgumentValueSeparators {
		if s == r {
			return true
		}
	}
	return false
}

// longestPrefix returns the length of the longest prefix in prefixes that token starts with.
func longestPrefix(token string, prefixes []string) int {
	best := 0
	for _, p := range prefixes {
		if len(p) > best && strings.HasPrefix(token, p) {
			best = len(p)
		}
	}
	return best
}

func (o Options) hasPrefix(s, prefix string) bool {
	if o.CaseSensitive {
		return strings.HasPrefix(s, prefix)
	}
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
