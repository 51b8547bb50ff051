package argset

// Style is a named preset of Options fields.
type Style int

const (
	// StyleDefault: --long and -s, "=" or ":" separators, @answer files.
	StyleDefault Style = iota
	// StyleGetOpt follows POSIX getopt_long: grouped short names, "-ovalue", case-sensitive.
	StyleGetOpt
	// StylePowerShell uses a single "-" for every name and ":" separators.
	StylePowerShell
	// StyleWindows accepts "/" or "-" with ":" or "=" separators.
	StyleWindows
)

func (s Style) String() string {
	switch s {
	case StyleDefault:
		return "default"
	case StyleGetOpt:
		return "getopt"
	case StylePowerShell:
		return "powershell"
	case StyleWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// SetStyle overwrites every style-controlled field of o. FileSystem is kept.
func (o *Options) SetStyle(style Style) {
	fs := o.FileSystem

	switch style {
	case StyleGetOpt:
		*o = Options{
			NamedArgumentPrefixes:                    []string{"--"},
			ShortNameArgumentPrefixes:                []string{"-"},
			ArgumentValueSeparators:                  []rune{'='},
			AnswerFileArgumentPrefix:                 "@",
			AllowNamedArgumentValueAsSucceedingToken: true,
			AllowMultipleShortNamesInOneToken:        true,
			AllowElidingSeparatorAfterShortName:      true,
			CaseSensitive:                            true,
			NameGeneration:                           GenerateShortNames | PreferLowerCaseForShortNames,
		}
	case StylePowerShell:
		*o = Options{
			NamedArgumentPrefixes:                    []string{"-"},
			ShortNameArgumentPrefixes:                []string{"-"},
			ArgumentValueSeparators:                  []rune{':'},
			AnswerFileArgumentPrefix:                 "@",
			AllowNamedArgumentValueAsSucceedingToken: true,
			NameGeneration:                           GenerateShortNames,
		}
	case StyleWindows:
		*o = Options{
			NamedArgumentPrefixes:     []string{"/", "-"},
			ShortNameArgumentPrefixes: []string{"/", "-"},
			ArgumentValueSeparators:   []rune{':', '='},
			AnswerFileArgumentPrefix:  "@",
			NameGeneration:            GenerateShortNames,
		}
	default:
		*o = Options{
			NamedArgumentPrefixes:                    []string{"--"},
			ShortNameArgumentPrefixes:                []string{"-"},
			ArgumentValueSeparators:                  []rune{'=', ':'},
			AnswerFileArgumentPrefix:                 "@",
			AllowNamedArgumentValueAsSucceedingToken: true,
			NameGeneration:                           GenerateShortNames | PreferLowerCaseForShortNames,
		}
	}

	o.FileSystem = fs
}

// Style cannot be derived from individual fields; it always fails.
func (o Options) Style() (Style, error) {
	return StyleDefault, ErrStyleNotSupported
}
