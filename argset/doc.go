// Package argset parses command-line tokens against a schema of named and
// positional arguments.
//
// A Schema is built from Descriptors, each binding an argument to a typed
// destination:
//
//	var value int
//	var verbose bool
//	schema, _ := argset.NewSchema(argset.DefaultOptions())
//	_ = schema.AddArguments(
//		argset.Named("value", argset.IntVar(&value)).Required(),
//		argset.Named("verbose", argset.BoolVar(&verbose)),
//	)
//	result := argset.NewParser(schema).Parse(os.Args[1:])
//
// Token recognition (prefixes, separators, short-name grouping, answer
// files) is controlled by Options, usually set from one of the Style presets.
// Errors are collected rather than aborting: every problem is delivered to
// the parser's Reporter and the ParseResult holds the first failure.
//
// Arguments whose value type is a CommandGroup select a command; when the
// command value implements ArgumentProvider its arguments become available
// to the tokens that follow.
package argset
