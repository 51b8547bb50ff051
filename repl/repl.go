// Package repl runs an interactive command shell: lines are read with the
// line editor, parsed against a command group and executed through a
// middleware chain.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/dzonerzy/go-argline/argset"
	snapio "github.com/dzonerzy/go-argline/io"
	"github.com/dzonerzy/go-argline/lineedit"
	"github.com/dzonerzy/go-argline/middleware"
)

// CommandKey is the middleware.Context key holding the selected command's
// value while it runs.
const CommandKey = "repl.command"

const (
	cmdHelp = "help"
	cmdExit = "exit"
	cmdQuit = "quit"
)

// Runnable is implemented by command values the shell can execute.
type Runnable interface {
	Run(ctx context.Context) error
}

// Option configures a Shell.
type Option func(*Shell)

// WithPrompt sets the prompt. The default is "> ".
func WithPrompt(prompt string) Option {
	return func(s *Shell) { s.prompt = prompt }
}

// WithPromptColor colors the prompt.
func WithPromptColor(c snapio.ColorSpec) Option {
	return func(s *Shell) { s.promptColor = c }
}

// WithLogger sets where errors are reported.
func WithLogger(l *snapio.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// WithMiddleware appends middleware to the chain commands run through.
func WithMiddleware(mw ...middleware.Middleware) Option {
	return func(s *Shell) { s.chain = s.chain.Use(mw...) }
}

// WithHistory shares h with the editor.
func WithHistory(h *lineedit.History) Option {
	return func(s *Shell) { s.history = h }
}

// WithGlobals adds named arguments accepted before or after any command.
func WithGlobals(descs ...*argset.Descriptor) Option {
	return func(s *Shell) { s.globals = append(s.globals, descs...) }
}

// WithOptions sets the parsing options of the root schema.
func WithOptions(opts argset.Options) Option {
	return func(s *Shell) { s.opts = opts }
}

// WithEditorOptions passes extra options to the line editor.
func WithEditorOptions(opts ...lineedit.EditorOption) Option {
	return func(s *Shell) { s.editorOpts = append(s.editorOpts, opts...) }
}

// Shell is an interactive command loop over a console.
type Shell struct {
	console  lineedit.Console
	editor   *lineedit.Editor
	schema   *argset.Schema
	command  *argset.Descriptor
	commands []argset.CommandSpec
	selected any

	prompt      string
	promptColor snapio.ColorSpec
	logger      *snapio.Logger
	chain       middleware.MiddlewareChain
	history     *lineedit.History
	globals     []*argset.Descriptor
	opts        argset.Options
	editorOpts  []lineedit.EditorOption
}

// New builds a shell offering commands plus the built-in help, exit and
// quit commands.
func New(console lineedit.Console, commands []argset.CommandSpec, opts ...Option) (*Shell, error) {
	s := &Shell{
		console:  console,
		commands: append([]argset.CommandSpec(nil), commands...),
		prompt:   "> ",
		history:  lineedit.NewHistory(1000, lineedit.SkipDuplicates()),
		opts:     argset.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = snapio.NewLogger(snapio.New())
	}

	all := append([]argset.CommandSpec(nil), s.commands...)
	for _, builtin := range []argset.CommandSpec{
		{Name: cmdHelp, Description: "List commands, or show the syntax of one", New: s.newHelp},
		{Name: cmdExit, Description: "Leave the shell"},
		{Name: cmdQuit, Description: "Leave the shell"},
	} {
		if !hasCommand(s.commands, builtin.Name) {
			all = append(all, builtin)
		}
	}

	schema, err := argset.NewSchema(s.opts)
	if err != nil {
		return nil, err
	}
	s.command = argset.Positional("command", 0, argset.CommandVar(&s.selected, all...)).
		Required().
		Description("Command to run")
	descs := append([]*argset.Descriptor{s.command}, s.globals...)
	if err := schema.AddArguments(descs...); err != nil {
		return nil, err
	}
	s.schema = schema

	editorOpts := []lineedit.EditorOption{
		lineedit.WithPrompt(s.prompt),
		lineedit.WithPromptColor(s.promptColor),
		lineedit.WithHistory(s.history),
		lineedit.WithCompleter(argset.TokenCompleter{Schema: schema}),
	}
	s.editor = lineedit.NewEditor(console, console, append(editorOpts, s.editorOpts...)...)
	return s, nil
}

// Loop builds a shell over console and runs it until exit, quit or the end
// of input.
func Loop(ctx context.Context, console lineedit.Console, commands []argset.CommandSpec, opts ...Option) error {
	shell, err := New(console, commands, opts...)
	if err != nil {
		return err
	}
	return shell.Run(ctx)
}

func hasCommand(cmds []argset.CommandSpec, name string) bool {
	for _, c := range cmds {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (s *Shell) Schema() *argset.Schema     { return s.schema }
func (s *Shell) History() *lineedit.History { return s.history }
func (s *Shell) Editor() *lineedit.Editor   { return s.editor }

// Run reads and executes lines until exit or quit, the end of input, or
// ctx is done. Command failures are reported and do not stop the loop.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.editor.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.history.Add(line)

		exit, err := s.Execute(ctx, line)
		if err != nil {
			s.report(err)
		}
		if exit {
			return nil
		}
	}
}

// Execute parses and runs one line. exit is true for the exit and quit
// commands.
func (s *Shell) Execute(ctx context.Context, line string) (exit bool, err error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return false, fmt.Errorf("cannot split line: %w", err)
	}
	if len(words) == 0 {
		return false, nil
	}

	s.selected = nil
	parser := argset.NewParser(s.schema, argset.WithLogger(s.logger))
	if err := parser.Parse(words).Err(); err != nil {
		return false, err
	}

	switch v := s.selected.(type) {
	case *helpCommand:
		s.help(v.topics)
		return false, nil
	case string:
		if v == cmdExit || v == cmdQuit {
			return true, nil
		}
		return false, fmt.Errorf("command %q cannot run", v)
	case Runnable:
		name := s.commandName()
		mctx := middleware.NewContext(ctx, name, words)
		mctx.Set(CommandKey, v)
		return false, s.chain.Apply(func(c middleware.Context) error {
			return v.Run(c)
		})(mctx)
	default:
		return false, fmt.Errorf("command %q cannot run", s.commandName())
	}
}

func (s *Shell) commandName() string {
	tokens, err := s.schema.Format(s.command, s.selected)
	if err != nil || len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

func (s *Shell) report(err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		s.logger.Error("%s", line)
	}
}

// helpCommand takes the names of the commands to describe.
type helpCommand struct {
	opts   argset.Options
	names  []string
	topics []string
}

func (s *Shell) newHelp() any {
	names := make([]string, len(s.commands))
	for i, c := range s.commands {
		names[i] = c.Name
	}
	return &helpCommand{opts: s.opts, names: names}
}

func (h *helpCommand) ArgumentSchema() (*argset.Schema, error) {
	schema, err := argset.NewSchema(h.opts)
	if err != nil {
		return nil, err
	}
	err = schema.AddArguments(
		argset.Positional("topics", 0, argset.SliceVar(&h.topics, argset.Enum(h.names...))).
			AllowMultiple().
			Description("Commands to describe"),
	)
	return schema, err
}

// help writes the command list, or the syntax of the named commands.
func (s *Shell) help(names []string) {
	if len(names) == 0 {
		cmds := append([]argset.CommandSpec(nil), s.commands...)
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
		width := 0
		for _, c := range cmds {
			width = max(width, len(c.Name))
		}
		for _, c := range cmds {
			s.writeColored(snapio.Cyan, fmt.Sprintf("  %-*s", width, c.Name))
			s.console.Write("  " + c.Description + "\n")
		}
		if syntax := s.schema.Syntax(); syntax != "" {
			s.console.Write("\nusage: " + syntax + "\n")
		}
		return
	}

	for _, name := range names {
		spec, ok := s.lookup(name)
		if !ok {
			continue
		}
		s.writeColored(snapio.Cyan, spec.Name)
		if syntax := commandSyntax(spec); syntax != "" {
			s.console.Write(" " + syntax)
		}
		s.console.Write("\n")
		if spec.Description != "" {
			s.console.Write("  " + spec.Description + "\n")
		}
	}
}

func (s *Shell) lookup(name string) (argset.CommandSpec, bool) {
	for _, c := range s.commands {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return argset.CommandSpec{}, false
}

func commandSyntax(spec argset.CommandSpec) string {
	if spec.New == nil {
		return ""
	}
	provider, ok := spec.New().(argset.ArgumentProvider)
	if !ok {
		return ""
	}
	schema, err := provider.ArgumentSchema()
	if err != nil {
		return ""
	}
	return schema.Syntax()
}

func (s *Shell) writeColored(c snapio.ColorSpec, text string) {
	fg := s.console.Foreground()
	s.console.SetForeground(c)
	s.console.Write(text)
	s.console.SetForeground(fg)
}
