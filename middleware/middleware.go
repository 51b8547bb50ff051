// Package middleware wraps command actions with cross-cutting behavior:
// logging, panic recovery, timeouts and pre-run validation.
package middleware

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	snapio "github.com/dzonerzy/go-argline/io"
)

// Context describes the command being run. It is a context.Context, so
// actions observe cancellation and deadlines through Done and Err.
type Context interface {
	context.Context

	// Command returns the name of the selected command.
	Command() string

	// Args returns the tokens the command was parsed from. The returned
	// slice should be treated as read-only.
	Args() []string

	// Set stores a value for later middleware or the action. Keys should be
	// namespaced to avoid collisions (e.g., "logger.request_id").
	Set(key string, value any)

	// Get returns a value stored with Set, or nil.
	Get(key string) any
}

type metadata struct {
	mu     sync.Mutex
	values map[string]any
}

type commandContext struct {
	context.Context
	command string
	args    []string
	meta    *metadata
}

// NewContext returns a Context for running command, derived from parent.
func NewContext(parent context.Context, command string, args []string) Context {
	if parent == nil {
		parent = context.Background()
	}
	return &commandContext{
		Context: parent,
		command: command,
		args:    args,
		meta:    &metadata{values: make(map[string]any)},
	}
}

func (c *commandContext) Command() string { return c.command }
func (c *commandContext) Args() []string  { return c.args }

func (c *commandContext) Set(key string, value any) {
	c.meta.mu.Lock()
	defer c.meta.mu.Unlock()
	c.meta.values[key] = value
}

func (c *commandContext) Get(key string) any {
	c.meta.mu.Lock()
	defer c.meta.mu.Unlock()
	return c.meta.values[key]
}

// scoped gives ctx a new cancellation scope while keeping its command data.
type scoped struct {
	context.Context
	outer Context
}

func (s scoped) Command() string           { return s.outer.Command() }
func (s scoped) Args() []string            { return s.outer.Args() }
func (s scoped) Set(key string, value any) { s.outer.Set(key, value) }
func (s scoped) Get(key string) any        { return s.outer.Get(key) }

// ActionFunc runs a command.
type ActionFunc func(ctx Context) error

// Middleware decorates an ActionFunc.
type Middleware func(next ActionFunc) ActionFunc

// MiddlewareChain is an ordered list of middleware; the first one is the
// outermost.
type MiddlewareChain []Middleware

// Apply wraps action with every middleware of the chain.
func (chain MiddlewareChain) Apply(action ActionFunc) ActionFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		action = chain[i](action)
	}
	return action
}

// Use returns a new chain with middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	out := make(MiddlewareChain, 0, len(chain)+len(middleware))
	return append(append(out, chain...), middleware...)
}

// Chain creates a chain from middleware, preserving order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// TimeoutError is returned when a command runs past its deadline.
type TimeoutError struct {
	Duration time.Duration
	Command  string
}

func (e *TimeoutError) Error() string {
	return "command '" + e.Command + "' timed out after " + e.Duration.String()
}

// RecoveryError is returned in place of a panic.
type RecoveryError struct {
	Panic   any
	Command string
	Stack   []byte
}

func (e *RecoveryError) Error() string {
	return "command '" + e.Command + "' panicked: " + toString(e.Panic)
}

// Unwrap exposes a panic value that was itself an error.
func (e *RecoveryError) Unwrap() error {
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}

// MiddlewareConfig holds the settings shared by the built-in middleware.
type MiddlewareConfig struct {
	LogLevel       LogLevel
	LogFormat      LogFormat
	Logger         *snapio.Logger
	Output         io.Writer
	IncludeArgs    bool
	PrintStack     bool
	StackSize      int
	DefaultTimeout time.Duration
}

// LogLevel selects which command events the Logger middleware records.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

// LogFormat selects the line format used when writing to Output.
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

type MiddlewareOption func(config *MiddlewareConfig)

func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogLevel:       LogLevelInfo,
		LogFormat:      LogFormatText,
		Output:         os.Stderr,
		IncludeArgs:    true,
		PrintStack:     true,
		StackSize:      4096,
		DefaultTimeout: 30 * time.Second,
	}
}

func newConfig(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

func WithLogLevel(level LogLevel) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.LogLevel = level }
}

func WithLogFormat(format LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.LogFormat = format }
}

// WithLogger routes middleware output through l instead of Output.
func WithLogger(l *snapio.Logger) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.Logger = l }
}

// WithOutput sets the writer used when no Logger is configured. A nil
// writer silences output.
func WithOutput(w io.Writer) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.Output = w }
}

func WithArgs(include bool) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.IncludeArgs = include }
}

func WithTimeout(timeout time.Duration) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.DefaultTimeout = timeout }
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.PrintStack = enabled }
}

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func commandName(ctx Context) string {
	if name := ctx.Command(); name != "" {
		return name
	}
	return "unknown"
}
