package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dzonerzy/go-argline/argset"
)

// ValidatorFunc checks a command before it runs. Argument-level rules
// (required, conflicts, value types) belong in the argset schema; validators
// cover checks that need runtime state, such as the file system.
type ValidatorFunc func(ctx Context) error

// ValidationError reports a failed validator.
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// NamedValidator associates a name with a ValidatorFunc for error reporting.
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom names fn.
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// Validate runs validators in order before the action and stops at the
// first failure. Errors that are not already a *ValidationError are wrapped
// in one carrying the validator's name.
//
// Example:
//
//	chain := middleware.Chain(middleware.Validate(
//	    middleware.Custom("args", middleware.ArgCount(1, 3)),
//	    middleware.File(argset.OSFileSystem{}, inputs),
//	))
func Validate(validators ...NamedValidator) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			for _, v := range validators {
				if v.Fn == nil {
					continue
				}
				if err := v.Fn(ctx); err != nil {
					var validationErr *ValidationError
					if errors.As(err, &validationErr) {
						return validationErr
					}
					return &ValidationError{
						Field:   v.Name,
						Message: "validation failed",
						Cause:   err,
					}
				}
			}
			return next(ctx)
		}
	}
}

// ArgCount requires between minArgs and maxArgs tokens; a negative maxArgs
// means no upper bound.
func ArgCount(minArgs, maxArgs int) ValidatorFunc {
	return func(ctx Context) error {
		n := len(ctx.Args())
		if n < minArgs || (maxArgs >= 0 && n > maxArgs) {
			return &ValidationError{
				Field:   "args",
				Value:   n,
				Message: fmt.Sprintf("command '%s' takes %s arguments, got %d", commandName(ctx), countRange(minArgs, maxArgs), n),
			}
		}
		return nil
	}
}

func countRange(minArgs, maxArgs int) string {
	switch {
	case maxArgs < 0:
		return fmt.Sprintf("at least %d", minArgs)
	case minArgs == maxArgs:
		return fmt.Sprint(minArgs)
	default:
		return fmt.Sprintf("%d to %d", minArgs, maxArgs)
	}
}

// RequireKeys fails unless every key was stored in the Context with Set.
func RequireKeys(keys ...string) ValidatorFunc {
	return func(ctx Context) error {
		var missing []string
		for _, key := range keys {
			if ctx.Get(key) == nil {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			return &ValidationError{
				Field:   strings.Join(missing, ", "),
				Message: "missing required values: " + strings.Join(missing, ", "),
			}
		}
		return nil
	}
}

// File validates that every path returned by paths is an existing file.
func File(fsys argset.FileSystemReader, paths func(ctx Context) []string) NamedValidator {
	return NamedValidator{Name: "file_exists", Fn: pathsExist(fsys, paths, "file", argset.FileSystemReader.FileExists)}
}

// Dir validates that every path returned by paths is an existing directory.
func Dir(fsys argset.FileSystemReader, paths func(ctx Context) []string) NamedValidator {
	return NamedValidator{Name: "directory_exists", Fn: pathsExist(fsys, paths, "directory", argset.FileSystemReader.DirectoryExists)}
}

func pathsExist(fsys argset.FileSystemReader, paths func(ctx Context) []string, what string, exists func(argset.FileSystemReader, string) bool) ValidatorFunc {
	return func(ctx Context) error {
		if fsys == nil || paths == nil {
			return nil
		}
		for _, path := range paths(ctx) {
			if path != "" && !exists(fsys, path) {
				return &ValidationError{
					Field:   what,
					Value:   path,
					Message: fmt.Sprintf("%s '%s' does not exist", what, path),
				}
			}
		}
		return nil
	}
}
