package middleware

import (
	"fmt"
	"runtime"
)

// Recovery converts a panic in the action into a *RecoveryError. With
// stack traces enabled the panic and stack are reported through the
// configured Logger, or Output.
func Recovery(options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				recoveryErr := &RecoveryError{
					Panic:   r,
					Command: commandName(ctx),
					Stack:   captureStack(config),
				}
				if config.PrintStack && len(recoveryErr.Stack) > 0 {
					reportPanic(config, recoveryErr)
				}
				err = recoveryErr
			}()

			return next(ctx)
		}
	}
}

// RecoveryWithHandler lets handler turn a recovered panic into the error
// the action returns.
func RecoveryWithHandler(
	handler func(panicVal any, command string, stack []byte) error,
	options ...MiddlewareOption,
) Middleware {
	config := newConfig(options)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = handler(r, commandName(ctx), captureStack(config))
				}
			}()

			return next(ctx)
		}
	}
}

// RecoveryToError recovers without reporting anything.
func RecoveryToError() Middleware {
	return Recovery(WithStackTrace(false))
}

func captureStack(config *MiddlewareConfig) []byte {
	if !config.PrintStack || config.StackSize <= 0 {
		return nil
	}
	stack := make([]byte, config.StackSize)
	return stack[:runtime.Stack(stack, false)]
}

func reportPanic(config *MiddlewareConfig, e *RecoveryError) {
	if config.Logger != nil {
		config.Logger.Error("panic in command '%s': %v\n%s", e.Command, e.Panic, e.Stack)
		return
	}
	if config.Output != nil {
		fmt.Fprintf(config.Output, "PANIC in command '%s': %v\nStack trace:\n%s\n", e.Command, e.Panic, e.Stack)
	}
}
