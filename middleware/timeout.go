package middleware

import (
	"context"
	"errors"
	"time"
)

// Timeout bounds the action's run time. The action sees a Context whose
// deadline is duration away; if it has not returned by then Timeout returns
// a *TimeoutError without waiting for it. Cancellation of the parent
// context is returned as the parent's error.
func Timeout(duration time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			timeoutCtx, cancel := context.WithTimeout(ctx, duration)
			defer cancel()

			resultChan := make(chan error, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						resultChan <- &RecoveryError{
							Panic:   r,
							Command: commandName(ctx),
						}
					}
				}()
				resultChan <- next(scoped{Context: timeoutCtx, outer: ctx})
			}()

			select {
			case err := <-resultChan:
				return err
			case <-timeoutCtx.Done():
				if err := ctx.Err(); err != nil {
					return err
				}
				return &TimeoutError{
					Duration: duration,
					Command:  commandName(ctx),
				}
			}
		}
	}
}

// TimeoutWithDefault applies the DefaultTimeout of the configuration.
func TimeoutWithDefault(options ...MiddlewareOption) Middleware {
	return Timeout(newConfig(options).DefaultTimeout)
}

// TimeoutPerCommand picks the timeout by command name, falling back to
// defaultTimeout.
func TimeoutPerCommand(commandTimeouts map[string]time.Duration, defaultTimeout time.Duration) Middleware {
	return DynamicTimeout(func(ctx Context) time.Duration {
		if timeout, ok := commandTimeouts[ctx.Command()]; ok {
			return timeout
		}
		return defaultTimeout
	})
}

// DynamicTimeout computes the timeout from the Context. A duration <= 0
// runs the action without one.
func DynamicTimeout(timeoutFunc func(ctx Context) time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			duration := timeoutFunc(ctx)
			if duration <= 0 {
				return next(ctx)
			}
			return Timeout(duration)(next)(ctx)
		}
	}
}

// TimeoutWithRetry runs the action up to maxRetries more times while it
// keeps timing out. Other errors are returned immediately.
func TimeoutWithRetry(duration time.Duration, maxRetries int) Middleware {
	return func(next ActionFunc) ActionFunc {
		bounded := Timeout(duration)(next)
		return func(ctx Context) error {
			var err error
			for attempt := 0; attempt <= maxRetries; attempt++ {
				err = bounded(ctx)
				var tErr *TimeoutError
				if !errors.As(err, &tErr) {
					return err
				}
			}
			return err
		}
	}
}
