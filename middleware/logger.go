package middleware

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/dzonerzy/go-argline/internal/pool"
)

// RequestInfo describes one command execution.
type RequestInfo struct {
	Command   string
	Args      []string
	StartTime time.Time
	Duration  time.Duration
	Error     error
}

var requestInfoPool = pool.NewPoolWithReset(
	func() *RequestInfo {
		return &RequestInfo{Args: make([]string, 0, 8)}
	},
	func(info *RequestInfo) {
		info.Command = ""
		info.Args = info.Args[:0]
		info.StartTime = time.Time{}
		info.Duration = 0
		info.Error = nil
	},
)

const (
	eventStart   = "START"
	eventSuccess = "SUCCESS"
	eventError   = "ERROR"
)

// Logger records each command's outcome and duration. With a snapio Logger
// configured the record goes through it at the matching level; otherwise it
// is written to Output as text or JSON.
func Logger(options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			if config.LogLevel == LogLevelNone {
				return next(ctx)
			}

			info := requestInfoPool.Get()
			defer requestInfoPool.Put(info)

			info.Command = commandName(ctx)
			info.Args = append(info.Args, ctx.Args()...)
			info.StartTime = time.Now()

			logRequest(config, info, eventStart)

			err := next(ctx)

			info.Duration = time.Since(info.StartTime)
			info.Error = err
			if err != nil {
				logRequest(config, info, eventError)
			} else {
				logRequest(config, info, eventSuccess)
			}
			return err
		}
	}
}

func shouldLog(configLevel LogLevel, event string) bool {
	switch event {
	case eventError:
		return configLevel >= LogLevelError
	case eventStart:
		return configLevel >= LogLevelDebug
	default:
		return configLevel >= LogLevelInfo
	}
}

func logRequest(config *MiddlewareConfig, info *RequestInfo, event string) {
	if !shouldLog(config.LogLevel, event) {
		return
	}

	if l := config.Logger; l != nil {
		buf := pool.GetBuffer(256)
		defer pool.PutBuffer(buf)
		*buf = appendFields(*buf, info, config.IncludeArgs)
		switch event {
		case eventStart:
			l.Debug("%s", *buf)
		case eventError:
			l.Error("%s", *buf)
		default:
			l.Success("%s", *buf)
		}
		return
	}

	if config.Output == nil {
		return
	}
	switch config.LogFormat {
	case LogFormatJSON:
		writeJSONLog(config.Output, info, event, config.IncludeArgs)
	default:
		writeTextLog(config.Output, info, event, config.IncludeArgs)
	}
}

// appendFields appends the key=value description of info.
func appendFields(buf []byte, info *RequestInfo, includeArgs bool) []byte {
	buf = append(buf, "command="...)
	buf = append(buf, info.Command...)

	if info.Duration > 0 {
		buf = append(buf, " duration="...)
		buf = append(buf, info.Duration.String()...)
	}

	if includeArgs && len(info.Args) > 0 {
		buf = append(buf, " args="...)
		for i, arg := range info.Args {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, arg...)
		}
	}

	if info.Error != nil {
		buf = append(buf, " error="...)
		buf = strconv.AppendQuote(buf, info.Error.Error())
	}
	return buf
}

func writeTextLog(w io.Writer, info *RequestInfo, event string, includeArgs bool) {
	buf := pool.GetBuffer(256)
	defer pool.PutBuffer(buf)

	*buf = append(*buf, '[')
	*buf = info.StartTime.AppendFormat(*buf, "2006-01-02 15:04:05")
	*buf = append(*buf, "] "...)
	*buf = append(*buf, event...)
	*buf = append(*buf, ' ')
	*buf = appendFields(*buf, info, includeArgs)
	*buf = append(*buf, '\n')

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	w.Write(*buf)
}

func writeJSONLog(w io.Writer, info *RequestInfo, event string, includeArgs bool) {
	buf := pool.GetBuffer(512)
	defer pool.PutBuffer(buf)

	*buf = append(*buf, `{"timestamp":"`...)
	*buf = info.StartTime.AppendFormat(*buf, time.RFC3339)
	*buf = append(*buf, `","level":"`...)
	*buf = append(*buf, event...)
	*buf = append(*buf, `","command":`...)
	*buf = appendJSONString(*buf, info.Command)

	if info.Duration > 0 {
		*buf = append(*buf, `,"duration_ms":`...)
		*buf = strconv.AppendInt(*buf, info.Duration.Milliseconds(), 10)
	}

	if includeArgs && len(info.Args) > 0 {
		*buf = append(*buf, `,"args":[`...)
		for i, arg := range info.Args {
			if i > 0 {
				*buf = append(*buf, ',')
			}
			*buf = appendJSONString(*buf, arg)
		}
		*buf = append(*buf, ']')
	}

	if info.Error != nil {
		*buf = append(*buf, `,"error":`...)
		*buf = appendJSONString(*buf, info.Error.Error())
	}

	*buf = append(*buf, "}\n"...)

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	w.Write(*buf)
}

func appendJSONString(buf []byte, s string) []byte {
	enc, _ := json.Marshal(s)
	return append(buf, enc...)
}

// SilentLogger discards every record.
func SilentLogger() Middleware {
	return Logger(WithLogLevel(LogLevelNone))
}
