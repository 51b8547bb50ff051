package snapio

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat defines the output format for log messages
type LogFormat int

const (
	LogFormatCircles LogFormat = iota // 🟣 🔵 🟢 🟡 🔴
	LogFormatSymbols                  // ● ◆ ✓ ▲ ✗
	LogFormatTagged                   // [DEBUG] [INFO] [SUCCESS] [WARN] [ERROR]
	LogFormatPlain                    // No prefix
	LogFormatCustom                   // User-defined template
)

var formatPrefixes = map[LogFormat][5]string{
	LogFormatCircles: {"🟣", "🔵", "🟢", "🟡", "🔴"},
	LogFormatSymbols: {"●", "◆", "✓", "▲", "✗"},
	LogFormatTagged:  {"[DEBUG]", "[INFO]", "[SUCCESS]", "[WARN]", "[ERROR]"},
}

func prefixesFor(format LogFormat) map[LogLevel]string {
	out := make(map[LogLevel]string, 5)
	if p, ok := formatPrefixes[format]; ok {
		for i, s := range p {
			out[LogLevel(i)] = s
		}
	}
	return out
}

// Rotation configures the rotating file sink. Sizes are in megabytes and
// ages in days; zero values keep lumberjack's defaults.
type Rotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// DefaultRotation keeps five 128 MB files for at most 16 days.
func DefaultRotation() Rotation {
	return Rotation{MaxSize: 128, MaxBackups: 5, MaxAge: 16}
}

// Logger provides leveled logging with semantic colors and customizable formatting
type Logger struct {
	io           *IOManager
	format       LogFormat
	template     string
	prefixes     map[LogLevel]string
	minLevel     LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool
	theme        Theme
	file         *lumberjack.Logger
}

// NewLogger creates a new logger bound to the given IOManager
func NewLogger(io *IOManager) *Logger {
	return &Logger{
		io:           io,
		format:       LogFormatCircles,
		errorsStderr: true,
		timeFormat:   "15:04:05",
		theme:        DefaultTheme(io),
		prefixes:     prefixesFor(LogFormatCircles),
		minLevel:     LevelInfo,
	}
}

// WithFormat sets the log format and returns the logger for chaining
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	if format != LogFormatCustom {
		l.prefixes = prefixesFor(format)
	}
	return l
}

// WithTemplate sets a custom template for LogFormatCustom
// Template variables: {{.Level}}, {{.Time}}, {{.Message}}, {{.Prefix}}
func (l *Logger) WithTemplate(template string) *Logger {
	l.template = template
	l.format = LogFormatCustom
	return l
}

// SetPrefix sets a custom prefix for a specific log level
func (l *Logger) SetPrefix(level LogLevel, prefix string) *Logger {
	l.prefixes[level] = prefix
	return l
}

// WithLevel drops messages below level. The default is LevelInfo.
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.minLevel = level
	return l
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level LogLevel) bool { return level >= l.minLevel }

// WithTimestamp enables or disables timestamp in log output
func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// WithTimeFormat sets the time format (Go time format string)
func (l *Logger) WithTimeFormat(format string) *Logger {
	l.timeFormat = format
	return l
}

// ErrorsToStderr controls whether errors and warnings go to stderr
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

// WithTheme sets a custom theme for semantic colors
func (l *Logger) WithTheme(theme Theme) *Logger {
	l.theme = theme
	return l
}

// WithFile also writes every message to a size-rotated file. File lines are
// never colored and always carry a full timestamp and level tag.
func (l *Logger) WithFile(path string, rotation Rotation) *Logger {
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotation.MaxSize,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAge,
		Compress:   rotation.Compress,
	}
	return l
}

// Close closes the file sink, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Log outputs a log message at the specified level
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(l.selectWriter(level), l.formatMessage(level, msg))

	if l.file != nil {
		fmt.Fprintf(l.file, "%s %-7s %s\n", time.Now().Format("2006-01-02 15:04:05"), level, msg)
	}
}

func (l *Logger) formatMessage(level LogLevel, msg string) string {
	if l.format == LogFormatCustom && l.template != "" {
		return l.formatCustomTemplate(level, msg)
	}

	// Blank messages are printed as-is, without prefix or color.
	if strings.TrimSpace(msg) == "" {
		return msg
	}

	parts := make([]string, 0, 3)
	if prefix := l.prefixes[level]; prefix != "" && l.format != LogFormatPlain {
		parts = append(parts, prefix)
	}
	if l.withTime {
		ts := time.Now().Format(l.timeFormat)
		if l.format != LogFormatPlain {
			ts = "[" + ts + "]"
		}
		parts = append(parts, ts)
	}
	parts = append(parts, msg)
	return l.colorizeByLevel(level, strings.Join(parts, " "))
}

func (l *Logger) formatCustomTemplate(level LogLevel, msg string) string {
	r := strings.NewReplacer(
		"{{.Level}}", level.String(),
		"{{.Message}}", msg,
		"{{.Prefix}}", l.prefixes[level],
		"{{.Time}}", time.Now().Format(l.timeFormat),
	)
	return l.colorizeByLevel(level, r.Replace(l.template))
}

func (l *Logger) colorizeByLevel(level LogLevel, text string) string {
	var color ColorSpec
	switch level {
	case LevelDebug:
		color = l.theme.Debug
	case LevelInfo:
		color = l.theme.Info
	case LevelSuccess:
		color = l.theme.Success
	case LevelWarning:
		color = l.theme.Warning
	case LevelError:
		color = l.theme.Error
	default:
		return text
	}
	return NewStyle().Fg(color).Sprint(l.io, text)
}

// selectWriter chooses stdout or stderr based on log level and configuration
func (l *Logger) selectWriter(level LogLevel) io.Writer {
	if l.errorsStderr && (level == LevelError || level == LevelWarning) {
		return l.io.Err()
	}
	return l.io.Out()
}

// Debug logs a debug message. Debug output is off unless WithLevel(LevelDebug).
func (l *Logger) Debug(format string, args ...any) {
	l.Log(LevelDebug, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) {
	l.Log(LevelInfo, format, args...)
}

// Success logs a success message
func (l *Logger) Success(format string, args ...any) {
	l.Log(LevelSuccess, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...any) {
	l.Log(LevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.Log(LevelError, format, args...)
}
