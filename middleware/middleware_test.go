package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dzonerzy/go-argline/argset"
	snapio "github.com/dzonerzy/go-argline/io"
)

func newTestContext(args ...string) Context {
	return NewContext(context.Background(), "test", args)
}

func successAction(ctx Context) error { return nil }
func errorAction(ctx Context) error   { return errors.New("test error") }
func panicAction(ctx Context) error   { panic("test panic") }

// blockingAction waits for its context to end and reports how it ended.
func blockingAction(ctx Context) error {
	<-ctx.Done()
	ctx.Set("blocking.err", ctx.Err())
	return ctx.Err()
}

func TestMiddlewareChain(t *testing.T) {
	var order []string
	trace := func(name string) Middleware {
		return func(next ActionFunc) ActionFunc {
			return func(ctx Context) error {
				order = append(order, name+":before")
				err := next(ctx)
				order = append(order, name+":after")
				return err
			}
		}
	}

	chain := Chain(trace("a")).Use(trace("b"), trace("c"))
	err := chain.Apply(func(ctx Context) error {
		order = append(order, "action")
		return nil
	})(newTestContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "a:before b:before c:before action c:after b:after a:after"
	if got := strings.Join(order, " "); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	base := Chain(trace("x"))
	extended := base.Use(trace("y"))
	if len(base) != 1 || len(extended) != 2 {
		t.Errorf("Use must not modify the receiver: %d, %d", len(base), len(extended))
	}
}

func TestContextMetadata(t *testing.T) {
	ctx := NewContext(nil, "deploy", []string{"prod", "--force"})
	if ctx.Command() != "deploy" {
		t.Errorf("expected command deploy, got %q", ctx.Command())
	}
	if got := strings.Join(ctx.Args(), " "); got != "prod --force" {
		t.Errorf("unexpected args %q", got)
	}
	if ctx.Get("missing") != nil {
		t.Error("expected nil for an unset key")
	}
	ctx.Set("k", 42)
	if ctx.Get("k") != 42 {
		t.Errorf("expected 42, got %v", ctx.Get("k"))
	}
	if ctx.Err() != nil {
		t.Errorf("a background-derived context must not be done: %v", ctx.Err())
	}
	if NewContext(nil, "", nil).Command() != "" {
		t.Error("expected an empty command name")
	}
}

func TestLoggerText(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		action  ActionFunc
		args    bool
		want    []string
		missing []string
	}{
		{
			name:   "success with args",
			level:  LogLevelInfo,
			action: successAction,
			args:   true,
			want:   []string{"SUCCESS command=test", "args=a b"},
		},
		{
			name:    "error",
			level:   LogLevelError,
			action:  errorAction,
			args:    false,
			want:    []string{"ERROR command=test", `error="test error"`},
			missing: []string{"args="},
		},
		{
			name:    "error level hides success",
			level:   LogLevelError,
			action:  successAction,
			missing: []string{"SUCCESS"},
		},
		{
			name:   "debug adds start",
			level:  LogLevelDebug,
			action: successAction,
			want:   []string{"START command=test", "SUCCESS command=test"},
		},
		{
			name:    "none",
			level:   LogLevelNone,
			action:  errorAction,
			missing: []string{"command="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mw := Logger(WithOutput(&buf), WithLogLevel(tt.level), WithArgs(tt.args))
			_ = mw(tt.action)(newTestContext("a", "b"))

			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("expected %q in output: %s", s, out)
				}
			}
			for _, s := range tt.missing {
				if strings.Contains(out, s) {
					t.Errorf("did not expect %q in output: %s", s, out)
				}
			}
		})
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	mw := Logger(WithOutput(&buf), WithLogFormat(LogFormatJSON))

	err := mw(errorAction)(newTestContext(`a "quoted"`, "line1\nline2"))
	if err == nil {
		t.Fatal("expected the action error to pass through")
	}

	var entry struct {
		Level   string   `json:"level"`
		Command string   `json:"command"`
		Args    []string `json:"args"`
		Error   string   `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not one JSON object: %v\n%s", err, buf.String())
	}
	if entry.Level != "ERROR" || entry.Command != "test" || entry.Error != "test error" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if len(entry.Args) != 2 || entry.Args[0] != `a "quoted"` || entry.Args[1] != "line1\nline2" {
		t.Errorf("args were not escaped correctly: %q", entry.Args)
	}
}

func TestLoggerThroughSnapLogger(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := snapio.NewLogger(snapio.New().WithOut(&out).WithErr(&errOut).NoColor()).
		WithFormat(snapio.LogFormatTagged).
		ErrorsToStderr(true)

	var fallback bytes.Buffer
	mw := Logger(WithLogger(logger), WithOutput(&fallback))

	_ = mw(successAction)(newTestContext())
	_ = mw(errorAction)(newTestContext())

	if !strings.Contains(out.String(), "[SUCCESS] command=test") {
		t.Errorf("expected a success record on stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), `[ERROR] command=test`) {
		t.Errorf("expected an error record on stderr, got %q", errOut.String())
	}
	if fallback.Len() != 0 {
		t.Errorf("output writer must not be used with a logger: %q", fallback.String())
	}
}

func TestSilentLogger(t *testing.T) {
	if err := SilentLogger()(errorAction)(newTestContext()); err == nil {
		t.Error("expected the action error")
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	err := Recovery(WithOutput(&buf))(panicAction)(newTestContext())

	var recoveryErr *RecoveryError
	if !errors.As(err, &recoveryErr) {
		t.Fatalf("expected *RecoveryError, got %T", err)
	}
	if recoveryErr.Panic != "test panic" || recoveryErr.Command != "test" {
		t.Errorf("unexpected recovery error %+v", recoveryErr)
	}
	if !strings.Contains(string(recoveryErr.Stack), "panicAction") {
		t.Errorf("expected the stack to name the panicking function:\n%s", recoveryErr.Stack)
	}
	if !strings.Contains(buf.String(), "PANIC in command 'test': test panic") {
		t.Errorf("expected the panic to be reported, got %q", buf.String())
	}
	if err.Error() != "command 'test' panicked: test panic" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestRecoveryToError(t *testing.T) {
	sentinel := errors.New("boom")
	err := RecoveryToError()(func(Context) error { panic(sentinel) })(newTestContext())

	if !errors.Is(err, sentinel) {
		t.Errorf("expected the panicked error to unwrap, got %v", err)
	}
	var recoveryErr *RecoveryError
	if errors.As(err, &recoveryErr) && len(recoveryErr.Stack) != 0 {
		t.Error("expected no stack capture")
	}
}

func TestRecoveryWithHandler(t *testing.T) {
	handled := errors.New("handled")
	var gotCommand string
	mw := RecoveryWithHandler(func(panicVal any, command string, stack []byte) error {
		gotCommand = command
		return handled
	})

	if err := mw(panicAction)(newTestContext()); err != handled {
		t.Errorf("expected handler error, got %v", err)
	}
	if gotCommand != "test" {
		t.Errorf("expected command test, got %q", gotCommand)
	}
	if err := mw(successAction)(newTestContext()); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestTimeout(t *testing.T) {
	ctx := newTestContext()
	err := Timeout(20 * time.Millisecond)(blockingAction)(ctx)

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected *TimeoutError, got %T: %v", err, err)
	}
	if timeoutErr.Duration != 20*time.Millisecond || timeoutErr.Command != "test" {
		t.Errorf("unexpected timeout error %+v", timeoutErr)
	}
	if ctx.Err() != nil {
		t.Error("the caller's context must not be cancelled by the timeout")
	}
}

func TestTimeoutSharesMetadata(t *testing.T) {
	ctx := newTestContext()
	ctx.Set("before", true)

	err := Timeout(time.Second)(func(inner Context) error {
		if _, ok := inner.Deadline(); !ok {
			t.Error("expected the action context to carry a deadline")
		}
		if inner.Get("before") != true {
			t.Error("expected metadata set outside to be visible")
		}
		inner.Set("after", true)
		return nil
	})(ctx)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if ctx.Get("after") != true {
		t.Error("expected metadata set inside to be visible outside")
	}
}

func TestTimeoutParentCancelled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx := NewContext(parent, "test", nil)
	cancel()

	err := Timeout(time.Second)(blockingAction)(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTimeoutRecoversPanics(t *testing.T) {
	err := Timeout(time.Second)(panicAction)(newTestContext())
	var recoveryErr *RecoveryError
	if !errors.As(err, &recoveryErr) {
		t.Errorf("expected *RecoveryError, got %T", err)
	}
}

func TestTimeoutVariants(t *testing.T) {
	perCommand := TimeoutPerCommand(map[string]time.Duration{"test": 10 * time.Millisecond}, time.Hour)
	var timeoutErr *TimeoutError
	if err := perCommand(blockingAction)(newTestContext()); !errors.As(err, &timeoutErr) || timeoutErr.Duration != 10*time.Millisecond {
		t.Errorf("expected the per-command timeout, got %v", err)
	}

	unbounded := DynamicTimeout(func(Context) time.Duration { return 0 })
	err := unbounded(func(ctx Context) error {
		if _, ok := ctx.Deadline(); ok {
			t.Error("expected no deadline")
		}
		return nil
	})(newTestContext())
	if err != nil {
		t.Errorf("unexpected error %v", err)
	}

	if err := TimeoutWithDefault(WithTimeout(10*time.Millisecond))(blockingAction)(newTestContext()); !errors.As(err, &timeoutErr) {
		t.Errorf("expected a timeout, got %v", err)
	}

	retry := TimeoutWithRetry(10*time.Millisecond, 2)
	if err := retry(blockingAction)(newTestContext()); !errors.As(err, &timeoutErr) {
		t.Errorf("expected a timeout after retries, got %v", err)
	}

	attempts := 0
	err = retry(func(ctx Context) error {
		attempts++
		return errors.New("fatal")
	})(newTestContext())
	if err == nil || attempts != 1 {
		t.Errorf("expected one attempt for a non-timeout error, got %d (%v)", attempts, err)
	}
}

func TestValidate(t *testing.T) {
	fsys := argset.FS{FS: fstest.MapFS{
		"data/input.txt": {Data: []byte("x")},
	}}
	paths := func(ctx Context) []string { return ctx.Args() }

	tests := []struct {
		name   string
		mw     Middleware
		args   []string
		field  string
		passes bool
	}{
		{"arg count ok", Validate(Custom("count", ArgCount(1, 2))), []string{"a"}, "", true},
		{"too many args", Validate(Custom("count", ArgCount(1, 2))), []string{"a", "b", "c"}, "args", false},
		{"unbounded", Validate(Custom("count", ArgCount(1, -1))), []string{"a", "b", "c"}, "", true},
		{"file exists", Validate(File(fsys, paths)), []string{"data/input.txt"}, "", true},
		{"file missing", Validate(File(fsys, paths)), []string{"data/other.txt"}, "file", false},
		{"file is a directory", Validate(File(fsys, paths)), []string{"data"}, "file", false},
		{"dir exists", Validate(Dir(fsys, paths)), []string{"data"}, "", true},
		{"missing key", Validate(Custom("keys", RequireKeys("token"))), nil, "token", false},
		{"plain error wrapped", Validate(Custom("custom", func(Context) error { return errors.New("nope") })), nil, "custom", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran := false
			err := tt.mw(func(Context) error {
				ran = true
				return nil
			})(NewContext(context.Background(), "test", tt.args))

			if tt.passes {
				if err != nil || !ran {
					t.Fatalf("expected the action to run, got %v", err)
				}
				return
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, validationErr.Field)
			}
			if ran {
				t.Error("the action must not run after a failed validation")
			}
		})
	}
}
