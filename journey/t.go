package journey

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/networkteam/saucecheck/session"
)

// failNow is the panic value FailNow uses to end a step. The runner recovers it.
type failNow struct{}

// T records the outcome of a single step. It satisfies require.TestingT and
// assert.TestingT, so testify assertions can be used directly in step bodies.
//
// Like testing.T, FailNow must be called from the goroutine running the step.
type T struct {
	ctx    context.Context
	name   string
	logger *slog.Logger

	mu       sync.Mutex
	status   Status
	failures []string
	err      error
}

func newT(ctx context.Context, name string, logger *slog.Logger) *T {
	return &T{
		ctx:    ctx,
		name:   name,
		logger: logger,
		status: StatusPass,
	}
}

// Errorf records an assertion failure. The step keeps running.
func (t *T) Errorf(format string, args ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))

	t.mu.Lock()
	t.failures = append(t.failures, msg)
	if t.status == StatusPass {
		t.status = StatusFail
	}
	t.mu.Unlock()

	t.logger.Error("Check failed", slog.String("failure", msg))
}

// FailNow marks the step as failed and stops it.
func (t *T) FailNow() {
	t.mu.Lock()
	if t.status == StatusPass {
		t.status = StatusFail
	}
	t.mu.Unlock()

	panic(failNow{})
}

// Helper exists for testify compatibility.
func (t *T) Helper() {}

// Logf writes an informational message to the step log.
func (t *T) Logf(format string, args ...any) {
	t.logger.Info(fmt.Sprintf(format, args...))
}

// Check stops the step when err is not nil. Lookup timeouts and all other
// action errors are recorded as errors of the step, not as assertion failures.
func (t *T) Check(err error, msgAndArgs ...any) {
	if err == nil {
		return
	}
	t.fail(err, msgAndArgs...)
	panic(failNow{})
}

// Failed reports whether the step has failed so far.
func (t *T) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status.Failed()
}

// Name returns the display name of the step.
func (t *T) Name() string {
	return t.name
}

// Context returns the context of the run. It is cancelled when the run is aborted.
func (t *T) Context() context.Context {
	return t.ctx
}

// Logger returns the step logger. Records are captured into the step result.
func (t *T) Logger() *slog.Logger {
	return t.logger
}

func (t *T) fail(err error, msgAndArgs ...any) {
	if msg := messageFromArgs(msgAndArgs...); msg != "" {
		err = fmt.Errorf("%s: %w", msg, err)
	}

	kind := "error"
	if session.IsLookupTimeout(err) {
		kind = "lookup timeout"
	}

	t.mu.Lock()
	t.status = StatusError
	if t.err == nil {
		t.err = err
	}
	t.mu.Unlock()

	t.logger.Error("Step aborted", slog.String("kind", kind), slog.Any("err", err))
}

func (t *T) result() (Status, []string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status, append([]string(nil), t.failures...), t.err
}

func messageFromArgs(msgAndArgs ...any) string {
	switch len(msgAndArgs) {
	case 0:
		return ""
	case 1:
		if msg, ok := msgAndArgs[0].(string); ok {
			return msg
		}
		return fmt.Sprintf("%+v", msgAndArgs[0])
	default:
		if format, ok := msgAndArgs[0].(string); ok {
			return fmt.Sprintf(format, msgAndArgs[1:]...)
		}
		return fmt.Sprint(msgAndArgs...)
	}
}
