package journey

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	slogmulti "github.com/samber/slog-multi"

	"github.com/networkteam/saucecheck/collector"
	"github.com/networkteam/saucecheck/internal/utils"
	"github.com/networkteam/saucecheck/session"
)

const (
	DefaultLogCapacity  = 200
	DefaultConsoleLines = 20
)

type Options struct {
	// StopOnFailure skips the remaining steps of a suite after the first failed step.
	// By default later steps still run, each one reporting its own outcome.
	StopOnFailure bool
	// Logger receives the logs of all steps. Default: slog.Default()
	Logger *slog.Logger
	// Notifier receives a started and a finished event for every step. Optional.
	Notifier *collector.Notifier[StepEvent]
	// LogCapacity is the number of log records kept per step.
	// Default: DefaultLogCapacity
	LogCapacity uint64
	// ScreenshotDir is where screenshots of failed steps are written. Empty disables them.
	ScreenshotDir string
	// ConsoleLines is the number of browser console messages attached to a failed step.
	// Default: DefaultConsoleLines
	ConsoleLines int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.LogCapacity == 0 {
		o.LogCapacity = DefaultLogCapacity
	}
	if o.ConsoleLines == 0 {
		o.ConsoleLines = DefaultConsoleLines
	}
	return o
}

// Runner executes suites step by step on a session.
type Runner struct {
	options Options
}

func NewRunner(options Options) *Runner {
	return &Runner{
		options: options.withDefaults(),
	}
}

// Run executes the steps of suite in ascending ID order on sess. All steps share
// the session and its page state. Run returns an error only for a suite that
// cannot be run; step failures are part of the result.
//
// When ctx is cancelled, the step in progress finishes and the remaining steps are skipped.
func (r *Runner) Run(ctx context.Context, suite Suite, sess *session.Session) (*SuiteResult, error) {
	if err := suite.Validate(); err != nil {
		return nil, err
	}

	logger := r.options.Logger.With("suite", suite.Name)
	result := &SuiteResult{
		Name:  suite.Name,
		Start: time.Now(),
	}

	logger.Info("Running suite", slog.Int("steps", len(suite.Steps)))

	var skipReason string
	for _, step := range suite.Ordered() {
		if skipReason == "" && ctx.Err() != nil {
			skipReason = fmt.Sprintf("run aborted: %v", context.Cause(ctx))
		}

		var stepResult StepResult
		if skipReason != "" {
			stepResult = r.skip(suite, step, skipReason)
		} else {
			stepResult = r.runStep(ctx, suite, step, sess)
		}

		result.Steps = append(result.Steps, stepResult)
		result.Stats.Add(stepResult.Status)

		if r.options.StopOnFailure && skipReason == "" && stepResult.Status.Failed() {
			skipReason = fmt.Sprintf("step %d failed", step.ID)
		}
	}
	result.Duration = time.Since(result.Start)

	logger.Info("Suite finished",
		slog.Int("passed", result.Stats.Passed),
		slog.Int("failed", result.Stats.Failed),
		slog.Int("errored", result.Stats.Errored),
		slog.Int("skipped", result.Stats.Skipped),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

func (r *Runner) runStep(ctx context.Context, suite Suite, step Step, sess *session.Session) StepResult {
	logs := collector.NewLogCollector(r.options.LogCapacity)
	defer logs.Close()

	logger := slog.New(slogmulti.Fanout(
		r.options.Logger.Handler(),
		collector.NewSlogHandler(logs, collector.CollectSlogLogsOptions{Level: slog.LevelDebug}),
	)).With("suite", suite.Name, "step", step.ID)

	restoreLogger := sess.UseLogger(logger)
	defer restoreLogger()

	r.notify(StepEvent{Kind: EventStepStarted, Suite: suite.Name, StepID: step.ID, Name: step.Name})

	t := newT(ctx, step.Name, logger)
	start := time.Now()

	logger.Info("Step started", slog.String("name", step.Name))
	r.execute(t, step, sess)
	duration := time.Since(start)

	status, failures, err := t.result()
	result := StepResult{
		Suite:    suite.Name,
		ID:       step.ID,
		Name:     step.Name,
		Status:   status,
		Failures: failures,
		Start:    start,
		Duration: duration,
	}
	if err != nil {
		result.Error = err.Error()
	}

	if status.Failed() {
		logger.Warn("Step failed", slog.String("status", string(status)), slog.String("reason", result.Message()))
		r.attachDiagnostics(&result, suite, step, sess, logger)
	} else {
		logger.Info("Step passed", slog.Duration("duration", duration))
	}

	result.Logs = logs.Entries()

	r.notify(StepEvent{Kind: EventStepFinished, Suite: suite.Name, StepID: step.ID, Name: step.Name, Result: &result})

	return result
}

// execute runs the step body. A FailNow unwinds to here; any other panic is
// recorded as an error of the step.
func (r *Runner) execute(t *T, step Step, sess *session.Session) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if _, ok := rec.(failNow); ok {
			return
		}
		t.logger.Debug("Step panicked", slog.String("stack", string(debug.Stack())))
		t.fail(fmt.Errorf("panic: %v", rec))
	}()

	step.Run(t, sess)
}

func (r *Runner) attachDiagnostics(result *StepResult, suite Suite, step Step, sess *session.Session, logger *slog.Logger) {
	if sess == nil {
		return
	}

	result.Console = sess.ConsoleTail(r.options.ConsoleLines)

	if r.options.ScreenshotDir == "" {
		return
	}
	path := filepath.Join(
		r.options.ScreenshotDir,
		utils.Slugify(suite.Name),
		fmt.Sprintf("%03d-%s.png", step.ID, utils.Slugify(step.Name)),
	)
	if err := sess.Screenshot(path); err != nil {
		logger.Warn("Capturing screenshot failed", slog.Any("err", err))
		return
	}
	result.Screenshot = path
}

func (r *Runner) skip(suite Suite, step Step, reason string) StepResult {
	result := StepResult{
		Suite:  suite.Name,
		ID:     step.ID,
		Name:   step.Name,
		Status: StatusSkip,
		Error:  reason,
		Start:  time.Now(),
	}
	r.options.Logger.Info("Step skipped",
		slog.String("suite", suite.Name),
		slog.Int("step", step.ID),
		slog.String("reason", reason),
	)
	r.notify(StepEvent{Kind: EventStepFinished, Suite: suite.Name, StepID: step.ID, Name: step.Name, Result: &result})
	return result
}

func (r *Runner) notify(event StepEvent) {
	if r.options.Notifier != nil {
		r.options.Notifier.Notify(event)
	}
}
