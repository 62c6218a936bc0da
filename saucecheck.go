// Package saucecheck runs ordered UI journeys against the Swag Labs storefront.
//
// Every suite gets its own browser session. Steps of a suite run strictly in order
// on that session; independent suites may run in parallel.
package saucecheck

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/networkteam/saucecheck/collector"
	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/session"
)

// StartSessionFunc starts a browser session for one suite.
type StartSessionFunc func(ctx context.Context, options session.Options) (*session.Session, error)

type Options struct {
	// Session configures the browser session started for every suite.
	Session session.Options
	// StopOnFailure skips the remaining steps of a suite after its first failed step.
	StopOnFailure bool
	// Parallel is the number of suites running at the same time.
	// Default: 1, suites run one after another
	Parallel int
	// ScreenshotDir receives screenshots of failed steps. Empty disables them.
	ScreenshotDir string
	// LogCapacity is the number of log records kept per step.
	// Default: journey.DefaultLogCapacity
	LogCapacity uint64
	// Logger receives all logs. Default: slog.Default()
	Logger *slog.Logger
	// NotifierOptions configure delivery of step events to subscribers.
	// Default: nil, will use collector.DefaultNotifierOptions()
	NotifierOptions *collector.NotifierOptions
	// StartSession replaces session.Start, e.g. to reuse a preconfigured browser.
	StartSession StartSessionFunc
}

type Instance struct {
	options  Options
	logger   *slog.Logger
	notifier *collector.Notifier[journey.StepEvent]
	runner   *journey.Runner
}

// New creates an instance with default options.
func New() *Instance {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an instance with the specified options.
// Default options are the zero value of Options.
func NewWithOptions(options Options) *Instance {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Parallel < 1 {
		options.Parallel = 1
	}
	if options.StartSession == nil {
		options.StartSession = session.Start
	}

	notifierOptions := collector.DefaultNotifierOptions()
	if options.NotifierOptions != nil {
		notifierOptions = *options.NotifierOptions
	}
	notifier := collector.NewNotifierWithOptions[journey.StepEvent](notifierOptions)

	return &Instance{
		options:  options,
		logger:   options.Logger,
		notifier: notifier,
		runner: journey.NewRunner(journey.Options{
			StopOnFailure: options.StopOnFailure,
			Logger:        options.Logger,
			Notifier:      notifier,
			LogCapacity:   options.LogCapacity,
			ScreenshotDir: options.ScreenshotDir,
		}),
	}
}

// Subscribe returns a channel receiving a started and a finished event for every step.
// The subscription ends when ctx is done.
func (i *Instance) Subscribe(ctx context.Context) <-chan journey.StepEvent {
	return i.notifier.Subscribe(ctx)
}

// Close stops event delivery.
func (i *Instance) Close() {
	i.notifier.Close()
}

// Run runs the suites and returns one result per suite in the order given.
// A suite whose session cannot be started is reported with SuiteResult.Error and
// does not stop the other suites. Run returns an error for invalid suites only.
func (i *Instance) Run(ctx context.Context, suites ...journey.Suite) ([]*journey.SuiteResult, error) {
	names := make(map[string]bool, len(suites))
	for _, suite := range suites {
		if err := suite.Validate(); err != nil {
			return nil, err
		}
		if names[suite.Name] {
			return nil, fmt.Errorf("%w: suite %s given twice", journey.ErrInvalidSuite, suite.Name)
		}
		names[suite.Name] = true
	}

	results := make([]*journey.SuiteResult, len(suites))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(i.options.Parallel)
	for idx, suite := range suites {
		g.Go(func() error {
			result := i.runSuite(gCtx, suite)
			mu.Lock()
			results[idx] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (i *Instance) runSuite(ctx context.Context, suite journey.Suite) *journey.SuiteResult {
	logger := i.logger.With("suite", suite.Name)
	start := time.Now()

	sessionOptions := i.options.Session
	sessionOptions.Logger = logger

	sess, err := i.options.StartSession(ctx, sessionOptions)
	if err != nil {
		logger.Error("Starting session failed, suite aborted", slog.Any("err", err))
		return &journey.SuiteResult{
			Name:     suite.Name,
			Start:    start,
			Duration: time.Since(start),
			Error:    fmt.Sprintf("starting session: %v", err),
		}
	}
	defer func() {
		if err := sess.Stop(); err != nil {
			logger.Warn("Stopping session failed", slog.Any("err", err))
		}
	}()

	result, err := i.runner.Run(ctx, suite, sess)
	if err != nil {
		// Suites were validated before, so this only happens for a broken runner setup.
		return &journey.SuiteResult{Name: suite.Name, Start: start, Duration: time.Since(start), Error: err.Error()}
	}
	return result
}
