// Package journey runs ordered suites of steps against one shared browser session.
//
// Steps of a suite are not independent tests: each one continues from the page state
// the previous one left behind. The runner therefore executes them strictly one after
// another in ascending ID order, and a failure is attributed to exactly the step that
// produced it.
package journey

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/networkteam/saucecheck/collector"
	"github.com/networkteam/saucecheck/session"
)

// ErrInvalidSuite is returned for suites that cannot be run.
var ErrInvalidSuite = errors.New("invalid suite")

// Step is one ordered unit of a suite. ID is the execution priority and must be
// unique within the suite. Steps run in ascending ID order regardless of the order
// they are declared in.
type Step struct {
	ID   int
	Name string
	Run  func(t *T, s *session.Session)
}

// Suite is an ordered collection of steps sharing one session.
type Suite struct {
	Name        string
	Description string
	Steps       []Step
}

// Validate checks that the suite has a name and that every step has a positive,
// unique ID, a name and a body.
func (s Suite) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSuite)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: %s has no steps", ErrInvalidSuite, s.Name)
	}
	for _, step := range s.Steps {
		if step.ID <= 0 {
			return fmt.Errorf("%w: %s: step %q has non-positive id %d", ErrInvalidSuite, s.Name, step.Name, step.ID)
		}
		if step.Name == "" {
			return fmt.Errorf("%w: %s: step %d has no name", ErrInvalidSuite, s.Name, step.ID)
		}
		if step.Run == nil {
			return fmt.Errorf("%w: %s: step %d has no body", ErrInvalidSuite, s.Name, step.ID)
		}
	}
	if dups := lo.FindDuplicates(lo.Map(s.Steps, func(step Step, _ int) int { return step.ID })); len(dups) > 0 {
		return fmt.Errorf("%w: %s: duplicate step ids %v", ErrInvalidSuite, s.Name, dups)
	}
	return nil
}

// Ordered returns a copy of the steps sorted by ascending ID.
func (s Suite) Ordered() []Step {
	steps := slices.Clone(s.Steps)
	slices.SortStableFunc(steps, func(a, b Step) int { return a.ID - b.ID })
	return steps
}

// Status is the outcome of a step.
type Status string

const (
	// StatusPass means the step ran to completion without a failed check.
	StatusPass Status = "pass"
	// StatusFail means an assertion did not hold.
	StatusFail Status = "fail"
	// StatusError means an element lookup timed out, an action returned an
	// unexpected error or the step panicked.
	StatusError Status = "error"
	// StatusSkip means the step did not run.
	StatusSkip Status = "skip"
)

// Failed reports whether the status counts as a failure of the run.
func (s Status) Failed() bool {
	return s == StatusFail || s == StatusError
}

// StepResult is the recorded outcome of one step.
type StepResult struct {
	Suite      string                   `json:"suite"`
	ID         int                      `json:"id"`
	Name       string                   `json:"name"`
	Status     Status                   `json:"status"`
	Failures   []string                 `json:"failures,omitempty"`
	Error      string                   `json:"error,omitempty"`
	Start      time.Time                `json:"start"`
	Duration   time.Duration            `json:"duration"`
	Logs       []collector.LogEntry     `json:"logs,omitempty"`
	Console    []session.ConsoleMessage `json:"console,omitempty"`
	Screenshot string                   `json:"screenshot,omitempty"`
}

// Message returns the primary reason of a failed or skipped step.
func (r StepResult) Message() string {
	if r.Error != "" {
		return r.Error
	}
	if len(r.Failures) > 0 {
		return r.Failures[0]
	}
	return ""
}

// Stats are step counts by status.
type Stats struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// Add counts one step with the given status.
func (s *Stats) Add(status Status) {
	s.Total++
	switch status {
	case StatusPass:
		s.Passed++
	case StatusFail:
		s.Failed++
	case StatusError:
		s.Errored++
	case StatusSkip:
		s.Skipped++
	}
}

// Merge adds the counts of other.
func (s *Stats) Merge(other Stats) {
	s.Total += other.Total
	s.Passed += other.Passed
	s.Failed += other.Failed
	s.Errored += other.Errored
	s.Skipped += other.Skipped
}

// SuiteResult is the outcome of running one suite.
type SuiteResult struct {
	Name     string        `json:"name"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Steps    []StepResult  `json:"steps"`
	Stats    Stats         `json:"stats"`
	// Error is set when the suite could not run at all, e.g. because the session did not start.
	Error string `json:"error,omitempty"`
}

// Failed reports whether any step failed or the suite could not run.
func (r *SuiteResult) Failed() bool {
	return r.Error != "" || r.Stats.Failed > 0 || r.Stats.Errored > 0
}

// Step returns the result of the step with the given ID.
func (r *SuiteResult) Step(id int) (StepResult, bool) {
	return lo.Find(r.Steps, func(step StepResult) bool { return step.ID == id })
}

// EventKind distinguishes step events.
type EventKind string

const (
	EventStepStarted  EventKind = "started"
	EventStepFinished EventKind = "finished"
)

// StepEvent is published when a step starts and when it finishes. Result is only
// set for finished steps.
type StepEvent struct {
	Kind   EventKind   `json:"kind"`
	Suite  string      `json:"suite"`
	StepID int         `json:"stepId"`
	Name   string      `json:"name"`
	Result *StepResult `json:"result,omitempty"`
}
