package journey_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/collector"
	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/session"
)

func quietRunner(options journey.Options) *journey.Runner {
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return journey.NewRunner(options)
}

func recordingStep(id int, executed *[]int) journey.Step {
	return journey.Step{
		ID:   id,
		Name: fmt.Sprintf("step %d", id),
		Run: func(t *journey.T, s *session.Session) {
			*executed = append(*executed, id)
		},
	}
}

func TestRunner_ExecutesInAscendingIDOrder(t *testing.T) {
	var executed []int
	suite := journey.Suite{
		Name: "ordering",
		Steps: []journey.Step{
			recordingStep(3, &executed),
			recordingStep(1, &executed),
			recordingStep(2, &executed),
		},
	}

	result, err := quietRunner(journey.Options{}).Run(context.Background(), suite, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, executed)
	assert.Equal(t, []int{1, 2, 3}, lo.Map(result.Steps, func(r journey.StepResult, _ int) int { return r.ID }))
	assert.Equal(t, journey.Stats{Total: 3, Passed: 3}, result.Stats)
	assert.False(t, result.Failed())
}

func TestRunner_SparseIDsKeepOrder(t *testing.T) {
	var executed []int
	suite := journey.Suite{
		Name: "sparse",
		Steps: []journey.Step{
			recordingStep(201, &executed),
			recordingStep(7, &executed),
			recordingStep(42, &executed),
		},
	}

	_, err := quietRunner(journey.Options{}).Run(context.Background(), suite, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 42, 201}, executed)
}

func TestRunner_FailureIsAttributedToItsStep(t *testing.T) {
	var executed []int
	suite := journey.Suite{
		Name: "attribution",
		Steps: []journey.Step{
			recordingStep(1, &executed),
			{
				ID:   2,
				Name: "verify cart badge",
				Run: func(t *journey.T, s *session.Session) {
					executed = append(executed, 2)
					require.Equal(t, "2", "1", "cart badge")
					executed = append(executed, -2)
				},
			},
			recordingStep(3, &executed),
		},
	}

	result, err := quietRunner(journey.Options{}).Run(context.Background(), suite, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, executed, "FailNow ends the step, later steps still run")

	first, _ := result.Step(1)
	failed, _ := result.Step(2)
	third, _ := result.Step(3)
	assert.Equal(t, journey.StatusPass, first.Status)
	assert.Equal(t, journey.StatusFail, failed.Status)
	assert.Equal(t, journey.StatusPass, third.Status)

	require.Len(t, failed.Failures, 1)
	assert.Contains(t, failed.Failures[0], "cart badge")
	assert.Empty(t, failed.Error)
	assert.True(t, result.Failed())
	assert.Equal(t, journey.Stats{Total: 3, Passed: 2, Failed: 1}, result.Stats)
}

func TestRunner_AssertContinuesStep(t *testing.T) {
	reachedEnd := false
	suite := journey.Suite{
		Name: "soft",
		Steps: []journey.Step{{
			ID:   1,
			Name: "soft checks",
			Run: func(t *journey.T, s *session.Session) {
				assert.True(t, false, "first")
				assert.Equal(t, 1, 2, "second")
				reachedEnd = true
			},
		}},
	}

	result, err := quietRunner(journey.Options{}).Run(context.Background(), suite, nil)
	require.NoError(t, err)

	assert.True(t, reachedEnd)
	assert.Equal(t, journey.StatusFail, result.Steps[0].Status)
	assert.Len(t, result.Steps[0].Failures, 2)
}

func TestRunner_LookupTimeoutIsAnError(t *testing.T) {
	suite := journey.Suite{
		Name: "lookup",
		Steps: []journey.Step{{
			ID:   1,
			Name: "wait for products",
			Run: func(t *journey.T, s *session.Session) {
				t.Check(fmt.Errorf("%w after 10s: class=title to be visible", session.ErrLookupTimeout))
			},
		}},
	}

	result, err := quietRunner(journey.Options{}).Run(context.Background(), suite, nil)
	require.NoError(t, err)

	step := result.Steps[0]
	assert.Equal(t, journey.StatusError, step.Status)
	assert.Contains(t, step.Error, "class=title")
	assert.Equal(t, journey.Stats{Total: 1, Errored: 1}, result.Stats)
}

func TestRunner_CheckWithMessage(t *testing.T) {
	suite := journey.Suite{
		Name: "check",
		Steps: []journey.Step{{
			ID:   1,
			Name: "open cart",
			Run: func(t *journey.T, s *session.Session) {
				t.Check(nil)
				t.Check(errors.New("element is detached"), "opening cart %d", 2)
			},
		}},
	}

	result, err := quietRunner(journey.Options{}).Run(context.Background(), suite, nil)
	require.NoError(t, err)
	assert.Equal(t, journey.StatusError, result.Steps[0].Status)
	assert.Equal(t, "opening cart 2: element is detached", result.Steps[0].Error)
}

func TestRunner_PanicIsRecovered(t *testing.T) {
	var executed []int
	suite := journey.Suite{
		Name: "panic",
		Steps: []journey.Step{
			{
				ID:   1,
				Name: "nil map",
				Run: func(t *journey.T, s *session.Session) {
					var m map[string]int
					m["boom"] = 1
				},
			},
			recordingStep(2, &executed),
		},
	}

	result, err := quietRunner(journey.Options{}).Run(context.Background(), suite, nil)
	require.NoError(t, err)

	assert.Equal(t, journey.StatusError, result.Steps[0].Status)
	assert.Contains(t, result.Steps[0].Error, "panic")
	assert.Equal(t, []int{2}, executed)
}

func TestRunner_StopOnFailure(t *testing.T) {
	var executed []int
	suite := journey.Suite{
		Name: "stop",
		Steps: []journey.Step{
			recordingStep(1, &executed),
			{
				ID:   2,
				Name: "fails",
				Run: func(t *journey.T, s *session.Session) {
					t.Errorf("expected products page")
				},
			},
			recordingStep(3, &executed),
			recordingStep(4, &executed),
		},
	}

	result, err := quietRunner(journey.Options{StopOnFailure: true}).Run(context.Background(), suite, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, executed)
	assert.Equal(t, journey.Stats{Total: 4, Passed: 1, Failed: 1, Skipped: 2}, result.Stats)
	skipped, _ := result.Step(3)
	assert.Equal(t, journey.StatusSkip, skipped.Status)
	assert.Equal(t, "step 2 failed", skipped.Error)
}

func TestRunner_CancelledContextSkipsRemainingSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var executed []int
	suite := journey.Suite{
		Name: "cancel",
		Steps: []journey.Step{
			{
				ID:   1,
				Name: "cancels",
				Run: func(t *journey.T, s *session.Session) {
					executed = append(executed, 1)
					cancel()
					assert.Error(t, t.Context().Err())
				},
			},
			recordingStep(2, &executed),
		},
	}

	result, err := quietRunner(journey.Options{}).Run(ctx, suite, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, executed)
	assert.Equal(t, journey.StatusPass, result.Steps[0].Status)
	assert.Equal(t, journey.StatusSkip, result.Steps[1].Status)
	assert.Contains(t, result.Steps[1].Error, "context canceled")
	assert.False(t, result.Failed(), "skipped steps alone do not fail a suite")
}

func TestRunner_InvalidSuite(t *testing.T) {
	_, err := quietRunner(journey.Options{}).Run(context.Background(), journey.Suite{Name: "empty"}, nil)
	assert.ErrorIs(t, err, journey.ErrInvalidSuite)
}

func TestRunner_CapturesStepLogs(t *testing.T) {
	suite := journey.Suite{
		Name: "logs",
		Steps: []journey.Step{
			{
				ID:   1,
				Name: "first",
				Run: func(t *journey.T, s *session.Session) {
					t.Logf("adding %s", "backpack")
					t.Logger().Debug("details", slog.Int("count", 1))
				},
			},
			{
				ID:   2,
				Name: "second",
				Run: func(t *journey.T, s *session.Session) {
					t.Logf("opening cart")
				},
			},
		},
	}

	result, err := quietRunner(journey.Options{}).Run(context.Background(), suite, nil)
	require.NoError(t, err)

	first := lo.Map(result.Steps[0].Logs, func(e collector.LogEntry, _ int) string { return e.Message })
	second := lo.Map(result.Steps[1].Logs, func(e collector.LogEntry, _ int) string { return e.Message })

	assert.Contains(t, first, "adding backpack")
	assert.Contains(t, first, "details")
	assert.NotContains(t, first, "opening cart")
	assert.Contains(t, second, "opening cart")
	assert.NotContains(t, second, "adding backpack")

	entry, ok := lo.Find(result.Steps[0].Logs, func(e collector.LogEntry) bool { return e.Message == "details" })
	require.True(t, ok)
	assert.Equal(t, "logs", entry.Attrs["suite"])
	assert.EqualValues(t, 1, entry.Attrs["step"])
}

func TestRunner_PublishesStepEvents(t *testing.T) {
	notifier := collector.NewNotifier[journey.StepEvent]()
	defer notifier.Close()

	events := collector.Collect(t, notifier.Subscribe)

	var executed []int
	suite := journey.Suite{
		Name: "events",
		Steps: []journey.Step{
			recordingStep(2, &executed),
			recordingStep(1, &executed),
		},
	}

	_, err := quietRunner(journey.Options{Notifier: notifier}).Run(context.Background(), suite, nil)
	require.NoError(t, err)

	received := events.Wait(4)
	require.Len(t, received, 4)

	assert.Equal(t, journey.EventStepStarted, received[0].Kind)
	assert.Equal(t, 1, received[0].StepID)
	assert.Nil(t, received[0].Result)

	assert.Equal(t, journey.EventStepFinished, received[1].Kind)
	assert.Equal(t, 1, received[1].StepID)
	require.NotNil(t, received[1].Result)
	assert.Equal(t, journey.StatusPass, received[1].Result.Status)

	assert.Equal(t, journey.EventStepStarted, received[2].Kind)
	assert.Equal(t, 2, received[2].StepID)
	assert.Equal(t, journey.EventStepFinished, received[3].Kind)
}
