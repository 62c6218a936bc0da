package journey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/session"
)

func noop(t *journey.T, s *session.Session) {}

func TestSuite_Validate(t *testing.T) {
	tests := []struct {
		name    string
		suite   journey.Suite
		wantErr string
	}{
		{
			name: "valid",
			suite: journey.Suite{Name: "ok", Steps: []journey.Step{
				{ID: 2, Name: "b", Run: noop},
				{ID: 1, Name: "a", Run: noop},
			}},
		},
		{
			name:    "empty name",
			suite:   journey.Suite{Steps: []journey.Step{{ID: 1, Name: "a", Run: noop}}},
			wantErr: "empty name",
		},
		{
			name:    "no steps",
			suite:   journey.Suite{Name: "empty"},
			wantErr: "no steps",
		},
		{
			name:    "zero id",
			suite:   journey.Suite{Name: "zero", Steps: []journey.Step{{ID: 0, Name: "a", Run: noop}}},
			wantErr: "non-positive id 0",
		},
		{
			name:    "missing body",
			suite:   journey.Suite{Name: "body", Steps: []journey.Step{{ID: 1, Name: "a"}}},
			wantErr: "step 1 has no body",
		},
		{
			name:    "missing name",
			suite:   journey.Suite{Name: "unnamed", Steps: []journey.Step{{ID: 1, Run: noop}}},
			wantErr: "step 1 has no name",
		},
		{
			name: "duplicate ids",
			suite: journey.Suite{Name: "dup", Steps: []journey.Step{
				{ID: 5, Name: "a", Run: noop},
				{ID: 6, Name: "b", Run: noop},
				{ID: 5, Name: "c", Run: noop},
			}},
			wantErr: "duplicate step ids [5]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.suite.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, journey.ErrInvalidSuite)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSuite_Ordered(t *testing.T) {
	suite := journey.Suite{Name: "order", Steps: []journey.Step{
		{ID: 30, Name: "c", Run: noop},
		{ID: 10, Name: "a", Run: noop},
		{ID: 20, Name: "b", Run: noop},
	}}

	ordered := suite.Ordered()

	require.Len(t, ordered, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{ordered[0].Name, ordered[1].Name, ordered[2].Name})
	assert.Equal(t, 30, suite.Steps[0].ID, "declaration order is left untouched")
}

func TestStats(t *testing.T) {
	var stats journey.Stats
	for _, status := range []journey.Status{journey.StatusPass, journey.StatusFail, journey.StatusError, journey.StatusSkip, journey.StatusPass} {
		stats.Add(status)
	}
	assert.Equal(t, journey.Stats{Total: 5, Passed: 2, Failed: 1, Errored: 1, Skipped: 1}, stats)

	stats.Merge(journey.Stats{Total: 1, Passed: 1})
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 3, stats.Passed)
}

func TestStatus_Failed(t *testing.T) {
	assert.False(t, journey.StatusPass.Failed())
	assert.True(t, journey.StatusFail.Failed())
	assert.True(t, journey.StatusError.Failed())
	assert.False(t, journey.StatusSkip.Failed())
}

func TestSuiteResult_Failed(t *testing.T) {
	assert.False(t, (&journey.SuiteResult{Stats: journey.Stats{Total: 1, Passed: 1}}).Failed())
	assert.True(t, (&journey.SuiteResult{Stats: journey.Stats{Total: 1, Errored: 1}}).Failed())
	assert.True(t, (&journey.SuiteResult{Error: "starting session: launching chromium"}).Failed())
}

func TestStepResult_Message(t *testing.T) {
	assert.Equal(t, "lookup timed out", journey.StepResult{Error: "lookup timed out", Failures: []string{"x"}}.Message())
	assert.Equal(t, "x", journey.StepResult{Failures: []string{"x", "y"}}.Message())
	assert.Empty(t, journey.StepResult{}.Message())
}
