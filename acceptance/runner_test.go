//go:build acceptance
// +build acceptance

package acceptance

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/actions"
	"github.com/networkteam/saucecheck/collector"
	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/session"
)

// TestRunner_OrderAndAttribution declares steps out of order, fails one of them and
// checks that later steps still run on the same page state.
func TestRunner_OrderAndAttribution(t *testing.T) {
	t.Parallel()

	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		var order []int
		record := func(id int) { order = append(order, id) }

		suite := journey.Suite{
			Name: "Attribution",
			Steps: []journey.Step{
				{ID: 30, Name: "Badge still shows one", Run: func(t *journey.T, s *session.Session) {
					record(30)
					badge, err := actions.CartBadgeText(s)
					t.Check(err)
					assert.Equal(t, "1", badge)
				}},
				{ID: 10, Name: "Login and add backpack", Run: func(t *journey.T, s *session.Session) {
					record(10)
					t.Check(actions.Login(s, actions.StandardUser, actions.Password))
					t.Check(actions.AddToCart(s, "sauce-labs-backpack"))
					t.Check(actions.WaitCartBadge(s, "1"))
				}},
				{ID: 20, Name: "Expect wrong count", Run: func(t *journey.T, s *session.Session) {
					record(20)
					s.Logger().Info("Checking badge")
					badge, err := actions.CartBadgeText(s)
					t.Check(err)
					assert.Equal(t, "5", badge)
				}},
			},
		}

		notifier := collector.NewNotifier[journey.StepEvent]()
		defer notifier.Close()
		events := collector.Collect(t, notifier.Subscribe)

		screenshots := t.TempDir()
		runner := journey.NewRunner(journey.Options{
			Notifier:      notifier,
			ScreenshotDir: screenshots,
			Logger:        testLogger(),
		})

		result, err := runner.Run(context.Background(), suite, f.Session)
		require.NoError(t, err)

		assert.Equal(t, []int{10, 20, 30}, order)
		assert.Equal(t, journey.Stats{Total: 3, Passed: 2, Failed: 1}, result.Stats)

		failed, ok := result.Step(20)
		require.True(t, ok)
		assert.Equal(t, journey.StatusFail, failed.Status)
		assert.Contains(t, failed.Message(), `"5"`)
		require.NotEmpty(t, failed.Screenshot)
		_, err = os.Stat(failed.Screenshot)
		assert.NoError(t, err, "screenshot written")
		assert.True(t, lo.ContainsBy(failed.Logs, func(e collector.LogEntry) bool { return e.Message == "Checking badge" }))

		later, _ := result.Step(30)
		assert.Equal(t, journey.StatusPass, later.Status)

		finished := lo.Filter(events.Wait(6), func(e journey.StepEvent, _ int) bool { return e.Kind == journey.EventStepFinished })
		assert.Equal(t, []int{10, 20, 30}, lo.Map(finished, func(e journey.StepEvent, _ int) int { return e.StepID }))
	})
}

// TestRunner_LookupTimeout verifies a missing element ends the step as an error after the wait timeout.
func TestRunner_LookupTimeout(t *testing.T) {
	t.Parallel()

	WithCustomSession(t, func(options *session.Options) {
		options.WaitTimeout = 300 * time.Millisecond
	}, func(t *testing.T, f *TestFixtures) {
		suite := journey.Suite{
			Name: "Lookup",
			Steps: []journey.Step{
				{ID: 1, Name: "Wait for cart badge on login page", Run: func(t *journey.T, s *session.Session) {
					_, err := s.Wait().Visible(actions.CartBadge)
					t.Check(err)
				}},
				{ID: 2, Name: "Login page is still usable", Run: func(t *journey.T, s *session.Session) {
					_, err := s.Wait().Visible(actions.LoginButton)
					t.Check(err)
				}},
			},
		}

		start := time.Now()
		result, err := journey.NewRunner(journey.Options{Logger: testLogger()}).Run(context.Background(), suite, f.Session)
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)

		first, _ := result.Step(1)
		assert.Equal(t, journey.StatusError, first.Status)
		assert.Contains(t, first.Error, "shopping_cart_badge")
		second, _ := result.Step(2)
		assert.Equal(t, journey.StatusPass, second.Status)
	})
}

// TestSession_ConsoleCapture verifies browser console output is kept on the session.
func TestSession_ConsoleCapture(t *testing.T) {
	t.Parallel()

	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		_, err := f.Session.Page().Evaluate(`() => console.warn("stock low")`)
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			return lo.ContainsBy(f.Session.ConsoleTail(10), func(m session.ConsoleMessage) bool {
				return m.Type == "warning" && m.Text == "stock low"
			})
		}, 5*time.Second, 50*time.Millisecond)
	})
}

// TestSession_StartFailures verifies unreachable and failing targets abort the start.
func TestSession_StartFailures(t *testing.T) {
	t.Parallel()

	store := NewTestStore(t)
	defer store.Close()

	t.Run("unreachable", func(t *testing.T) {
		_, err := session.Start(context.Background(), SessionOptions("http://127.0.0.1:1/"))
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := session.Start(context.Background(), SessionOptions(store.URL+"no-such-page"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		sess := StartSession(t, SessionOptions(store.URL))
		assert.NoError(t, sess.Stop())
		assert.NoError(t, sess.Stop())
	})

	t.Run("requests reach the store", func(t *testing.T) {
		assert.True(t, lo.ContainsBy(store.Handler.Requests().Requests(), func(r collector.Request) bool {
			return r.Path == "/" && r.StatusCode == http.StatusOK
		}))
	})
}
