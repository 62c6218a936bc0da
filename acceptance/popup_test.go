//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/actions"
	"github.com/networkteam/saucecheck/demostore"
	"github.com/networkteam/saucecheck/session"
)

func popupVisible(t *testing.T, s *session.Session) bool {
	t.Helper()

	visible, err := s.Locate(actions.Popup).IsVisible()
	require.NoError(t, err)
	return visible
}

// TestPopup_Absent verifies the popup helper returns without error when no popup shows up.
func TestPopup_Absent(t *testing.T) {
	t.Parallel()

	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		login(t, f.Session)

		start := time.Now()
		err := actions.HandlePopupIfPresent(f.Session)
		require.NoError(t, err)
		assert.Less(t, time.Since(start), f.Session.Options().PopupTimeout+2*time.Second, "wait is bounded by the popup timeout")
	}, demostore.WithPopupMode(demostore.PopupNever))
}

// TestPopup_Always verifies login closes the popup after every login.
func TestPopup_Always(t *testing.T) {
	t.Parallel()

	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		for range 2 {
			login(t, f.Session)
			assert.False(t, popupVisible(t, f.Session), "popup was closed by login")

			require.NoError(t, actions.AddToCart(f.Session, "sauce-labs-backpack"))
			require.NoError(t, actions.WaitCartBadge(f.Session, "1"))
			require.NoError(t, actions.RemoveFromCart(f.Session, "sauce-labs-backpack"))

			require.NoError(t, actions.Logout(f.Session))
		}
	}, demostore.WithPopupMode(demostore.PopupAlways))
}

// TestPopup_Once verifies the popup helper copes with the popup showing only on the first login.
func TestPopup_Once(t *testing.T) {
	t.Parallel()

	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		login(t, f.Session)
		require.NoError(t, actions.Logout(f.Session))

		start := time.Now()
		login(t, f.Session)
		assert.GreaterOrEqual(t, time.Since(start), f.Session.Options().PopupTimeout, "second login waited for the absent popup")
		assert.False(t, popupVisible(t, f.Session))
	}, demostore.WithPopupMode(demostore.PopupOnce))
}

// TestPopup_DelayedWithinTimeout verifies a popup appearing late but within the popup timeout is closed.
func TestPopup_DelayedWithinTimeout(t *testing.T) {
	t.Parallel()

	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		login(t, f.Session)
		assert.False(t, popupVisible(t, f.Session))
	}, demostore.WithPopupMode(demostore.PopupAlways), demostore.WithPopupDelay(300*time.Millisecond))
}

// TestPopup_DelayedBeyondTimeout verifies a popup appearing after the popup timeout is not an error
// of the helper. It stays open and is left to the following steps.
func TestPopup_DelayedBeyondTimeout(t *testing.T) {
	t.Parallel()

	WithCustomSession(t, func(options *session.Options) {
		options.PopupTimeout = 200 * time.Millisecond
	}, func(t *testing.T, f *TestFixtures) {
		login(t, f.Session)

		_, err := f.Session.WaitWithin(5 * time.Second).Visible(actions.Popup)
		require.NoError(t, err, "popup shows up late")

		require.NoError(t, actions.HandlePopupIfPresent(f.Session))
		assert.False(t, popupVisible(t, f.Session))
	}, demostore.WithPopupMode(demostore.PopupAlways), demostore.WithPopupDelay(2*time.Second))
}

// TestPopup_OtherErrorsAreReturned verifies that only the lookup timeout is swallowed.
func TestPopup_OtherErrorsAreReturned(t *testing.T) {
	t.Parallel()

	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		login(t, f.Session)
		require.NoError(t, f.Session.Page().Close())

		err := actions.HandlePopupIfPresent(f.Session)
		require.Error(t, err)
		assert.False(t, session.IsLookupTimeout(err))
	})
}
