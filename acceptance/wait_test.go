//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/actions"
	"github.com/networkteam/saucecheck/session"
)

// TestWaiter_Conditions checks the explicit waits on a logged in inventory page.
func TestWaiter_Conditions(t *testing.T) {
	t.Parallel()

	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		s := f.Session
		login(t, s)

		assert.NoError(t, s.Wait().URLContains("inventory.html"))
		assert.NoError(t, s.Wait().Text(actions.PageTitle, "Products"))
		assert.NoError(t, s.Wait().Count(actions.InventoryItem, 6))
		assert.NoError(t, s.Wait().Count(actions.CartBadge, 0))

		_, err := s.Wait().Clickable(actions.MenuButton)
		assert.NoError(t, err)
	})
}

// TestWaiter_Timeouts checks that unmet conditions end in a lookup timeout naming the actual state.
func TestWaiter_Timeouts(t *testing.T) {
	t.Parallel()

	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		s := f.Session
		login(t, s)
		w := s.WaitWithin(300 * time.Millisecond)

		start := time.Now()
		err := w.Text(actions.PageTitle, "Your Cart")
		require.Error(t, err)
		assert.True(t, session.IsLookupTimeout(err))
		assert.Contains(t, err.Error(), "Products", "actual text is reported")
		assert.Less(t, time.Since(start), 3*time.Second)

		err = w.Count(actions.InventoryItem, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrLookupTimeout)
		assert.Contains(t, err.Error(), "6")

		err = w.URLContains("checkout-complete")
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrLookupTimeout)
		assert.Contains(t, err.Error(), "inventory.html")

		_, err = w.Clickable(session.CSS("#no-such-button"))
		assert.ErrorIs(t, err, session.ErrLookupTimeout)
	})
}
