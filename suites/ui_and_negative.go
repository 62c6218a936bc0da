package suites

import (
	"github.com/stretchr/testify/assert"

	"github.com/networkteam/saucecheck/actions"
	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/session"
)

// UIAndNegative checks the side menu, product sorting and listing elements,
// logs out and ends with a rejected login.
func UIAndNegative(c Credentials) journey.Suite {
	steps := []journey.Step{
		step(31, "Login before UI checks", func(t *journey.T, s *session.Session) {
			login(t, s, c)
			_, err := s.Wait().Visible(actions.InventoryList)
			t.Check(err)
			assert.Contains(t, s.URL(), "inventory")
		}),
		step(32, "Open and close menu", func(t *journey.T, s *session.Session) {
			t.Check(actions.OpenMenu(s))
			t.Check(actions.CloseMenu(s))
		}),
	}

	for i, option := range actions.SortOptions {
		steps = append(steps, step(33+i, "Sort "+string(option), sortStep(option)))
	}

	steps = append(steps,
		step(37, "Verify product images", countStep(actions.ItemImage)),
		step(38, "Verify product names", countStep(actions.ItemName)),
		step(39, "Verify add to cart buttons", countStep(actions.InventoryButton)),
		step(40, "Logout", func(t *journey.T, s *session.Session) {
			t.Check(actions.Logout(s))
			t.Check(actions.WaitLoggedOut(s))
		}),
		step(41, "Invalid login", func(t *journey.T, s *session.Session) {
			t.Check(actions.Login(s, "wrong", "wrong"))
		}),
		step(42, "Verify error message", func(t *journey.T, s *session.Session) {
			msg, err := actions.ErrorMessage(s)
			t.Check(err)
			assert.Equal(t, actions.MsgCredentialsMismatch, msg)
		}),
	)

	return journey.Suite{
		Name:        "UIAndNegative",
		Description: "Menu, sorting, listing elements, logout and invalid login",
		Steps:       steps,
	}
}

func sortStep(option actions.SortOption) func(t *journey.T, s *session.Session) {
	return func(t *journey.T, s *session.Session) {
		t.Check(actions.SortProducts(s, option))

		names, err := actions.ProductNames(s)
		t.Check(err)
		prices, err := actions.ProductPrices(s)
		t.Check(err)

		assert.NotEmpty(t, names)
		assert.True(t, actions.Sorted(option, names, prices), "products not in %q order: %v %v", option, names, prices)
	}
}

func countStep(l session.Locator) func(t *journey.T, s *session.Session) {
	return func(t *journey.T, s *session.Session) {
		n, err := actions.Count(s, l)
		t.Check(err)
		assert.Positive(t, n, "elements matching %s", l)
	}
}
