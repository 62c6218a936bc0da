package suites

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/actions"
	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/session"
)

// CartCount checks the cart badge follows adds and removes on the inventory page
// and disappears when the app state is reset.
func CartCount(c Credentials) journey.Suite {
	return journey.Suite{
		Name:        "CartCount",
		Description: "Cart badge after add, add, remove and reset",
		Steps: []journey.Step{
			step(101, "Login", func(t *journey.T, s *session.Session) {
				login(t, s, c)
				t.Check(s.Wait().URLContains("inventory"))
			}),
			step(102, "Empty cart has no badge", func(t *journey.T, s *session.Session) {
				n, err := actions.CartCount(s)
				t.Check(err)
				assert.Zero(t, n)
			}),
			step(103, "Add backpack", func(t *journey.T, s *session.Session) {
				t.Check(actions.AddToCart(s, Backpack))
				t.Check(actions.WaitCartBadge(s, "1"))
			}),
			step(104, "Add bike light", func(t *journey.T, s *session.Session) {
				t.Check(actions.AddToCart(s, BikeLight))
				t.Check(actions.WaitCartBadge(s, "2"))
			}),
			step(105, "Remove backpack", func(t *journey.T, s *session.Session) {
				t.Check(actions.RemoveFromCart(s, Backpack))
				t.Check(actions.WaitCartBadge(s, "1"))
			}),
			step(106, "Verify remaining count", func(t *journey.T, s *session.Session) {
				n, err := actions.CartCount(s)
				t.Check(err)
				assert.Equal(t, 1, n)
			}),
			step(107, "Reset app state", func(t *journey.T, s *session.Session) {
				t.Check(actions.ResetAppState(s))
				t.Check(s.Wait().Count(actions.CartBadge, 0))
			}),
			step(108, "Logout", func(t *journey.T, s *session.Session) {
				t.Check(actions.Logout(s))
			}),
		},
	}
}

// NegativeLogin checks the messages for rejected logins, unauthenticated access
// and incomplete checkout information.
func NegativeLogin(c Credentials) journey.Suite {
	rejected := func(username, password, message string) func(t *journey.T, s *session.Session) {
		return func(t *journey.T, s *session.Session) {
			t.Check(actions.Login(s, username, password))
			t.Check(s.Wait().Text(actions.ErrorMessageBox, message))
			assert.NotContains(t, s.URL(), "inventory")
		}
	}

	return journey.Suite{
		Name:        "NegativeLogin",
		Description: "Rejected logins, unauthenticated access and checkout validation",
		Steps: []journey.Step{
			step(201, "Locked out user", rejected(actions.LockedOutUser, c.Password, actions.MsgLockedOut)),
			step(202, "Empty username", rejected("", c.Password, actions.MsgUsernameRequired)),
			step(203, "Empty password", rejected(c.Username, "", actions.MsgPasswordRequired)),
			step(204, "Inventory requires login", func(t *journey.T, s *session.Session) {
				t.Check(s.Open("inventory.html"))
				_, err := s.Wait().Visible(actions.LoginButton)
				t.Check(err)
				msg, err := actions.ErrorMessage(s)
				t.Check(err)
				assert.Contains(t, msg, "when you are logged in")
			}),
			step(205, "Login", func(t *journey.T, s *session.Session) {
				login(t, s, c)
				t.Check(s.Wait().URLContains("inventory"))
			}),
			step(206, "Checkout requires first name", func(t *journey.T, s *session.Session) {
				t.Check(actions.AddToCart(s, Backpack))
				t.Check(actions.OpenCart(s))
				t.Check(actions.Checkout(s))
				t.Check(actions.FillCheckoutInfo(s, actions.CheckoutInfo{}))
				t.Check(actions.ContinueCheckout(s))
				t.Check(s.Wait().Text(actions.ErrorMessageBox, actions.MsgFirstNameRequired))
			}),
			step(207, "Checkout requires last name", func(t *journey.T, s *session.Session) {
				t.Check(actions.FillCheckoutInfo(s, actions.CheckoutInfo{FirstName: Customer.FirstName}))
				t.Check(actions.ContinueCheckout(s))
				t.Check(s.Wait().Text(actions.ErrorMessageBox, actions.MsgLastNameRequired))
			}),
			step(208, "Checkout requires postal code", func(t *journey.T, s *session.Session) {
				t.Check(actions.FillCheckoutInfo(s, actions.CheckoutInfo{FirstName: Customer.FirstName, LastName: Customer.LastName}))
				t.Check(actions.ContinueCheckout(s))
				t.Check(s.Wait().Text(actions.ErrorMessageBox, actions.MsgPostalCodeRequired))
				require.Contains(t, s.URL(), "checkout-step-one")
			}),
			step(209, "Cancel checkout and clear cart", func(t *journey.T, s *session.Session) {
				t.Check(actions.CancelCheckout(s))
				t.Check(actions.RemoveFromCart(s, Backpack))
				t.Check(actions.WaitCartItems(s, 0))
			}),
			step(210, "Logout", func(t *journey.T, s *session.Session) {
				t.Check(actions.Logout(s))
			}),
		},
	}
}
