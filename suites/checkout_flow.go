package suites

import (
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/networkteam/saucecheck/actions"
	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/session"
)

// CheckoutFlow places an order for one product, checks the cart is empty afterwards
// and logs out.
func CheckoutFlow(c Credentials) journey.Suite {
	return journey.Suite{
		Name:        "CheckoutFlow",
		Description: "Checkout, order confirmation, empty cart after order and logout",
		Steps: []journey.Step{
			step(16, "Login for checkout flow", func(t *journey.T, s *session.Session) {
				login(t, s, c)
				t.Check(s.Wait().URLContains("inventory"))
			}),
			step(17, "Add product to cart", func(t *journey.T, s *session.Session) {
				t.Check(actions.AddToCart(s, Backpack))
			}),
			step(18, "Open cart page", func(t *journey.T, s *session.Session) {
				t.Check(actions.OpenCart(s))
			}),
			step(19, "Click checkout button", func(t *journey.T, s *session.Session) {
				t.Check(actions.Checkout(s))
			}),
			step(20, "Enter checkout details", func(t *journey.T, s *session.Session) {
				t.Check(actions.FillCheckoutInfo(s, Customer))
			}),
			step(21, "Continue checkout", func(t *journey.T, s *session.Session) {
				t.Check(actions.ContinueCheckout(s))
				t.Check(s.Wait().URLContains("checkout-step-two"))
			}),
			step(22, "Verify checkout overview", func(t *journey.T, s *session.Session) {
				summary, err := s.Wait().Visible(actions.SummaryInfo)
				t.Check(err)
				visible, err := summary.IsVisible()
				t.Check(err)
				assert.True(t, visible, "summary info visible")
			}),
			step(23, "Finish the order", func(t *journey.T, s *session.Session) {
				t.Check(actions.FinishCheckout(s))
			}),
			step(24, "Verify order confirmation", func(t *journey.T, s *session.Session) {
				header, err := actions.Text(s, actions.CompleteHeader)
				t.Check(err)
				assert.NotEmpty(t, header)
			}),
			step(25, "Back to products page", func(t *journey.T, s *session.Session) {
				t.Check(actions.BackHome(s))
			}),
			step(26, "Verify cart is empty", func(t *journey.T, s *session.Session) {
				t.Check(actions.OpenCart(s))
				n, err := actions.CartItemCount(s)
				t.Check(err)
				assert.Zero(t, n, "cart items after order")
			}),
			step(27, "Continue shopping", func(t *journey.T, s *session.Session) {
				t.Check(actions.ContinueShoppingFromCart(s))
			}),
			step(28, "Verify products page again", func(t *journey.T, s *session.Session) {
				t.Check(s.Wait().URLContains("inventory"))
			}),
			step(29, "Logout after checkout", func(t *journey.T, s *session.Session) {
				t.Check(actions.Logout(s))
			}),
			step(30, "Verify login page after logout", func(t *journey.T, s *session.Session) {
				_, err := s.Wait().Visible(actions.LoginButton)
				t.Check(err)
				assert.True(t, strings.HasPrefix(s.URL(), s.Options().BaseURL), "url %s is on %s", s.URL(), s.Options().BaseURL)
				assert.NotContains(t, s.URL(), "inventory")
				t.Check(actions.WaitLoggedOut(s))
			}),
		},
	}
}
