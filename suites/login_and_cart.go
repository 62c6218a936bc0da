package suites

import (
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/actions"
	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/session"
)

// LoginAndCart covers login, the product listing, adding and removing cart items
// and returning to the products page.
func LoginAndCart(c Credentials) journey.Suite {
	return journey.Suite{
		Name:        "LoginAndCart",
		Description: "Login, product listing, cart add, remove and continue shopping",
		Steps: []journey.Step{
			step(1, "Verify login page title", func(t *journey.T, s *session.Session) {
				title, err := s.Title()
				t.Check(err)
				assert.Equal(t, "Swag Labs", title)
			}),
			step(2, "Login with valid credentials", func(t *journey.T, s *session.Session) {
				login(t, s, c)
				_, err := s.Wait().Visible(session.XPath("//span[text()='Products']"))
				t.Check(err)
			}),
			step(3, "Verify products page title", func(t *journey.T, s *session.Session) {
				title, err := actions.Text(s, actions.PageTitle)
				t.Check(err)
				assert.Equal(t, "Products", title)
			}),
			step(4, "Verify product list displayed", func(t *journey.T, s *session.Session) {
				n, err := actions.Count(s, actions.InventoryItem)
				t.Check(err)
				assert.Positive(t, n, "products listed")
			}),
			step(5, "Add first product", func(t *journey.T, s *session.Session) {
				t.Check(actions.AddToCart(s, Backpack))
				t.Check(actions.WaitCartBadge(s, "1"))
			}),
			step(6, "Add second product", func(t *journey.T, s *session.Session) {
				t.Check(actions.AddToCart(s, BikeLight))
				t.Check(actions.WaitCartBadge(s, "2"))
			}),
			step(7, "Verify cart badge count", func(t *journey.T, s *session.Session) {
				badge, err := actions.CartBadgeText(s)
				t.Check(err)
				assert.Equal(t, "2", badge)
			}),
			step(8, "Open cart page", func(t *journey.T, s *session.Session) {
				t.Check(actions.OpenCart(s))
			}),
			step(9, "Verify cart items", func(t *journey.T, s *session.Session) {
				t.Check(actions.WaitCartItems(s, 2))
				n, err := actions.CartItemCount(s)
				t.Check(err)
				assert.Equal(t, 2, n)
			}),
			step(10, "Remove one item from cart", func(t *journey.T, s *session.Session) {
				t.Check(actions.RemoveFromCart(s, Backpack))
				t.Check(actions.WaitCartBadge(s, "1"))
			}),
			step(11, "Verify cart after removal", func(t *journey.T, s *session.Session) {
				t.Check(actions.WaitCartItems(s, 1))
				n, err := actions.CartItemCount(s)
				t.Check(err)
				assert.Equal(t, 1, n)
			}),
			step(12, "Continue shopping", func(t *journey.T, s *session.Session) {
				t.Check(actions.ContinueShoppingFromCart(s))
			}),
			step(13, "Verify back on products page", func(t *journey.T, s *session.Session) {
				t.Check(s.Wait().URLContains("inventory"))
				require.True(t, strings.Contains(s.URL(), "inventory"), "url %s", s.URL())
			}),
			step(14, "Add product again", func(t *journey.T, s *session.Session) {
				t.Check(actions.AddToCart(s, Backpack))
				t.Check(actions.WaitCartBadge(s, "2"))
			}),
			step(15, "Open cart again", func(t *journey.T, s *session.Session) {
				t.Check(actions.OpenCart(s))
				t.Check(actions.WaitCartItems(s, 2))
			}),
		},
	}
}
