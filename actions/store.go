package actions

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/saucecheck/internal/utils"
	"github.com/networkteam/saucecheck/session"
)

var (
	PageTitle       = session.Class("title")
	InventoryList   = session.Class("inventory_list")
	InventoryItem   = session.Class("inventory_item")
	ItemImage       = session.Class("inventory_item_img")
	ItemName        = session.Class("inventory_item_name")
	ItemPrice       = session.Class("inventory_item_price")
	InventoryButton = session.CSS("button.btn_inventory")
	SortSelect      = session.Class("product_sort_container")
	ActiveSort      = session.Class("active_option")

	CartLink         = session.Class("shopping_cart_link")
	CartBadge        = session.Class("shopping_cart_badge")
	CartItem         = session.Class("cart_item")
	ContinueShopping = session.ID("continue-shopping")
	CheckoutButton   = session.ID("checkout")

	FirstNameInput  = session.ID("first-name")
	LastNameInput   = session.ID("last-name")
	PostalCodeInput = session.ID("postal-code")
	ContinueButton  = session.ID("continue")
	CancelButton    = session.ID("cancel")
	SummaryInfo     = session.Class("summary_info")
	SummaryTotal    = session.Class("summary_total_label")
	FinishButton    = session.ID("finish")
	CompleteHeader  = session.Class("complete-header")
	BackToProducts  = session.ID("back-to-products")
)

// AddToCartButton locates the add button of the product with the given slug.
func AddToCartButton(slug string) session.Locator {
	return session.ID("add-to-cart-" + slug)
}

// RemoveButton locates the remove button of the product with the given slug.
func RemoveButton(slug string) session.Locator {
	return session.ID("remove-" + slug)
}

// ProductSlug turns a product name into the suffix the storefront uses in button ids.
func ProductSlug(name string) string {
	return utils.Slugify(name)
}

// CheckoutInfo is the data of the checkout information form.
type CheckoutInfo struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// SortOption is the visible label of an entry of the product sort select.
type SortOption string

const (
	SortNameAsc   SortOption = "Name (A to Z)"
	SortNameDesc  SortOption = "Name (Z to A)"
	SortPriceAsc  SortOption = "Price (low to high)"
	SortPriceDesc SortOption = "Price (high to low)"
)

// SortOptions lists all sort options in the order of the select.
var SortOptions = []SortOption{SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}

// Sorted reports whether the product listing is in the order the option promises.
// Price orders only look at prices, name orders only at names.
func Sorted(option SortOption, names []string, prices []float64) bool {
	switch option {
	case SortNameAsc:
		return slices.IsSorted(names)
	case SortNameDesc:
		return slices.IsSortedFunc(names, func(a, b string) int { return strings.Compare(b, a) })
	case SortPriceAsc:
		return slices.IsSorted(prices)
	case SortPriceDesc:
		return slices.IsSortedFunc(prices, func(a, b float64) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			}
			return 0
		})
	default:
		return false
	}
}

// clickWhenReady waits until l is clickable and clicks it.
func clickWhenReady(s *session.Session, l session.Locator) error {
	loc, err := s.Wait().Clickable(l)
	if err != nil {
		return err
	}
	if err := loc.Click(); err != nil {
		return fmt.Errorf("clicking %s: %w", l, err)
	}
	return nil
}

// AddToCart clicks the add button of a product on the inventory page.
func AddToCart(s *session.Session, slug string) error {
	return clickWhenReady(s, AddToCartButton(slug))
}

// RemoveFromCart clicks the remove button of a product on the inventory or cart page.
func RemoveFromCart(s *session.Session, slug string) error {
	return clickWhenReady(s, RemoveButton(slug))
}

// CartBadgeText waits for the cart badge and returns its text.
func CartBadgeText(s *session.Session) (string, error) {
	loc, err := s.Wait().Visible(CartBadge)
	if err != nil {
		return "", err
	}
	text, err := loc.InnerText()
	if err != nil {
		return "", fmt.Errorf("reading cart badge: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// CartCount returns the number shown on the cart badge without waiting.
// The badge is absent for an empty cart, which counts as zero.
func CartCount(s *session.Session) (int, error) {
	texts, err := s.Locate(CartBadge).AllTextContents()
	if err != nil {
		return 0, fmt.Errorf("reading cart badge: %w", err)
	}
	if len(texts) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(texts[0]))
	if err != nil {
		return 0, fmt.Errorf("parsing cart badge %q: %w", texts[0], err)
	}
	return n, nil
}

// WaitCartBadge waits until the cart badge shows text.
func WaitCartBadge(s *session.Session, text string) error {
	return s.Wait().Text(CartBadge, text)
}

// OpenCart clicks the cart icon and waits for the cart page.
func OpenCart(s *session.Session) error {
	if err := clickWhenReady(s, CartLink); err != nil {
		return err
	}
	return s.Wait().URLContains("cart")
}

// CartItemCount returns the number of line items on the cart page without waiting.
func CartItemCount(s *session.Session) (int, error) {
	n, err := s.Locate(CartItem).Count()
	if err != nil {
		return 0, fmt.Errorf("counting cart items: %w", err)
	}
	return n, nil
}

// WaitCartItems waits until the cart page lists exactly n line items.
func WaitCartItems(s *session.Session, n int) error {
	return s.Wait().Count(CartItem, n)
}

// ContinueShoppingFromCart returns from the cart to the inventory page.
func ContinueShoppingFromCart(s *session.Session) error {
	return clickWhenReady(s, ContinueShopping)
}

// Checkout starts the checkout from the cart page.
func Checkout(s *session.Session) error {
	return clickWhenReady(s, CheckoutButton)
}

// FillCheckoutInfo types the checkout information into the form.
func FillCheckoutInfo(s *session.Session, info CheckoutInfo) error {
	if _, err := s.Wait().Visible(FirstNameInput); err != nil {
		return err
	}
	for _, field := range []struct {
		locator session.Locator
		value   string
	}{
		{FirstNameInput, info.FirstName},
		{LastNameInput, info.LastName},
		{PostalCodeInput, info.PostalCode},
	} {
		if err := fill(s, field.locator, field.value); err != nil {
			return err
		}
	}
	return nil
}

// ContinueCheckout submits the information form.
func ContinueCheckout(s *session.Session) error {
	return clickWhenReady(s, ContinueButton)
}

// CancelCheckout leaves the information form back to the cart.
func CancelCheckout(s *session.Session) error {
	if err := clickWhenReady(s, CancelButton); err != nil {
		return err
	}
	return s.Wait().URLContains("cart")
}

// FinishCheckout places the order from the overview page.
func FinishCheckout(s *session.Session) error {
	return clickWhenReady(s, FinishButton)
}

// BackHome returns from the order confirmation to the inventory page.
func BackHome(s *session.Session) error {
	return clickWhenReady(s, BackToProducts)
}

// SortProducts selects option in the sort select and waits until the storefront shows it as active.
func SortProducts(s *session.Session, option SortOption) error {
	loc, err := s.Wait().Visible(SortSelect)
	if err != nil {
		return err
	}
	if _, err := loc.SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{string(option)},
	}); err != nil {
		return fmt.Errorf("selecting sort option %q: %w", option, err)
	}
	return s.Wait().Text(ActiveSort, string(option))
}

// ProductNames returns the product names of the inventory page in display order.
func ProductNames(s *session.Session) ([]string, error) {
	texts, err := s.Locate(ItemName).AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("reading product names: %w", err)
	}
	for i := range texts {
		texts[i] = strings.TrimSpace(texts[i])
	}
	return texts, nil
}

// ProductPrices returns the product prices of the inventory page in display order.
func ProductPrices(s *session.Session) ([]float64, error) {
	texts, err := s.Locate(ItemPrice).AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("reading product prices: %w", err)
	}
	prices := make([]float64, 0, len(texts))
	for _, text := range texts {
		price, err := utils.ParsePrice(text)
		if err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}
	return prices, nil
}

// Count returns how many elements currently match l without waiting.
func Count(s *session.Session, l session.Locator) (int, error) {
	n, err := s.Locate(l).Count()
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", l, err)
	}
	return n, nil
}

// Text waits for l to be visible and returns its trimmed inner text.
func Text(s *session.Session, l session.Locator) (string, error) {
	loc, err := s.Wait().Visible(l)
	if err != nil {
		return "", err
	}
	text, err := loc.InnerText()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", l, err)
	}
	return strings.TrimSpace(text), nil
}
