package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Slugify turns a product name into the slug used in storefront element ids,
// e.g. "Sauce Labs Backpack" becomes "sauce-labs-backpack".
// Punctuation is kept, matching the storefront.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// ParsePrice parses a displayed amount such as "$29.99" or "Total: $32.39".
func ParsePrice(s string) (float64, error) {
	i := strings.LastIndex(s, "$")
	if i < 0 {
		return 0, fmt.Errorf("no amount in %q", s)
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount in %q: %w", s, err)
	}
	return amount, nil
}

// FormatPrice renders an amount the way the storefront displays it.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
