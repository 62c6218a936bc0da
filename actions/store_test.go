package actions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/networkteam/saucecheck/actions"
)

func TestProductButtons(t *testing.T) {
	slug := actions.ProductSlug("Test.allTheThings() T-Shirt (Red)")

	assert.Equal(t, "test.allthethings()-t-shirt-(red)", slug)
	assert.Equal(t, "id=add-to-cart-test.allthethings()-t-shirt-(red)", actions.AddToCartButton(slug).String())
	assert.Equal(t, "id=remove-sauce-labs-backpack", actions.RemoveButton("sauce-labs-backpack").String())
}

func TestSorted(t *testing.T) {
	names := []string{"Sauce Labs Backpack", "Sauce Labs Bike Light", "Sauce Labs Onesie"}
	reversed := []string{"Sauce Labs Onesie", "Sauce Labs Bike Light", "Sauce Labs Backpack"}
	ascending := []float64{7.99, 9.99, 15.99, 15.99, 29.99}
	descending := []float64{49.99, 29.99, 15.99, 15.99, 7.99}

	tests := []struct {
		name   string
		option actions.SortOption
		names  []string
		prices []float64
		want   bool
	}{
		{name: "names ascending", option: actions.SortNameAsc, names: names, want: true},
		{name: "names ascending on reversed", option: actions.SortNameAsc, names: reversed, want: false},
		{name: "names descending", option: actions.SortNameDesc, names: reversed, want: true},
		{name: "names descending on ascending", option: actions.SortNameDesc, names: names, want: false},
		{name: "prices ascending with ties", option: actions.SortPriceAsc, prices: ascending, want: true},
		{name: "prices ascending on descending", option: actions.SortPriceAsc, prices: descending, want: false},
		{name: "prices descending with ties", option: actions.SortPriceDesc, prices: descending, want: true},
		{name: "prices descending on ascending", option: actions.SortPriceDesc, prices: ascending, want: false},
		{name: "price order ignores names", option: actions.SortPriceAsc, names: reversed, prices: ascending, want: true},
		{name: "empty listing", option: actions.SortNameAsc, want: true},
		{name: "unknown option", option: actions.SortOption("Popularity"), names: names, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, actions.Sorted(tt.option, tt.names, tt.prices))
		})
	}
}

func TestSortOptions(t *testing.T) {
	assert.Equal(t, []actions.SortOption{
		"Name (A to Z)",
		"Name (Z to A)",
		"Price (low to high)",
		"Price (high to low)",
	}, actions.SortOptions)
}
