package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/networkteam/saucecheck/session"
)

func TestLocator_Selector(t *testing.T) {
	tests := []struct {
		name    string
		locator session.Locator
		want    string
	}{
		{
			name:    "id",
			locator: session.ID("user-name"),
			want:    `[id="user-name"]`,
		},
		{
			name:    "id with punctuation",
			locator: session.ID("add-to-cart-test.allthethings()-t-shirt-(red)"),
			want:    `[id="add-to-cart-test.allthethings()-t-shirt-(red)"]`,
		},
		{
			name:    "id with quote",
			locator: session.ID(`a"b`),
			want:    `[id="a\"b"]`,
		},
		{
			name:    "class",
			locator: session.Class("shopping_cart_badge"),
			want:    `[class~="shopping_cart_badge"]`,
		},
		{
			name:    "css",
			locator: session.CSS("[data-test='error']"),
			want:    "css=[data-test='error']",
		},
		{
			name:    "xpath",
			locator: session.XPath("//span[text()='Products']"),
			want:    "xpath=//span[text()='Products']",
		},
		{
			name:    "zero strategy falls back to css",
			locator: session.Locator{Value: "button.btn_inventory"},
			want:    "css=button.btn_inventory",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.locator.Selector())
		})
	}
}

func TestLocator_String(t *testing.T) {
	assert.Equal(t, "id=login-button", session.ID("login-button").String())
	assert.Equal(t, "class=cart_item", session.Class("cart_item").String())
	assert.Equal(t, "css=.title", session.Locator{Value: ".title"}.String())
}
