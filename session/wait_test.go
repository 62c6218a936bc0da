package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
)

func TestUrlContaining(t *testing.T) {
	re := urlContaining("inventory-item.html?id=4")

	assert.True(t, re.MatchString("http://127.0.0.1:8080/inventory-item.html?id=4"))
	assert.False(t, re.MatchString("http://127.0.0.1:8080/inventory-item.html?id=5"), "query is matched literally")
	assert.False(t, re.MatchString("http://127.0.0.1:8080/inventory-itemXhtml?id=4"), "dot is not a wildcard")
}

func TestBound(t *testing.T) {
	assert.Equal(t, float64(1500), bound(1500*time.Millisecond))
	assert.Equal(t, float64(1), bound(0), "zero would disable the Playwright timeout")
	assert.Equal(t, float64(1), bound(-time.Second))
}

func TestIsAssertionMismatch(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "text", err: errors.New("Locator expected to have text 'Products'\nActual value: Your Cart \nCall log:\n  - waiting"), want: true},
		{name: "count", err: errors.New("Locator expected to have count '0'\nActual value: 1 "), want: true},
		{name: "page", err: errors.New("Page expected to have url 'x'\nActual value: y "), want: true},
		{name: "target closed", err: playwright.ErrTargetClosed, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAssertionMismatch(tt.err))
		})
	}
}

func TestAssertionSummary(t *testing.T) {
	err := errors.New("Locator expected to have text 'Products'\nActual value: Your Cart \nCall log:\n  - waiting for locator('.title')")

	assert.Equal(t, "Locator expected to have text 'Products' Actual value: Your Cart", assertionSummary(err))
}

func TestIsLookupTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "wait timeout", err: fmt.Errorf("%w: popup", ErrLookupTimeout), want: true},
		{name: "playwright timeout", err: fmt.Errorf("clicking: %w", playwright.ErrTimeout), want: true},
		{name: "other", err: errors.New("element is not attached"), want: false},
		{name: "target closed", err: playwright.ErrTargetClosed, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLookupTimeout(tt.err))
		})
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{}.withDefaults()

	assert.Equal(t, DefaultBaseURL, o.BaseURL)
	assert.Equal(t, BrowserChromium, o.Browser)
	assert.Equal(t, 10*time.Second, o.ActionTimeout)
	assert.Equal(t, 10*time.Second, o.WaitTimeout)
	assert.Equal(t, DefaultPopupTimeout, o.PopupTimeout)
	assert.Equal(t, 1280, o.Viewport.Width)
	assert.Equal(t, 720, o.Viewport.Height)
	assert.NotNil(t, o.Logger)

	custom := Options{BaseURL: "http://localhost:8080/", WaitTimeout: time.Second}.withDefaults()
	assert.Equal(t, "http://localhost:8080/", custom.BaseURL)
	assert.Equal(t, time.Second, custom.WaitTimeout)
}

func TestStop_Idempotent(t *testing.T) {
	var nilSession *Session
	assert.NoError(t, nilSession.Stop())

	// A session whose start never acquired anything
	s := &Session{}
	assert.NoError(t, s.Stop())
	assert.NoError(t, s.Stop())
}

func TestConsoleTail_NilSession(t *testing.T) {
	var s *Session
	assert.Nil(t, s.ConsoleTail(10))
}
