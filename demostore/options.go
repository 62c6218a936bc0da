package demostore

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
)

const (
	DefaultSessionIdleTimeout = 30 * time.Minute
	DefaultTaxRate            = 0.08
	DefaultGlitchDelay        = time.Second
	DefaultRequestCapacity    = 1000
)

// PopupMode controls the password change popup shown after login.
type PopupMode string

const (
	// PopupNever never shows the popup.
	PopupNever PopupMode = "never"
	// PopupAlways shows the popup on the first products page after every login.
	PopupAlways PopupMode = "always"
	// PopupOnce shows the popup only after the first login of each user.
	PopupOnce PopupMode = "once"
)

// PopupModes lists the accepted popup modes.
var PopupModes = []PopupMode{PopupNever, PopupAlways, PopupOnce}

// ParsePopupMode returns the popup mode named by value.
func ParsePopupMode(value string) (PopupMode, error) {
	mode := PopupMode(value)
	if !slices.Contains(PopupModes, mode) {
		return "", fmt.Errorf("unknown popup mode %q", value)
	}
	return mode, nil
}

// handlerOptions holds configuration for a demo store Handler.
// This is unexported; use HandlerOption functions to configure.
type handlerOptions struct {
	Logger             *slog.Logger
	PopupMode          PopupMode
	PopupDelay         time.Duration
	SessionIdleTimeout time.Duration
	TaxRate            float64
	GlitchDelay        time.Duration
	RequestCapacity    uint64
}

func defaultHandlerOptions() handlerOptions {
	return handlerOptions{
		Logger:             slog.Default(),
		PopupMode:          PopupNever,
		SessionIdleTimeout: DefaultSessionIdleTimeout,
		TaxRate:            DefaultTaxRate,
		GlitchDelay:        DefaultGlitchDelay,
		RequestCapacity:    DefaultRequestCapacity,
	}
}

// HandlerOption configures a demo store Handler.
type HandlerOption func(*handlerOptions)

// WithLogger sets the logger for store events.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.Logger = logger
	}
}

// WithPopupMode sets when the password change popup is shown.
// Default is PopupNever.
func WithPopupMode(mode PopupMode) HandlerOption {
	return func(o *handlerOptions) {
		o.PopupMode = mode
	}
}

// WithPopupDelay delays the appearance of the popup after the page loaded.
func WithPopupDelay(delay time.Duration) HandlerOption {
	return func(o *handlerOptions) {
		o.PopupDelay = delay
	}
}

// WithSessionIdleTimeout sets how long an unused login session is kept.
// Default is 30 minutes if not specified.
func WithSessionIdleTimeout(timeout time.Duration) HandlerOption {
	return func(o *handlerOptions) {
		o.SessionIdleTimeout = timeout
	}
}

// WithTaxRate sets the tax rate applied on the checkout overview.
// Default is 8%.
func WithTaxRate(rate float64) HandlerOption {
	return func(o *handlerOptions) {
		o.TaxRate = rate
	}
}

// WithGlitchDelay sets how long logins of the performance glitch user take.
// Default is one second.
func WithGlitchDelay(delay time.Duration) HandlerOption {
	return func(o *handlerOptions) {
		o.GlitchDelay = delay
	}
}

// WithRequestCapacity sets the number of served requests kept for inspection.
// Default is 1000.
func WithRequestCapacity(capacity uint64) HandlerOption {
	return func(o *handlerOptions) {
		o.RequestCapacity = capacity
	}
}
