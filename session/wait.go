package session

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ErrLookupTimeout is returned by explicit waits whose condition did not become true in time.
var ErrLookupTimeout = errors.New("lookup timed out")

// IsLookupTimeout reports whether err means an element did not appear or become
// actionable in time, either from an explicit wait or from a Playwright action.
func IsLookupTimeout(err error) bool {
	return errors.Is(err, ErrLookupTimeout) || errors.Is(err, playwright.ErrTimeout)
}

// Waiter waits for a condition on the page until it holds or the timeout expires.
// Element states, text, counts and the location are all awaited by Playwright itself.
type Waiter struct {
	s       *Session
	timeout time.Duration
}

// Wait returns a waiter bound to the session's default explicit wait timeout.
func (s *Session) Wait() *Waiter {
	return s.WaitWithin(s.options.WaitTimeout)
}

// WaitWithin returns a waiter bound to the given timeout.
func (s *Session) WaitWithin(timeout time.Duration) *Waiter {
	return &Waiter{s: s, timeout: timeout}
}

// Timeout returns the bound of this waiter.
func (w *Waiter) Timeout() time.Duration {
	return w.timeout
}

// Visible waits until the first element matching l is visible and returns it.
func (w *Waiter) Visible(l Locator) (playwright.Locator, error) {
	loc := w.s.Locate(l).First()
	if err := w.waitFor(loc, l, playwright.WaitForSelectorStateVisible, "visible"); err != nil {
		return nil, err
	}
	return loc, nil
}

// Hidden waits until no element matching l is visible. Absent elements count as hidden.
func (w *Waiter) Hidden(l Locator) error {
	return w.waitFor(w.s.Locate(l).First(), l, playwright.WaitForSelectorStateHidden, "hidden")
}

// Clickable waits until the first element matching l is visible and enabled.
func (w *Waiter) Clickable(l Locator) (playwright.Locator, error) {
	start := time.Now()
	loc, err := w.Visible(l)
	if err != nil {
		return nil, err
	}
	rest := w.timeout - time.Since(start)
	err = w.expect(rest, l.String()+" to be enabled", func(a playwright.LocatorAssertions) error {
		return a.ToBeEnabled()
	}, loc)
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// Text waits until the text of the first element matching l equals want.
// Surrounding whitespace is ignored and inner runs of whitespace compare as one space.
func (w *Waiter) Text(l Locator, want string) error {
	return w.expect(w.timeout, fmt.Sprintf("%s to have text %q", l, want), func(a playwright.LocatorAssertions) error {
		return a.ToHaveText(want)
	}, w.s.Locate(l).First())
}

// Count waits until exactly n elements match l.
func (w *Waiter) Count(l Locator, n int) error {
	return w.expect(w.timeout, fmt.Sprintf("%s to match %d elements", l, n), func(a playwright.LocatorAssertions) error {
		return a.ToHaveCount(n)
	}, w.s.Locate(l))
}

// URLContains waits until the page location contains substr.
func (w *Waiter) URLContains(substr string) error {
	err := w.s.page.WaitForURL(urlContaining(substr), playwright.PageWaitForURLOptions{
		Timeout:   playwright.Float(bound(w.timeout)),
		WaitUntil: playwright.WaitUntilStateCommit,
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w after %s: url to contain %q (url %s)", ErrLookupTimeout, w.timeout, substr, w.s.URL())
	}
	return fmt.Errorf("waiting for url to contain %q: %w", substr, err)
}

func urlContaining(substr string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(substr))
}

func (w *Waiter) waitFor(loc playwright.Locator, l Locator, state *playwright.WaitForSelectorState, desc string) error {
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: playwright.Float(bound(w.timeout)),
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w after %s: %s to be %s: %w", ErrLookupTimeout, w.timeout, l, desc, err)
	}
	return fmt.Errorf("waiting for %s to be %s: %w", l, desc, err)
}

// expect runs a web assertion on loc bounded by timeout. A mismatch when the
// timeout expires becomes ErrLookupTimeout carrying the last observed value.
func (w *Waiter) expect(timeout time.Duration, desc string, assert func(playwright.LocatorAssertions) error, loc playwright.Locator) error {
	err := assert(playwright.NewPlaywrightAssertions(bound(timeout)).Locator(loc))
	if err == nil {
		return nil
	}
	if IsLookupTimeout(err) || isAssertionMismatch(err) {
		return fmt.Errorf("%w after %s: %s (%s)", ErrLookupTimeout, w.timeout, desc, assertionSummary(err))
	}
	return fmt.Errorf("waiting for %s: %w", desc, err)
}

// isAssertionMismatch reports whether err is a failed web assertion rather than
// a protocol or browser error. Playwright reports mismatches as plain errors.
func isAssertionMismatch(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "Locator expected") || strings.HasPrefix(msg, "Page expected")
}

// assertionSummary keeps the expectation and the actual value of an assertion
// error and drops the call log.
func assertionSummary(err error) string {
	msg, _, _ := strings.Cut(err.Error(), "Call log:")
	return strings.Join(strings.Fields(msg), " ")
}

// bound converts a wait timeout to Playwright milliseconds. Playwright reads 0
// as no limit, so an expired or zero bound still checks once.
func bound(d time.Duration) float64 {
	return max(milliseconds(d), 1)
}
