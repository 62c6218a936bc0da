//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"

	"github.com/networkteam/saucecheck/demostore"
	"github.com/networkteam/saucecheck/session"
)

// TestFixtures bundles all commonly needed test fixtures.
type TestFixtures struct {
	Store   *TestStore
	Session *session.Session
}

// WithTestFixtures starts a demo store and a session on its login page, registers
// cleanup with t.Cleanup() and calls the test function.
func WithTestFixtures(t *testing.T, fn func(t *testing.T, f *TestFixtures), opts ...demostore.HandlerOption) {
	t.Helper()

	WithCustomSession(t, func(options *session.Options) {}, fn, opts...)
}

// WithCustomSession is like WithTestFixtures but lets the test adjust the session options.
func WithCustomSession(t *testing.T, configure func(options *session.Options), fn func(t *testing.T, f *TestFixtures), opts ...demostore.HandlerOption) {
	t.Helper()

	store := NewTestStore(t, opts...)
	t.Cleanup(func() { store.Close() })

	options := SessionOptions(store.URL)
	configure(&options)

	sess := StartSession(t, options)
	t.Cleanup(func() { _ = sess.Stop() })

	fn(t, &TestFixtures{
		Store:   store,
		Session: sess,
	})
}
