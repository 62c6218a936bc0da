//go:build acceptance
// +build acceptance

package acceptance

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/session"
)

// SessionOptions returns options for a fast headless session against baseURL.
// Set HEADLESS=false environment variable to run with visible browser for debugging.
func SessionOptions(baseURL string) session.Options {
	return session.Options{
		BaseURL:       baseURL,
		Headless:      os.Getenv("HEADLESS") != "false",
		ActionTimeout: 5 * time.Second,
		WaitTimeout:   5 * time.Second,
		PopupTimeout:  time.Second,
		Logger:        testLogger(),
	}
}

// StartSession starts a browser session and fails the test if that is not possible.
func StartSession(t *testing.T, options session.Options) *session.Session {
	t.Helper()

	sess, err := session.Start(context.Background(), options)
	require.NoError(t, err, "failed to start session")
	return sess
}
