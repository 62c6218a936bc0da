//go:build acceptance
// +build acceptance

package acceptance

import (
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/demostore"
)

// TestStore is the demo store served on a local test server.
type TestStore struct {
	Server  *httptest.Server
	URL     string
	Handler *demostore.Handler
}

// NewTestStore starts a demo store. Set DEBUG=true to see store logs.
func NewTestStore(t *testing.T, opts ...demostore.HandlerOption) *TestStore {
	t.Helper()

	opts = append([]demostore.HandlerOption{demostore.WithLogger(testLogger())}, opts...)
	handler, err := demostore.NewHandler(opts...)
	require.NoError(t, err, "failed to create demo store")

	server := httptest.NewServer(handler)

	return &TestStore{
		Server:  server,
		URL:     server.URL + "/",
		Handler: handler,
	}
}

// Close stops the server and the store.
func (ts *TestStore) Close() {
	ts.Server.Close()
	ts.Handler.Close()
}

func testLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
