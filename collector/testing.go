package collector

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestCollector drains a subscription in the background for assertions in tests.
type TestCollector[T any] struct {
	t       testing.TB
	cancel  context.CancelFunc
	timeout time.Duration

	mu    sync.Mutex
	items []T
}

// Collect subscribes with a cancellable context and starts draining.
// Use Wait(n) to block until n items arrived.
func Collect[T any](t testing.TB, subscribe func(context.Context) <-chan T) *TestCollector[T] {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	ch := subscribe(ctx)

	c := &TestCollector[T]{
		t:       t,
		cancel:  cancel,
		timeout: 2 * time.Second,
	}
	t.Cleanup(cancel)

	go func() {
		for item := range ch {
			c.mu.Lock()
			c.items = append(c.items, item)
			c.mu.Unlock()
		}
	}()

	return c
}

// WithTimeout changes how long Wait blocks before failing the test.
func (c *TestCollector[T]) WithTimeout(d time.Duration) *TestCollector[T] {
	c.timeout = d
	return c
}

// Wait blocks until at least n items arrived and returns a copy of them.
// The test fails on timeout.
func (c *TestCollector[T]) Wait(n int) []T {
	c.t.Helper()
	deadline := time.Now().Add(c.timeout)

	for time.Now().Before(deadline) {
		if items := c.snapshot(); len(items) >= n {
			c.cancel()
			return items
		}
		time.Sleep(time.Millisecond)
	}

	c.cancel()
	c.t.Fatalf("timeout waiting for %d items, got %d", n, len(c.snapshot()))
	return nil
}

// Stop cancels the subscription and returns what was collected so far.
func (c *TestCollector[T]) Stop() []T {
	c.cancel()
	return c.snapshot()
}

func (c *TestCollector[T]) snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}
