package collector

import "sync"

// RingBuffer is a thread-safe, fixed capacity buffer that keeps the most recent entries.
type RingBuffer[T any] struct {
	mu      sync.RWMutex
	entries []T
	start   int
	length  int
}

// NewRingBuffer creates a new ring buffer with the given capacity
func NewRingBuffer[T any](capacity uint64) *RingBuffer[T] {
	if capacity == 0 {
		panic("capacity must be greater than 0")
	}

	return &RingBuffer[T]{
		entries: make([]T, capacity),
	}
}

// Add appends an entry, overwriting the oldest one when the buffer is full.
func (rb *RingBuffer[T]) Add(entry T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	capacity := len(rb.entries)
	if rb.length < capacity {
		rb.entries[(rb.start+rb.length)%capacity] = entry
		rb.length++
		return
	}

	rb.entries[rb.start] = entry
	rb.start = (rb.start + 1) % capacity
}

// Tail returns up to n of the most recent entries, oldest first.
func (rb *RingBuffer[T]) Tail(n int) []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if n <= 0 || rb.length == 0 {
		return []T{}
	}
	count := min(n, rb.length)

	result := make([]T, count)
	offset := rb.length - count
	for i := range count {
		result[i] = rb.entries[(rb.start+offset+i)%len(rb.entries)]
	}
	return result
}

// All returns every buffered entry, oldest first.
func (rb *RingBuffer[T]) All() []T {
	return rb.Tail(rb.Len())
}

// Len returns the current number of entries in the buffer
func (rb *RingBuffer[T]) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.length
}

// Capacity returns the maximum number of entries kept
func (rb *RingBuffer[T]) Capacity() int {
	return len(rb.entries)
}

// Reset drops all entries.
func (rb *RingBuffer[T]) Reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	var zero T
	for i := range rb.entries {
		rb.entries[i] = zero
	}
	rb.start = 0
	rb.length = 0
}
