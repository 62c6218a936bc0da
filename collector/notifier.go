package collector

import (
	"context"
	"sync"
)

// Notifier fans out published items to all current subscribers.
// Delivery never blocks the publisher: a subscriber whose buffer is full misses the item.
type Notifier[T any] struct {
	mu          sync.RWMutex
	subscribers map[<-chan T]chan T
	bufferSize  int
	queue       chan T
	done        chan struct{}
	closeOnce   sync.Once
	closed      bool
}

// NotifierOptions configures a notifier
type NotifierOptions struct {
	// SubscriberBufferSize is the buffer size for each subscriber channel
	SubscriberBufferSize int

	// QueueSize is the buffer size of the internal queue between Notify and delivery
	QueueSize int
}

// DefaultNotifierOptions returns default options for a notifier
func DefaultNotifierOptions() NotifierOptions {
	return NotifierOptions{
		SubscriberBufferSize: 100,
		QueueSize:            1000,
	}
}

// NewNotifier creates a new notifier with default options
func NewNotifier[T any]() *Notifier[T] {
	return NewNotifierWithOptions[T](DefaultNotifierOptions())
}

// NewNotifierWithOptions creates a new notifier with specified options
func NewNotifierWithOptions[T any](options NotifierOptions) *Notifier[T] {
	n := &Notifier[T]{
		subscribers: make(map[<-chan T]chan T),
		bufferSize:  options.SubscriberBufferSize,
		queue:       make(chan T, options.QueueSize),
		done:        make(chan struct{}),
	}

	go n.deliver()

	return n
}

// Subscribe returns a channel that receives published items until ctx is done
// or the notifier is closed.
func (n *Notifier[T]) Subscribe(ctx context.Context) <-chan T {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		ch := make(chan T)
		close(ch)
		return ch
	}
	ch := make(chan T, n.bufferSize)
	n.subscribers[ch] = ch
	n.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			n.Unsubscribe(ch)
		case <-n.done:
		}
	}()

	return ch
}

// Unsubscribe removes a subscription and closes its channel
func (n *Notifier[T]) Unsubscribe(ch <-chan T) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if sub, exists := n.subscribers[ch]; exists {
		delete(n.subscribers, ch)
		close(sub)
	}
}

// Notify queues an item for delivery. If the queue is full the item is dropped.
func (n *Notifier[T]) Notify(item T) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}

	select {
	case n.queue <- item:
	default:
	}
}

// Close stops delivery and closes all subscriber channels after the queue is drained.
func (n *Notifier[T]) Close() {
	n.closeOnce.Do(func() {
		n.mu.Lock()
		n.closed = true
		close(n.queue)
		n.mu.Unlock()

		<-n.done
	})
}

func (n *Notifier[T]) deliver() {
	defer func() {
		n.mu.Lock()
		for ch, sub := range n.subscribers {
			close(sub)
			delete(n.subscribers, ch)
		}
		n.mu.Unlock()
		close(n.done)
	}()

	for item := range n.queue {
		n.mu.RLock()
		for _, sub := range n.subscribers {
			select {
			case sub <- item:
			default:
			}
		}
		n.mu.RUnlock()
	}
}
