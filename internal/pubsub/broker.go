package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Broker fans events out to every live subscription.
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[uint64]chan Event[T]
	nextID     uint64
	closed     bool
	bufferSize int
	now        func() time.Time
}

// NewBroker creates a broker with the default buffer size (64).
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker with a custom per-subscriber buffer.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	if size < 1 {
		size = 1
	}
	return &Broker[T]{
		subs:       make(map[uint64]chan Event[T]),
		bufferSize: size,
		now:        time.Now,
	}
}

// Subscribe registers a subscription that is dropped when ctx is cancelled.
// The returned channel is closed on cancellation or broker Close.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	ch, release := b.SubscribeScoped()
	if release == nil {
		return ch
	}
	go func() {
		<-ctx.Done()
		release()
	}()
	return ch
}

// SubscribeScoped registers a subscription and returns an idempotent release
// function instead of tying it to a context. Release is nil when the broker
// is already closed.
func (b *Broker[T]) SubscribeScoped() (<-chan Event[T], func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event[T])
		close(ch)
		return ch, nil
	}

	id := b.nextID
	b.nextID++
	ch := make(chan Event[T], b.bufferSize)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.drop(id) })
	}
}

func (b *Broker[T]) drop(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(ch)
}

// Publish sends an event to all subscribers.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: b.now()}
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close shuts down the broker and closes every subscriber channel.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
