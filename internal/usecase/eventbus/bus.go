// Package eventbus fans coordinator events out to observers such as the
// terminal UI and the structured log.
package eventbus

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"koordinator/internal/domain"
)

type subscription struct {
	id      uint64
	handler domain.EventHandler
}

// Option configures a Bus.
type Option func(*Bus)

// Synchronous makes Publish invoke handlers inline, in subscription order.
// Used by the one-shot CLI path and by tests that assert on ordering.
func Synchronous() Option {
	return func(b *Bus) { b.sync = true }
}

// Bus is an in-process, goroutine-safe event bus.
type Bus struct {
	mu      sync.RWMutex
	typed   map[domain.EventType][]subscription
	allSubs []subscription
	nextID  atomic.Uint64
	logger  *slog.Logger
	wg      sync.WaitGroup
	closed  atomic.Bool
	sync    bool
}

var _ domain.EventBus = (*Bus)(nil)

// New creates an event bus. A nil logger discards handler panics.
func New(logger *slog.Logger, opts ...Option) *Bus {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b := &Bus{
		typed:  make(map[domain.EventType][]subscription),
		logger: logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers event to typed subscribers first, then to catch-all
// subscribers. Publishing on a closed bus is a no-op.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	if b.closed.Load() {
		return
	}

	b.mu.RLock()
	subs := make([]subscription, 0, len(b.typed[event.Type])+len(b.allSubs))
	subs = append(subs, b.typed[event.Type]...)
	subs = append(subs, b.allSubs...)
	b.mu.RUnlock()

	for _, sub := range subs {
		if b.sync {
			b.invoke(ctx, event, sub)
			continue
		}
		b.wg.Add(1)
		go func(sub subscription) {
			defer b.wg.Done()
			b.invoke(ctx, event, sub)
		}(sub)
	}
}

func (b *Bus) invoke(ctx context.Context, event domain.Event, sub subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event", string(event.Type),
				"subscription", sub.id,
				"panic", r,
			)
		}
	}()
	sub.handler(ctx, event)
}

// Subscribe registers a handler for one event type and returns its
// unsubscribe function.
func (b *Bus) Subscribe(eventType domain.EventType, handler domain.EventHandler) func() {
	sub := subscription{id: b.nextID.Add(1), handler: handler}

	b.mu.Lock()
	b.typed[eventType] = append(b.typed[eventType], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.typed[eventType] = without(b.typed[eventType], sub.id)
	}
}

// SubscribeAll registers a handler for every event and returns its
// unsubscribe function.
func (b *Bus) SubscribeAll(handler domain.EventHandler) func() {
	sub := subscription{id: b.nextID.Add(1), handler: handler}

	b.mu.Lock()
	b.allSubs = append(b.allSubs, sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.allSubs = without(b.allSubs, sub.id)
	}
}

// Close stops accepting events and waits for in-flight handlers. Safe to
// call more than once.
func (b *Bus) Close() {
	if b.closed.Swap(true) {
		return
	}
	b.wg.Wait()
}

func without(subs []subscription, id uint64) []subscription {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
