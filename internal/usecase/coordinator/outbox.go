package coordinator

import (
	"context"
	"sync"

	"koordinator/internal/domain"
)

// outbox queues events raised while the orchestrator holds its lock and
// forwards them, in order, once the lock is released. Subscribers may then
// call back into the orchestrator without deadlocking.
type outbox struct {
	mu      sync.Mutex
	flushMu sync.Mutex
	pending []queued
	next    domain.EventBus
}

type queued struct {
	ctx   context.Context
	event domain.Event
}

var _ domain.EventBus = (*outbox)(nil)

func newOutbox(next domain.EventBus) *outbox {
	return &outbox{next: next}
}

func (o *outbox) Publish(ctx context.Context, event domain.Event) {
	if o.next == nil {
		return
	}
	o.mu.Lock()
	o.pending = append(o.pending, queued{ctx: ctx, event: event})
	o.mu.Unlock()
}

func (o *outbox) flush() {
	if o.next == nil {
		return
	}
	o.flushMu.Lock()
	defer o.flushMu.Unlock()
	for {
		o.mu.Lock()
		batch := o.pending
		o.pending = nil
		o.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, q := range batch {
			o.next.Publish(q.ctx, q.event)
		}
	}
}

func (o *outbox) Subscribe(eventType domain.EventType, handler domain.EventHandler) func() {
	if o.next == nil {
		return func() {}
	}
	return o.next.Subscribe(eventType, handler)
}

func (o *outbox) SubscribeAll(handler domain.EventHandler) func() {
	if o.next == nil {
		return func() {}
	}
	return o.next.SubscribeAll(handler)
}

func (o *outbox) Close() {}
