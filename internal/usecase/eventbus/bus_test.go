package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"koordinator/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newEvent(t domain.EventType) domain.Event {
	return domain.NewEvent(t, "conv", nil)
}

func TestPublishSubscribe(t *testing.T) {
	bus := New(nil)

	var got atomic.Int32
	bus.Subscribe(domain.EventEntryAppended, func(_ context.Context, e domain.Event) {
		if e.Type == domain.EventEntryAppended {
			got.Add(1)
		}
	})
	bus.Subscribe(domain.EventStateChanged, func(_ context.Context, _ domain.Event) {
		t.Error("state handler must not see entry events")
	})

	bus.Publish(context.Background(), newEvent(domain.EventEntryAppended))
	bus.Close()
	assert.Equal(t, int32(1), got.Load())
}

func TestSubscribeAll(t *testing.T) {
	bus := New(nil)

	var got atomic.Int32
	bus.SubscribeAll(func(_ context.Context, _ domain.Event) { got.Add(1) })

	bus.Publish(context.Background(), newEvent(domain.EventEntryAppended))
	bus.Publish(context.Background(), newEvent(domain.EventDispatchStarted))
	bus.Close()
	assert.Equal(t, int32(2), got.Load())
}

func TestUnsubscribe(t *testing.T) {
	bus := New(nil, Synchronous())
	defer bus.Close()

	var typed, all atomic.Int32
	unsubTyped := bus.Subscribe(domain.EventEntryAppended, func(_ context.Context, _ domain.Event) { typed.Add(1) })
	unsubAll := bus.SubscribeAll(func(_ context.Context, _ domain.Event) { all.Add(1) })

	bus.Publish(context.Background(), newEvent(domain.EventEntryAppended))
	unsubTyped()
	unsubAll()
	unsubAll()
	bus.Publish(context.Background(), newEvent(domain.EventEntryAppended))

	assert.Equal(t, int32(1), typed.Load())
	assert.Equal(t, int32(1), all.Load())
}

func TestSynchronousOrdering(t *testing.T) {
	bus := New(nil, Synchronous())
	defer bus.Close()

	var got []domain.EventType
	bus.SubscribeAll(func(_ context.Context, e domain.Event) { got = append(got, e.Type) })

	bus.Publish(context.Background(), newEvent(domain.EventCycleStarted))
	bus.Publish(context.Background(), newEvent(domain.EventEntryAppended))
	bus.Publish(context.Background(), newEvent(domain.EventCycleCompleted))

	assert.Equal(t, []domain.EventType{
		domain.EventCycleStarted,
		domain.EventEntryAppended,
		domain.EventCycleCompleted,
	}, got)
}

func TestConcurrentPublish(t *testing.T) {
	bus := New(nil)

	var got atomic.Int32
	bus.Subscribe(domain.EventEntryAppended, func(_ context.Context, _ domain.Event) { got.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(context.Background(), newEvent(domain.EventEntryAppended))
		}()
	}
	wg.Wait()
	bus.Close()
	assert.Equal(t, int32(100), got.Load())
}

func TestPanicRecovery(t *testing.T) {
	for _, opts := range [][]Option{nil, {Synchronous()}} {
		bus := New(nil, opts...)

		var got atomic.Int32
		bus.Subscribe(domain.EventEntryAppended, func(_ context.Context, _ domain.Event) { panic("boom") })
		bus.Subscribe(domain.EventEntryAppended, func(_ context.Context, _ domain.Event) { got.Add(1) })

		bus.Publish(context.Background(), newEvent(domain.EventEntryAppended))
		bus.Close()
		assert.Equal(t, int32(1), got.Load())
	}
}

func TestCloseDrainsAndRejectsNew(t *testing.T) {
	bus := New(nil)

	var got atomic.Int32
	bus.Subscribe(domain.EventEntryAppended, func(_ context.Context, _ domain.Event) {
		time.Sleep(50 * time.Millisecond)
		got.Add(1)
	})

	bus.Publish(context.Background(), newEvent(domain.EventEntryAppended))
	bus.Close()
	assert.Equal(t, int32(1), got.Load())

	bus.Publish(context.Background(), newEvent(domain.EventEntryAppended))
	bus.Close()
	assert.Equal(t, int32(1), got.Load())
}
