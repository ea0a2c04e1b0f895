package eventbus

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"koordinator/internal/domain"
)

func benchEvent() domain.Event {
	return domain.Event{
		Type:           domain.EventEntryAppended,
		Timestamp:      time.Now(),
		ConversationID: "bench-conversation",
		Payload:        []byte(`{"entry_id":"e1","kind":"user"}`),
	}
}

func benchLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// BenchmarkPublishAsync measures the default goroutine-per-delivery path.
func BenchmarkPublishAsync(b *testing.B) {
	bus := New(benchLogger())
	ctx := context.Background()
	event := benchEvent()
	bus.Subscribe(domain.EventEntryAppended, func(context.Context, domain.Event) {})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		bus.Publish(ctx, event)
	}
	bus.Close()
}

// BenchmarkPublishSynchronous measures inline delivery to a snapshot-style
// subscriber, as the terminal UI and ask command use it.
func BenchmarkPublishSynchronous(b *testing.B) {
	bus := New(benchLogger(), Synchronous())
	ctx := context.Background()
	event := benchEvent()
	for i := 0; i < 4; i++ {
		bus.SubscribeAll(func(context.Context, domain.Event) {})
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		bus.Publish(ctx, event)
	}
	bus.Close()
}

func BenchmarkPublishNoSubscribers(b *testing.B) {
	bus := New(benchLogger())
	ctx := context.Background()
	event := benchEvent()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		bus.Publish(ctx, event)
	}
	bus.Close()
}

func BenchmarkSubscribeUnsubscribe(b *testing.B) {
	bus := New(benchLogger())
	handler := func(context.Context, domain.Event) {}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		unsub := bus.Subscribe(domain.EventActiveAgentChanged, handler)
		unsub()
	}
}
