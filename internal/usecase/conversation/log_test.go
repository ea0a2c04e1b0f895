package conversation

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koordinator/internal/domain"
	"koordinator/internal/usecase/eventbus"
)

func TestAppendPreservesOrder(t *testing.T) {
	log := NewLog("c1", nil, nil)
	ctx := context.Background()

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	entries := []domain.Entry{
		domain.NewUserEntry("e1", "Cari data pasien Budi"),
		domain.NewRoutingEntry("e2", domain.AgentPatient, domain.Args{"query": "Budi"}, at),
		domain.NewAgentResultEntry("e3", domain.AgentPatient, "hasil"),
	}
	for _, e := range entries {
		require.NoError(t, log.Append(ctx, e))
	}

	if diff := cmp.Diff(entries, log.All()); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, log.Len())
}

func TestAppendRejectsDuplicateAndEmptyID(t *testing.T) {
	log := NewLog("c1", nil, nil)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, domain.NewUserEntry("e1", "a")))
	err := log.Append(ctx, domain.NewUserEntry("e1", "b"))
	require.ErrorIs(t, err, domain.ErrDuplicate)

	err = log.Append(ctx, domain.NewUserEntry("", "c"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 1, log.Len())
	got, err := log.Get("e1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Text)
}

func TestGetMissing(t *testing.T) {
	log := NewLog("c1", nil, nil)
	_, err := log.Get("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoredEntriesAreImmutable(t *testing.T) {
	log := NewLog("c1", nil, nil)
	ctx := context.Background()

	e := domain.NewRoutingEntry("r1", domain.AgentAdmin, domain.Args{"query": "jadwal"}, time.Now())
	require.NoError(t, log.Append(ctx, e))

	e.Routing.Args["query"] = "caller mutation"
	snap := log.All()
	snap[0].Routing.Args["query"] = "reader mutation"
	snap[0].Text = "changed"

	got, _ := log.Get("r1")
	q, _ := got.Routing.Args.String("query")
	assert.Equal(t, "jadwal", q)
	assert.Empty(t, got.Text)
}

func TestAppendPublishesEvent(t *testing.T) {
	bus := eventbus.New(nil, eventbus.Synchronous())
	defer bus.Close()

	var payloads []AppendedPayload
	bus.Subscribe(domain.EventEntryAppended, func(_ context.Context, ev domain.Event) {
		assert.Equal(t, "c9", ev.ConversationID)
		var p AppendedPayload
		require.NoError(t, json.Unmarshal(ev.Payload, &p))
		payloads = append(payloads, p)
	})

	log := NewLog("c9", bus, nil)
	require.NoError(t, log.Append(context.Background(), domain.NewUserEntry("u1", "halo")))
	require.NoError(t, log.Append(context.Background(), domain.NewSystemEntry("s1", "oops", true)))
	require.Error(t, log.Append(context.Background(), domain.NewUserEntry("u1", "again")))

	assert.Equal(t, []AppendedPayload{
		{EntryID: "u1", Kind: domain.EntryUser, Index: 0},
		{EntryID: "s1", Kind: domain.EntrySystem, Index: 1},
	}, payloads)
}

func TestConcurrentAppend(t *testing.T) {
	log := NewLog("c1", nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = log.Append(context.Background(), domain.NewUserEntry(string(rune('A'+i)), "x"))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, log.Len())
}
