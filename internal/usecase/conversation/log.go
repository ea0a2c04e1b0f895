// Package conversation holds the append-only conversation log.
package conversation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"koordinator/internal/domain"
)

// AppendedPayload is the payload of a conversation.entry.appended event.
type AppendedPayload struct {
	EntryID string           `json:"entry_id"`
	Kind    domain.EntryKind `json:"kind"`
	Index   int              `json:"index"`
}

// Log is an ordered, append-only sequence of entries. Entries are never
// mutated or removed once appended.
type Log struct {
	mu      sync.RWMutex
	id      string
	entries []domain.Entry
	index   map[string]int
	bus     domain.EventBus
	logger  *slog.Logger
}

// NewLog creates an empty log. bus may be nil.
func NewLog(id string, bus domain.EventBus, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Log{
		id:     id,
		index:  make(map[string]int),
		bus:    bus,
		logger: logger,
	}
}

// ID returns the conversation id.
func (l *Log) ID() string { return l.id }

// Append stores a copy of entry at the end of the log. An entry without an id
// is rejected with domain.ErrInvalidInput; a reused id with domain.ErrDuplicate.
func (l *Log) Append(ctx context.Context, entry domain.Entry) error {
	if entry.ID == "" {
		return domain.NewDomainError("Log.Append", domain.ErrInvalidInput, "entry id is empty")
	}

	l.mu.Lock()
	if _, ok := l.index[entry.ID]; ok {
		l.mu.Unlock()
		l.logger.Error("conversation entry id collision",
			"conversation", l.id,
			"entry_id", entry.ID,
			"kind", string(entry.Kind),
		)
		return domain.NewDomainError("Log.Append", domain.ErrDuplicate, fmt.Sprintf("entry %s", entry.ID))
	}
	pos := len(l.entries)
	l.entries = append(l.entries, entry.Clone())
	l.index[entry.ID] = pos
	l.mu.Unlock()

	l.logger.Debug("conversation entry appended",
		"conversation", l.id,
		"entry_id", entry.ID,
		"kind", string(entry.Kind),
		"index", pos,
	)
	if l.bus != nil {
		l.bus.Publish(ctx, domain.NewEvent(domain.EventEntryAppended, l.id, AppendedPayload{
			EntryID: entry.ID,
			Kind:    entry.Kind,
			Index:   pos,
		}))
	}
	return nil
}

// All returns the entries in insertion order. The slice and its entries are
// copies.
func (l *Log) All() []domain.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Clone()
	}
	return out
}

// Get returns the entry with the given id.
func (l *Log) Get(id string) (domain.Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	pos, ok := l.index[id]
	if !ok {
		return domain.Entry{}, domain.NewDomainError("Log.Get", domain.ErrNotFound, id)
	}
	return l.entries[pos].Clone(), nil
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
