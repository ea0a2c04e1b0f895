// Package ids issues sortable identifiers for conversation entries and
// dispatch calls.
package ids

import (
	"io"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"koordinator/internal/domain"
)

// ULID generates lexicographically sortable ids. Ids issued within the same
// millisecond stay strictly increasing.
type ULID struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
	prefix  string
}

var _ domain.IDGenerator = (*ULID)(nil)

// NewULID creates a generator. A non-empty prefix is prepended to every id
// (e.g. "call_").
func NewULID(prefix string) *ULID {
	t := time.Now()
	return &ULID{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0),
		now:     time.Now,
		prefix:  prefix,
	}
}

// NewID returns the next id.
func (g *ULID) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		// Monotonic entropy overflowed within one millisecond; reseed.
		g.entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
		id = ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	}
	return g.prefix + id.String()
}

// Sequence is a deterministic generator for tests and replays: prefix-1,
// prefix-2, and so on.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

var _ domain.IDGenerator = (*Sequence)(nil)

// NewSequence creates a counter-backed generator.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.prefix + "-" + strconv.Itoa(s.n)
}
