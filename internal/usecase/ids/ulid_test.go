package ids

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDUniqueAndSorted(t *testing.T) {
	g := NewULID("")
	prev := ""
	for i := 0; i < 1000; i++ {
		id := g.NewID()
		require.Len(t, id, 26)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestULIDPrefix(t *testing.T) {
	g := NewULID("call_")
	assert.True(t, strings.HasPrefix(g.NewID(), "call_"))
}

func TestULIDConcurrent(t *testing.T) {
	g := NewULID("")
	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := g.NewID()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 1600)
}

func TestSequence(t *testing.T) {
	s := NewSequence("e")
	assert.Equal(t, "e-1", s.NewID())
	assert.Equal(t, "e-2", s.NewID())
	for i := 0; i < 8; i++ {
		s.NewID()
	}
	assert.Equal(t, "e-11", s.NewID())
}
