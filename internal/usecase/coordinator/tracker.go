package coordinator

import (
	"context"
	"sync"

	"koordinator/internal/domain"
)

// AgentChangedPayload is the payload of a coordinator.agent.changed event.
// Agent is empty when the tracker was cleared.
type AgentChangedPayload struct {
	Agent domain.AgentID `json:"agent,omitempty"`
}

// Tracker records which agent, if any, is currently processing.
type Tracker struct {
	mu     sync.RWMutex
	active domain.AgentID
	convID string
	bus    domain.EventBus
}

// NewTracker creates a tracker with no active agent. bus may be nil.
func NewTracker(convID string, bus domain.EventBus) *Tracker {
	return &Tracker{convID: convID, bus: bus}
}

// Set marks agent as active.
func (t *Tracker) Set(ctx context.Context, agent domain.AgentID) {
	t.mu.Lock()
	t.active = agent
	t.mu.Unlock()
	t.publish(ctx, agent)
}

// Clear marks no agent as active.
func (t *Tracker) Clear(ctx context.Context) {
	t.mu.Lock()
	t.active = ""
	t.mu.Unlock()
	t.publish(ctx, "")
}

// Current returns the active agent and whether there is one.
func (t *Tracker) Current() (domain.AgentID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active, t.active != ""
}

func (t *Tracker) publish(ctx context.Context, agent domain.AgentID) {
	if t.bus != nil {
		t.bus.Publish(ctx, domain.NewEvent(domain.EventActiveAgentChanged, t.convID, AgentChangedPayload{Agent: agent}))
	}
}
