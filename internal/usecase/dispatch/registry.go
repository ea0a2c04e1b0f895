package dispatch

import (
	"io"
	"log/slog"
	"sync"

	"koordinator/internal/domain"
)

// Registry maps each agent id to the handler that serves it.
type Registry struct {
	mu       sync.RWMutex
	handlers map[domain.AgentID]domain.AgentHandler
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		handlers: make(map[domain.AgentID]domain.AgentHandler),
		logger:   logger,
	}
}

// Register binds handler to id. Only the four known agents can be registered
// and each at most once.
func (r *Registry) Register(id domain.AgentID, handler domain.AgentHandler) error {
	if !id.Valid() {
		return domain.NewDomainError("Registry.Register", domain.ErrUnknownAgent, string(id))
	}
	if handler == nil {
		return domain.NewDomainError("Registry.Register", domain.ErrInvalidInput, "nil handler for "+string(id))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[id]; exists {
		return domain.NewDomainError("Registry.Register", domain.ErrDuplicate, string(id))
	}
	r.handlers[id] = handler
	r.logger.Debug("agent handler registered", "agent", string(id))
	return nil
}

// Get returns the handler bound to id.
func (r *Registry) Get(id domain.AgentID) (domain.AgentHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[id]
	if !ok {
		return nil, domain.NewDomainError("Registry.Get", domain.ErrNoHandler, string(id))
	}
	return h, nil
}

// Registered returns the ids with a handler, in catalogue order.
func (r *Registry) Registered() []domain.AgentID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.AgentID
	for _, id := range domain.Agents() {
		if _, ok := r.handlers[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
