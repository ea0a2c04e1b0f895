package domain

import (
	"context"
	"encoding/json"
)

// AgentID identifies one of the four specialist sub-agents. The set is closed:
// a name outside Agents() is never routed to.
type AgentID string

const (
	AgentPatient  AgentID = "manage_patient_info"
	AgentMedical  AgentID = "assist_medical_info"
	AgentDocument AgentID = "generate_document"
	AgentAdmin    AgentID = "handle_admin_task"
)

// Agents returns the four agent identifiers in display order.
func Agents() []AgentID {
	return []AgentID{AgentPatient, AgentMedical, AgentDocument, AgentAdmin}
}

// ParseAgentID returns the AgentID for name, or false when name is not one of
// the four known agents.
func ParseAgentID(name string) (AgentID, bool) {
	id := AgentID(name)
	if _, ok := catalog[id]; !ok {
		return "", false
	}
	return id, true
}

// Valid reports whether id is one of the four known agents.
func (id AgentID) Valid() bool {
	_, ok := catalog[id]
	return ok
}

// Args is the argument mapping a classifier proposes for an agent.
type Args map[string]any

// String returns the value under key as a string. Non-string values are
// rendered as JSON; a missing or nil value yields ok=false.
func (a Args) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Clone returns a deep copy of the mapping, so a stored entry cannot be
// changed through the caller's map.
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Args(t).Clone())
	case Args:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// AgentIdentity describes a sub-agent: its function-calling contract and the
// labels a front-end shows for it.
type AgentIdentity struct {
	ID          AgentID         `json:"id"           yaml:"id"`
	Name        string          `json:"name"         yaml:"name"`
	RouteLabel  string          `json:"route_label"  yaml:"route_label"`
	Summary     string          `json:"summary"      yaml:"summary"`
	Description string          `json:"description"  yaml:"description"`
	Required    []string        `json:"required"     yaml:"required"`
	Optional    []string        `json:"optional,omitempty" yaml:"optional,omitempty"`
	Parameters  json.RawMessage `json:"parameters"   yaml:"-"`
}

// Fields returns the required fields followed by the optional ones.
func (a AgentIdentity) Fields() []string {
	out := make([]string, 0, len(a.Required)+len(a.Optional))
	out = append(out, a.Required...)
	return append(out, a.Optional...)
}

// AgentHandler performs a sub-agent's work for one dispatch and returns a
// human-readable result. Handlers must tolerate missing arguments.
type AgentHandler interface {
	Handle(ctx context.Context, args Args) (string, error)
}

// AgentHandlerFunc adapts a function to AgentHandler.
type AgentHandlerFunc func(ctx context.Context, args Args) (string, error)

// Handle implements AgentHandler.
func (f AgentHandlerFunc) Handle(ctx context.Context, args Args) (string, error) {
	return f(ctx, args)
}
