package domain

import "time"

// EntryKind distinguishes the four kinds of conversation entries.
type EntryKind string

const (
	EntryUser        EntryKind = "user"
	EntryRouting     EntryKind = "routing"
	EntryAgentResult EntryKind = "agent_result"
	EntrySystem      EntryKind = "system"
)

// RoutingDecision is the coordinator's announcement of which agent handles a
// request. It never carries free text.
type RoutingDecision struct {
	Agent     AgentID   `json:"agent"`
	Args      Args      `json:"args"`
	Timestamp time.Time `json:"timestamp"`
}

// Entry is one immutable record of the conversation log.
//
// Which fields are set depends on Kind: user, agent_result and system entries
// carry Text; routing entries carry Routing; system entries may set IsError.
type Entry struct {
	ID        string           `json:"id"`
	Kind      EntryKind        `json:"kind"`
	Text      string           `json:"text,omitempty"`
	Agent     AgentID          `json:"agent,omitempty"`
	Routing   *RoutingDecision `json:"routing,omitempty"`
	IsError   bool             `json:"is_error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewUserEntry builds a user entry.
func NewUserEntry(id, text string) Entry {
	return Entry{ID: id, Kind: EntryUser, Text: text, CreatedAt: time.Now()}
}

// NewRoutingEntry builds a routing entry for agent with args, stamped at.
func NewRoutingEntry(id string, agent AgentID, args Args, at time.Time) Entry {
	return Entry{
		ID:        id,
		Kind:      EntryRouting,
		Agent:     agent,
		Routing:   &RoutingDecision{Agent: agent, Args: args.Clone(), Timestamp: at},
		CreatedAt: at,
	}
}

// NewAgentResultEntry builds the entry holding a handler's result text.
func NewAgentResultEntry(id string, agent AgentID, text string) Entry {
	return Entry{ID: id, Kind: EntryAgentResult, Agent: agent, Text: text, CreatedAt: time.Now()}
}

// NewSystemEntry builds a system entry. isError marks failures shown to the user.
func NewSystemEntry(id, text string, isError bool) Entry {
	return Entry{ID: id, Kind: EntrySystem, Text: text, IsError: isError, CreatedAt: time.Now()}
}

// Clone returns a copy that shares no mutable state with e.
func (e Entry) Clone() Entry {
	if e.Routing != nil {
		r := *e.Routing
		r.Args = r.Args.Clone()
		e.Routing = &r
	}
	return e
}

// IDGenerator produces identifiers that are unique within a process.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

// NewID implements IDGenerator.
func (f IDGeneratorFunc) NewID() string { return f() }
