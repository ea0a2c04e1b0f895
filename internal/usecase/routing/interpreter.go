// Package routing turns a classifier reply into a routing outcome.
package routing

import (
	"strings"

	"koordinator/internal/domain"
)

// Kind is the variant of an Outcome.
type Kind int

const (
	// Empty means the reply produced nothing to show or dispatch.
	Empty Kind = iota
	// Routed means exactly one known agent was selected.
	Routed
	// Unrouted means the classifier answered in free text instead of
	// selecting an agent, typically a clarification question.
	Unrouted
)

func (k Kind) String() string {
	switch k {
	case Routed:
		return "routed"
	case Unrouted:
		return "unrouted"
	default:
		return "empty"
	}
}

// Outcome is the interpreted form of a classifier reply.
type Outcome struct {
	Kind  Kind
	Agent domain.AgentID
	Args  domain.Args
	Text  string
	// Missing lists required fields absent from Args. The outcome is still
	// Routed; the handler renders the gap.
	Missing []string
	// CallID echoes the classifier's function-call id, if any.
	CallID string
}

// Interpret maps reply to an Outcome. It is pure: the same reply always
// yields an equal Outcome and reply is never modified.
//
// Only the first proposed function call is considered. A call naming an
// unknown agent yields Empty, even when free text is also present.
func Interpret(reply *domain.ClassifierReply) Outcome {
	if reply == nil {
		return Outcome{Kind: Empty}
	}
	if len(reply.FunctionCalls) > 0 {
		call := reply.FunctionCalls[0]
		agent, ok := domain.ParseAgentID(call.Name)
		if !ok {
			return Outcome{Kind: Empty}
		}
		args := call.Args.Clone()
		return Outcome{
			Kind:    Routed,
			Agent:   agent,
			Args:    args,
			Missing: MissingFields(agent, args),
			CallID:  call.ID,
		}
	}
	if text := strings.TrimSpace(reply.Text); text != "" {
		return Outcome{Kind: Unrouted, Text: reply.Text}
	}
	return Outcome{Kind: Empty}
}

// MissingFields returns the required fields of agent that args leaves absent,
// null or blank, in contract order.
func MissingFields(agent domain.AgentID, args domain.Args) []string {
	ident, ok := domain.Identity(agent)
	if !ok {
		return nil
	}
	var missing []string
	for _, key := range ident.Required {
		v, ok := args.String(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
