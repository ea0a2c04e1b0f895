package coordinator

// State is the orchestrator's position in the request cycle.
type State int

const (
	Idle State = iota
	AwaitingClassification
	Dispatching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingClassification:
		return "awaiting_classification"
	case Dispatching:
		return "dispatching"
	default:
		return "unknown"
	}
}

// Busy reports whether a cycle is in progress.
func (s State) Busy() bool { return s != Idle }
