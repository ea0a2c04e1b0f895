// Package chat implements the Bubble Tea front-end of the coordinator: the
// conversation log, the agent sidebar and the request input.
package chat

import "koordinator/internal/usecase/coordinator"

// SnapshotMsg carries a fresh view of the orchestrator. It is sent whenever
// the orchestrator publishes an event.
type SnapshotMsg struct {
	Snapshot coordinator.Snapshot
}

// SubmittedMsg signals that a request was accepted. Done is closed when the
// cycle is back to idle.
type SubmittedMsg struct {
	Done <-chan struct{}
}

// SubmitFailedMsg signals that a request was rejected before it started.
type SubmitFailedMsg struct {
	Err error
}

// CycleDoneMsg signals that the request cycle finished.
type CycleDoneMsg struct{}

// QuitMsg signals the program to exit.
type QuitMsg struct{}
