package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// submitCmd hands text to the orchestrator off the update loop. Event
// subscribers may call back into the program while Submit runs.
func submitCmd(ctx context.Context, c Coordinator, text string) tea.Cmd {
	return func() tea.Msg {
		done, err := c.Submit(ctx, text)
		if err != nil {
			return SubmitFailedMsg{Err: err}
		}
		return SubmittedMsg{Done: done}
	}
}

// waitCycleCmd resolves once the request cycle behind done has finished.
func waitCycleCmd(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return CycleDoneMsg{}
	}
}
