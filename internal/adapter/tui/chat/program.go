package chat

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"koordinator/internal/domain"
)

// Program runs the chat model as a full-screen Bubble Tea program and feeds
// it a fresh snapshot on every orchestrator event.
type Program struct {
	deps    ModelDeps
	bus     domain.EventBus
	logger  *slog.Logger
	program *tea.Program
	opts    []tea.ProgramOption
}

// NewProgram creates a chat program. bus may be nil, in which case the view
// refreshes only when a request cycle starts and ends.
func NewProgram(deps ModelDeps, bus domain.EventBus, opts ...tea.ProgramOption) *Program {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	}
	return &Program{deps: deps, bus: bus, logger: logger, opts: opts}
}

// Run blocks until the user quits or ctx is cancelled.
func (p *Program) Run(ctx context.Context) error {
	p.deps.Context = ctx
	p.program = tea.NewProgram(NewModel(p.deps), append(p.opts, tea.WithContext(ctx))...)

	if p.bus != nil {
		unsub := p.bus.SubscribeAll(func(_ context.Context, event domain.Event) {
			p.logger.Debug("refreshing view", "event", event.Type)
			p.program.Send(SnapshotMsg{Snapshot: p.deps.Coordinator.Snapshot()})
		})
		defer unsub()
	}

	_, err := p.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Stop asks the program to exit.
func (p *Program) Stop() {
	if p.program != nil {
		p.program.Send(QuitMsg{})
	}
}
