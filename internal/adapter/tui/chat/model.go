package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"koordinator/internal/adapter/tui/components"
	"koordinator/internal/adapter/tui/theme"
	"koordinator/internal/adapter/tui/uxerror"
	"koordinator/internal/domain"
	"koordinator/internal/usecase/coordinator"
)

// AnalyzingText is shown while the classifier is working and no agent has
// been selected yet.
const AnalyzingText = "Menganalisis permintaan..."

// Coordinator is the part of the orchestrator the chat front-end drives.
type Coordinator interface {
	Submit(ctx context.Context, text string) (<-chan struct{}, error)
	Snapshot() coordinator.Snapshot
}

// ModelDeps are dependencies injected into the chat model.
type ModelDeps struct {
	Coordinator Coordinator
	Context     context.Context // parent of every request cycle; defaults to Background
	Logger      *slog.Logger
	Classifier  string // classifier name shown in the status bar
	ModelName   string
	Warning     string // non-empty shows a persistent banner above the input
}

// Model is the root Bubble Tea model for the coordinator TUI.
type Model struct {
	deps ModelDeps

	chatView  components.ChatViewModel
	input     components.InputAreaModel
	statusBar components.StatusBarModel
	sidebar   components.SidebarModel
	spinner   spinner.Model

	snapshot coordinator.Snapshot
	notice   string // transient feedback, cleared on the next submission
	width    int
	height   int
	quitting bool
}

// NewModel creates the root chat model.
func NewModel(deps ModelDeps) Model {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	sb := components.NewStatusBar()
	sb.Classifier = deps.Classifier
	sb.Model = deps.ModelName
	sb.Hints = defaultHints()

	m := Model{
		deps:      deps,
		chatView:  components.NewChatView(),
		input:     components.NewInputArea(),
		statusBar: sb,
		sidebar:   components.NewSidebar(),
		spinner:   s,
	}
	m.applySnapshot(deps.Coordinator.Snapshot())
	return m
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.InputSubmitMsg:
		return m.handleSubmit(msg.Value)

	case SnapshotMsg:
		m.applySnapshot(msg.Snapshot)
		return m, nil

	case SubmittedMsg:
		m.applySnapshot(m.deps.Coordinator.Snapshot())
		return m, waitCycleCmd(msg.Done)

	case SubmitFailedMsg:
		m.notice = uxerror.Humanize(msg.Err).Render()
		m.deps.Logger.Warn("submission rejected", "error", msg.Err, "code", domain.ErrorCodeOf(msg.Err))
		m.applySnapshot(m.deps.Coordinator.Snapshot())
		m.layout()
		return m, nil

	case CycleDoneMsg:
		m.applySnapshot(m.deps.Coordinator.Snapshot())
		return m, nil

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if _, isMouse := msg.(tea.MouseMsg); !isMouse {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.chatView, cmd = m.chatView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the entire UI.
func (m Model) View() string {
	if m.quitting {
		return "Sampai jumpa!\n"
	}
	if m.width == 0 {
		return "  Memuat..."
	}

	main := m.chatView.View() + "\n" + m.pendingLine()
	parts := []string{m.sidebar.Render(main), components.Divider(m.width)}
	if m.notice != "" {
		parts = append(parts, theme.TextWarning.Render(m.notice))
	}

	inputView := m.input.View()
	if m.snapshot.Busy() {
		inputView = theme.Dim.Render("> menunggu respons...")
	}
	parts = append(parts, inputView)
	if m.deps.Warning != "" {
		parts = append(parts, theme.Banner.Render(theme.SymbolWarning+" "+m.deps.Warning))
	}
	parts = append(parts, m.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// pendingLine shows the analysing spinner while the classifier works and the
// active agent while a dispatch is pending.
func (m Model) pendingLine() string {
	if !m.snapshot.Busy() {
		return ""
	}
	if m.snapshot.ActiveAgent == "" {
		return "  " + m.spinner.View() + " " + theme.Dim.Render(AnalyzingText)
	}
	name := string(m.snapshot.ActiveAgent)
	if ident, ok := domain.Identity(m.snapshot.ActiveAgent); ok {
		name = ident.Name
	}
	return "  " + m.spinner.View() + " " + theme.TextInfo.Render(name+" sedang memproses"+theme.SymbolEllipsis)
}

func (m *Model) applySnapshot(s coordinator.Snapshot) {
	m.snapshot = s
	m.sidebar.Active = s.ActiveAgent
	m.statusBar.State = stateLabel(s.State)
	m.input.SetEnabled(!s.Busy())
	m.chatView.Sync(s.Entries)
}

func stateLabel(s coordinator.State) string {
	switch s {
	case coordinator.AwaitingClassification:
		return "menganalisis"
	case coordinator.Dispatching:
		return "memproses"
	default:
		return "siap"
	}
}

// layout recalculates sizes for all sub-models.
func (m *Model) layout() {
	fixed := 1 + 1 + 1 + 1 // pending line, divider, input, status bar
	if m.deps.Warning != "" {
		fixed++
	}
	if m.notice != "" {
		fixed += lipgloss.Height(m.notice)
	}
	contentH := m.height - fixed
	if contentH < 5 {
		contentH = 5
	}

	m.sidebar.SetSize(m.width, contentH+1)
	m.chatView.SetSize(m.width-m.sidebar.Width(), contentH)
	m.input.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit processes user input submission.
func (m Model) handleSubmit(value string) (tea.Model, tea.Cmd) {
	if cmd, _, ok := components.ParseSlashCommand(value); ok {
		return m.handleSlashCommand(cmd)
	}
	if m.notice != "" {
		m.notice = ""
		m.layout()
	}
	m.input.SetEnabled(false)
	return m, submitCmd(m.deps.Context, m.deps.Coordinator, value)
}

// handleSlashCommand processes a slash command.
func (m Model) handleSlashCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit

	case "/agents":
		var sb strings.Builder
		for _, ident := range domain.Catalog() {
			fmt.Fprintf(&sb, "%s %s (%s): %s\n", theme.SymbolBullet, ident.Name, ident.ID, ident.Summary)
		}
		m.notice = strings.TrimRight(sb.String(), "\n")

	case "/help":
		m.notice = "Perintah: /agents daftar agen, /quit keluar. PgUp/PgDn menggulir percakapan."

	default:
		m.notice = fmt.Sprintf("Perintah tidak dikenal: %s. Ketik /help.", cmd)
	}
	m.layout()
	return m, nil
}

func defaultHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Enter", Desc: "Kirim"},
		{Key: "PgUp/PgDn", Desc: "Gulir"},
		{Key: "/help", Desc: "Bantuan"},
		{Key: "Ctrl+C", Desc: "Keluar"},
	}
}
