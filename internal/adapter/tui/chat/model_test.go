package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koordinator/internal/adapter/tui/components"
	"koordinator/internal/adapter/tui/uxerror"
	"koordinator/internal/domain"
	"koordinator/internal/usecase/coordinator"
)

type fakeCoordinator struct {
	mu        sync.Mutex
	snap      coordinator.Snapshot
	submitted []string
	err       error
	done      chan struct{}
}

func (f *fakeCoordinator) Submit(_ context.Context, text string) (<-chan struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.submitted = append(f.submitted, text)
	f.snap.Entries = append(f.snap.Entries, domain.NewUserEntry("u1", text))
	f.snap.State = coordinator.AwaitingClassification
	f.done = make(chan struct{})
	return f.done, nil
}

func (f *fakeCoordinator) Snapshot() coordinator.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.snap
	s.Entries = append([]domain.Entry(nil), f.snap.Entries...)
	return s
}

func (f *fakeCoordinator) set(fn func(s *coordinator.Snapshot)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.snap)
}

func newTestModel(t *testing.T, fc *fakeCoordinator, warning string) Model {
	t.Helper()
	m := NewModel(ModelDeps{Coordinator: fc, Classifier: "keyword", Warning: warning})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestWelcomeScreenWhenEmpty(t *testing.T) {
	m := newTestModel(t, &fakeCoordinator{}, "")
	view := m.View()
	assert.Contains(t, view, components.WelcomeTitle)
	assert.Contains(t, view, "Sistem Rumah Sakit")
	assert.NotContains(t, view, AnalyzingText)
}

func TestSubmitShowsAnalyzing(t *testing.T) {
	fc := &fakeCoordinator{}
	m := newTestModel(t, fc, "")

	m, cmd := update(t, m, components.InputSubmitMsg{Value: "jadwal dokter"})
	require.NotNil(t, cmd)
	assert.False(t, m.input.Enabled)

	msg := cmd()
	submitted, ok := msg.(SubmittedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, []string{"jadwal dokter"}, fc.submitted)

	m, wait := update(t, m, submitted)
	require.NotNil(t, wait)

	view := m.View()
	assert.Contains(t, view, "jadwal dokter")
	assert.Contains(t, view, AnalyzingText)
	assert.Contains(t, view, "menunggu respons")

	close(fc.done)
	done := wait()
	assert.IsType(t, CycleDoneMsg{}, done)
}

func TestActiveAgentAndRoutingCard(t *testing.T) {
	fc := &fakeCoordinator{}
	fc.set(func(s *coordinator.Snapshot) {
		s.Entries = []domain.Entry{
			domain.NewUserEntry("u1", "jadwal"),
			domain.NewRoutingEntry("r1", domain.AgentPatient, domain.Args{"query": "jadwal"}, time.Now()),
		}
		s.ActiveAgent = domain.AgentPatient
		s.State = coordinator.Dispatching
	})
	m := newTestModel(t, fc, "")

	view := m.View()
	assert.Contains(t, view, "Manajer Pasien sedang memproses")
	assert.Contains(t, view, "Merutekan Permintaan")
	assert.Contains(t, view, "Manajer Informasi Pasien")
	assert.Contains(t, view, `"query": "jadwal"`)
	assert.NotContains(t, view, AnalyzingText)
	assert.Equal(t, domain.AgentPatient, m.sidebar.Active)
}

func TestSnapshotMsgClearsActiveAgent(t *testing.T) {
	fc := &fakeCoordinator{}
	m := newTestModel(t, fc, "")
	m, _ = update(t, m, SnapshotMsg{Snapshot: coordinator.Snapshot{
		ActiveAgent: domain.AgentAdmin,
		State:       coordinator.Dispatching,
	}})
	assert.Equal(t, domain.AgentAdmin, m.sidebar.Active)

	m, _ = update(t, m, SnapshotMsg{Snapshot: coordinator.Snapshot{
		Entries: []domain.Entry{domain.NewAgentResultEntry("a1", domain.AgentAdmin, "selesai")},
	}})
	assert.Equal(t, domain.AgentID(""), m.sidebar.Active)
	assert.True(t, m.input.Enabled)
	assert.Equal(t, 1, m.chatView.Len())
}

func TestSubmitFailedShowsNotice(t *testing.T) {
	fc := &fakeCoordinator{err: domain.NewDomainError("Orchestrator.Submit", domain.ErrBusy, "dispatching")}
	m := newTestModel(t, fc, "")

	m, cmd := update(t, m, components.InputSubmitMsg{Value: "lagi"})
	msg := cmd()
	failed, ok := msg.(SubmitFailedMsg)
	require.True(t, ok, "got %T", msg)

	m, _ = update(t, m, failed)
	assert.Contains(t, m.View(), "Permintaan Sedang Diproses")
	assert.Empty(t, fc.submitted)
}

func TestWarningBanner(t *testing.T) {
	m := newTestModel(t, &fakeCoordinator{}, uxerror.MissingKeyWarning)
	assert.Contains(t, m.View(), "API_KEY tidak terdeteksi")
}

func TestErrorEntryRendered(t *testing.T) {
	fc := &fakeCoordinator{}
	fc.set(func(s *coordinator.Snapshot) {
		s.Entries = []domain.Entry{
			domain.NewUserEntry("u1", "halo"),
			domain.NewSystemEntry("s1", coordinator.ClassifierFailureText, true),
		}
	})
	m := newTestModel(t, fc, "")
	assert.Contains(t, m.View(), coordinator.ClassifierFailureText)
}

func TestSlashCommands(t *testing.T) {
	fc := &fakeCoordinator{}
	m := newTestModel(t, fc, "")

	m, cmd := update(t, m, components.InputSubmitMsg{Value: "/agents"})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Pembuat Dokumen (generate_document)")

	m, _ = update(t, m, components.InputSubmitMsg{Value: "/nope"})
	assert.Contains(t, m.View(), "Perintah tidak dikenal: /nope")

	_, cmd = update(t, m, components.InputSubmitMsg{Value: "/quit"})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, fc.submitted)
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, &fakeCoordinator{}, "")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, "Sampai jumpa!\n", m.View())
}

func TestStateLabel(t *testing.T) {
	assert.Equal(t, "siap", stateLabel(coordinator.Idle))
	assert.Equal(t, "menganalisis", stateLabel(coordinator.AwaitingClassification))
	assert.Equal(t, "memproses", stateLabel(coordinator.Dispatching))
}
