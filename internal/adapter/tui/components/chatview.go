package components

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"koordinator/internal/domain"
)

// ChatViewModel wraps a viewport over the conversation log. It follows new
// entries while the user is at the bottom and stops following once they
// scroll up.
type ChatViewModel struct {
	Viewport viewport.Model
	Messages MessageListModel
	ready    bool
	atBottom bool
}

// NewChatView creates a chat view. The viewport is initialized lazily on the
// first SetSize.
func NewChatView() ChatViewModel {
	return ChatViewModel{
		Messages: NewMessageList(),
		atBottom: true,
	}
}

// SetSize sets the viewport dimensions and re-renders the content.
func (m *ChatViewModel) SetSize(w, h int) {
	m.Messages.SetWidth(w)
	if !m.ready {
		m.Viewport = viewport.New(w, h)
		m.Viewport.MouseWheelEnabled = true
		m.Viewport.MouseWheelDelta = 3
		m.ready = true
	} else {
		m.Viewport.Width = w
		m.Viewport.Height = h
	}
	m.refreshContent()
}

// Sync appends unseen entries and scrolls to the bottom when following.
func (m *ChatViewModel) Sync(entries []domain.Entry) {
	if m.Messages.Sync(entries) == 0 {
		return
	}
	m.refreshContent()
	if m.atBottom {
		m.Viewport.GotoBottom()
	}
}

// Len returns the number of entries shown.
func (m ChatViewModel) Len() int {
	return len(m.Messages.Messages)
}

// Update handles viewport scrolling and tracks the follow state.
func (m ChatViewModel) Update(msg tea.Msg) (ChatViewModel, tea.Cmd) {
	if !m.ready {
		return m, nil
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	m.atBottom = m.Viewport.AtBottom()
	return m, cmd
}

// View renders the chat viewport.
func (m ChatViewModel) View() string {
	if !m.ready {
		return "  Memuat..."
	}
	return m.Viewport.View()
}

func (m *ChatViewModel) refreshContent() {
	if !m.ready {
		return
	}
	m.Viewport.SetContent(m.Messages.View())
}
