package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"koordinator/internal/adapter/tui/theme"
)

// KeyHint represents a single keybinding hint shown in the status bar.
type KeyHint struct {
	Key  string
	Desc string
}

// StatusBarModel renders the bottom status line: key hints on the left,
// classifier and orchestrator state on the right.
type StatusBarModel struct {
	Hints      []KeyHint
	Classifier string
	Model      string
	State      string
	width      int
}

// NewStatusBar creates an empty status bar.
func NewStatusBar() StatusBarModel {
	return StatusBarModel{}
}

// SetWidth updates the available width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single line.
func (m StatusBarModel) View() string {
	var hints []string
	for _, h := range m.Hints {
		hints = append(hints, theme.StatusKey.Render(h.Key)+": "+h.Desc)
	}
	left := strings.Join(hints, "  "+theme.Dim.Render("|")+"  ")

	var parts []string
	for _, p := range []string{m.Classifier, m.Model} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	right := theme.TextMuted.Render(strings.Join(parts, " "+theme.SymbolBullet+" "))
	if m.State != "" {
		if right != "" {
			right += "  "
		}
		right += theme.TextInfo.Render(m.State)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
