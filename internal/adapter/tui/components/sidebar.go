package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"koordinator/internal/adapter/tui/theme"
	"koordinator/internal/domain"
)

// SidebarModel lists the sub-agents and highlights the one currently
// handling a request.
type SidebarModel struct {
	Agents  []domain.AgentIdentity
	Active  domain.AgentID
	Visible bool
	width   int
	height  int
}

// NewSidebar creates a sidebar over the agent catalog.
func NewSidebar() SidebarModel {
	return SidebarModel{
		Agents:  domain.Catalog(),
		Visible: true,
		width:   theme.SidebarWidth,
	}
}

// SetSize updates the sidebar height and hides it on narrow terminals.
func (m *SidebarModel) SetSize(termWidth, h int) {
	m.height = h
	m.Visible = termWidth >= theme.MinSidebarWidth
}

// Width returns the columns taken by the sidebar, divider included.
func (m SidebarModel) Width() int {
	if !m.Visible {
		return 0
	}
	return m.width + 1
}

// View renders the agent cards.
func (m SidebarModel) View() string {
	var sb strings.Builder
	sb.WriteString(theme.SidebarTitle.Render("Sistem Rumah Sakit"))
	sb.WriteString("\n")
	sb.WriteString(theme.TextMuted.Render("Panel Status Sub-Agen"))
	sb.WriteString("\n")

	cardW := m.width - 2
	for _, ident := range m.Agents {
		style := theme.AgentCard
		marker := theme.SymbolInactive
		if ident.ID == m.Active {
			style = theme.AgentCardActive
			marker = theme.SymbolActive
		}
		card := marker + " " + ident.Name + "\n" + theme.Dim.Render(ident.Summary)
		sb.WriteString(style.Width(cardW).Render(card))
		sb.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(sb.String())
}

// Render joins the sidebar to the left of content with a vertical divider.
func (m SidebarModel) Render(content string) string {
	if !m.Visible {
		return content
	}
	divider := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render("│")
	col := strings.TrimSuffix(strings.Repeat(divider+"\n", m.height), "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, m.View(), col, content)
}
