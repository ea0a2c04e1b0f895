package components

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"koordinator/internal/adapter/tui/theme"
	"koordinator/internal/domain"
)

// MessageRole identifies how a conversation entry is presented.
type MessageRole string

const (
	RoleUser        MessageRole = "user"
	RoleCoordinator MessageRole = "coordinator"
	RoleRouting     MessageRole = "routing"
	RoleAgent       MessageRole = "agent"
	RoleError       MessageRole = "error"
)

// Welcome texts shown while the conversation is empty.
const (
	WelcomeTitle = "Selamat Datang di Koordinator Rumah Sakit"
	WelcomeBody  = "Saya akan membantu merutekan permintaan Anda ke departemen yang tepat. Coba tanyakan tentang pendaftaran pasien, gejala medis, atau pembuatan dokumen."
)

var welcomeExamples = []string{
	`"Buat surat cuti sakit..."`,
	`"Sakit perut sebelah kanan..."`,
	`"Jam operasional apotek..."`,
}

// ChatMessage is one rendered conversation entry.
type ChatMessage struct {
	ID        string
	Role      MessageRole
	Content   string
	Agent     domain.AgentID
	Args      domain.Args // routing entries only
	Rendered  string      // cached glamour output; empty means not yet rendered
	Timestamp time.Time
}

// FromEntry maps a conversation entry to its presentation.
func FromEntry(e domain.Entry) ChatMessage {
	msg := ChatMessage{
		ID:        e.ID,
		Content:   e.Text,
		Agent:     e.Agent,
		Timestamp: e.CreatedAt,
	}
	switch e.Kind {
	case domain.EntryUser:
		msg.Role = RoleUser
	case domain.EntryRouting:
		msg.Role = RoleRouting
		if e.Routing != nil {
			msg.Agent = e.Routing.Agent
			msg.Args = e.Routing.Args.Clone()
		}
	case domain.EntryAgentResult:
		msg.Role = RoleAgent
	default:
		msg.Role = RoleCoordinator
		if e.IsError {
			msg.Role = RoleError
		}
	}
	return msg
}

// MessageListModel renders the conversation log. The log is append-only, so
// the list only ever grows by syncing the tail of a newer snapshot.
type MessageListModel struct {
	Messages   []ChatMessage
	width      int
	mdRenderer *glamour.TermRenderer
}

// NewMessageList creates an empty message list.
func NewMessageList() MessageListModel {
	return MessageListModel{}
}

// SetWidth updates the rendering width and clears cached renders.
func (m *MessageListModel) SetWidth(w int) {
	if w == m.width {
		return
	}
	m.width = w
	m.mdRenderer = nil
	for i := range m.Messages {
		m.Messages[i].Rendered = ""
	}
}

// Sync appends the entries the list has not seen yet and reports how many
// were added.
func (m *MessageListModel) Sync(entries []domain.Entry) int {
	if len(entries) <= len(m.Messages) {
		return 0
	}
	added := entries[len(m.Messages):]
	for _, e := range added {
		m.Messages = append(m.Messages, FromEntry(e))
	}
	return len(added)
}

// View renders all messages as a single string.
func (m *MessageListModel) View() string {
	contentWidth := ContentWidth(m.width)
	if len(m.Messages) == 0 {
		return renderWelcome(contentWidth)
	}

	var sb strings.Builder
	for i := range m.Messages {
		msg := &m.Messages[i]
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.renderMessage(msg, contentWidth))
	}
	return sb.String()
}

func renderWelcome(width int) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(theme.SidebarTitle.Render(WelcomeTitle))
	sb.WriteString("\n\n")
	sb.WriteString(theme.TextMuted.Render(wrapText(WelcomeBody, width-2)))
	sb.WriteString("\n\n")
	for _, ex := range welcomeExamples {
		sb.WriteString("  " + theme.TextMuted.Render(theme.SymbolBullet+" "+ex) + "\n")
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(sb.String())
}

func (m *MessageListModel) renderMessage(msg *ChatMessage, width int) string {
	header := roleLabel(msg) + " " + theme.Timestamp.Render(RelativeTime(msg.Timestamp))

	var body string
	switch msg.Role {
	case RoleRouting:
		body = RenderRoutingCard(msg.Agent, msg.Args, width-2)
	case RoleAgent:
		if msg.Rendered == "" {
			msg.Rendered = m.renderMarkdown(msg.Content, width)
		}
		body = strings.TrimRight(msg.Rendered, "\n")
	case RoleError:
		body = "  " + theme.TextError.Render(wrapText(msg.Content, width-2))
	default:
		body = "  " + wrapText(msg.Content, width-2)
	}
	if strings.TrimSpace(body) == "" {
		return header
	}
	return header + "\n" + body
}

func roleLabel(msg *ChatMessage) string {
	switch msg.Role {
	case RoleUser:
		return theme.UserLabel.Render(theme.SymbolUser)
	case RoleRouting:
		return theme.RoutingLabel.Render(theme.SymbolCoordinator + " Sistem")
	case RoleAgent:
		name := string(msg.Agent)
		if ident, ok := domain.Identity(msg.Agent); ok {
			name = ident.Name
		}
		return theme.AgentLabel.Render(theme.SymbolSuccess+" Respon Sistem") + " " + theme.TextMuted.Render(name)
	case RoleError:
		return theme.ErrorLabel.Render(theme.SymbolError + " " + theme.SymbolCoordinator)
	default:
		return theme.CoordinatorLabel.Render(theme.SymbolCoordinator)
	}
}

// RenderRoutingCard renders a routing decision: the target agent's label and
// its arguments as indented JSON.
func RenderRoutingCard(agent domain.AgentID, args domain.Args, width int) string {
	var sb strings.Builder
	sb.WriteString(theme.TextRouting.Render(theme.SymbolArrowR + " Merutekan Permintaan"))
	sb.WriteString("\n")
	sb.WriteString(theme.TextMuted.Render("Target Agen: "))
	sb.WriteString(theme.RoutingTarget.Render(agent.RouteLabel()))
	sb.WriteString("\n")
	sb.WriteString(theme.RoutingArgs.Render(FormatArgs(args)))

	style := theme.RoutingCard
	if width > 0 {
		style = style.MaxWidth(width)
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(style.Render(sb.String()))
}

// FormatArgs renders args as two-space indented JSON. A nil map renders as {}.
func FormatArgs(args domain.Args) string {
	if args == nil {
		args = domain.Args{}
	}
	b, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(args))
	}
	return string(b)
}

func (m *MessageListModel) renderMarkdown(content string, width int) string {
	if m.mdRenderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "  " + content
		}
		m.mdRenderer = r
	}
	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		return "  " + content
	}
	return rendered
}

// RelativeTime returns a human-readable relative time string.
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "baru saja"
	case d < time.Hour:
		return fmt.Sprintf("%d menit lalu", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d jam lalu", int(d.Hours()))
	default:
		return t.Format("2 Jan 15:04")
	}
}

// wrapText wraps text to the given width with a 2-space indent on continuation
// lines. Existing newlines are preserved.
func wrapText(s string, width int) string {
	paragraphs := strings.Split(s, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wrapLine(p, width)
	}
	return strings.Join(paragraphs, "\n  ")
}

func wrapLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	var lines []string
	for len(runes) > width {
		idx := -1
		for i := width - 1; i > 0; i-- {
			if runes[i] == ' ' {
				idx = i
				break
			}
		}
		if idx <= 0 {
			idx = width
		}
		lines = append(lines, string(runes[:idx]))
		runes = runes[idx:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return strings.Join(lines, "\n  ")
}

// ContentWidth calculates the content width respecting MaxContentWidth.
func ContentWidth(termWidth int) int {
	return theme.Clamp(termWidth-4, 40, theme.MaxContentWidth)
}

// Divider renders a horizontal line at the given width.
func Divider(width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorBorder).
		Render(strings.Repeat("─", width))
}
