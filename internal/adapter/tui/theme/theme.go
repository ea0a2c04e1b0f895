// Package theme provides the shared visual design for the coordinator TUI.
// All styles use adaptive colors that work on both light and dark terminals.
//
// NO_COLOR (https://no-color.org/) is respected automatically by lipgloss via
// its color profile detection.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// --- Adaptive color palette ---

var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#66bb6a"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#ef5350"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#e65100", Dark: "#ffa726"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#64b5f6"}
	ColorRouting = lipgloss.AdaptiveColor{Light: "#6a1b9a", Dark: "#ce93d8"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9e9e9e"}

	ColorBorder       = lipgloss.AdaptiveColor{Light: "#bdbdbd", Dark: "#616161"}
	ColorBorderActive = lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#42a5f5"}

	ColorBgAlt = lipgloss.AdaptiveColor{Light: "#f5f5f5", Dark: "#2d2d2d"}
	ColorFgDim = lipgloss.AdaptiveColor{Light: "#9e9e9e", Dark: "#757575"}
)

// --- Symbols (overridden by InitSymbols in symbols.go) ---

var (
	SymbolSuccess     = "✓"
	SymbolError       = "✗"
	SymbolWarning     = "⚠"
	SymbolActive      = "●"
	SymbolInactive    = "○"
	SymbolArrowR      = "→"
	SymbolBullet      = "•"
	SymbolEllipsis    = "…"
	SymbolUser        = "Anda"
	SymbolCoordinator = "Koordinator"
)

// --- Base styles ---

var (
	Bold = lipgloss.NewStyle().Bold(true)
	Dim  = lipgloss.NewStyle().Faint(true)

	TextSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	TextError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	TextWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	TextInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	TextRouting = lipgloss.NewStyle().Foreground(ColorRouting)
	TextMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// --- Conversation entry labels ---

var (
	UserLabel = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	CoordinatorLabel = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Bold(true)

	RoutingLabel = lipgloss.NewStyle().
			Foreground(ColorRouting).
			Bold(true)

	AgentLabel = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	ErrorLabel = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	Timestamp = lipgloss.NewStyle().
			Foreground(ColorFgDim).
			Faint(true)
)

// --- Routing card ---

var (
	RoutingCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorRouting).
			Padding(0, 1)

	RoutingTarget = lipgloss.NewStyle().
			Bold(true).
			Background(ColorBgAlt).
			Padding(0, 1)

	RoutingArgs = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// --- Agent sidebar ---

var (
	SidebarTitle = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	AgentCard = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Foreground(ColorMuted).
			Padding(0, 1)

	AgentCardActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderActive).
			Foreground(ColorInfo).
			Bold(true).
			Padding(0, 1)
)

// --- Status bar ---

var (
	StatusBar = lipgloss.NewStyle().
			Foreground(ColorFgDim).
			Background(ColorBgAlt).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)
)

// --- Input area ---

var (
	InputPrompt = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	InputPlaceholder = lipgloss.NewStyle().
				Foreground(ColorFgDim)

	Banner = lipgloss.NewStyle().
		Foreground(ColorError).
		Padding(0, 1)
)

// MaxContentWidth is the recommended max width for readable text content.
const MaxContentWidth = 100

// MinSidebarWidth is the minimum terminal width that shows the agent sidebar.
const MinSidebarWidth = 80

// SidebarWidth is the fixed width of the agent sidebar.
const SidebarWidth = 32

// Clamp returns v clamped to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
