package components

import (
	"strings"

	"finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the
// left, refresh state on the right. A non-empty banner replaces the
// whole bar until it expires.
func RenderStatusBar(width int, dataAge string, refreshing, autoRefresh bool, banner string) string {
	t := theme.Active

	if banner != "" {
		return lipgloss.NewStyle().
			Foreground(t.Warn).
			Bold(true).
			Width(width).
			Render(" ⚠ " + banner)
	}

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [r]efresh  [p]eriod  [m]onths  [?]help  [q]uit"

	var parts []string
	if refreshing {
		parts = append(parts, "refreshing…")
	}
	if autoRefresh {
		parts = append(parts, "auto on")
	}
	if dataAge != "" {
		parts = append(parts, "updated "+dataAge)
	}
	right := strings.Join(parts, " · ")
	if right != "" {
		right += " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
