package components

import (
	"fmt"
	"strings"

	"finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderHeader renders the top bar: product mark on the left, the
// active trends window on the right, and a rule underneath.
func RenderHeader(width int, period string, months int) string {
	t := theme.Active

	mark := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("◈ finsight")
	sub := lipgloss.NewStyle().Foreground(t.TextDim).Render(" · spending analytics")
	window := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).
		Render(fmt.Sprintf("%s · last %d months", period, months))

	left := " " + mark + sub
	right := window + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	rule := lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", max(width, 1)))
	return left + strings.Repeat(" ", padding) + right + "\n" + rule
}
