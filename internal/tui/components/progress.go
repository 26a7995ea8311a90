package components

import (
	"fmt"

	"finsight/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Meter renders a labeled horizontal gauge: label, bar, percentage.
// width is the bar width; frac is clamped to [0, 1].
func Meter(label string, frac float64, width int) string {
	t := theme.Active

	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	if width < 4 {
		width = 4
	}

	bar := progress.New(
		progress.WithSolidFill(string(t.Accent)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	return labelStyle.Render(label) + " " +
		bar.ViewAs(frac) + " " +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", frac*100))
}

// ConfidenceColor maps a 0-100 confidence score to a traffic-light
// color: solid green at 75 and up, amber at 50, red below.
func ConfidenceColor(confidence float64) lipgloss.Color {
	t := theme.Active
	switch {
	case confidence >= 75:
		return t.Good
	case confidence >= 50:
		return t.Warn
	default:
		return t.Bad
	}
}
