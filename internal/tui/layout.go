package tui

import (
	"strings"

	"finsight/internal/dashboard"
	"finsight/internal/tui/components"
)

// monthsWindows are the history windows the m key cycles through.
var monthsWindows = []int{3, 6, 12, 24}

// nextMonths returns the next window after n, wrapping at the end.
// Off-cycle config values snap to the first window larger than n.
func nextMonths(n int) int {
	for _, w := range monthsWindows {
		if w > n {
			return w
		}
	}
	return monthsWindows[0]
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// widgetRows returns the pane grid as rows of region ids: two columns
// on a wide terminal, a single stacked column on a narrow one.
func (a App) widgetRows() [][]string {
	if a.isCompactLayout() {
		return [][]string{
			{dashboard.RegionTrends},
			{dashboard.RegionCategories},
			{dashboard.RegionInsights},
			{dashboard.RegionPredictions},
			{dashboard.RegionVelocity},
			{dashboard.RegionForecast},
		}
	}
	return [][]string{
		{dashboard.RegionTrends, dashboard.RegionCategories},
		{dashboard.RegionInsights, dashboard.RegionPredictions},
		{dashboard.RegionVelocity, dashboard.RegionForecast},
	}
}

// applyLayout pushes the current grid widths into the regions and
// re-renders retained payloads so charts pick up the new size.
func (a App) applyLayout() {
	if a.ctrl == nil || a.width == 0 {
		return
	}
	cw := a.contentWidth()
	regions := a.ctrl.Regions()
	for _, row := range a.widgetRows() {
		widths := components.LayoutRow(cw, len(row))
		for i, id := range row {
			regions.SetWidth(id, components.PaneInnerWidth(widths[i]))
		}
	}
	a.ctrl.RedrawAll()
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
