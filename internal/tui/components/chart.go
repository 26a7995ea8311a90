package components

import (
	"fmt"
	"math"
	"strings"

	"finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values. Fallback for panes
// too small to hold a full plot.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// LinePlot renders a time-series line chart: one marker per value,
// interpolated connectors between neighbors, y-axis ticks on the left,
// and x labels under the markers. Tick values go through yfmt so axis
// labels carry the same formatting as the rest of the dashboard.
func LinePlot(values []float64, labels []string, width, height int, yfmt func(float64) string) string {
	if len(values) == 0 {
		return ""
	}
	if yfmt == nil {
		yfmt = func(v float64) string { return fmt.Sprintf("%.0f", v) }
	}
	if width < 20 || height < 4 {
		return Sparkline(values, theme.Active.Accent)
	}

	t := theme.Active
	n := len(values)

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Y-axis: compute tick step and ceiling targeting ~height/2 intervals.
	tickStep := chartTickStep(maxVal)
	maxIntervals := height / 2
	if maxIntervals < 2 {
		maxIntervals = 2
	}
	for {
		if int(math.Ceil(maxVal/tickStep)) <= maxIntervals {
			break
		}
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := int(math.Round(ceiling / tickStep))
	if numIntervals < 1 {
		numIntervals = 1
	}

	rowsPerTick := height / numIntervals
	if rowsPerTick < 2 {
		rowsPerTick = 2
	}
	chartH := rowsPerTick * numIntervals

	// Tick labels; the gutter grows to hold the widest one.
	tickLabels := make(map[int]string)
	yLabelW := len(yfmt(0)) + 1
	for i := 1; i <= numIntervals; i++ {
		lbl := yfmt(tickStep * float64(i))
		tickLabels[i*rowsPerTick] = lbl
		if len(lbl)+1 > yLabelW {
			yLabelW = len(lbl) + 1
		}
	}
	if yLabelW < 4 {
		yLabelW = 4
	}

	chartW := width - yLabelW - 1
	if chartW < 5 {
		chartW = 5
	}

	// Marker columns, spread across the plot area.
	xs := make([]int, n)
	if n == 1 {
		xs[0] = chartW / 2
	} else {
		for i := range xs {
			xs[i] = i * (chartW - 1) / (n - 1)
		}
	}

	// row 1 is the bottom of the plot.
	rowOf := func(v float64) int {
		if v < 0 {
			v = 0
		}
		r := int(math.Round(v / ceiling * float64(chartH)))
		if r < 1 {
			r = 1
		}
		if r > chartH {
			r = chartH
		}
		return r
	}

	grid := make([][]rune, chartH)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", chartW))
	}

	// Connect neighbors with interpolated dots, then drop markers on top.
	for i := 0; i+1 < n; i++ {
		x0, x1 := xs[i], xs[i+1]
		for x := x0; x <= x1; x++ {
			v := values[i+1]
			if x1 > x0 {
				frac := float64(x-x0) / float64(x1-x0)
				v = values[i] + (values[i+1]-values[i])*frac
			}
			r := rowOf(v)
			if grid[r-1][x] == ' ' {
				grid[r-1][x] = '·'
			}
		}
	}
	for i, v := range values {
		grid[rowOf(v)-1][xs[i]] = '●'
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	lineStyle := lipgloss.NewStyle().Foreground(t.Accent)
	markStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)

	var b strings.Builder

	for row := chartH; row >= 1; row-- {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		cells := grid[row-1]
		end := chartW
		for end > 0 && cells[end-1] == ' ' {
			end--
		}
		for x := 0; x < end; {
			start := x
			c := cells[x]
			for x < end && cells[x] == c {
				x++
			}
			run := string(cells[start:x])
			switch c {
			case '●':
				b.WriteString(markStyle.Render(run))
			case '·':
				b.WriteString(lineStyle.Render(run))
			default:
				b.WriteString(run)
			}
		}
		b.WriteString("\n")
	}

	// X-axis and labels under the marker columns.
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, yfmt(0))))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", chartW)))

	if len(labels) == n {
		buf := make([]byte, chartW)
		for i := range buf {
			buf[i] = ' '
		}

		lastEnd := -1
		for i := 0; i < n; i++ {
			lbl := labels[i]
			if lbl == "" || len(lbl) > chartW {
				continue
			}
			pos := xs[i] - len(lbl)/2
			if pos < 0 {
				pos = 0
			}
			if pos+len(lbl) > chartW {
				pos = chartW - len(lbl)
			}
			if pos <= lastEnd {
				continue
			}
			copy(buf[pos:pos+len(lbl)], lbl)
			lastEnd = pos + len(lbl)
		}

		b.WriteString("\n")
		labelStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		b.WriteString(strings.Repeat(" ", yLabelW+1))
		b.WriteString(labelStyle.Render(strings.TrimRight(string(buf), " ")))
	}

	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}
