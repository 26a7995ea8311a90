package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"finsight/internal/analytics"
	"finsight/internal/format"
	"finsight/internal/tui/components"
	"finsight/internal/tui/theme"
)

const (
	trendsPlotHeight = 8

	// Tall payloads are capped so one chatty view cannot push the rest of
	// the dashboard off screen.
	maxInsightCards   = 4
	maxPredictionRows = 6
)

// Renderer draws widget payloads into their regions. One operation per
// widget; every operation gates on the presentability check, treats a
// payload of the wrong shape as "no data", and touches nothing but its
// own region. Rendering does no I/O and is idempotent for a given
// payload and region width.
type Renderer struct {
	regions *RegionSet
	fmt     *format.Formatter
}

// NewRenderer creates a renderer drawing into the given regions,
// formatting values with f. A nil formatter falls back to USD.
func NewRenderer(regions *RegionSet, f *format.Formatter) *Renderer {
	if f == nil {
		f = format.New(nil)
	}
	return &Renderer{regions: regions, fmt: f}
}

// Trends draws the spending time series as a line plot, one marker per
// period, y-axis ticks formatted as currency at draw time.
func (r *Renderer) Trends(payload any) {
	const id = RegionTrends
	if !r.regions.has(id) {
		return
	}
	if !format.IsPresentable(payload) {
		r.regions.setNoData(id)
		return
	}
	pts, ok := payload.([]analytics.TrendPoint)
	if !ok {
		r.regions.setNoData(id)
		return
	}

	values := make([]float64, len(pts))
	labels := make([]string, len(pts))
	for i, p := range pts {
		values[i] = p.Amount
		labels[i] = p.Month
	}

	w := r.regions.widthOf(id)
	plot := components.LinePlot(values, labels, w, trendsPlotHeight, func(v float64) string {
		return r.fmt.Currency(v, format.WithFractionDigits(0, 0))
	})
	r.regions.setContent(id, plot, payload)
}

// Categories draws the category breakdown: a grand-total header and one
// proportional bar row per category. The share of each row comes from
// the slice sum, not the server's total. An empty category list is the
// "no data" case even when the total is set.
func (r *Renderer) Categories(payload any) {
	const id = RegionCategories
	if !r.regions.has(id) {
		return
	}
	if !format.IsPresentable(payload) {
		r.regions.setNoData(id)
		return
	}
	b, ok := payload.(*analytics.Breakdown)
	if !ok || !format.IsPresentable(b.Categories) {
		r.regions.setNoData(id)
		return
	}

	t := theme.Active
	w := r.regions.widthOf(id)

	var sum float64
	maxShare := 0.0
	for _, c := range b.Categories {
		sum += c.Amount
	}
	shares := make([]float64, len(b.Categories))
	for i, c := range b.Categories {
		if sum > 0 {
			shares[i] = c.Amount / sum * 100
		}
		if shares[i] > maxShare {
			maxShare = shares[i]
		}
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	totalStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	shareStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	nameW := w / 4
	if nameW < 8 {
		nameW = 8
	}
	if nameW > 14 {
		nameW = 14
	}
	// icon(2) + name + amount(11) + share(7) + gaps between columns
	barMax := w - nameW - 26
	if barMax < 4 {
		barMax = 4
	}

	var body strings.Builder
	body.WriteString(labelStyle.Render("Total "))
	body.WriteString(totalStyle.Render(r.fmt.Currency(b.Total)))
	body.WriteString("\n")

	for i, c := range b.Categories {
		barLen := 0
		if maxShare > 0 {
			barLen = int(shares[i] / maxShare * float64(barMax))
		}
		nameStyle := lipgloss.NewStyle().Foreground(format.CategoryColor(c.Category))
		bar := nameStyle.Render(strings.Repeat("█", barLen))

		fmt.Fprintf(&body, "%s %s %s %s %s\n",
			format.CategoryIcon(c.Category),
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, format.CapitalizeFirst(c.Category))),
			amountStyle.Render(fmt.Sprintf("%11s", r.fmt.Currency(c.Amount))),
			shareStyle.Render(fmt.Sprintf("%6s", format.Percentage(shares[i], 1))),
			bar)
	}

	r.regions.setContent(id, strings.TrimRight(body.String(), "\n"), payload)
}

// Insights draws the server-generated observations as stacked cards:
// capitalized title, description, and an arrowed suggestion line.
func (r *Renderer) Insights(payload any) {
	const id = RegionInsights
	if !r.regions.has(id) {
		return
	}
	if !format.IsPresentable(payload) {
		r.regions.setNoData(id)
		return
	}
	ins, ok := payload.([]analytics.Insight)
	if !ok {
		r.regions.setNoData(id)
		return
	}

	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	suggStyle := lipgloss.NewStyle().Foreground(t.Good)
	moreStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	shown := ins
	if len(shown) > maxInsightCards {
		shown = shown[:maxInsightCards]
	}

	var body strings.Builder
	for i, in := range shown {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(titleStyle.Render(format.CapitalizeFirst(in.Title)))
		body.WriteString("\n")
		if in.Description != "" {
			body.WriteString(descStyle.Render(in.Description))
			body.WriteString("\n")
		}
		if in.Suggestion != "" {
			body.WriteString(suggStyle.Render("→ " + in.Suggestion))
			body.WriteString("\n")
		}
	}
	if n := len(ins) - len(shown); n > 0 {
		body.WriteString(moreStyle.Render(fmt.Sprintf("+%d more insights", n)))
		body.WriteString("\n")
	}

	r.regions.setContent(id, strings.TrimRight(body.String(), "\n"), payload)
}

// Predictions draws one row per projected category: icon, capitalized
// name, predicted amount, and the model confidence colored by tier.
func (r *Renderer) Predictions(payload any) {
	const id = RegionPredictions
	if !r.regions.has(id) {
		return
	}
	if !format.IsPresentable(payload) {
		r.regions.setNoData(id)
		return
	}
	preds, ok := payload.([]analytics.Prediction)
	if !ok {
		r.regions.setNoData(id)
		return
	}

	t := theme.Active
	w := r.regions.widthOf(id)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	moreStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	shown := preds
	if len(shown) > maxPredictionRows {
		shown = shown[:maxPredictionRows]
	}

	nameW := w / 3
	if nameW < 8 {
		nameW = 8
	}
	if nameW > 16 {
		nameW = 16
	}

	var body strings.Builder
	for _, p := range shown {
		nameStyle := lipgloss.NewStyle().Foreground(format.CategoryColor(p.Category))
		confStyle := lipgloss.NewStyle().Foreground(components.ConfidenceColor(p.Confidence))
		fmt.Fprintf(&body, "%s %s %s %s\n",
			format.CategoryIcon(p.Category),
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, format.CapitalizeFirst(p.Category))),
			amountStyle.Render(fmt.Sprintf("%11s", r.fmt.Currency(p.PredictedAmount))),
			confStyle.Render(fmt.Sprintf("%4s conf", format.Percentage(p.Confidence, 0))))
	}
	if n := len(preds) - len(shown); n > 0 {
		body.WriteString(moreStyle.Render(fmt.Sprintf("+%d more categories", n)))
		body.WriteString("\n")
	}

	r.regions.setContent(id, strings.TrimRight(body.String(), "\n"), payload)
}

// Velocity draws the current month's spending pace: day-of-month line,
// a month-progress meter filled to min(1, day/30), and the four pace
// stats.
func (r *Renderer) Velocity(payload any) {
	const id = RegionVelocity
	if !r.regions.has(id) {
		return
	}
	if !format.IsPresentable(payload) {
		r.regions.setNoData(id)
		return
	}
	v, ok := payload.(*analytics.Velocity)
	if !ok {
		r.regions.setNoData(id)
		return
	}

	t := theme.Active
	w := r.regions.widthOf(id)

	frac := float64(v.DayOfMonth) / 30
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}

	dayStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	meterW := w - 14 // "Month " prefix + " 100%" suffix
	if meterW < 10 {
		meterW = 10
	}

	var body strings.Builder
	body.WriteString(dayStyle.Render(fmt.Sprintf("Day %d of the month", v.DayOfMonth)))
	body.WriteString("\n")
	body.WriteString(components.Meter("Month", frac, meterW))
	body.WriteString("\n\n")

	stats := []struct {
		label string
		value string
	}{
		{"Spent so far", r.fmt.Currency(v.CurrentSpent)},
		{"Daily average", r.fmt.Currency(v.DailyAverage)},
		{"Projected month end", r.fmt.Currency(v.ProjectedMonthEnd)},
		{"Days remaining", fmt.Sprintf("%d", v.DaysRemaining)},
	}
	for _, s := range stats {
		fmt.Fprintf(&body, "%s %s\n",
			labelStyle.Render(fmt.Sprintf("%-20s", s.label)),
			valueStyle.Render(fmt.Sprintf("%11s", s.value)))
	}

	r.regions.setContent(id, strings.TrimRight(body.String(), "\n"), payload)
}

// Forecast draws the three fixed projections as a row of metric cards.
func (r *Renderer) Forecast(payload any) {
	const id = RegionForecast
	if !r.regions.has(id) {
		return
	}
	if !format.IsPresentable(payload) {
		r.regions.setNoData(id)
		return
	}
	f, ok := payload.(*analytics.Forecast)
	if !ok {
		r.regions.setNoData(id)
		return
	}

	w := r.regions.widthOf(id)
	cards := []components.Metric{
		{Label: "Next Month", Value: r.fmt.Currency(f.NextMonth)},
		{Label: "Next Quarter", Value: r.fmt.Currency(f.NextQuarter)},
		{Label: "Year End", Value: r.fmt.Currency(f.YearEnd)},
	}
	r.regions.setContent(id, components.MetricCardRow(cards, w), payload)
}
