package dashboard

import (
	"strings"
	"testing"

	"finsight/internal/analytics"
	"finsight/internal/format"
)

func newTestRenderer(t *testing.T) (*Renderer, *RegionSet) {
	t.Helper()
	regions := Regions()
	return NewRenderer(regions, format.New(nil)), regions
}

func regionContent(t *testing.T, rs *RegionSet, id string) RegionState {
	t.Helper()
	st, ok := rs.State(id)
	if !ok {
		t.Fatalf("region %s not mounted", id)
	}
	return st
}

func TestTrendsPlotsEveryPoint(t *testing.T) {
	r, regions := newTestRenderer(t)

	r.Trends([]analytics.TrendPoint{
		{Month: "Jan", Amount: 100},
		{Month: "Feb", Amount: 150},
	})

	st := regionContent(t, regions, RegionTrends)
	if st.Status != StatusReady {
		t.Fatalf("status = %v, want ready", st.Status)
	}
	if got := strings.Count(st.Content, "●"); got != 2 {
		t.Errorf("plot has %d markers, want one per point (2)", got)
	}
	for _, label := range []string{"Jan", "Feb"} {
		if !strings.Contains(st.Content, label) {
			t.Errorf("plot is missing x label %q", label)
		}
	}
	if !strings.Contains(st.Content, "$") {
		t.Error("y-axis ticks should carry currency formatting")
	}
}

func TestTrendsWrongShapeIsNoData(t *testing.T) {
	r, regions := newTestRenderer(t)

	r.Trends(map[string]int{"surprise": 1})

	st := regionContent(t, regions, RegionTrends)
	if st.Status != StatusNoData || st.Content != noDataText {
		t.Errorf("status %v content %q, want the no-data placeholder", st.Status, st.Content)
	}
}

func TestCategoriesSharesComeFromSliceSum(t *testing.T) {
	r, regions := newTestRenderer(t)

	// Server total deliberately out of sync with the slice; shares must
	// still be computed from the slice sum.
	r.Categories(&analytics.Breakdown{
		Total: 100,
		Categories: []analytics.CategoryAmount{
			{Category: "food", Amount: 30},
			{Category: "transport", Amount: 70},
		},
	})

	st := regionContent(t, regions, RegionCategories)
	if st.Status != StatusReady {
		t.Fatalf("status = %v, want ready", st.Status)
	}
	for _, want := range []string{"$100.00", "30.0%", "70.0%", "Food", "Transport"} {
		if !strings.Contains(st.Content, want) {
			t.Errorf("breakdown is missing %q:\n%s", want, st.Content)
		}
	}
}

func TestCategoriesEmptyListIsNoData(t *testing.T) {
	r, regions := newTestRenderer(t)

	// A set total with zero categories is still the no-data case.
	r.Categories(&analytics.Breakdown{Total: 250})

	st := regionContent(t, regions, RegionCategories)
	if st.Status != StatusNoData || st.Content != noDataText {
		t.Errorf("status %v content %q, want the no-data placeholder", st.Status, st.Content)
	}
}

func TestInsightsCapsTheList(t *testing.T) {
	r, regions := newTestRenderer(t)

	ins := []analytics.Insight{
		{Title: "dining out is up", Description: "30% above your average", Suggestion: "Set a dining budget"},
		{Title: "two"},
		{Title: "three"},
		{Title: "four"},
		{Title: "five"},
		{Title: "six"},
	}
	r.Insights(ins)

	st := regionContent(t, regions, RegionInsights)
	if !strings.Contains(st.Content, "Dining out is up") {
		t.Error("insight title should be capitalized")
	}
	if !strings.Contains(st.Content, "→ Set a dining budget") {
		t.Error("suggestion line is missing its arrow")
	}
	if !strings.Contains(st.Content, "+2 more insights") {
		t.Errorf("capped list should note the overflow:\n%s", st.Content)
	}
	if strings.Contains(st.Content, "Five") || strings.Contains(st.Content, "Six") {
		t.Error("cards past the cap should not render")
	}
}

func TestPredictionsRows(t *testing.T) {
	r, regions := newTestRenderer(t)

	r.Predictions([]analytics.Prediction{
		{Category: "food", Confidence: 87, PredictedAmount: 450.5},
		{Category: "transport", Confidence: 42, PredictedAmount: 120},
	})

	st := regionContent(t, regions, RegionPredictions)
	for _, want := range []string{"Food", "$450.50", "87%", "Transport", "42%"} {
		if !strings.Contains(st.Content, want) {
			t.Errorf("predictions are missing %q:\n%s", want, st.Content)
		}
	}
}

func TestVelocityMeterAndStats(t *testing.T) {
	r, regions := newTestRenderer(t)

	r.Velocity(&analytics.Velocity{
		DayOfMonth:        15,
		CurrentSpent:      500,
		DailyAverage:      33.3,
		ProjectedMonthEnd: 1000,
		DaysRemaining:     15,
	})

	st := regionContent(t, regions, RegionVelocity)
	for _, want := range []string{"Day 15", "50%", "$500.00", "$33.30", "$1,000.00"} {
		if !strings.Contains(st.Content, want) {
			t.Errorf("velocity pane is missing %q:\n%s", want, st.Content)
		}
	}
}

func TestVelocityMeterClampsPastDay30(t *testing.T) {
	r, regions := newTestRenderer(t)

	r.Velocity(&analytics.Velocity{DayOfMonth: 31, CurrentSpent: 1, DailyAverage: 1, ProjectedMonthEnd: 1})

	st := regionContent(t, regions, RegionVelocity)
	if !strings.Contains(st.Content, "100%") {
		t.Errorf("day 31 should clamp the meter to 100%%:\n%s", st.Content)
	}
}

func TestForecastCards(t *testing.T) {
	r, regions := newTestRenderer(t)

	r.Forecast(&analytics.Forecast{NextMonth: 1200, NextQuarter: 3600, YearEnd: 14000})

	st := regionContent(t, regions, RegionForecast)
	for _, want := range []string{"Next Month", "Next Quarter", "Year End", "$1,200.00", "$3,600.00", "$14,000.00"} {
		if !strings.Contains(st.Content, want) {
			t.Errorf("forecast cards are missing %q", want)
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	r, regions := newTestRenderer(t)

	payload := []analytics.Insight{{Title: "stable", Description: "same in, same out"}}
	r.Insights(payload)
	first := regionContent(t, regions, RegionInsights)
	r.Insights(payload)
	second := regionContent(t, regions, RegionInsights)

	if first.Content != second.Content {
		t.Error("re-rendering the same payload changed the region content")
	}
	if first.Status != second.Status {
		t.Errorf("re-render changed status: %v -> %v", first.Status, second.Status)
	}
}

func TestRenderSkipsUnmountedRegion(t *testing.T) {
	regions := NewRegionSet(RegionTrends)
	r := NewRenderer(regions, format.New(nil))

	// Forecast's region is not mounted; this must be a silent no-op.
	r.Forecast(&analytics.Forecast{NextMonth: 1})

	if _, ok := regions.State(RegionForecast); ok {
		t.Error("render created a region it should have skipped")
	}
}

func TestRenderUnpresentablePayloads(t *testing.T) {
	cases := []struct {
		name   string
		render func(r *Renderer)
		region string
	}{
		{"nil interface", func(r *Renderer) { r.Velocity(nil) }, RegionVelocity},
		{"typed nil pointer", func(r *Renderer) { var v *analytics.Velocity; r.Velocity(v) }, RegionVelocity},
		{"empty slice", func(r *Renderer) { r.Insights([]analytics.Insight{}) }, RegionInsights},
		{"nil slice", func(r *Renderer) { var pts []analytics.TrendPoint; r.Trends(pts) }, RegionTrends},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, regions := newTestRenderer(t)
			tc.render(r)
			st := regionContent(t, regions, tc.region)
			if st.Status != StatusNoData || st.Content != noDataText {
				t.Errorf("status %v content %q, want the no-data placeholder", st.Status, st.Content)
			}
		})
	}
}
