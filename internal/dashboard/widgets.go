package dashboard

import (
	"context"

	"finsight/internal/analytics"
)

// Output region ids, one per widget.
const (
	RegionTrends      = "trends-chart"
	RegionCategories  = "category-chart"
	RegionInsights    = "insights-panel"
	RegionPredictions = "predictions-panel"
	RegionVelocity    = "velocity-panel"
	RegionForecast    = "forecast-cards"
)

// Params are the user-tunable fetch parameters. Tasks capture them at
// launch, so changing the period mid-refresh never skews an in-flight
// fetch.
type Params struct {
	Period analytics.Period
	Months int
}

// DefaultParams returns the dashboard defaults: monthly buckets over a
// six-month window.
func DefaultParams() Params {
	return Params{Period: analytics.PeriodMonthly, Months: 6}
}

// FetchFunc retrieves one view's payload from the analytics service.
type FetchFunc func(ctx context.Context, svc analytics.Service, p Params) (any, error)

// Descriptor binds one analytical view to its fetch operation, render
// operation, and output region. The refresh loop iterates this table
// and nothing else; adding a widget means adding a row here.
type Descriptor struct {
	View   analytics.View
	Region string
	Title  string
	Fetch  FetchFunc
	Render func(payload any)
}

// Regions creates the standard six-region surface in dashboard order.
func Regions() *RegionSet {
	return NewRegionSet(
		RegionTrends,
		RegionCategories,
		RegionInsights,
		RegionPredictions,
		RegionVelocity,
		RegionForecast,
	)
}

// Widgets returns the widget table wired to the given renderer.
func Widgets(r *Renderer) []Descriptor {
	return []Descriptor{
		{
			View:   analytics.ViewTrends,
			Region: RegionTrends,
			Title:  "Spending Trends",
			Fetch: func(ctx context.Context, svc analytics.Service, p Params) (any, error) {
				return svc.SpendingTrends(ctx, p.Period, p.Months)
			},
			Render: r.Trends,
		},
		{
			View:   analytics.ViewCategories,
			Region: RegionCategories,
			Title:  "Categories",
			Fetch: func(ctx context.Context, svc analytics.Service, _ Params) (any, error) {
				return svc.CategoryBreakdown(ctx, "expense", "", "")
			},
			Render: r.Categories,
		},
		{
			View:   analytics.ViewInsights,
			Region: RegionInsights,
			Title:  "Insights",
			Fetch: func(ctx context.Context, svc analytics.Service, _ Params) (any, error) {
				return svc.Insights(ctx)
			},
			Render: r.Insights,
		},
		{
			View:   analytics.ViewPredictions,
			Region: RegionPredictions,
			Title:  "Predictions",
			Fetch: func(ctx context.Context, svc analytics.Service, _ Params) (any, error) {
				return svc.Predictions(ctx)
			},
			Render: r.Predictions,
		},
		{
			View:   analytics.ViewVelocity,
			Region: RegionVelocity,
			Title:  "Spending Velocity",
			Fetch: func(ctx context.Context, svc analytics.Service, _ Params) (any, error) {
				return svc.Velocity(ctx)
			},
			Render: r.Velocity,
		},
		{
			View:   analytics.ViewForecast,
			Region: RegionForecast,
			Title:  "Forecast",
			Fetch: func(ctx context.Context, svc analytics.Service, _ Params) (any, error) {
				return svc.Forecast(ctx)
			},
			Render: r.Forecast,
		},
	}
}
