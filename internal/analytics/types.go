package analytics

import "fmt"

// Period selects the bucket size of the spending-trends series.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Periods lists the valid periods in cycle order.
var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly}

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	for _, v := range Periods {
		if p == v {
			return true
		}
	}
	return false
}

// Next returns the period after p in cycle order, wrapping around.
func (p Period) Next() Period {
	for i, v := range Periods {
		if p == v {
			return Periods[(i+1)%len(Periods)]
		}
	}
	return PeriodMonthly
}

// ParsePeriod validates a period string from config or flags.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.Valid() {
		return "", fmt.Errorf("analytics: unknown period %q", s)
	}
	return p, nil
}

// View identifies one analytical view served by the API.
type View string

const (
	ViewTrends      View = "trends"
	ViewCategories  View = "categories"
	ViewInsights    View = "insights"
	ViewPredictions View = "predictions"
	ViewVelocity    View = "velocity"
	ViewForecast    View = "forecast"
)

// Views lists all views in dashboard order.
var Views = []View{ViewTrends, ViewCategories, ViewInsights, ViewPredictions, ViewVelocity, ViewForecast}

// TrendPoint is one bucket of the spending-trends series.
type TrendPoint struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// CategoryAmount is one slice of the category breakdown.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Breakdown is the category breakdown for a transaction type.
type Breakdown struct {
	Total      float64          `json:"total"`
	Categories []CategoryAmount `json:"categories"`
}

// Insight is one server-generated observation about spending habits.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// Prediction is a projected category spend with model confidence (0-100).
type Prediction struct {
	Category        string  `json:"category"`
	Confidence      float64 `json:"confidence"`
	PredictedAmount float64 `json:"predictedAmount"`
}

// Velocity describes the current month's spending pace.
type Velocity struct {
	DayOfMonth        int     `json:"dayOfMonth"`
	CurrentSpent      float64 `json:"currentSpent"`
	DailyAverage      float64 `json:"dailyAverage"`
	ProjectedMonthEnd float64 `json:"projectedMonthEnd"`
	DaysRemaining     int     `json:"daysRemaining"`
}

// Forecast carries the three fixed spending projections.
type Forecast struct {
	NextMonth   float64 `json:"nextMonth"`
	NextQuarter float64 `json:"nextQuarter"`
	YearEnd     float64 `json:"yearEnd"`
}
