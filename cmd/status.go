package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"finsight/internal/analytics"
	"finsight/internal/cli"
	"finsight/internal/format"
	"finsight/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "One-shot spending report in the terminal",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Token() == "" {
		fmt.Println()
		fmt.Println("  No API token configured.")
		fmt.Println()
		fmt.Println("  Set one up with either:")
		fmt.Println("    finsight setup                                (interactive)")
		fmt.Println("    FINSIGHT_API_TOKEN=... finsight status        (one-shot)")
		fmt.Println()
		return nil
	}

	// Persist what we fetch so the dashboard can show it as fallback.
	var opts []analytics.Option
	if path, err := store.DefaultPath(); err == nil {
		if st, err := store.Open(path); err == nil {
			defer st.Close()
			opts = append(opts, analytics.WithStore(st))
		}
	}

	client := analytics.New(cfg.BaseURL(), cfg, opts...)
	period := analytics.Period(cfg.Dashboard.Period)
	months := cfg.Dashboard.Months

	fmt.Fprintf(os.Stderr, "  Fetching analytics from %s...\n", cfg.BaseURL())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	b := client.FetchAll(ctx, period, months)

	if len(b.Errs) == len(analytics.Views) {
		err := b.Errs[analytics.ViewTrends]
		var se *analytics.StatusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
			return errors.New("API token rejected, grab a fresh one or rerun `finsight setup`")
		}
		return fmt.Errorf("fetch failed: %w", err)
	}

	money := format.New(cfg)

	fmt.Println()
	fmt.Println(cli.RenderTitle("FINSIGHT · SPENDING ANALYTICS"))
	fmt.Println()

	if len(b.Trends) > 0 {
		printTrends(b.Trends, period, months, money)
	}
	if b.Categories != nil && len(b.Categories.Categories) > 0 {
		printCategories(b.Categories, money)
	}
	if len(b.Insights) > 0 {
		printInsights(b.Insights)
	}
	if len(b.Predictions) > 0 {
		printPredictions(b.Predictions, money)
	}
	if b.Velocity != nil {
		printVelocity(b.Velocity, money)
	}
	if b.Forecast != nil {
		printForecast(b.Forecast, money)
	}

	// Per-view failures after the data, in dashboard order.
	for _, v := range analytics.Views {
		if err := b.Errs[v]; err != nil {
			fmt.Println(cli.Warn(fmt.Sprintf("%s unavailable: %v", v, err)))
		}
	}
	if len(b.Errs) > 0 {
		fmt.Println()
	}

	fmt.Printf("  Fetched at %s\n\n", b.FetchedAt.Format("3:04:05 PM"))
	return nil
}

func printTrends(trends []analytics.TrendPoint, period analytics.Period, months int, money *format.Formatter) {
	rows := make([][]string, 0, len(trends)+2)
	values := make([]float64, 0, len(trends))
	var total float64
	for _, p := range trends {
		rows = append(rows, []string{p.Month, money.Currency(p.Amount)})
		values = append(values, p.Amount)
		total += p.Amount
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", money.Currency(total)})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Spending Trends (%s, last %d months)", period, months),
		Headers: []string{"Bucket", "Spent"},
		Rows:    rows,
	}))
	fmt.Printf("  %s\n\n", cli.RenderSparkline(values))
}

func printCategories(br *analytics.Breakdown, money *format.Formatter) {
	var total float64
	for _, c := range br.Categories {
		total += c.Amount
	}

	rows := make([][]string, 0, len(br.Categories)+2)
	for _, c := range br.Categories {
		share := 0.0
		if total > 0 {
			share = c.Amount / total
		}
		rows = append(rows, []string{
			format.CapitalizeFirst(c.Category),
			money.Currency(c.Amount),
			format.Percentage(share*100, 1),
			cli.RenderHorizontalBar(share, 16),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", money.Currency(total), "", ""})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Categories",
		Headers: []string{"Category", "Amount", "Share", ""},
		Rows:    rows,
	}))
	fmt.Println()
}

func printInsights(insights []analytics.Insight) {
	heading := lipgloss.NewStyle().Bold(true).Foreground(cli.ColorAccent)
	accent := lipgloss.NewStyle().Foreground(cli.ColorAccent)

	fmt.Println("  " + heading.Render("Insights"))
	for _, in := range insights {
		fmt.Printf("  • %s\n", format.CapitalizeFirst(in.Title))
		if in.Description != "" {
			fmt.Printf("    %s\n", cli.Muted(in.Description))
		}
		if in.Suggestion != "" {
			fmt.Printf("    %s\n", accent.Render("→ "+in.Suggestion))
		}
	}
	fmt.Println()
}

func printPredictions(preds []analytics.Prediction, money *format.Formatter) {
	rows := make([][]string, 0, len(preds))
	for _, p := range preds {
		rows = append(rows, []string{
			format.CapitalizeFirst(p.Category),
			money.Currency(p.PredictedAmount),
			confidenceCell(p.Confidence),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Predicted Next Month",
		Headers: []string{"Category", "Predicted", "Confidence"},
		Rows:    rows,
	}))
	fmt.Println()
}

func printVelocity(v *analytics.Velocity, money *format.Formatter) {
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Spending Velocity",
		Headers: []string{"Measure", "Value"},
		Rows: [][]string{
			{"Spent so far", money.Currency(v.CurrentSpent)},
			{"Daily average", money.Currency(v.DailyAverage)},
			{"Projected month end", money.Currency(v.ProjectedMonthEnd)},
			{"Days remaining", fmt.Sprintf("%d", v.DaysRemaining)},
		},
	}))

	frac := float64(v.DayOfMonth) / 30
	fmt.Printf("  Day %d  %s\n\n", v.DayOfMonth, cli.RenderHorizontalBar(frac, 30))
}

func printForecast(f *analytics.Forecast, money *format.Formatter) {
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Forecast",
		Headers: []string{"Next Month", "Next Quarter", "Year End"},
		Rows: [][]string{{
			money.Currency(f.NextMonth),
			money.Currency(f.NextQuarter),
			money.Currency(f.YearEnd),
		}},
	}))
	fmt.Println()
}

// confidenceCell colors a 0-100 model confidence by tier.
func confidenceCell(confidence float64) string {
	color := cli.ColorRed
	if confidence >= 75 {
		color = cli.ColorGreen
	} else if confidence >= 50 {
		color = cli.ColorYellow
	}
	return lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%.0f%%", confidence))
}
