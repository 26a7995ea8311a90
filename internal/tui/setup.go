package tui

import (
	"fmt"
	"net/url"
	"strings"

	"finsight/internal/config"
	"finsight/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues backs the first-run form fields.
type setupValues struct {
	baseURL  string
	token    string
	currency string
	theme    string
}

func newSetupValues(cfg config.Config) setupValues {
	return setupValues{
		baseURL:  cfg.API.BaseURL,
		currency: cfg.Appearance.Currency,
		theme:    cfg.Appearance.Theme,
	}
}

// currencyChoices are the codes offered during setup. Any ISO code can
// still be set via config file or FINSIGHT_CURRENCY.
var currencyChoices = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "SEK"}

// newSetupForm builds the first-run wizard: where the analytics API
// lives, the token to present, and how to display the results.
func newSetupForm(vals *setupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Analytics API base URL").
				Description("Your finance service endpoint, e.g. https://money.example.com/api/analytics").
				Value(&vals.baseURL).
				Validate(validBaseURL),
			huh.NewInput().
				Title("API token").
				Description("Sent as a bearer credential with every request. Leave blank to configure later.").
				EchoMode(huh.EchoModePassword).
				Value(&vals.token),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Display currency").
				Options(huh.NewOptions(currencyChoices...)...).
				Value(&vals.currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.theme),
		),
	)
}

func validBaseURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("the API base URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter a full URL like https://host/api/analytics")
	}
	return nil
}

// saveSetup writes the completed form into the config file and applies
// the selections to the running app. The save is best-effort; the
// selections hold for this session regardless.
func (a *App) saveSetup() {
	cfg := a.cfg

	if v := strings.TrimSpace(a.formVals.baseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(a.formVals.token); v != "" {
		cfg.API.Token = v
	}
	if a.formVals.currency != "" {
		cfg.Appearance.Currency = a.formVals.currency
	}
	if a.formVals.theme != "" {
		cfg.Appearance.Theme = a.formVals.theme
		theme.SetActive(cfg.Appearance.Theme)
	}

	_ = config.Save(cfg)
	a.cfg = cfg
}
