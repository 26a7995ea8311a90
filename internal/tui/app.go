// Package tui provides the interactive Bubble Tea dashboard for finsight.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finsight/internal/analytics"
	"finsight/internal/config"
	"finsight/internal/dashboard"
	"finsight/internal/format"
	"finsight/internal/tui/components"
	"finsight/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// bootDoneMsg is sent when the startup barrier finishes.
type bootDoneMsg struct {
	ctrl *dashboard.Controller
	err  error
}

// refreshDoneMsg is sent when a triggered refresh wave returns. ran is
// false when the reentrancy guard rejected the attempt.
type refreshDoneMsg struct {
	ran bool
}

// reloadDoneMsg is sent when a selective trends reload returns.
type reloadDoneMsg struct{}

// bannerExpiredMsg dismisses the transient driver-failure banner. seq
// guards against a stale timer clearing a newer banner.
type bannerExpiredMsg struct {
	seq int
}

type tickMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	cfg  config.Config
	ctrl *dashboard.Controller

	// Startup state
	ready   bool
	bootErr error
	spinner spinner.Model

	// UI state
	width    int
	height   int
	showHelp bool

	// Transient driver-failure banner
	banner    string
	bannerSeq int

	// Refresh bookkeeping
	autoRefresh     bool
	refreshInterval time.Duration
	lastData        time.Time
	failedLast      int

	// Widget titles by region id, fixed once the controller is up
	titles map[string]string

	// First-run setup (huh form)
	needSetup bool
	form      *huh.Form
	formVals  *setupValues
}

const (
	minTerminalWidth = 60
	compactWidth     = 110
	maxContentWidth  = 180

	minContentHeight = 5

	bannerTTL = 6 * time.Second
)

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.Default()
	}
	return cfg
}

// NewApp creates the root model. cfg is the resolved configuration the
// dashboard runs with.
func NewApp(cfg config.Config) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	refreshInterval := time.Duration(cfg.Dashboard.RefreshInterval) * time.Second
	if refreshInterval < 30*time.Second {
		refreshInterval = 5 * time.Minute
	}

	a := App{
		cfg:             cfg,
		autoRefresh:     cfg.Dashboard.AutoRefresh,
		refreshInterval: refreshInterval,
		spinner:         sp,
		needSetup:       !config.Exists(),
	}
	if a.needSetup {
		// The form writes through these pointers; keep them on the heap
		// so every copy of the model sees the same values.
		vals := newSetupValues(cfg)
		a.formVals = &vals
		a.form = newSetupForm(&vals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick, tickCmd()}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	} else {
		cmds = append(cmds, bootCmd(a.cfg))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		a.applyLayout()
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case bootDoneMsg:
		if msg.err != nil {
			a.bootErr = msg.err
			return a, nil
		}
		a.ctrl = msg.ctrl
		a.ready = true
		a.titles = make(map[string]string)
		for _, w := range a.ctrl.Widgets() {
			a.titles[w.Region] = w.Title
		}
		a.applyLayout()
		return a, tea.Batch(waitForEvent(a.ctrl.Events()), refreshCmd(a.ctrl))

	case dashboard.WidgetSettled:
		// The region already holds the rendered outcome; receiving the
		// event repaints and re-arms the subscription.
		return a, waitForEvent(a.ctrl.Events())

	case dashboard.RefreshFinished:
		a.lastData = time.Now()
		a.failedLast = msg.Failed
		return a, waitForEvent(a.ctrl.Events())

	case dashboard.DriverFailed:
		a.banner = "Refresh failed to start: " + msg.Err.Error()
		a.bannerSeq++
		return a, tea.Batch(waitForEvent(a.ctrl.Events()), dismissBannerCmd(a.bannerSeq))

	case bannerExpiredMsg:
		if msg.seq == a.bannerSeq {
			a.banner = ""
		}
		return a, nil

	case refreshDoneMsg, reloadDoneMsg:
		return a, nil

	case spinner.TickMsg:
		if !a.ready && a.bootErr == nil {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.ready && a.autoRefresh && !a.ctrl.Loading() &&
			!a.lastData.IsZero() && time.Since(a.lastData) >= a.refreshInterval {
			cmds = append(cmds, refreshCmd(a.ctrl))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// First-run setup intercepts everything else
	if a.form != nil {
		return a.updateForm(msg)
	}

	if a.bootErr != nil {
		return a, tea.Quit
	}

	if !a.ready {
		if key == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit

	case "r":
		// The controller's guard makes duplicate presses no-ops.
		return a, refreshCmd(a.ctrl)

	case "p":
		next := a.ctrl.Params().Period.Next()
		return a, setPeriodCmd(a.ctrl, next)

	case "m":
		next := nextMonths(a.ctrl.Params().Months)
		return a, setMonthsCmd(a.ctrl, next)

	case "x":
		return a, resetCmd(a.ctrl)

	case "R":
		a.autoRefresh = !a.autoRefresh
		// Persist to config (best-effort, ignore errors)
		cfg := loadConfigOrDefault()
		cfg.Dashboard.AutoRefresh = a.autoRefresh
		_ = config.Save(cfg)
		return a, nil
	}
	return a, nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.saveSetup()
		a.form = nil
		a.needSetup = false
		return a, bootCmd(a.cfg)

	case huh.StateAborted:
		// Run with whatever config resolves to; widgets surface the
		// missing pieces themselves.
		a.form = nil
		a.needSetup = false
		return a, bootCmd(a.cfg)
	}

	return a, cmd
}

// Shutdown releases the dashboard's resources after the program exits.
func (a App) Shutdown() {
	if a.ctrl != nil {
		_ = a.ctrl.Close()
	}
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.form != nil {
		return a.form.View()
	}
	if a.bootErr != nil {
		return a.viewBootError()
	}
	if !a.ready {
		return a.viewBooting()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  finsight needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewBooting() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderBright).
		Padding(1, 3)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ finsight"))
	b.WriteString(subtitleStyle.Render(" · spending analytics"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Contacting the analytics service..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewBootError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Bad).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.Bad).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	body := titleStyle.Render("Could not start the dashboard") + "\n\n" +
		textStyle.Render(a.bootErr.Error()) + "\n\n" +
		textStyle.Render("Press any key to exit.")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderBright).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"r", "Refresh every widget"},
		{"p", "Cycle trends period (daily/weekly/monthly/yearly)"},
		{"m", "Cycle trends window (3/6/12/24 months)"},
		{"x", "Clear cached data and refetch"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-4s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	p := a.ctrl.Params()
	header := components.RenderHeader(w, string(p.Period), p.Months)
	statusBar := components.RenderStatusBar(w, a.dataAge(), a.ctrl.Loading(), a.autoRefresh, a.banner)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var rows []string
	for _, row := range a.widgetRows() {
		widths := components.LayoutRow(cw, len(row))
		panes := make([]string, len(row))
		for i, id := range row {
			panes[i] = a.renderPane(id, widths[i])
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	}
	content := strings.Join(rows, "\n")

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderPane draws one region inside a titled pane, border and body
// tinted by the region's status.
func (a App) renderPane(id string, outerW int) string {
	state, ok := a.ctrl.Regions().State(id)
	if !ok {
		return ""
	}
	t := theme.Active

	border := t.Border
	body := state.Content
	switch state.Status {
	case dashboard.StatusError:
		border = t.Bad
		body = lipgloss.NewStyle().Foreground(t.Bad).Render(state.Content)
	case dashboard.StatusLoading, dashboard.StatusNoData, dashboard.StatusEmpty:
		body = lipgloss.NewStyle().Foreground(t.TextDim).Render(state.Content)
	}

	return components.Pane(a.titles[id], body, outerW, border)
}

func (a App) dataAge() string {
	if a.lastData.IsZero() {
		return ""
	}
	return format.Age(time.Since(a.lastData))
}

// ─── Commands ───────────────────────────────────────────────────

// bootCmd runs the startup barrier off the UI loop.
func bootCmd(cfg config.Config) tea.Cmd {
	return func() tea.Msg {
		ctrl, err := dashboard.Bootstrap(context.Background(), cfg)
		return bootDoneMsg{ctrl: ctrl, err: err}
	}
}

// waitForEvent re-arms the controller event subscription. Every event
// delivered repaints the dashboard.
func waitForEvent(events <-chan dashboard.Event) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func refreshCmd(ctrl *dashboard.Controller) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{ran: ctrl.RefreshAll(context.Background())}
	}
}

func resetCmd(ctrl *dashboard.Controller) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{ran: ctrl.Reset(context.Background())}
	}
}

func setPeriodCmd(ctrl *dashboard.Controller, p analytics.Period) tea.Cmd {
	return func() tea.Msg {
		_ = ctrl.SetPeriod(context.Background(), p)
		return reloadDoneMsg{}
	}
}

func setMonthsCmd(ctrl *dashboard.Controller, months int) tea.Cmd {
	return func() tea.Msg {
		_ = ctrl.SetMonths(context.Background(), months)
		return reloadDoneMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func dismissBannerCmd(seq int) tea.Cmd {
	return tea.Tick(bannerTTL, func(time.Time) tea.Msg {
		return bannerExpiredMsg{seq: seq}
	})
}
