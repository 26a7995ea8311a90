package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"finsight/internal/analytics"
)

// Event is a controller notification consumed by the view layer. The
// view never inspects widget payloads through events; regions carry the
// rendered state, events only say when to repaint.
type Event interface{ event() }

// WidgetSettled reports one fetch+render task reaching success or
// failure. Err is nil on success.
type WidgetSettled struct {
	View analytics.View
	Err  error
}

// RefreshFinished reports a full refresh wave settling. Failed counts
// the tasks that ended in error.
type RefreshFinished struct {
	Failed  int
	Elapsed time.Duration
}

// DriverFailed reports the refresh machinery itself failing to launch,
// the only failure surfaced globally rather than inside a region.
type DriverFailed struct {
	Err error
}

func (WidgetSettled) event()   {}
func (RefreshFinished) event() {}
func (DriverFailed) event()    {}

const eventBuffer = 64

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger routes controller diagnostics to the given logger.
func WithLogger(log *logrus.Logger) ControllerOption {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithParams sets the initial fetch parameters. Invalid parameters are
// ignored and the defaults kept.
func WithParams(p Params) ControllerOption {
	return func(c *Controller) {
		if p.Period.Valid() && p.Months >= 1 {
			c.params = p
		}
	}
}

// WithWidgets replaces the standard widget table.
func WithWidgets(ws []Descriptor) ControllerOption {
	return func(c *Controller) {
		c.widgets = ws
	}
}

// Controller owns the dashboard state: the fetch parameters, the
// loading flag guarding full refreshes, and the widget table it fans
// out over. Fetch+render pairs settle independently; one widget's
// failure never propagates to its siblings.
type Controller struct {
	svc      analytics.Service
	regions  *RegionSet
	renderer *Renderer
	widgets  []Descriptor
	log      *logrus.Logger
	events   chan Event

	mu      sync.Mutex
	loading bool
	params  Params

	closers []func() error
}

// NewController wires a controller over an analytics service and a
// rendered region surface.
func NewController(svc analytics.Service, regions *RegionSet, renderer *Renderer, opts ...ControllerOption) *Controller {
	c := &Controller{
		svc:      svc,
		regions:  regions,
		renderer: renderer,
		params:   DefaultParams(),
		events:   make(chan Event, eventBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.widgets == nil {
		c.widgets = Widgets(renderer)
	}
	if c.log == nil {
		c.log = logrus.New()
		c.log.SetOutput(io.Discard)
	}
	return c
}

// Events returns the notification stream. The buffer absorbs a full
// wave; the channel is never closed.
func (c *Controller) Events() <-chan Event { return c.events }

// Regions returns the rendered surface, for layout and painting.
func (c *Controller) Regions() *RegionSet { return c.regions }

// Widgets returns the widget table in dashboard order.
func (c *Controller) Widgets() []Descriptor { return c.widgets }

// Loading reports whether a full refresh wave is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Params returns the current fetch parameters.
func (c *Controller) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// RefreshAll runs one full refresh wave: every widget's fetch+render
// pair is launched before any is awaited, and the wave settles only
// when all pairs have, however many failed. It blocks until then, so
// callers run it off the UI loop. Returns false without doing anything
// when a wave is already in flight.
func (c *Controller) RefreshAll(ctx context.Context) bool {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return false
	}
	c.loading = true
	p := c.params
	c.mu.Unlock()

	start := time.Now()

	if len(c.widgets) == 0 || c.regions == nil || c.regions.Len() == 0 {
		err := errors.New("dashboard: no widgets to refresh")
		c.log.WithError(err).Error("refresh wave could not launch")
		c.setIdle()
		c.emit(DriverFailed{Err: err})
		return true
	}

	for _, w := range c.widgets {
		c.regions.setLoading(w.Region)
	}

	// Deliberately not errgroup.WithContext: a failed sibling must not
	// cancel the others, and task errors stay out of Wait.
	var g errgroup.Group
	var failed atomic.Int32
	for _, w := range c.widgets {
		w := w
		g.Go(func() error {
			if err := c.settle(ctx, w, p); err != nil {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	c.setIdle()
	c.log.WithFields(logrus.Fields{
		"failed":  failed.Load(),
		"elapsed": elapsed.Round(time.Millisecond),
	}).Info("refresh wave settled")
	c.emit(RefreshFinished{Failed: int(failed.Load()), Elapsed: elapsed})
	return true
}

// ReloadTrends refetches and redraws only the trends widget. It runs
// outside the full-refresh guard: a period change must not wait for an
// in-flight wave, and concurrent writes to the trends region are
// last-write-wins.
func (c *Controller) ReloadTrends(ctx context.Context) {
	c.mu.Lock()
	p := c.params
	c.mu.Unlock()

	for _, w := range c.widgets {
		if w.View != analytics.ViewTrends {
			continue
		}
		c.regions.setLoading(w.Region)
		_ = c.settle(ctx, w, p)
		return
	}
}

// SetPeriod switches the trends bucketing and selectively reloads the
// trends widget. Unknown periods are rejected without a fetch.
func (c *Controller) SetPeriod(ctx context.Context, p analytics.Period) error {
	if !p.Valid() {
		return fmt.Errorf("dashboard: unknown period %q", p)
	}
	c.mu.Lock()
	c.params.Period = p
	c.mu.Unlock()
	c.ReloadTrends(ctx)
	return nil
}

// SetMonths resizes the trends history window and selectively reloads
// the trends widget. The window must be at least one month.
func (c *Controller) SetMonths(ctx context.Context, months int) error {
	if months < 1 {
		return fmt.Errorf("dashboard: months window must be positive, got %d", months)
	}
	c.mu.Lock()
	c.params.Months = months
	c.mu.Unlock()
	c.ReloadTrends(ctx)
	return nil
}

// Reset drops every cached payload and refreshes the dashboard from
// the server. Reports false when a wave is already in flight.
func (c *Controller) Reset(ctx context.Context) bool {
	c.svc.ClearCache()
	return c.RefreshAll(ctx)
}

// RedrawAll re-runs each widget's render op against its retained
// payload, picking up new region widths after a resize. Regions
// without a retained payload (loading, error, placeholder) keep their
// text unchanged.
func (c *Controller) RedrawAll() {
	for _, w := range c.widgets {
		if payload, ok := c.regions.payloadOf(w.Region); ok {
			w.Render(payload)
		}
	}
}

// Close releases resources attached at bootstrap.
func (c *Controller) Close() error {
	var firstErr error
	for _, fn := range c.closers {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// settle runs one widget's fetch+render pair and emits its settled
// event, success or failure.
func (c *Controller) settle(ctx context.Context, w Descriptor, p Params) error {
	err := c.runTask(ctx, w, p)
	c.emit(WidgetSettled{View: w.View, Err: err})
	return err
}

// runTask executes one widget's fetch+render pair. A panic in either
// half is recovered and becomes that widget's failure.
func (c *Controller) runTask(ctx context.Context, w Descriptor, p Params) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dashboard: %s task panicked: %v", w.View, r)
			c.fail(w, err)
		}
	}()

	payload, err := w.Fetch(ctx, c.svc, p)
	if err != nil {
		c.fail(w, err)
		return err
	}
	w.Render(payload)
	return nil
}

// fail converts a task error into the widget's visible error state and
// a diagnostics record.
func (c *Controller) fail(w Descriptor, err error) {
	c.regions.setError(w.Region, errorText(err))
	c.log.WithError(err).WithField("view", string(w.View)).Warn("widget refresh failed")
}

func (c *Controller) setIdle() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

// emit delivers an event without ever blocking a task goroutine. The
// buffer holds far more than one wave produces; if nobody is draining,
// dropping is harmless because regions carry the real state.
func (c *Controller) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.log.WithField("event", fmt.Sprintf("%T", ev)).Debug("event dropped, no listener")
	}
}

// errorText renders a fetch failure as the short message shown inside
// the widget's region.
func errorText(err error) string {
	var se *analytics.StatusError
	switch {
	case errors.Is(err, analytics.ErrNoCredential):
		return "No API token configured.\nRun `finsight setup` or set FINSIGHT_API_TOKEN."
	case errors.As(err, &se):
		if se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden {
			return fmt.Sprintf("The server rejected the token (%s).\nCheck it with `finsight config`.", se.Status)
		}
		return fmt.Sprintf("The server returned %s.\nPress r to retry.", se.Status)
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out.\nPress r to retry."
	default:
		return "Couldn't load this view: " + err.Error()
	}
}
