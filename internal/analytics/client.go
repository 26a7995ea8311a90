// Package analytics provides the typed client for the spending-analytics
// API: one fetch operation per dashboard view, bearer-token auth, and a
// process-lifetime snapshot of the last good payload per view.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"finsight/internal/store"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
	userAgent      = "finsight/1.0"

	// Request smoothing; a full dashboard refresh is six calls.
	limiterRate  = 4
	limiterBurst = 8
)

// CredentialStore resolves the API token. The resolved config implements
// it (environment first, then the config file).
type CredentialStore interface {
	Token() string
}

// Service is the fetch surface the dashboard controller depends on.
type Service interface {
	SpendingTrends(ctx context.Context, period Period, months int) ([]TrendPoint, error)
	CategoryBreakdown(ctx context.Context, kind, startDate, endDate string) (*Breakdown, error)
	Insights(ctx context.Context) ([]Insight, error)
	Predictions(ctx context.Context) ([]Prediction, error)
	Velocity(ctx context.Context) (*Velocity, error)
	Forecast(ctx context.Context) (*Forecast, error)
	ClearCache()
}

// Client fetches analytical views from the finsight API.
type Client struct {
	base    string
	creds   CredentialStore
	http    *http.Client
	limiter *rate.Limiter
	snap    *Snapshot
	persist *store.Store
	log     *logrus.Logger
}

var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithStore attaches a persistent snapshot store. Fetches keep working
// when it is nil or failing; persistence is best-effort.
func WithStore(st *store.Store) Option {
	return func(c *Client) { c.persist = st }
}

// WithLogger routes diagnostics to the given logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the given API base URL, e.g.
// "http://localhost:8080/api/analytics".
func New(baseURL string, creds CredentialStore, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		creds:   creds,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(limiterRate), limiterBurst),
		snap:    NewSnapshot(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.New()
		c.log.SetOutput(io.Discard)
	}
	return c
}

// Snapshot exposes the retained last-good payloads for inspection.
func (c *Client) Snapshot() *Snapshot { return c.snap }

// SpendingTrends returns the spending series bucketed by period over the
// given window of months.
func (c *Client) SpendingTrends(ctx context.Context, period Period, months int) ([]TrendPoint, error) {
	if !period.Valid() {
		period = PeriodMonthly
	}
	if months < 1 {
		months = 6
	}

	q := url.Values{}
	q.Set("period", string(period))
	q.Set("months", strconv.Itoa(months))

	var pts []TrendPoint
	if err := c.getJSON(ctx, "/spending-trends", q, &pts); err != nil {
		return nil, err
	}
	c.remember(ViewTrends, pts)
	return pts, nil
}

// CategoryBreakdown returns per-category totals for a transaction kind
// ("expense" or "income"). Empty date bounds are omitted from the query.
func (c *Client) CategoryBreakdown(ctx context.Context, kind, startDate, endDate string) (*Breakdown, error) {
	if kind == "" {
		kind = "expense"
	}

	q := url.Values{}
	q.Set("type", kind)
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}

	var b Breakdown
	if err := c.getJSON(ctx, "/category-breakdown", q, &b); err != nil {
		return nil, err
	}
	c.remember(ViewCategories, &b)
	return &b, nil
}

// Insights returns the server-generated spending observations.
func (c *Client) Insights(ctx context.Context) ([]Insight, error) {
	var ins []Insight
	if err := c.getJSON(ctx, "/insights", nil, &ins); err != nil {
		return nil, err
	}
	c.remember(ViewInsights, ins)
	return ins, nil
}

// Predictions returns the per-category spend projections.
func (c *Client) Predictions(ctx context.Context) ([]Prediction, error) {
	var preds []Prediction
	if err := c.getJSON(ctx, "/predictions", nil, &preds); err != nil {
		return nil, err
	}
	c.remember(ViewPredictions, preds)
	return preds, nil
}

// Velocity returns the current month's spending pace.
func (c *Client) Velocity(ctx context.Context) (*Velocity, error) {
	var v Velocity
	if err := c.getJSON(ctx, "/velocity", nil, &v); err != nil {
		return nil, err
	}
	c.remember(ViewVelocity, &v)
	return &v, nil
}

// Forecast returns the three fixed spending projections.
func (c *Client) Forecast(ctx context.Context) (*Forecast, error) {
	var f Forecast
	if err := c.getJSON(ctx, "/forecast", nil, &f); err != nil {
		return nil, err
	}
	c.remember(ViewForecast, &f)
	return &f, nil
}

// ClearCache drops every retained payload, in memory and on disk.
// Used by `finsight snapshot --clear` and the dashboard's reset key.
func (c *Client) ClearCache() {
	c.snap.Clear()
	if c.persist == nil {
		return
	}
	if err := c.persist.Clear(); err != nil {
		c.log.WithError(err).Warn("clearing snapshot store")
	}
}

// Bundle aggregates every view for one-shot consumers such as the status
// command. Partial data is returned even when some views fail; Errs
// records the failures per view.
type Bundle struct {
	Trends      []TrendPoint
	Categories  *Breakdown
	Insights    []Insight
	Predictions []Prediction
	Velocity    *Velocity
	Forecast    *Forecast
	Errs        map[View]error
	FetchedAt   time.Time
}

// FetchAll fetches all six views concurrently with partial tolerance.
func (c *Client) FetchAll(ctx context.Context, period Period, months int) *Bundle {
	b := &Bundle{Errs: make(map[View]error), FetchedAt: time.Now()}

	var mu sync.Mutex
	fail := func(v View, err error) {
		mu.Lock()
		b.Errs[v] = err
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		v, err := c.SpendingTrends(ctx, period, months)
		if err != nil {
			fail(ViewTrends, err)
			return nil
		}
		b.Trends = v
		return nil
	})
	g.Go(func() error {
		v, err := c.CategoryBreakdown(ctx, "expense", "", "")
		if err != nil {
			fail(ViewCategories, err)
			return nil
		}
		b.Categories = v
		return nil
	})
	g.Go(func() error {
		v, err := c.Insights(ctx)
		if err != nil {
			fail(ViewInsights, err)
			return nil
		}
		b.Insights = v
		return nil
	})
	g.Go(func() error {
		v, err := c.Predictions(ctx)
		if err != nil {
			fail(ViewPredictions, err)
			return nil
		}
		b.Predictions = v
		return nil
	})
	g.Go(func() error {
		v, err := c.Velocity(ctx)
		if err != nil {
			fail(ViewVelocity, err)
			return nil
		}
		b.Velocity = v
		return nil
	})
	g.Go(func() error {
		v, err := c.Forecast(ctx)
		if err != nil {
			fail(ViewForecast, err)
			return nil
		}
		b.Forecast = v
		return nil
	})
	_ = g.Wait()

	return b
}

// envelope is the API's response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// getJSON performs an authenticated GET, unwraps the {data: ...} envelope,
// and decodes the inner document into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("analytics: parsing %s: %w", strings.TrimPrefix(path, "/"), err)
	}
	return nil
}

// get performs the request. A missing token fails here, before any
// network activity.
func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	var token string
	if c.creds != nil {
		token = strings.TrimSpace(c.creds.Token())
	}
	if token == "" {
		return nil, ErrNoCredential
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("analytics: waiting for rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("analytics: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analytics: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("analytics: reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("analytics: parsing %s envelope: %w", strings.TrimPrefix(path, "/"), err)
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("analytics: %s: response had no data field", strings.TrimPrefix(path, "/"))
	}
	return env.Data, nil
}

// remember updates the in-memory snapshot and, when attached, the
// persistent store. Persistence failures are logged, never surfaced.
func (c *Client) remember(v View, payload any) {
	c.snap.put(v, payload)
	if c.persist == nil {
		return
	}
	if err := c.persist.SaveSnapshot(string(v), payload, time.Now()); err != nil {
		c.log.WithError(err).WithField("view", string(v)).Warn("persisting snapshot")
	}
}
