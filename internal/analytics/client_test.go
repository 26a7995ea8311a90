package analytics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"finsight/internal/store"
)

type fakeCreds string

func (f fakeCreds) Token() string { return string(f) }

func trendsJSON() string {
	return `{"data":[{"month":"2025-01","amount":120.5},{"month":"2025-02","amount":90}]}`
}

func TestSpendingTrends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spending-trends" {
			t.Errorf("path = %q, want /spending-trends", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("period") != "weekly" || q.Get("months") != "12" {
			t.Errorf("query = %v, want period=weekly months=12", q)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		fmt.Fprint(w, trendsJSON())
	}))
	defer srv.Close()

	c := New(srv.URL, fakeCreds("tok-123"))
	pts, err := c.SpendingTrends(context.Background(), PeriodWeekly, 12)
	if err != nil {
		t.Fatalf("SpendingTrends: %v", err)
	}

	if len(pts) != 2 {
		t.Fatalf("got %d points, want 2", len(pts))
	}
	if pts[0].Month != "2025-01" || pts[0].Amount != 120.5 {
		t.Errorf("first point = %+v", pts[0])
	}
}

func TestSpendingTrendsCoercesBadArgs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("period") != "monthly" || q.Get("months") != "6" {
			t.Errorf("query = %v, want the monthly/6 defaults", q)
		}
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, fakeCreds("tok"))
	if _, err := c.SpendingTrends(context.Background(), Period("hourly"), 0); err != nil {
		t.Fatalf("SpendingTrends: %v", err)
	}
}

func TestCategoryBreakdownQuery(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		fmt.Fprint(w, `{"data":{"total":100,"categories":[{"category":"food","amount":100}]}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, fakeCreds("tok"))

	b, err := c.CategoryBreakdown(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("CategoryBreakdown: %v", err)
	}
	if got != "type=expense" {
		t.Errorf("query = %q, want bare type=expense when dates are empty", got)
	}
	if b.Total != 100 || len(b.Categories) != 1 {
		t.Errorf("breakdown = %+v", b)
	}

	if _, err := c.CategoryBreakdown(context.Background(), "income", "2025-01-01", "2025-06-30"); err != nil {
		t.Fatalf("CategoryBreakdown with dates: %v", err)
	}
	if got != "endDate=2025-06-30&startDate=2025-01-01&type=income" {
		t.Errorf("query = %q, want kind and both date bounds", got)
	}
}

func TestNoCredentialFailsBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, trendsJSON())
	}))
	defer srv.Close()

	c := New(srv.URL, fakeCreds("  "))
	_, err := c.SpendingTrends(context.Background(), PeriodMonthly, 6)
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("err = %v, want ErrNoCredential", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server saw %d requests, want none", hits.Load())
	}
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name string
		code int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"forbidden", http.StatusForbidden},
		{"bad gateway", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.code)
			}))
			defer srv.Close()

			c := New(srv.URL, fakeCreds("tok"))
			_, err := c.Insights(context.Background())

			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *StatusError", err)
			}
			if se.Code != tt.code {
				t.Errorf("Code = %d, want %d", se.Code, tt.code)
			}
		})
	}
}

func TestEnvelopeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing data field", `{"ok":true}`},
		{"not json", `<html>gateway error</html>`},
		{"wrong inner shape", `{"data":{"not":"an array"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c := New(srv.URL, fakeCreds("tok"))
			if _, err := c.Predictions(context.Background()); err == nil {
				t.Fatal("expected a parse error, got nil")
			}
		})
	}
}

func TestSnapshotKeepsLastGoodPayload(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, trendsJSON())
	}))
	defer srv.Close()

	c := New(srv.URL, fakeCreds("tok"))
	if _, err := c.SpendingTrends(context.Background(), PeriodMonthly, 6); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	e, ok := c.Snapshot().Entry(ViewTrends)
	if !ok {
		t.Fatal("no snapshot entry after a successful fetch")
	}
	pts := e.Payload.([]TrendPoint)
	if len(pts) != 2 {
		t.Fatalf("snapshot holds %d points, want 2", len(pts))
	}

	failing.Store(true)
	if _, err := c.SpendingTrends(context.Background(), PeriodMonthly, 6); err == nil {
		t.Fatal("expected the second fetch to fail")
	}

	// The failed fetch must not disturb the retained payload.
	e2, ok := c.Snapshot().Entry(ViewTrends)
	if !ok {
		t.Fatal("snapshot entry vanished after a failed fetch")
	}
	if got := len(e2.Payload.([]TrendPoint)); got != 2 {
		t.Errorf("snapshot now holds %d points, want 2", got)
	}
}

func TestClearCacheDropsMemoryAndDisk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, trendsJSON())
	}))
	defer srv.Close()

	st, err := store.Open(filepath.Join(t.TempDir(), "snap.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()

	c := New(srv.URL, fakeCreds("tok"), WithStore(st))
	if _, err := c.SpendingTrends(context.Background(), PeriodMonthly, 6); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if _, ok, _ := st.Load(string(ViewTrends)); !ok {
		t.Fatal("fetch did not persist a snapshot row")
	}

	c.ClearCache()

	if _, ok := c.Snapshot().Entry(ViewTrends); ok {
		t.Error("in-memory snapshot survived ClearCache")
	}
	if n, _ := st.Count(); n != 0 {
		t.Errorf("store still holds %d rows after ClearCache", n)
	}
}

func TestFetchAllToleratesPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/spending-trends":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/category-breakdown":
			fmt.Fprint(w, `{"data":{"total":50,"categories":[{"category":"food","amount":50}]}}`)
		case "/insights":
			fmt.Fprint(w, `{"data":[{"title":"t","description":"d","suggestion":"s"}]}`)
		case "/predictions":
			fmt.Fprint(w, `{"data":[{"category":"food","confidence":80,"predictedAmount":100}]}`)
		case "/velocity":
			fmt.Fprint(w, `{"data":{"dayOfMonth":10,"currentSpent":200,"dailyAverage":20,"projectedMonthEnd":600,"daysRemaining":20}}`)
		case "/forecast":
			fmt.Fprint(w, `{"data":{"nextMonth":500,"nextQuarter":1500,"yearEnd":6000}}`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, fakeCreds("tok"))
	b := c.FetchAll(context.Background(), PeriodMonthly, 6)

	if len(b.Errs) != 1 {
		t.Fatalf("Errs = %v, want only the trends failure", b.Errs)
	}
	if b.Errs[ViewTrends] == nil {
		t.Error("trends failure not recorded")
	}
	if b.Trends != nil {
		t.Error("failed view should carry no data")
	}
	if b.Categories == nil || b.Velocity == nil || b.Forecast == nil {
		t.Error("healthy views should still be populated")
	}
	if len(b.Insights) != 1 || len(b.Predictions) != 1 {
		t.Errorf("insights/predictions = %d/%d, want 1/1", len(b.Insights), len(b.Predictions))
	}
	if b.FetchedAt.IsZero() {
		t.Error("FetchedAt not stamped")
	}
}
