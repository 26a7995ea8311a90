package dashboard

import (
	"context"
	"testing"

	"finsight/internal/analytics"
	"finsight/internal/config"
)

func TestBootstrap(t *testing.T) {
	// Point the log and snapshot store at throwaway directories.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	cfg := config.Default()
	ctrl, err := Bootstrap(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	defer ctrl.Close()

	if got := ctrl.Regions().Len(); got != 6 {
		t.Errorf("regions = %d, want 6", got)
	}
	if got := len(ctrl.Widgets()); got != 6 {
		t.Errorf("widgets = %d, want 6", got)
	}
	p := ctrl.Params()
	if p.Period != analytics.PeriodMonthly || p.Months != 6 {
		t.Errorf("params = %+v, want monthly over 6 months", p)
	}
	if ctrl.Loading() {
		t.Error("controller reports a refresh in flight before any ran")
	}
}

func TestBootstrapHonorsCanceledContext(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Bootstrap(ctx, config.Default()); err == nil {
		t.Fatal("Bootstrap succeeded with a canceled context")
	}
}
