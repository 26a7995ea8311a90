package dashboard

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"finsight/internal/analytics"
	"finsight/internal/config"
	"finsight/internal/format"
	"finsight/internal/logging"
	"finsight/internal/store"
)

// Bootstrap readies the dashboard's collaborators concurrently: the
// diagnostics log, the snapshot store, and the credential chain for
// the analytics client. It returns only once all three have settled,
// so the first refresh never races its own plumbing.
//
// The log and store are soft dependencies: when either fails the
// dashboard runs without it. Only an unusable widget surface fails the
// barrier.
func Bootstrap(ctx context.Context, cfg config.Config) (*Controller, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		log      *logrus.Logger
		st       *store.Store
		storeErr error
		baseURL  string
		tokenSrc string
	)

	var g errgroup.Group
	g.Go(func() error {
		log = logging.Open(logging.DefaultPath(), cfg.Log.Level)
		return nil
	})
	g.Go(func() error {
		path, err := store.DefaultPath()
		if err == nil {
			st, err = store.Open(path)
		}
		if err != nil {
			st, storeErr = nil, err
		}
		return nil
	})
	g.Go(func() error {
		// Resolve the env-or-file chain once up front; the values are
		// fixed for the session.
		baseURL = cfg.BaseURL()
		tokenSrc = cfg.TokenSource()
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}

	if log == nil {
		log = logging.Discard()
	}
	if storeErr != nil {
		log.WithError(storeErr).Warn("snapshot store unavailable, persistence disabled")
	}
	log.WithFields(logrus.Fields{
		"base_url": baseURL,
		"token":    tokenSrc,
	}).Info("dashboard starting")

	regions := Regions()
	if regions.Len() == 0 {
		if st != nil {
			_ = st.Close()
		}
		return nil, errors.New("dashboard: no output regions")
	}

	client := analytics.New(baseURL, cfg,
		analytics.WithStore(st),
		analytics.WithLogger(log),
	)

	renderer := NewRenderer(regions, format.New(cfg))
	ctrl := NewController(client, regions, renderer,
		WithLogger(log),
		WithParams(Params{
			Period: analytics.Period(cfg.Dashboard.Period),
			Months: cfg.Dashboard.Months,
		}),
	)
	if st != nil {
		ctrl.closers = append(ctrl.closers, st.Close)
	}
	return ctrl, nil
}
