package root

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Giantpizzahead/life-coach-x/internal/catalog"
	"github.com/Giantpizzahead/life-coach-x/internal/clock"
	"github.com/Giantpizzahead/life-coach-x/internal/config"
	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
	"github.com/Giantpizzahead/life-coach-x/internal/metrics"
	"github.com/Giantpizzahead/life-coach-x/internal/remote"
	"github.com/Giantpizzahead/life-coach-x/internal/storage"
	"github.com/Giantpizzahead/life-coach-x/internal/tracker"
)

func openLocal(ctx context.Context, cfg *config.Config) (*storage.Gateway, error) {
	home, err := config.HomeDir()
	if err != nil {
		return nil, err
	}
	return storage.OpenGateway(ctx, storage.ResolveDBPath(cfg.Storage.Local.Path, home))
}

func (a *app) openRemote() *remote.Gateway {
	r := a.cfg.Storage.Remote
	return remote.New(remote.Options{
		Addr:        r.Addr,
		Password:    r.Password,
		DB:          r.DB,
		KeyPrefix:   r.KeyPrefix,
		DialTimeout: r.DialTimeout,
	}, a.log.With().Str("component", "remote").Logger())
}

// openGateway builds the configured backend: the store itself, optionally behind
// a local fallback, then instrumented and cached.
func (a *app) openGateway(ctx context.Context, rec *metrics.Recorder) (gateway.Gateway, error) {
	var gw gateway.Gateway
	switch a.cfg.Storage.Backend {
	case config.BackendMemory:
		gw = gateway.NewMemory()
	case config.BackendRemote:
		rg := a.openRemote()
		gw = rg
		if a.cfg.Storage.Remote.FallbackLocal {
			local, err := openLocal(ctx, a.cfg)
			if err != nil {
				_ = rg.Close()
				return nil, err
			}
			gw = gateway.NewFallback(rg, local, a.log.With().Str("component", "gateway").Logger())
		}
	default:
		local, err := openLocal(ctx, a.cfg)
		if err != nil {
			return nil, err
		}
		gw = local
	}

	gw = gateway.NewInstrumented(gw, rec)
	if a.cfg.Storage.CacheSize > 0 {
		cached, err := gateway.NewCached(gw, a.cfg.Storage.CacheSize)
		if err != nil {
			_ = gw.Close()
			return nil, err
		}
		gw = cached
	}
	return gw, nil
}

func (a *app) openService(ctx context.Context) (*tracker.Service, func(), error) {
	cat, err := catalog.Load(a.cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	rec, err := metrics.NewRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics: %w", err)
	}
	gw, err := a.openGateway(ctx, rec)
	if err != nil {
		return nil, nil, err
	}

	svc := tracker.NewService(gw, tracker.Options{
		Profile:        a.cfg.Profile,
		Catalog:        cat,
		Calendar:       engine.Calendar{RolloverHour: a.cfg.RolloverHour, Location: loc},
		StartingPoints: a.cfg.StartingPoints,
		Clock:          clock.RealClock{},
		Logger:         a.log,
		Metrics:        rec,
	})
	cleanup := func() {
		if err := gw.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing storage")
		}
	}
	return svc, cleanup, nil
}
