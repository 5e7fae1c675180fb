package main

import (
	"context"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/storefront"
	"Storefront/pkg/config"
	"Storefront/pkg/kit"
)

const sweepEvery = time.Minute

func main() {
	service := "storefront"

	cfg, err := config.Load[config.Storefront](service, config.StorefrontDefaults(), config.Options{})
	if err != nil {
		zap.NewExample().Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	log.Info("config loaded", zap.Stringer("config", cfg))

	client := catalog.NewClient(catalog.ClientConfig{
		BaseURL:     cfg.Catalog.URL,
		Timeout:     cfg.Catalog.Timeout,
		Failures:    cfg.Catalog.Breaker.Failures,
		OpenTimeout: cfg.Catalog.Breaker.OpenTimeout,
		OnStateChange: func(from, to gobreaker.State) {
			log.Warn("catalog breaker state changed",
				zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	reg := prometheus.NewRegistry()
	sessions := storefront.NewRegistry(nil)

	s := &storefront.Server{
		Catalog:        client,
		Sessions:       sessions,
		Tokens:         storefront.NewTokenMaker(cfg.Session.Secret, cfg.Session.TTL),
		Metrics:        storefront.NewMetrics(reg),
		Log:            log,
		SessionLimiter: kit.NewIPRateLimiter(cfg.RateLimit.Sessions, cfg.RateLimit.Window),
	}

	h := storefront.NewHandler(s, kit.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweep(ctx, sessions, cfg.Session.TTL, log)

	if err := kit.RunHTTPServer(ctx, cfg.HTTP, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		cancel()
		os.Exit(1)
	}
}

// sweep drops sessions idle for longer than a token lives.
func sweep(ctx context.Context, sessions *storefront.Registry, maxIdle time.Duration, log *zap.Logger) {
	t := time.NewTicker(sweepEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := sessions.Sweep(maxIdle); n > 0 {
				log.Info("sessions swept", zap.Int("removed", n), zap.Int("active", sessions.Len()))
			}
		}
	}
}
