package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/pkg/config"
	"Storefront/pkg/kit"
)

func main() {
	service := "catalog"

	cfg, err := config.Load[config.Catalog](service, config.CatalogDefaults(), config.Options{})
	if err != nil {
		zap.NewExample().Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	log.Info("config loaded", zap.Stringer("config", cfg))

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err))
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	h := catalog.NewHandler(&catalog.Server{Store: store, Log: log}, kit.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	if err := kit.RunHTTPServer(ctx, cfg.HTTP, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		closeStore()
		os.Exit(1)
	}
}

// openStore uses Postgres when database.url is set and the demo catalog in
// memory otherwise.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (catalog.Store, func(), error) {
	if cfg.URL == "" {
		log.Info("using in-memory catalog")
		return catalog.NewMemStore(), func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	store := catalog.NewPostgresStore(db)

	if err := store.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	if cfg.Seed {
		n, err := store.Seed(ctx, catalog.DemoProducts())
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("catalog seeded", zap.Int("inserted", n))
	}

	return store, func() { _ = db.Close() }, nil
}
