package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/hockey-indexer/internal/config"
	"github.com/riskibarqy/hockey-indexer/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/hockey-indexer/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hockey-indexer/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/hockey-indexer/internal/platform/dburl"
	"github.com/riskibarqy/hockey-indexer/internal/platform/logging"
)

const dbPingTimeout = 5 * time.Second

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (Store, func() error, error) {
	var (
		store     Store
		closeFunc = func() error { return nil }
	)

	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store = postgres.NewEntityStore(db)
		closeFunc = db.Close
	case config.StoreMemory, "":
		store = memory.NewEntityStore()
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}

	if cfg.CacheEnabled {
		store = cache.NewEntityStore(store, cfg.CacheTTL)
	}

	logger.Info("entity store ready",
		"backend", cfg.StoreBackend,
		"cache_enabled", cfg.CacheEnabled,
		"cache_ttl", cfg.CacheTTL.String(),
	)
	return store, closeFunc, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres",
		dburl.Normalize(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dburl.Name(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
