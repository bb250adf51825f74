// Package factory builds configured dependencies for the service.
package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dreamdive/dreamdive/internal/config"
	storepkg "github.com/dreamdive/dreamdive/internal/store"
	"github.com/dreamdive/dreamdive/internal/store/memory"
	storepg "github.com/dreamdive/dreamdive/internal/store/postgres"
	"github.com/dreamdive/dreamdive/internal/store/sqlite"
)

// NewStore returns the store backend selected by cfg.StoreDriver.
// Postgres schema bootstrap runs asynchronously; the store is returned
// immediately so health probing can begin.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		return memory.New(), nil

	case "sqlite":
		st, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store at %s: %w", cfg.SQLitePath, err)
		}
		return st, nil

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("DREAMDIVE_POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		go func() {
			bctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if _, err := storepg.Bootstrap(bctx, cfg.PostgresDSN); err != nil {
				log.Warn().Err(err).Msg("store bootstrap check failed")
			} else {
				log.Debug().Msg("store bootstrap check completed")
			}
		}()
		return storepg.NewWithDB(db), nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.StoreDriver)
	}
}
