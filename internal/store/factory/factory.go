// Package factory builds the configured store driver and applies schema
// migrations before handing it out.
package factory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wailingwell/wailingwell/internal/config"
	storepkg "github.com/wailingwell/wailingwell/internal/store"
	"github.com/wailingwell/wailingwell/internal/store/migrations"
	storepg "github.com/wailingwell/wailingwell/internal/store/postgres"
	storelite "github.com/wailingwell/wailingwell/internal/store/sqlite"
)

// NewStore opens the database selected by cfg.DBDriver, migrates it and
// returns the corresponding store.Store.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.DBDriver {
	case "sqlite":
		db, err = storelite.Open(cfg.SQLitePath)
	case "postgres":
		db, err = storepg.Open(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(ctx, db, cfg.DBDriver); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug().Str("driver", cfg.DBDriver).Msg("store ready")

	if cfg.DBDriver == "postgres" {
		return storepg.NewWithDB(db), nil
	}
	return storelite.NewWithDB(db), nil
}
