// Package migrations carries the embedded goose migrations for every
// supported database dialect.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql
var sqliteFS embed.FS

//go:embed postgres/*.sql
var postgresFS embed.FS

// Up applies all pending migrations for the given driver ("sqlite" or
// "postgres") against db.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	var (
		dialect string
		root    fs.FS
		err     error
	)
	switch driver {
	case "sqlite":
		dialect = "sqlite3"
		root, err = fs.Sub(sqliteFS, "sqlite")
	case "postgres":
		dialect = "pgx"
		root, err = fs.Sub(postgresFS, "postgres")
	default:
		return fmt.Errorf("migrations: unsupported driver %q", driver)
	}
	if err != nil {
		return err
	}

	goose.SetBaseFS(root)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
