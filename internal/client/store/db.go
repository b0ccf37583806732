package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/geolists/internal/client/migrations"
	"github.com/dmitrijs2005/geolists/internal/client/repositories/kv"
)

// RunMigrations applies the embedded goose migrations to the client database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenRepository opens (or creates) the local SQLite database at dsn,
// applies migrations, and returns a key/value repository over it. The
// caller owns closing db.
func OpenRepository(ctx context.Context, dsn string) (kv.Repository, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}

	return kv.NewSQLiteRepository(db), db, nil
}
