package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/migrations"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// RunMigrations brings the client schema up to date. It is idempotent.
// goose output is routed through l.
func RunMigrations(ctx context.Context, db *sql.DB, l logging.Logger) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(logging.NewPrintfLogger(l))

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// sqliteDSN turns a file path into a modernc DSN. Several client processes
// share the file, so writers wait for each other instead of failing with
// SQLITE_BUSY.
func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// InitDatabase opens (creating if needed) the client database at path and
// migrates it.
func InitDatabase(ctx context.Context, path string, l logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db, l); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return db, nil
}
