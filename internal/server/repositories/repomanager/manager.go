package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// RepositoryManager opens the SQL database, owns its schema and vends
// repositories bound to it.
type RepositoryManager interface {
	Open(ctx context.Context, dsn string) (*sql.DB, error)
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
