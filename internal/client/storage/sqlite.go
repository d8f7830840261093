package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/filex"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// SQLiteStorage keeps the session in the metadata table of the client
// database. Every client process on the machine opening the same file sees
// the same session.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

func NewSQLiteStorage(db *sql.DB, path string) *SQLiteStorage {
	return &SQLiteStorage{db: db, path: path}
}

// OpenSQLite opens and migrates the database at path, creating its
// directory if needed.
func OpenSQLite(ctx context.Context, path string, l logging.Logger) (*SQLiteStorage, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	db, err := InitDatabase(ctx, path, l)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStorage(db, path), nil
}

// Path is the database file, for watching.
func (s *SQLiteStorage) Path() string {
	return s.path
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Load reads token and user in one transaction, so a concurrent Save by
// another process is seen whole or not at all. A damaged user record is
// reported as missing so the session can refetch it.
func (s *SQLiteStorage) Load(ctx context.Context) (Snapshot, error) {
	var token, rawUser []byte
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		var err error
		if token, err = repo.Get(ctx, keyToken); err != nil {
			return err
		}
		rawUser, err = repo.Get(ctx, keyUser)
		return err
	})
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Token: string(token)}
	if len(rawUser) > 0 {
		var u models.Profile
		if json.Unmarshal(rawUser, &u) == nil {
			snap.User = &u
		}
	}
	return snap, nil
}

// Save writes token and user in one transaction so other processes never
// observe one without the other.
func (s *SQLiteStorage) Save(ctx context.Context, snap Snapshot) error {
	var rawUser []byte
	if snap.User != nil {
		var err error
		if rawUser, err = json.Marshal(snap.User); err != nil {
			return err
		}
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(snap.Token)); err != nil {
			return err
		}
		if rawUser == nil {
			return repo.Delete(ctx, keyUser)
		}
		return repo.Set(ctx, keyUser, rawUser)
	})
}

func (s *SQLiteStorage) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, keyToken, keyUser)
}
