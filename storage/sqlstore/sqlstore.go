package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/qlpt/rental-portal/storage"
	_ "modernc.org/sqlite"
)

var _ storage.Store = (*Store)(nil)

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`
	getSQL    = `SELECT value FROM kv WHERE key = ?`
	upsertSQL = `INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	deleteSQL = `DELETE FROM kv WHERE key = ?`
)

// Store keeps values in a single-table SQLite database. Batches run inside
// one transaction.
type Store struct {
	db *sql.DB
}

// Open creates the database file and schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("[sqlstore.Open] mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("[sqlstore.Open] open %s: %w", path, err)
	}
	// SQLite allows one writer; a single connection keeps batches serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("[sqlstore.Open] schema: %w", err)
	}
	return New(db), nil
}

// New wraps an existing handle whose schema is already in place.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[sqlstore.Get] %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) SetMany(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return s.inTx(ctx, "SetMany", func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, upsertSQL, k, values[k]); err != nil {
				return fmt.Errorf("upsert %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *Store) DeleteMany(ctx context.Context, keys ...string) error {
	return s.inTx(ctx, "DeleteMany", func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, deleteSQL, k); err != nil {
				return fmt.Errorf("delete %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) inTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("[sqlstore.%s] begin: %w", op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("[sqlstore.%s] %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("[sqlstore.%s] commit: %w", op, err)
	}
	return nil
}
