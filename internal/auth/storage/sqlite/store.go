// Package sqlite stores session scopes in a SQLite file.
//
// Each row belongs to one (kind, owner) pair: kind says which scope the row
// models and owner is the opaque browser identity the web service hands out.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/easyvents/internal/auth/session"
	"github.com/louisbranch/easyvents/internal/auth/storage/sqlite/migrations"
	"github.com/louisbranch/easyvents/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Kind selects the scope a row belongs to.
type Kind string

const (
	KindDurable   Kind = "durable"
	KindEphemeral Kind = "ephemeral"
)

func (k Kind) valid() bool {
	return k == KindDurable || k == KindEphemeral
}

// Store is a SQLite-backed set of session scopes.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Scope returns the rows of kind owned by owner as a session.Scope.
func (s *Store) Scope(kind Kind, owner string) session.Scope {
	return &scope{store: s, kind: kind, owner: strings.TrimSpace(owner)}
}

// Purge deletes rows of kind last written before olderThan ago and returns
// how many were removed.
func (s *Store) Purge(ctx context.Context, kind Kind, olderThan time.Duration) (int64, error) {
	if !kind.valid() {
		return 0, fmt.Errorf("unknown scope kind %q", kind)
	}
	cutoff := s.now().Add(-olderThan).UTC().UnixMilli()
	res, err := s.sqlDB.ExecContext(ctx,
		"DELETE FROM session_scopes WHERE kind = ? AND updated_at < ?",
		string(kind), cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("purge %s scopes: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge %s scopes: %w", kind, err)
	}
	return n, nil
}

type scope struct {
	store *Store
	kind  Kind
	owner string
}

func (sc *scope) check() error {
	if !sc.kind.valid() {
		return fmt.Errorf("unknown scope kind %q", sc.kind)
	}
	if sc.owner == "" {
		return errors.New("scope owner is required")
	}
	return nil
}

func (sc *scope) Get(ctx context.Context, key string) (string, bool, error) {
	if err := sc.check(); err != nil {
		return "", false, err
	}
	var value string
	err := sc.store.sqlDB.QueryRowContext(ctx,
		"SELECT value FROM session_scopes WHERE kind = ? AND owner = ? AND entry_key = ?",
		string(sc.kind), sc.owner, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s scope: %w", sc.kind, err)
	}
	return value, true, nil
}

func (sc *scope) Set(ctx context.Context, key string, value string) error {
	if err := sc.check(); err != nil {
		return err
	}
	_, err := sc.store.sqlDB.ExecContext(ctx, `
INSERT INTO session_scopes (kind, owner, entry_key, value, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (kind, owner, entry_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(sc.kind), sc.owner, key, value, sc.store.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set %s scope: %w", sc.kind, err)
	}
	return nil
}

func (sc *scope) Delete(ctx context.Context, key string) error {
	if err := sc.check(); err != nil {
		return err
	}
	if _, err := sc.store.sqlDB.ExecContext(ctx,
		"DELETE FROM session_scopes WHERE kind = ? AND owner = ? AND entry_key = ?",
		string(sc.kind), sc.owner, key,
	); err != nil {
		return fmt.Errorf("delete %s scope: %w", sc.kind, err)
	}
	return nil
}
