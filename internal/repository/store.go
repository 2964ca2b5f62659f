// internal/repository/store.go
package repository

import (
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("RECORD_NOT_FOUND")

// Store reads and writes the career guidance tables in Postgres.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB { return s.db }

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
