package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// BaseKV provides common functionality for the SQL-backed KV implementations.
// Converter rewrites ? placeholders into the backend's dialect.
type BaseKV struct {
	DB        *sqlx.DB
	Converter func(string) string
}

const Schema = `
	CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)
`

func (s *BaseKV) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *BaseKV) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	query := s.Converter(`SELECT value FROM records WHERE key = ?`)

	err := s.DB.GetContext(ctx, &value, query, key)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *BaseKV) Write(ctx context.Context, key string, value []byte) error {
	query := s.Converter(`
		INSERT INTO records (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`)

	if _, err := s.DB.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *BaseKV) Delete(ctx context.Context, key string) error {
	query := s.Converter(`DELETE FROM records WHERE key = ?`)

	if _, err := s.DB.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
