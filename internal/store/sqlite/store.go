// internal/store/sqlite/store.go
package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shrimpsizemoose/kateder/internal/store"
)

type SQLiteKV struct {
	store.BaseKV
}

func NewSQLiteKV(dsn string) (*SQLiteKV, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec(store.Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	return &SQLiteKV{BaseKV: store.BaseKV{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}, nil
}
