package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/shrimpsizemoose/kateder/internal/store"
)

type PostgresKV struct {
	store.BaseKV
}

func NewPostgresKV(dsn string) (*PostgresKV, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresKV{BaseKV: store.BaseKV{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
	}}

	if _, err := db.Exec(store.Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	return s, nil
}
