package app

import (
	"strings"

	"github.com/shrimpsizemoose/kateder/internal/store"
	"github.com/shrimpsizemoose/kateder/internal/store/postgres"
	"github.com/shrimpsizemoose/kateder/internal/store/rediskv"
	"github.com/shrimpsizemoose/kateder/internal/store/sqlite"
)

// NewKV picks the persistence backend from the DSN: redis and postgres by
// scheme, anything else is treated as a sqlite path.
func NewKV(dsn string) (store.KV, error) {
	switch {
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return rediskv.NewRedisKV(dsn)
	case strings.HasPrefix(dsn, "postgres"):
		return postgres.NewPostgresKV(dsn)
	default:
		return sqlite.NewSQLiteKV(dsn)
	}
}
