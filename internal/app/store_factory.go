package app

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/quizdrop/internal/store"
	"github.com/shrimpsizemoose/quizdrop/internal/store/file"
	"github.com/shrimpsizemoose/quizdrop/internal/store/postgres"
	"github.com/shrimpsizemoose/quizdrop/internal/store/redis"
	"github.com/shrimpsizemoose/quizdrop/internal/store/sqlite"
)

// ParseDSN picks a backend from the DSN scheme. Anything without a known
// scheme is a path to a JSON file.
func ParseDSN(dsn, document string) *store.DBConfig {
	config := &store.DBConfig{DSN: dsn, Type: store.BackendFile, Document: document}

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		config.Type = store.BackendPostgres
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		config.Type = store.BackendRedis
	case strings.HasPrefix(dsn, "sqlite://"):
		config.Type = store.BackendSQLite
		config.DSN = strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "sqlite:"):
		config.Type = store.BackendSQLite
		config.DSN = strings.TrimPrefix(dsn, "sqlite:")
	}
	return config
}

func NewStore(dsn, document string) (store.RecordStore, error) {
	config := ParseDSN(dsn, document)

	switch config.Type {
	case store.BackendPostgres:
		return postgres.NewPostgresStore(config)
	case store.BackendSQLite:
		return sqlite.NewSQLiteStore(config)
	case store.BackendRedis:
		return redis.NewRedisStore(config)
	case store.BackendFile:
		return file.NewFileStore(config)
	default:
		return nil, fmt.Errorf("unable to determine storage type from DSN: %s", dsn)
	}
}
