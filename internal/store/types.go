package store

import "errors"

type BackendType string

const (
	BackendFile     BackendType = "file"
	BackendRedis    BackendType = "redis"
	BackendPostgres BackendType = "postgres"
	BackendSQLite   BackendType = "sqlite"
)

// DefaultDocument names the collection in backends that hold more than one document.
const DefaultDocument = "quiz:submissions"

// ErrNoDocument is returned by Load when nothing was persisted yet.
var ErrNoDocument = errors.New("document does not exist")

type DBConfig struct {
	DSN      string
	Type     BackendType
	Document string
}
