package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdrop/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(config *store.DBConfig) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	document := config.Document
	if document == "" {
		document = store.DefaultDocument
	}

	return &PostgresStore{BaseStore: store.BaseStore{
		DB:        db,
		Document:  document,
		Converter: db.Rebind,
	}}, nil
}

func (s *PostgresStore) ApplyMigrations(dir string) error {
	logger.Info.Printf("Applying migrations from %s", dir)
	return s.BaseStore.ApplyMigrations(dir, nil)
}
