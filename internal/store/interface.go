package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/quizdrop/internal/models"
)

// RecordStore keeps the whole submission collection as a single document.
// Save replaces the document, there are no partial updates.
type RecordStore interface {
	Close() error
	ApplyMigrations(dir string) error

	Load(ctx context.Context) ([]models.Submission, error)
	Save(ctx context.Context, records []models.Submission) error
}

// Decode parses a persisted document. Empty input is ErrNoDocument.
// Numbers are kept as json.Number so they re-encode exactly as stored.
func Decode(data []byte) ([]models.Submission, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoDocument
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []models.Submission
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	var rest json.RawMessage
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode document: trailing data")
	}
	if records == nil {
		// a literal null is not an array
		return nil, fmt.Errorf("failed to decode document: not an array")
	}
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("failed to decode document: record %d is not an object", i)
		}
	}
	return records, nil
}

// Encode renders records as a pretty-printed JSON array.
func Encode(records []models.Submission) ([]byte, error) {
	if records == nil {
		records = []models.Submission{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

type documentRow struct {
	Name      string `db:"name"`
	Body      string `db:"body"`
	UpdatedAt int64  `db:"updated_at"`
}

// BaseStore provides the SQL document table shared by the postgres and sqlite backends
type BaseStore struct {
	DB        *sqlx.DB
	Document  string
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) Load(ctx context.Context) ([]models.Submission, error) {
	var body string
	query := s.Converter(`
		SELECT body
		FROM documents
		WHERE name = ?
	`)

	err := s.DB.GetContext(ctx, &body, query, s.Document)
	if err == sql.ErrNoRows {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", s.Document, err)
	}
	return Decode([]byte(body))
}

func (s *BaseStore) Save(ctx context.Context, records []models.Submission) error {
	body, err := Encode(records)
	if err != nil {
		return err
	}

	_, err = s.DB.NamedExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at)
		VALUES (:name, :body, :updated_at)
		ON CONFLICT(name) DO UPDATE SET
		body = excluded.body,
		updated_at = excluded.updated_at
	`, documentRow{
		Name:      s.Document,
		Body:      string(body),
		UpdatedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", s.Document, err)
	}
	return nil
}
