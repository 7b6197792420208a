package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shrimpsizemoose/quizdrop/internal/models"
	"github.com/shrimpsizemoose/quizdrop/internal/store"
)

// FileStore keeps the collection as a pretty-printed JSON array on disk.
type FileStore struct {
	path string
}

func NewFileStore(config *store.DBConfig) (*FileStore, error) {
	if config.DSN == "" {
		return nil, fmt.Errorf("data file path is empty")
	}
	return &FileStore{path: config.DSN}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) ApplyMigrations(string) error {
	return nil
}

func (s *FileStore) Load(context.Context) ([]models.Submission, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return store.Decode(data)
}

// Save writes next to the target and renames over it, so the old document
// stays intact until the new one is complete.
func (s *FileStore) Save(_ context.Context, records []models.Submission) error {
	data, err := store.Encode(records)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", tmp.Name(), err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
