package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdrop/internal/metrics"
	"github.com/shrimpsizemoose/quizdrop/internal/models"
	"github.com/shrimpsizemoose/quizdrop/internal/scoring"
	"github.com/shrimpsizemoose/quizdrop/internal/store"
)

type Service struct {
	Config *Config
	Store  store.RecordStore
	Auth   *Auth
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Storage.DSN, config.Storage.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	return NewServiceWithStore(config, store), nil
}

func NewServiceWithStore(config *Config, store store.RecordStore) *Service {
	return &Service{
		Config: config,
		Store:  store,
		Auth:   NewAuth(config),
	}
}

// Submissions returns the stored collection. Missing, empty or corrupt
// documents all read as an empty collection.
func (s *Service) Submissions(ctx context.Context) []models.Submission {
	records, err := s.Store.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNoDocument) {
			metrics.StoreErrorsTotal.WithLabelValues("load").Inc()
		}
		logger.Debug.Printf("Reading submissions failed, starting from empty collection: %v", err)
		return []models.Submission{}
	}
	return records
}

// Submit validates and appends one record. A failed write is only logged:
// the caller still gets a receipt.
func (s *Service) Submit(ctx context.Context, submission models.Submission) (*models.Receipt, error) {
	if err := submission.Validate(); err != nil {
		return nil, err
	}

	records := s.Submissions(ctx)
	records = append(records, submission)
	s.persist(context.WithoutCancel(ctx), records)

	course := metrics.CourseLabel(submission.CourseLabel(), s.Config.Metrics.Courses)
	metrics.SubmissionsTotal.WithLabelValues(course).Inc()
	if ratio, ok := scoring.Ratio(submission.Score(), submission.MaxScore()); ok {
		metrics.ScoreRatioHistogram.WithLabelValues(course).Observe(ratio)
	}

	logger.Info.Printf(
		"New quiz submission received: %v (Course: %v, Score: %s)",
		submission.Name(),
		submission.Course(),
		scoring.Format(submission.Score(), submission.MaxScore()),
	)

	return &models.Receipt{
		ID:     len(records),
		Name:   submission.Name(),
		Course: submission.Course(),
	}, nil
}

func (s *Service) persist(ctx context.Context, records []models.Submission) {
	if err := s.Store.Save(ctx, records); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("save").Inc()
		logger.Error.Printf("Error writing submissions: %v", err)
	}
}

func (s *Service) Close() error {
	if err := s.Store.Close(); err != nil {
		return fmt.Errorf("errors while closing: store: %w", err)
	}
	return nil
}
