package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vaughan-dsouza/QuizGo/internal/common"
	"github.com/vaughan-dsouza/QuizGo/internal/metrics"
	"github.com/vaughan-dsouza/QuizGo/internal/models"
	"github.com/vaughan-dsouza/QuizGo/internal/store"
)

// ResultInput is a submitted quiz outcome. Pointers tell a missing field
// apart from an explicit zero.
type ResultInput struct {
	Score     *int `json:"score" validate:"required,min=0,max=100"`
	Attempted *int `json:"attempted" validate:"required,min=0"`
	Correct   *int `json:"correct" validate:"required,min=0"`
	TimeTaken *int `json:"timeTaken" validate:"required,min=0"`
}

type ResultService struct {
	store   store.Store
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

func NewResultService(st store.Store, log *slog.Logger, m *metrics.Metrics) *ResultService {
	return &ResultService{
		store:   st,
		log:     log,
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Submit records a result for userID. A token whose user has since been
// deleted yields ErrUnauthorized.
func (s *ResultService) Submit(ctx context.Context, userID string, in ResultInput) (*models.QuizResult, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if *in.Correct > *in.Attempted {
		return nil, common.NewValidationError("correct must not exceed attempted")
	}

	r := &models.QuizResult{
		ID:        s.newID(),
		UserID:    userID,
		CreatedAt: s.now().UTC(),
		Score:     *in.Score,
		Attempted: *in.Attempted,
		Correct:   *in.Correct,
		TimeTaken: *in.TimeTaken,
	}

	if err := s.store.CreateResult(ctx, r); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("save result: %w", err)
	}

	s.log.InfoContext(ctx, "result saved",
		slog.String("user_id", userID),
		slog.String("result_id", r.ID),
		slog.Int("score", r.Score),
	)
	s.metrics.AuthEvent(metrics.EventResultSaved)
	return r, nil
}

// ListOwn returns the caller's results, newest first.
func (s *ResultService) ListOwn(ctx context.Context, userID string) ([]models.QuizResult, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	return s.store.ListResultsByUser(ctx, userID)
}
