package services

import (
	"context"
	"log/slog"

	"github.com/vaughan-dsouza/QuizGo/internal/common"
	"github.com/vaughan-dsouza/QuizGo/internal/metrics"
	"github.com/vaughan-dsouza/QuizGo/internal/models"
	"github.com/vaughan-dsouza/QuizGo/internal/store"
)

// AdminService backs the dashboard endpoints. Callers are expected to have
// passed the admin gate already.
type AdminService struct {
	store   store.Store
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewAdminService(st store.Store, log *slog.Logger, m *metrics.Metrics) *AdminService {
	return &AdminService{store: st, log: log, metrics: m}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *AdminService) ListResults(ctx context.Context) ([]models.ResultWithEmail, error) {
	return s.store.ListResults(ctx)
}

// DeleteUser removes a non-admin user together with all of their results.
func (s *AdminService) DeleteUser(ctx context.Context, actor *models.User, id string) error {
	if id == "" {
		return common.NewValidationError("user id required")
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	attrs := []any{slog.String("user_id", id)}
	if actor != nil {
		attrs = append(attrs, slog.String("by", actor.Email))
	}
	s.log.InfoContext(ctx, "user deleted", attrs...)
	s.metrics.AuthEvent(metrics.EventUserDeleted)
	return nil
}

// UserResults returns a user and their results, newest first.
func (s *AdminService) UserResults(ctx context.Context, id string) (*models.User, []models.QuizResult, error) {
	if id == "" {
		return nil, nil, common.NewValidationError("user id required")
	}

	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	results, err := s.store.ListResultsByUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return u, results, nil
}
