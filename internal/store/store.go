// Package store holds user and quiz result records behind a single repository
// interface. Backends: in-memory, flat JSON files, and PostgreSQL.
//
// Every backend serialises mutations. The admin-protection check and the
// cascade delete of a user's results happen inside one critical section or
// transaction, so readers never see a user without results or orphaned results.
package store

import (
	"context"

	"github.com/vaughan-dsouza/QuizGo/internal/models"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Store interface {
	// CreateUser fails with common.ErrConflict when the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// DeleteUser removes the user and all of their results. Admin accounts
	// cannot be deleted (common.ErrForbidden).
	DeleteUser(ctx context.Context, id string) error

	// CreateResult fails with common.ErrNotFound when the owner does not exist.
	CreateResult(ctx context.Context, result *models.QuizResult) error
	ListResultsByUser(ctx context.Context, userID string) ([]models.QuizResult, error)
	ListResults(ctx context.Context) ([]models.ResultWithEmail, error)

	Close() error
}
