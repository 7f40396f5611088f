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
	"github.com/vaughan-dsouza/QuizGo/internal/password"
	"github.com/vaughan-dsouza/QuizGo/internal/store"
	"github.com/vaughan-dsouza/QuizGo/internal/token"
)

type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	Token string
	User  *models.User
}

type AuthService struct {
	store   store.Store
	hasher  password.Hasher
	codec   *token.Codec
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

func NewAuthService(st store.Store, hasher password.Hasher, codec *token.Codec, log *slog.Logger, m *metrics.Metrics) *AuthService {
	return &AuthService{
		store:   st,
		hasher:  hasher,
		codec:   codec,
		log:     log,
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func checkCredentials(c Credentials) error {
	if validate.Struct(c) != nil {
		return common.NewValidationError("email and password are required")
	}
	return nil
}

// Register creates a regular user and returns a token for it. The token
// carries no role; role checks always consult the store.
func (s *AuthService) Register(ctx context.Context, c Credentials) (*Session, error) {
	if err := checkCredentials(c); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(ctx, c.Email); err == nil {
		return nil, common.ErrConflict
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(c.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           s.newID(),
		Email:        c.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    s.now().UTC(),
	}
	// the store re-checks uniqueness under its write lock
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	tok, err := s.codec.Issue(user.ID, user.Email, "")
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", slog.String("user_id", user.ID), slog.String("email", user.Email))
	s.metrics.AuthEvent(metrics.EventRegister)

	return &Session{Token: tok, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, c Credentials) (*Session, error) {
	if err := checkCredentials(c); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, c.Email)
	if errors.Is(err, common.ErrNotFound) {
		s.loginFailed(ctx, c.Email)
		return nil, common.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Compare(user.PasswordHash, c.Password) {
		s.loginFailed(ctx, c.Email)
		return nil, common.ErrUnauthorized
	}

	tok, err := s.codec.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.InfoContext(ctx, "login succeeded", slog.String("user_id", user.ID))
	s.metrics.AuthEvent(metrics.EventLoginSuccess)

	return &Session{Token: tok, User: user}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) {
	s.log.WarnContext(ctx, "login failed", slog.String("email", email))
	s.metrics.AuthEvent(metrics.EventLoginFailure)
}

// CurrentUser resolves the user named by a token's email claim.
func (s *AuthService) CurrentUser(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, common.ErrNotFound
	}
	return s.store.GetUserByEmail(ctx, email)
}

// SeedAdmin makes sure the configured administrator exists. It is safe to
// call on every start.
func (s *AuthService) SeedAdmin(ctx context.Context, email, pass string) error {
	if email == "" || pass == "" {
		s.log.WarnContext(ctx, "admin credentials not configured, skipping admin seed")
		return nil
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing.IsAdmin():
		s.log.DebugContext(ctx, "admin already present", slog.String("email", email))
		return nil
	case err == nil:
		return fmt.Errorf("seed admin: %s exists as a regular user", email)
	case !errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("seed admin: %w", err)
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return fmt.Errorf("seed admin: hash password: %w", err)
	}

	admin := &models.User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	s.log.InfoContext(ctx, "admin seeded", slog.String("user_id", admin.ID), slog.String("email", email))
	return nil
}
