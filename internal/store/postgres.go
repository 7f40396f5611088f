package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vaughan-dsouza/QuizGo/internal/common"
	"github.com/vaughan-dsouza/QuizGo/internal/db"
	"github.com/vaughan-dsouza/QuizGo/internal/models"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type PostgresStore struct {
	conn *sqlx.DB
}

func NewPostgresStore(conn *sqlx.DB) *PostgresStore {
	return &PostgresStore{conn: conn}
}

// ---------------------- USERS ----------------------

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.conn.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`, email)
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`, id)
}

func (s *PostgresStore) getUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	if err := s.conn.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.conn.SelectContext(ctx, &users, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	return db.WithTx(ctx, s.conn, nil, func(tx *sqlx.Tx) error {
		var role models.Role
		err := tx.GetContext(ctx, &role, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if role == models.RoleAdmin {
			return common.ErrForbidden
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_results WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

// ---------------------- RESULTS ----------------------

func (s *PostgresStore) CreateResult(ctx context.Context, r *models.QuizResult) error {
	query := `
		INSERT INTO quiz_results (id, user_id, created_at, score, attempted, correct, time_taken)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.conn.ExecContext(ctx, query,
		r.ID, r.UserID, r.CreatedAt, r.Score, r.Attempted, r.Correct, r.TimeTaken)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListResultsByUser(ctx context.Context, userID string) ([]models.QuizResult, error) {
	results := []models.QuizResult{}
	err := s.conn.SelectContext(ctx, &results, `
		SELECT id, user_id, created_at, score, attempted, correct, time_taken
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return results, nil
}

func (s *PostgresStore) ListResults(ctx context.Context) ([]models.ResultWithEmail, error) {
	results := []models.ResultWithEmail{}
	err := s.conn.SelectContext(ctx, &results, `
		SELECT r.id, r.user_id, r.created_at, r.score, r.attempted, r.correct, r.time_taken,
		       COALESCE(u.email, $1) AS email
		FROM quiz_results r
		LEFT JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC
	`, models.UnknownEmail)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return results, nil
}

func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
