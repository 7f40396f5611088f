package utils

import (
	"context"

	"github.com/vaughan-dsouza/QuizGo/internal/models"
	"github.com/vaughan-dsouza/QuizGo/internal/token"
)

// context key
type ctxKey string

const (
	ctxClaimsKey ctxKey = "claims"
	ctxUserKey   ctxKey = "user"
)

func WithClaims(ctx context.Context, c *token.Claims) context.Context {
	return context.WithValue(ctx, ctxClaimsKey, c)
}

// ClaimsFrom returns the verified token claims put in place by the auth middleware.
func ClaimsFrom(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(ctxClaimsKey).(*token.Claims)
	return c, ok && c != nil
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

// UserFrom returns the freshly resolved user stored by RequireAdmin.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxUserKey).(*models.User)
	return u, ok && u != nil
}
