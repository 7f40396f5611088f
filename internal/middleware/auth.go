package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vaughan-dsouza/QuizGo/internal/common"
	"github.com/vaughan-dsouza/QuizGo/internal/models"
	"github.com/vaughan-dsouza/QuizGo/internal/token"
	"github.com/vaughan-dsouza/QuizGo/internal/utils"
)

// UserLookup resolves the current record for a token's email.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// verified claims in the request context. Every failure looks the same to
// the client.
func Authenticate(codec *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			raw = strings.TrimSpace(raw)
			if !ok || raw == "" {
				unauthorized(w)
				return
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin must run after Authenticate. It looks the caller up again so
// that the stored role, not the one in the token, decides.
func RequireAdmin(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := utils.ClaimsFrom(r.Context())
			if !ok || claims.Email == "" {
				unauthorized(w)
				return
			}

			user, err := users.GetUserByEmail(r.Context(), claims.Email)
			if errors.Is(err, common.ErrNotFound) || (err == nil && !user.IsAdmin()) {
				utils.JSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			if err != nil {
				utils.JSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	utils.JSONError(w, http.StatusUnauthorized, "unauthorized")
}
