package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vaughan-dsouza/QuizGo/internal/common"
	"github.com/vaughan-dsouza/QuizGo/internal/utils"
)

// errMessage replaces the default client message for errors matching target.
// The status code still comes from respondError.
type errMessage struct {
	target error
	text   string
}

func withMessage(target error, text string) errMessage {
	return errMessage{target: target, text: text}
}

// respondError maps service errors onto status codes. Anything unexpected
// is logged and reported as a bare 500.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, msgs ...errMessage) {
	var verr *common.ValidationError

	var status int
	var text string
	switch {
	case errors.As(err, &verr):
		status, text = http.StatusBadRequest, verr.Message
	case errors.Is(err, common.ErrValidation):
		status, text = http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		status, text = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrForbidden):
		status, text = http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrNotFound):
		status, text = http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrConflict):
		status, text = http.StatusConflict, "already exists"
	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	for _, m := range msgs {
		if errors.Is(err, m.target) {
			text = m.text
			break
		}
	}
	utils.JSONError(w, status, text)
}
