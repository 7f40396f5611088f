package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vaughan-dsouza/QuizGo/internal/common"
	"github.com/vaughan-dsouza/QuizGo/internal/models"
	"github.com/vaughan-dsouza/QuizGo/internal/services"
	"github.com/vaughan-dsouza/QuizGo/internal/utils"
)

type AuthHandler struct {
	svc *services.AuthService
	log *slog.Logger
}

func NewAuthHandler(svc *services.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// ----------- Request/Response DTOs -------------

type authResp struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

type userResp struct {
	User models.PublicUser `json:"user"`
}

func newAuthResp(s *services.Session) authResp {
	return authResp{
		Success: true,
		Token:   s.Token,
		User:    models.PublicUser{ID: s.User.ID, Email: s.User.Email},
	}
}

// -------------- REGISTER ----------------------

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.Credentials
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	session, err := h.svc.Register(r.Context(), req)
	if err != nil {
		respondError(w, r, h.log, err, withMessage(common.ErrConflict, "user already exists"))
		return
	}

	utils.JSON(w, http.StatusCreated, newAuthResp(session))
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.Credentials
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	session, err := h.svc.Login(r.Context(), req)
	if err != nil {
		respondError(w, r, h.log, err, withMessage(common.ErrUnauthorized, "invalid credentials"))
		return
	}

	utils.JSON(w, http.StatusOK, newAuthResp(session))
}

// -------------- ME (protected) ----------------

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.ClaimsFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.svc.CurrentUser(r.Context(), claims.Email)
	if err != nil {
		respondError(w, r, h.log, err, withMessage(common.ErrNotFound, "user not found"))
		return
	}

	utils.JSON(w, http.StatusOK, userResp{User: user.Public()})
}
