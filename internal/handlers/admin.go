package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vaughan-dsouza/QuizGo/internal/common"
	"github.com/vaughan-dsouza/QuizGo/internal/models"
	"github.com/vaughan-dsouza/QuizGo/internal/services"
	"github.com/vaughan-dsouza/QuizGo/internal/utils"
)

type AdminHandler struct {
	svc *services.AdminService
	log *slog.Logger
}

func NewAdminHandler(svc *services.AdminService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

type usersResp struct {
	Users []models.PublicUser `json:"users"`
}

type allResultsResp struct {
	Results []models.ResultWithEmail `json:"results"`
}

type userResultsResp struct {
	User    models.PublicUser   `json:"user"`
	Results []models.QuizResult `json:"results"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	utils.JSON(w, http.StatusOK, usersResp{Users: out})
}

func (h *AdminHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.ListResults(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, allResultsResp{Results: results})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := utils.UserFrom(r.Context())

	err := h.svc.DeleteUser(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.log, err,
			withMessage(common.ErrNotFound, "user not found"),
			withMessage(common.ErrForbidden, "cannot delete admin user"),
		)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (h *AdminHandler) UserResults(w http.ResponseWriter, r *http.Request) {
	user, results, err := h.svc.UserResults(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.log, err, withMessage(common.ErrNotFound, "user not found"))
		return
	}

	utils.JSON(w, http.StatusOK, userResultsResp{User: user.Public(), Results: results})
}
