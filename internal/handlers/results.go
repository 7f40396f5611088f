package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vaughan-dsouza/QuizGo/internal/models"
	"github.com/vaughan-dsouza/QuizGo/internal/services"
	"github.com/vaughan-dsouza/QuizGo/internal/utils"
)

type ResultHandler struct {
	svc *services.ResultService
	log *slog.Logger
}

func NewResultHandler(svc *services.ResultService, log *slog.Logger) *ResultHandler {
	return &ResultHandler{svc: svc, log: log}
}

type resultResp struct {
	Result *models.QuizResult `json:"result"`
}

type resultsResp struct {
	Results []models.QuizResult `json:"results"`
}

// ---------------------- CREATE ----------------------

func (h *ResultHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.ClaimsFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body services.ResultInput
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	result, err := h.svc.Submit(r.Context(), claims.Subject, body)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	utils.JSON(w, http.StatusCreated, resultResp{Result: result})
}

// ---------------------- LIST ----------------------

func (h *ResultHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.ClaimsFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	results, err := h.svc.ListOwn(r.Context(), claims.Subject)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	utils.JSON(w, http.StatusOK, resultsResp{Results: results})
}
