package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/vaughan-dsouza/QuizGo/internal/metrics"
	"github.com/vaughan-dsouza/QuizGo/internal/middleware"
	"github.com/vaughan-dsouza/QuizGo/internal/services"
	"github.com/vaughan-dsouza/QuizGo/internal/token"
	"github.com/vaughan-dsouza/QuizGo/internal/utils"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Auth        *services.AuthService
	Results     *services.ResultService
	Admin       *services.AdminService
	Users       middleware.UserLookup
	Codec       *token.Codec
	Log         *slog.Logger
	Metrics     *metrics.Metrics
	CORSOrigins []string
	PingMessage string
}

type Handler struct {
	Auth    *AuthHandler
	Results *ResultHandler
	Admin   *AdminHandler

	deps Deps
}

func NewHandler(d Deps) *Handler {
	if d.PingMessage == "" {
		d.PingMessage = "ping"
	}
	return &Handler{
		Auth:    NewAuthHandler(d.Auth, d.Log),
		Results: NewResultHandler(d.Results, d.Log),
		Admin:   NewAdminHandler(d.Admin, d.Log),
		deps:    d,
	}
}

// Routes builds the full router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(h.deps.Log))
	r.Use(middleware.Recover(h.deps.Log))
	r.Use(middleware.Metrics(h.deps.Metrics))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: h.deps.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}).Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.JSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Public
	r.Get("/ping", h.Ping)
	r.Handle("/metrics", h.deps.Metrics.Handler())
	r.Post("/auth/register", h.Auth.Register)
	r.Post("/auth/login", h.Auth.Login)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(h.deps.Codec))

		r.Get("/auth/me", h.Auth.Me)

		r.Get("/results", h.Results.List)
		r.Post("/results", h.Results.Create)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.deps.Users))

			r.Get("/users", h.Admin.ListUsers)
			r.Get("/results", h.Admin.ListResults)
			r.Delete("/users/{id}", h.Admin.DeleteUser)
			r.Get("/users/{id}/results", h.Admin.UserResults)
		})
	})

	return r
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"message": h.deps.PingMessage})
}
