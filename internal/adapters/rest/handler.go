// Package rest is the HTTP adapter: routing, request decoding and session
// handling in front of the core services.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ewilliams-labs/tunefuse/internal/core/services"
)

// Handler manages the HTTP interface for the application.
type Handler struct {
	recommender *services.Recommender
	accounts    *services.Accounts
	library     *services.Library
	sessions    *SessionStore
	logger      *log.Logger
	router      chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(recommender *services.Recommender, accounts *services.Accounts, library *services.Library, sessions *SessionStore, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{
		recommender: recommender,
		accounts:    accounts,
		library:     library,
		sessions:    sessions,
		logger:      logger.With("adapter", "rest"),
		router:      chi.NewRouter(),
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.Use(middleware.RequestID)
	h.router.Use(middleware.RealIP)
	h.router.Use(middleware.Recoverer)

	h.router.Get("/health", h.HealthCheck)

	h.router.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/recommendations", h.Recommendations)
		r.Get("/preview", h.Preview)

		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/check_login", h.CheckLogin)

		r.Route("/songs", func(r chi.Router) {
			r.Get("/like", h.LikedSongs)
			r.Post("/like", h.LikeSong)
			r.Delete("/like", h.UnlikeSong)
			r.Get("/hidden", h.HiddenSongs)
			r.Post("/hide", h.HideSong)
			r.Post("/unhide", h.UnhideSong)
		})
	})
}

// HealthCheck verifies the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireSession resolves the session cookie or writes a 401.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) *Session {
	session := h.sessions.FromRequest(r)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return nil
	}
	return session
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
