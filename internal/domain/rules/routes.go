package rules

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns rule evaluation routes used by content collaborators
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/check", h.CheckContent)
	r.Post("/submit", h.SubmitContent)

	return r
}

// AdminRoutes returns rule CRUD routes
func (h *Handler) AdminRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminMiddleware)

	r.Post("/", h.CreateRule)
	r.Get("/", h.ListRules)
	r.Patch("/{id}/toggle", h.ToggleRule)
	r.Delete("/{id}", h.DeleteRule)

	return r
}
