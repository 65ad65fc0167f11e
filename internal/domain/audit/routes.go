package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns audit trail read routes (reviewer/admin only)
func (h *Handler) Routes(authMiddleware, reviewerMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(reviewerMiddleware)

	r.Get("/queue/{id}", h.GetByQueueID)
	r.Get("/reviewers/{id}", h.GetReviewerActions)
	r.Get("/authors/{id}", h.GetAuthorHistory)

	return r
}
