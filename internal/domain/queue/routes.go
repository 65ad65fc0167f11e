package queue

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns moderation queue routes (reviewer/admin only)
func (h *Handler) Routes(authMiddleware, reviewerMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(reviewerMiddleware)

	r.Get("/", h.GetPending)
	r.Get("/counts", h.Counts)
	r.Get("/assigned", h.GetAssigned)
	r.Get("/type/{contentType}", h.GetByType)
	r.Get("/stats/{reviewerId}", h.GetReviewerStats)

	r.Post("/bulk", h.Bulk)

	r.Get("/{id}", h.GetItem)
	r.Post("/{id}/approve", h.Approve)
	r.Post("/{id}/reject", h.Reject)
	r.Post("/{id}/escalate", h.Escalate)
	r.Post("/{id}/assign", h.Assign)
	r.Delete("/{id}/assign", h.Unassign)

	return r
}
