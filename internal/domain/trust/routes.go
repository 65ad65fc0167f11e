package trust

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns user-facing trust routes
func (h *Handler) Routes(authMiddleware, unrestrictedMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	// Restricted-tier accounts lose report submission
	r.With(unrestrictedMiddleware).Post("/", h.SubmitReport)

	return r
}

// AdminRoutes returns reviewer/admin trust routes
func (h *Handler) AdminRoutes(authMiddleware, reviewerMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(reviewerMiddleware)

	r.Post("/spammers", h.MarkSpammer)
	r.Get("/spammers/{userId}", h.GetSpammer)
	r.Delete("/spammers/{userId}", h.UnmarkSpammer)

	r.Post("/pending", h.AddPending)
	r.Get("/pending", h.ListPending)
	r.Get("/pending/{userId}", h.GetPendingStatus)
	r.Post("/pending/{userId}/approve", h.ApprovePending)
	r.Post("/pending/{userId}/reject", h.RejectPending)

	return r
}

// ReportRoutes returns reviewer/admin report resolution routes
func (h *Handler) ReportRoutes(authMiddleware, reviewerMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(reviewerMiddleware)

	r.Get("/", h.ListReports)
	r.Post("/{id}/resolve", h.ResolveReport)

	return r
}
