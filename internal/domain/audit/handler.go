package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sentinel-mod/sentinel-api/internal/pkg/response"
)

// Handler serves audit trail reads
type Handler struct {
	repo Repository
}

// NewHandler creates audit handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// GetByQueueID lists the full decision history of one queue item
// GET /admin/audit/queue/{id}
func (h *Handler) GetByQueueID(w http.ResponseWriter, r *http.Request) {
	queueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid queue ID")
		return
	}

	entries, err := h.repo.GetByQueueID(r.Context(), queueID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, entries)
}

// GetReviewerActions lists a reviewer's recent decisions
// GET /admin/audit/reviewers/{id}?limit=50
func (h *Handler) GetReviewerActions(w http.ResponseWriter, r *http.Request) {
	reviewerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid reviewer ID")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}

	entries, err := h.repo.GetReviewerActions(r.Context(), reviewerID, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, entries)
}

// GetAuthorHistory aggregates decisions against one content author
// GET /admin/audit/authors/{id}
func (h *Handler) GetAuthorHistory(w http.ResponseWriter, r *http.Request) {
	authorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid author ID")
		return
	}

	history, err := h.repo.GetAuthorHistory(r.Context(), authorID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, history)
}
