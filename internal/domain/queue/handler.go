package queue

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sentinel-mod/sentinel-api/internal/middleware"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/response"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/validator"
)

// Handler handles moderation queue HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates queue handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetPending lists pending items
// GET /admin/queue?limit=50&offset=0
func (h *Handler) GetPending(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r, 50)

	items, err := h.service.GetPending(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.WithMeta(w, items, response.Meta{
		Total:  len(items),
		Limit:  limit,
		Offset: offset,
	})
}

// GetItem returns one queue item
// GET /admin/queue/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		if err == ErrItemNotFound {
			response.NotFound(w, "Queue item not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, item)
}

// GetByType lists items filtered by content type and status
// GET /admin/queue/type/{contentType}?status=pending&limit=50
func (h *Handler) GetByType(w http.ResponseWriter, r *http.Request) {
	contentType := chi.URLParam(r, "contentType")

	status := StatusPending
	if v := r.URL.Query().Get("status"); v != "" {
		status = Status(v)
	}

	limit, _ := parsePage(r, 50)

	items, err := h.service.GetByType(r.Context(), contentType, status, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, items)
}

// Counts returns per-status and per-type (pending) item counts
// GET /admin/queue/counts
func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	byStatus, err := h.service.CountByStatus(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	byType, err := h.service.CountByType(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"by_status":       byStatus,
		"pending_by_type": byType,
	})
}

// GetAssigned lists the calling reviewer's assigned items
// GET /admin/queue/assigned?limit=50
func (h *Handler) GetAssigned(w http.ResponseWriter, r *http.Request) {
	reviewerID := middleware.GetUserID(r.Context())
	limit, _ := parsePage(r, 50)

	items, err := h.service.GetAssigned(r.Context(), reviewerID, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, items)
}

// GetReviewerStats summarizes a reviewer's recent output
// GET /admin/queue/stats/{reviewerId}?window_days=30
func (h *Handler) GetReviewerStats(w http.ResponseWriter, r *http.Request) {
	reviewerID, err := uuid.Parse(chi.URLParam(r, "reviewerId"))
	if err != nil {
		response.BadRequest(w, "Invalid reviewer ID")
		return
	}

	windowDays := 30
	if v := r.URL.Query().Get("window_days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 365 {
			windowDays = parsed
		}
	}

	stats, err := h.service.GetReviewerStats(r.Context(), reviewerID, windowDays)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}

// Approve approves a queue item
// POST /admin/queue/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	reviewerID := middleware.GetUserID(r.Context())
	if err := h.service.Approve(r.Context(), id, reviewerID, req.Notes); err != nil {
		writeTransitionError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "Item approved"})
}

// Reject rejects a queue item
// POST /admin/queue/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req RejectRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	reviewerID := middleware.GetUserID(r.Context())
	if err := h.service.Reject(r.Context(), id, reviewerID, req.Notes, req.DeleteContent); err != nil {
		writeTransitionError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "Item rejected"})
}

// Escalate escalates a queue item
// POST /admin/queue/{id}/escalate
func (h *Handler) Escalate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	reviewerID := middleware.GetUserID(r.Context())
	if err := h.service.Escalate(r.Context(), id, reviewerID, req.Notes); err != nil {
		writeTransitionError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "Item escalated"})
}

// Assign assigns a pending item to a reviewer
// POST /admin/queue/{id}/assign
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req AssignRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	if err := h.service.Assign(r.Context(), id, req.ReviewerID); err != nil {
		writeTransitionError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "Item assigned"})
}

// Unassign clears a pending item's assignment
// DELETE /admin/queue/{id}/assign
func (h *Handler) Unassign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Unassign(r.Context(), id); err != nil {
		writeTransitionError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "Assignment cleared"})
}

// Bulk applies one action to many items
// POST /admin/queue/bulk
func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	reviewerID := middleware.GetUserID(r.Context())
	result, err := h.service.BulkProcess(r.Context(), req.IDs, reviewerID, req.Action, req.Notes)
	if err != nil {
		if err == ErrInvalidAction {
			response.BadRequest(w, "Invalid bulk action")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid queue item ID")
		return uuid.Nil, false
	}
	return id, true
}

func parsePage(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

func writeTransitionError(w http.ResponseWriter, err error) {
	switch err {
	case ErrItemNotFound:
		response.NotFound(w, "Queue item not found")
	case ErrIllegalTransition:
		response.Conflict(w, "Item is not in a state that permits this action")
	case ErrNotAssignable:
		response.Conflict(w, "Only pending items can be assigned")
	default:
		response.InternalError(w)
	}
}
