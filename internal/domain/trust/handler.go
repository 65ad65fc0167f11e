package trust

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sentinel-mod/sentinel-api/internal/middleware"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/response"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/validator"
)

// Handler handles trust registry HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates trust handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MarkSpammer flags an account
// POST /admin/trust/spammers
func (h *Handler) MarkSpammer(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req MarkSpammerRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	if err := h.service.MarkSpammer(r.Context(), actorID, &req); err != nil {
		if err == ErrUserNotFound {
			response.NotFound(w, "User not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"message": "User marked as spammer"})
}

// UnmarkSpammer clears the flag
// DELETE /admin/trust/spammers/{userId}
func (h *Handler) UnmarkSpammer(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if err := h.service.UnmarkSpammer(r.Context(), actorID, userID); err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"message": "Spammer flag cleared"})
}

// GetSpammer checks the flag
// GET /admin/trust/spammers/{userId}
func (h *Handler) GetSpammer(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	record, err := h.service.GetSpammer(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"is_spammer": record != nil,
		"record":     record,
	})
}

// AddPending gates an account behind manual review
// POST /admin/trust/pending
func (h *Handler) AddPending(w http.ResponseWriter, r *http.Request) {
	var req AddPendingRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	if err := h.service.AddPending(r.Context(), &req); err != nil {
		switch err {
		case ErrAlreadyPending:
			response.Conflict(w, "Account is already awaiting review")
		case ErrNotPending:
			response.Conflict(w, "Account has already been reviewed")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, map[string]string{"message": "Account gated for review"})
}

// ListPending lists accounts awaiting review
// GET /admin/trust/pending?limit=50&offset=0
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
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

	records, err := h.service.ListPending(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, records)
}

// GetPendingStatus returns the gate record for one account
// GET /admin/trust/pending/{userId}
func (h *Handler) GetPendingStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	record, err := h.service.GetPendingStatus(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	if record == nil {
		response.NotFound(w, "No pending record for user")
		return
	}

	response.OK(w, record)
}

// ApprovePending approves a gated account
// POST /admin/trust/pending/{userId}/approve
func (h *Handler) ApprovePending(w http.ResponseWriter, r *http.Request) {
	h.reviewPending(w, r, true)
}

// RejectPending rejects a gated account
// POST /admin/trust/pending/{userId}/reject
func (h *Handler) RejectPending(w http.ResponseWriter, r *http.Request) {
	h.reviewPending(w, r, false)
}

func (h *Handler) reviewPending(w http.ResponseWriter, r *http.Request, approve bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req ReviewPendingRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	reviewerID := middleware.GetUserID(r.Context())

	if approve {
		err = h.service.ApprovePending(r.Context(), userID, reviewerID, req.Notes)
	} else {
		err = h.service.RejectPending(r.Context(), userID, reviewerID, req.Notes)
	}

	if err != nil {
		switch err {
		case ErrPendingNotFound:
			response.NotFound(w, "No pending record for user")
		case ErrNotPending:
			response.Conflict(w, "Account is not awaiting review")
		default:
			response.InternalError(w)
		}
		return
	}

	if approve {
		response.OK(w, map[string]string{"message": "Account approved"})
	} else {
		response.OK(w, map[string]string{"message": "Account rejected"})
	}
}

// SubmitReport reports a piece of content
// POST /moderation/reports
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	reporterID := middleware.GetUserID(r.Context())

	var req SubmitReportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	reportID, err := h.service.SubmitReport(r.Context(), reporterID, &req)
	if err != nil {
		switch err {
		case ErrCannotReportSelf:
			response.BadRequest(w, "Cannot report your own content")
		case ErrRateLimited:
			response.TooManyRequests(w)
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, map[string]interface{}{"report_id": reportID})
}

// ListReports lists reports for the admin panel
// GET /admin/reports?status=pending
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	filter := &ListReportsFilter{
		Limit:  50,
		Offset: 0,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = ReportStatus(status)
	}

	reports, err := h.service.ListReports(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	total, _ := h.service.CountReports(r.Context(), filter)

	response.WithMeta(w, reports, response.Meta{
		Total: total,
		Limit: filter.Limit,
	})
}

// ResolveReport closes a report
// POST /admin/reports/{id}/resolve
func (h *Handler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	var req ResolveReportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	reviewerID := middleware.GetUserID(r.Context())
	if err := h.service.ResolveReport(r.Context(), reportID, reviewerID, req.Action); err != nil {
		switch err {
		case ErrReportNotFound:
			response.NotFound(w, "Report not found")
		case ErrReportResolved:
			response.Conflict(w, "Report is already resolved")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"message": "Report resolved"})
}
