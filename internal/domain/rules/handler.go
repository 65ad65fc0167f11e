package rules

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sentinel-mod/sentinel-api/internal/middleware"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/response"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/validator"
)

// Handler handles rule engine HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates rule engine handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRule creates a moderation rule
// POST /admin/rules
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	var req CreateRuleRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	rule, err := h.service.CreateRule(r.Context(), adminID, &req)
	if err != nil {
		switch err {
		case ErrInvalidType:
			response.BadRequest(w, "Invalid rule type")
		case ErrInvalidAction:
			response.BadRequest(w, "Invalid rule action")
		case ErrEmptyPattern:
			response.BadRequest(w, "Pattern must not be empty")
		case ErrInvalidPattern:
			response.BadRequest(w, "Pattern is not a valid regular expression")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, rule)
}

// ListRules lists rules, optionally active only
// GET /admin/rules?active=true
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			activeOnly = parsed
		}
	}

	list, err := h.service.ListRules(r.Context(), activeOnly)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, list)
}

// ToggleRule activates/deactivates a rule
// PATCH /admin/rules/{id}/toggle
func (h *Handler) ToggleRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid rule ID")
		return
	}

	var req ToggleRuleRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.ToggleRule(r.Context(), id, req.Active); err != nil {
		if err == ErrRuleNotFound {
			response.NotFound(w, "Rule not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"message": "Rule updated"})
}

// DeleteRule hard-deletes a rule
// DELETE /admin/rules/{id}
func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid rule ID")
		return
	}

	if err := h.service.DeleteRule(r.Context(), id); err != nil {
		if err == ErrRuleNotFound {
			response.NotFound(w, "Rule not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"message": "Rule deleted"})
}

// CheckContent dry-runs the rule set against content
// POST /moderation/check
func (h *Handler) CheckContent(w http.ResponseWriter, r *http.Request) {
	var req CheckContentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	matches, err := h.service.CheckContent(r.Context(), req.Content, req.ContentType)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

// SubmitContent runs automoderation for a content collaborator
// POST /moderation/submit
func (h *Handler) SubmitContent(w http.ResponseWriter, r *http.Request) {
	var req SubmitContentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	result, err := h.service.AutoModerate(r.Context(), req.ContentType, req.ContentID, req.AuthorID, req.Content)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, result)
}
