package rules

import "github.com/google/uuid"

// CreateRuleRequest represents an admin request to create a rule
type CreateRuleRequest struct {
	Type     string `json:"type" validate:"required,rule_type"`
	Pattern  string `json:"pattern" validate:"required,min=1,max=500"`
	Action   string `json:"action" validate:"required,rule_action"`
	Priority int    `json:"priority" validate:"gte=0,lte=1000"`
}

// ToggleRuleRequest flips a rule active/inactive
type ToggleRuleRequest struct {
	Active bool `json:"active"`
}

// CheckContentRequest is a dry-run rule evaluation
type CheckContentRequest struct {
	Content     string `json:"content" validate:"required"`
	ContentType string `json:"content_type" validate:"required,max=50"`
}

// SubmitContentRequest is the automoderation path used by content
// collaborators at publish time
type SubmitContentRequest struct {
	ContentType string    `json:"content_type" validate:"required,max=50"`
	ContentID   string    `json:"content_id" validate:"required,max=100"`
	AuthorID    uuid.UUID `json:"author_id" validate:"required"`
	Content     string    `json:"content" validate:"required"`
}

// ModerateResult is the automoderation outcome returned to the caller
type ModerateResult struct {
	Decision Decision   `json:"decision"`
	Matches  []Match    `json:"matches,omitempty"`
	QueueID  *uuid.UUID `json:"queue_id,omitempty"`
}
