package queue

import "github.com/google/uuid"

// ReviewRequest carries reviewer notes for approve/escalate
type ReviewRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

// RejectRequest optionally deletes the underlying content
type RejectRequest struct {
	Notes         string `json:"notes,omitempty" validate:"max=2000"`
	DeleteContent bool   `json:"delete_content,omitempty"`
}

// AssignRequest assigns a pending item to a reviewer
type AssignRequest struct {
	ReviewerID uuid.UUID `json:"reviewer_id" validate:"required"`
}

// BulkRequest applies one action to many items
type BulkRequest struct {
	IDs    []uuid.UUID `json:"ids" validate:"required,min=1,max=100"`
	Action string      `json:"action" validate:"required,oneof=approve reject escalate"`
	Notes  string      `json:"notes,omitempty" validate:"max=2000"`
}
