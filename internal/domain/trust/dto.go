package trust

import "github.com/google/uuid"

// MarkSpammerRequest flags an account
type MarkSpammerRequest struct {
	UserID   uuid.UUID     `json:"user_id" validate:"required"`
	Reason   string        `json:"reason" validate:"required,max=1000"`
	Evidence []EvidenceRef `json:"evidence,omitempty" validate:"max=20"`
}

// AddPendingRequest gates an account at signup
type AddPendingRequest struct {
	UserID        uuid.UUID     `json:"user_id" validate:"required"`
	Reason        string        `json:"reason" validate:"required,max=1000"`
	SubmittedData SubmittedData `json:"submitted_data,omitempty"`
}

// ReviewPendingRequest approves/rejects a gated account
type ReviewPendingRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

// SubmitReportRequest reports a piece of content
type SubmitReportRequest struct {
	ContentType string    `json:"content_type" validate:"required,max=50"`
	ContentID   string    `json:"content_id" validate:"required,max=100"`
	AuthorID    uuid.UUID `json:"author_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required,max=1000"`
}

// ResolveReportRequest is a reviewer decision on a report
type ResolveReportRequest struct {
	Action string `json:"action" validate:"required,oneof=approved dismissed"`
}

// ListReportsFilter filters the admin report list
type ListReportsFilter struct {
	Status ReportStatus `json:"status,omitempty"`
	Limit  int          `json:"limit,omitempty"`
	Offset int          `json:"offset,omitempty"`
}
