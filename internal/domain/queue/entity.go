package queue

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents the review state of a queue item
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusEscalated Status = "escalated"
)

// Priority levels. Escalation always raises to PriorityEscalated.
const (
	PriorityNormal    = 1
	PriorityEscalated = 3
)

// legalTransitions is the queue state machine. approved and rejected
// are terminal.
var legalTransitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected, StatusEscalated},
	StatusEscalated: {StatusApproved, StatusRejected},
}

// CanTransition reports whether from → to is a legal state change
func CanTransition(from, to Status) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// sourceStates returns every state from which `to` is reachable
func sourceStates(to Status) []Status {
	var from []Status
	for state, targets := range legalTransitions {
		for _, t := range targets {
			if t == to {
				from = append(from, state)
			}
		}
	}
	return from
}

// Item is one piece of content awaiting or having received review.
// Items are never physically deleted; terminal items stay for audit.
type Item struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	ContentType        string         `db:"content_type" json:"content_type"`
	ContentID          string         `db:"content_id" json:"content_id"`
	AuthorID           uuid.UUID      `db:"author_id" json:"author_id"`
	ContentPreview     string         `db:"content_preview" json:"content_preview"`
	Reason             string         `db:"reason" json:"reason"`
	Status             Status         `db:"status" json:"status"`
	Priority           int            `db:"priority" json:"priority"`
	AssignedReviewerID uuid.NullUUID  `db:"assigned_reviewer_id" json:"assigned_reviewer_id,omitempty"`
	ReviewNotes        sql.NullString `db:"review_notes" json:"review_notes,omitempty"`
	SubmittedAt        time.Time      `db:"submitted_at" json:"submitted_at"`
	ReviewedAt         sql.NullTime   `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewerID         uuid.NullUUID  `db:"reviewer_id" json:"reviewer_id,omitempty"`
}

// ReviewerStats summarizes one reviewer's output over a window
type ReviewerStats struct {
	ReviewerID          uuid.UUID `json:"reviewer_id"`
	WindowDays          int       `json:"window_days"`
	Approved            int       `json:"approved"`
	Rejected            int       `json:"rejected"`
	MeanHandlingSeconds float64   `json:"mean_handling_seconds"`
}

// BulkResult tallies a bulk operation. One failing ID never aborts the
// rest of the batch.
type BulkResult struct {
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	FailedIDs []uuid.UUID `json:"failed_ids,omitempty"`
}
