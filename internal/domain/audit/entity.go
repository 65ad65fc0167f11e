package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action mirrors the queue transition that produced the entry
type Action string

const (
	ActionApproved  Action = "approved"
	ActionRejected  Action = "rejected"
	ActionEscalated Action = "escalated"
)

// Entry is one immutable record of a reviewer decision. Entries are
// only ever appended, inside the same transaction as the queue status
// change they record.
type Entry struct {
	ID          uuid.UUID `db:"id" json:"id"`
	QueueID     uuid.UUID `db:"queue_id" json:"queue_id"`
	ContentType string    `db:"content_type" json:"content_type"`
	ContentID   string    `db:"content_id" json:"content_id"`
	AuthorID    uuid.UUID `db:"author_id" json:"author_id"`
	ReviewerID  uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	Action      Action    `db:"action" json:"action"`
	Notes       string    `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AuthorHistory aggregates a content author's past outcomes, used to
// spot repeat offenders.
type AuthorHistory struct {
	AuthorID  uuid.UUID `json:"author_id"`
	Approved  int       `json:"approved"`
	Rejected  int       `json:"rejected"`
	Escalated int       `json:"escalated"`
	Total     int       `json:"total"`
}
