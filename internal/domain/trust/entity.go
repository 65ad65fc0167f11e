package trust

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EvidenceRef points at one piece of archived evidence backing a
// spammer marking.
type EvidenceRef struct {
	Label string `json:"label"`
	Key   string `json:"key,omitempty"`
	URL   string `json:"url,omitempty"`
}

// EvidenceList is stored as JSONB with a fixed shape rather than a
// free-form metadata blob.
type EvidenceList []EvidenceRef

func (e EvidenceList) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

func (e *EvidenceList) Scan(src interface{}) error {
	if src == nil {
		*e = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return errors.New("evidence: unsupported scan type")
	}
	return json.Unmarshal(data, e)
}

// SubmittedData is the signup snapshot kept for pending accounts
type SubmittedData map[string]string

func (d SubmittedData) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *SubmittedData) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return errors.New("submitted_data: unsupported scan type")
	}
	return json.Unmarshal(data, d)
}

// SpammerRecord flags one account. Presence of the record is the flag;
// removing it clears the user.
type SpammerRecord struct {
	UserID   uuid.UUID    `db:"user_id" json:"user_id"`
	MarkedBy uuid.UUID    `db:"marked_by" json:"marked_by"`
	Reason   string       `db:"reason" json:"reason"`
	Evidence EvidenceList `db:"evidence" json:"evidence,omitempty"`
	MarkedAt time.Time    `db:"marked_at" json:"marked_at"`
}

// PendingStatus is the pending-account gate state
type PendingStatus string

const (
	PendingStatusPending  PendingStatus = "pending"
	PendingStatusApproved PendingStatus = "approved"
	PendingStatusRejected PendingStatus = "rejected"
)

// PendingUserRecord gates a new account behind manual approval
type PendingUserRecord struct {
	UserID        uuid.UUID      `db:"user_id" json:"user_id"`
	Reason        string         `db:"reason" json:"reason"`
	SubmittedData SubmittedData  `db:"submitted_data" json:"submitted_data,omitempty"`
	Status        PendingStatus  `db:"status" json:"status"`
	ReviewedBy    uuid.NullUUID  `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewNotes   sql.NullString `db:"review_notes" json:"review_notes,omitempty"`
	ReviewedAt    sql.NullTime   `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// ReportStatus is the user-report lifecycle
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusApproved  ReportStatus = "approved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Report is one user report against a piece of content. Several
// reports may target the same content.
type Report struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	ReporterID  uuid.UUID     `db:"reporter_id" json:"reporter_id"`
	ContentType string        `db:"content_type" json:"content_type"`
	ContentID   string        `db:"content_id" json:"content_id"`
	AuthorID    uuid.UUID     `db:"author_id" json:"author_id"`
	Reason      string        `db:"reason" json:"reason"`
	Status      ReportStatus  `db:"status" json:"status"`
	ResolvedBy  uuid.NullUUID `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt  sql.NullTime  `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}
