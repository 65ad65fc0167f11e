package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository is the append-only audit store. There are deliberately no
// update or delete operations.
type Repository interface {
	// InsertTx appends an entry inside the caller's transaction so a
	// queue transition and its audit record commit or roll back together.
	InsertTx(ctx context.Context, tx *sqlx.Tx, entry *Entry) error

	GetByQueueID(ctx context.Context, queueID uuid.UUID) ([]*Entry, error)
	GetReviewerActions(ctx context.Context, reviewerID uuid.UUID, limit int) ([]*Entry, error)
	GetAuthorHistory(ctx context.Context, authorID uuid.UUID) (*AuthorHistory, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new audit repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertTx(ctx context.Context, tx *sqlx.Tx, entry *Entry) error {
	query := `
		INSERT INTO moderation_audit (id, queue_id, content_type, content_id, author_id, reviewer_id, action, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := tx.ExecContext(ctx, query,
		entry.ID,
		entry.QueueID,
		entry.ContentType,
		entry.ContentID,
		entry.AuthorID,
		entry.ReviewerID,
		entry.Action,
		entry.Notes,
		entry.CreatedAt,
	)
	return err
}

func (r *repository) GetByQueueID(ctx context.Context, queueID uuid.UUID) ([]*Entry, error) {
	query := `
		SELECT * FROM moderation_audit
		WHERE queue_id = $1
		ORDER BY created_at ASC
	`
	var entries []*Entry
	err := r.db.SelectContext(ctx, &entries, query, queueID)
	return entries, err
}

func (r *repository) GetReviewerActions(ctx context.Context, reviewerID uuid.UUID, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT * FROM moderation_audit
		WHERE reviewer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var entries []*Entry
	err := r.db.SelectContext(ctx, &entries, query, reviewerID, limit)
	return entries, err
}

func (r *repository) GetAuthorHistory(ctx context.Context, authorID uuid.UUID) (*AuthorHistory, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE action = 'approved')  AS approved,
			COUNT(*) FILTER (WHERE action = 'rejected')  AS rejected,
			COUNT(*) FILTER (WHERE action = 'escalated') AS escalated,
			COUNT(*)                                     AS total
		FROM moderation_audit
		WHERE author_id = $1
	`

	var row struct {
		Approved  int `db:"approved"`
		Rejected  int `db:"rejected"`
		Escalated int `db:"escalated"`
		Total     int `db:"total"`
	}
	if err := r.db.GetContext(ctx, &row, query, authorID); err != nil {
		return nil, err
	}

	return &AuthorHistory{
		AuthorID:  authorID,
		Approved:  row.Approved,
		Rejected:  row.Rejected,
		Escalated: row.Escalated,
		Total:     row.Total,
	}, nil
}
