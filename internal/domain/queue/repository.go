package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sentinel-mod/sentinel-api/internal/domain/audit"
)

// TransitionParams describes one state-machine transition. The status
// update and the audit append run in a single transaction; a partial
// write is never observable.
type TransitionParams struct {
	To              Status
	ReviewerID      uuid.UUID
	Notes           string
	Action          audit.Action
	RaisePriority   bool
	ClearAssignment bool
}

// Repository defines queue data access interface
type Repository interface {
	// Enqueue inserts a pending item unless one already exists for the
	// same (content_type, content_id). Returns the surviving item's ID
	// and whether a new row was created.
	Enqueue(ctx context.Context, item *Item) (uuid.UUID, bool, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// Transition atomically moves an item from one of the given states
	// and appends the audit entry. ErrItemNotFound / ErrIllegalTransition
	// on failure, with no partial effect.
	Transition(ctx context.Context, id uuid.UUID, from []Status, params TransitionParams) (*Item, error)

	Assign(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID) error
	Unassign(ctx context.Context, id uuid.UUID) error

	GetPending(ctx context.Context, limit, offset int) ([]*Item, error)
	GetByType(ctx context.Context, contentType string, status Status, limit int) ([]*Item, error)
	GetAssigned(ctx context.Context, reviewerID uuid.UUID, limit int) ([]*Item, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
	CountByType(ctx context.Context) (map[string]int, error)
	GetReviewerStats(ctx context.Context, reviewerID uuid.UUID, windowDays int) (*ReviewerStats, error)
}

type repository struct {
	db        *sqlx.DB
	auditRepo audit.Repository
}

// NewRepository creates new queue repository
func NewRepository(db *sqlx.DB, auditRepo audit.Repository) Repository {
	return &repository{db: db, auditRepo: auditRepo}
}

// Enqueue relies on the partial unique index over pending items so
// concurrent submissions of the same content cannot create duplicates.
func (r *repository) Enqueue(ctx context.Context, item *Item) (uuid.UUID, bool, error) {
	if item.SubmittedAt.IsZero() {
		item.SubmittedAt = time.Now()
	}

	insert := `
		INSERT INTO moderation_queue (id, content_type, content_id, author_id, content_preview, reason, status, priority, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (content_type, content_id) WHERE status = 'pending' DO NOTHING
		RETURNING id
	`

	var id uuid.UUID
	err := r.db.QueryRowxContext(ctx, insert,
		item.ID,
		item.ContentType,
		item.ContentID,
		item.AuthorID,
		item.ContentPreview,
		item.Reason,
		StatusPending,
		item.Priority,
		item.SubmittedAt,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, err
	}

	// Conflict: a pending item already exists, return its ID
	existing := `
		SELECT id FROM moderation_queue
		WHERE content_type = $1 AND content_id = $2 AND status = 'pending'
	`
	if err := r.db.GetContext(ctx, &id, existing, item.ContentType, item.ContentID); err != nil {
		return uuid.Nil, false, err
	}

	return id, false, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	query := `SELECT * FROM moderation_queue WHERE id = $1`
	var item Item
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) Transition(ctx context.Context, id uuid.UUID, from []Status, params TransitionParams) (*Item, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = string(s)
	}

	update := `
		UPDATE moderation_queue
		SET status = $1,
		    reviewer_id = $2,
		    review_notes = $3,
		    reviewed_at = NOW(),
		    priority = CASE WHEN $4 THEN $5 ELSE priority END,
		    assigned_reviewer_id = CASE WHEN $6 THEN NULL ELSE assigned_reviewer_id END
		WHERE id = $7 AND status = ANY($8)
		RETURNING *
	`

	var item Item
	err = tx.QueryRowxContext(ctx, update,
		params.To,
		params.ReviewerID,
		params.Notes,
		params.RaisePriority,
		PriorityEscalated,
		params.ClearAssignment,
		id,
		pq.Array(fromStrs),
	).StructScan(&item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish missing item from illegal state
			var exists bool
			check := `SELECT EXISTS(SELECT 1 FROM moderation_queue WHERE id = $1)`
			if checkErr := r.db.GetContext(ctx, &exists, check, id); checkErr != nil {
				return nil, checkErr
			}
			if !exists {
				return nil, ErrItemNotFound
			}
			return nil, ErrIllegalTransition
		}
		return nil, err
	}

	entry := &audit.Entry{
		ID:          uuid.New(),
		QueueID:     item.ID,
		ContentType: item.ContentType,
		ContentID:   item.ContentID,
		AuthorID:    item.AuthorID,
		ReviewerID:  params.ReviewerID,
		Action:      params.Action,
		Notes:       params.Notes,
	}
	if err := r.auditRepo.InsertTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) Assign(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID) error {
	query := `
		UPDATE moderation_queue
		SET assigned_reviewer_id = $1
		WHERE id = $2 AND status = 'pending'
	`
	return r.assignExec(ctx, query, reviewerID, id)
}

func (r *repository) Unassign(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE moderation_queue
		SET assigned_reviewer_id = NULL
		WHERE id = $1 AND status = 'pending'
	`
	return r.assignExec(ctx, query, id)
}

func (r *repository) assignExec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Either missing or not pending
		id := args[len(args)-1]
		var exists bool
		check := `SELECT EXISTS(SELECT 1 FROM moderation_queue WHERE id = $1)`
		if checkErr := r.db.GetContext(ctx, &exists, check, id); checkErr != nil {
			return checkErr
		}
		if !exists {
			return ErrItemNotFound
		}
		return ErrNotAssignable
	}

	return nil
}

func (r *repository) GetPending(ctx context.Context, limit, offset int) ([]*Item, error) {
	query := `
		SELECT * FROM moderation_queue
		WHERE status = 'pending'
		ORDER BY priority DESC, submitted_at ASC
		LIMIT $1 OFFSET $2
	`
	var items []*Item
	err := r.db.SelectContext(ctx, &items, query, limit, offset)
	return items, err
}

func (r *repository) GetByType(ctx context.Context, contentType string, status Status, limit int) ([]*Item, error) {
	query := `
		SELECT * FROM moderation_queue
		WHERE content_type = $1 AND status = $2
		ORDER BY priority DESC, submitted_at ASC
		LIMIT $3
	`
	var items []*Item
	err := r.db.SelectContext(ctx, &items, query, contentType, status, limit)
	return items, err
}

func (r *repository) GetAssigned(ctx context.Context, reviewerID uuid.UUID, limit int) ([]*Item, error) {
	query := `
		SELECT * FROM moderation_queue
		WHERE assigned_reviewer_id = $1 AND status = 'pending'
		ORDER BY priority DESC, submitted_at ASC
		LIMIT $2
	`
	var items []*Item
	err := r.db.SelectContext(ctx, &items, query, reviewerID, limit)
	return items, err
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM moderation_queue GROUP BY status`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[Status]int{
		StatusPending:   0,
		StatusApproved:  0,
		StatusRejected:  0,
		StatusEscalated: 0,
	}
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func (r *repository) CountByType(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT content_type, COUNT(*) AS count
		FROM moderation_queue
		WHERE status = 'pending'
		GROUP BY content_type
	`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var contentType string
		var count int
		if err := rows.Scan(&contentType, &count); err != nil {
			return nil, err
		}
		counts[contentType] = count
	}

	return counts, rows.Err()
}

func (r *repository) GetReviewerStats(ctx context.Context, reviewerID uuid.UUID, windowDays int) (*ReviewerStats, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'approved') AS approved,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected,
			COALESCE(AVG(EXTRACT(EPOCH FROM (reviewed_at - submitted_at))), 0) AS mean_seconds
		FROM moderation_queue
		WHERE reviewer_id = $1
		  AND reviewed_at >= NOW() - ($2 || ' days')::interval
	`

	var row struct {
		Approved    int     `db:"approved"`
		Rejected    int     `db:"rejected"`
		MeanSeconds float64 `db:"mean_seconds"`
	}
	if err := r.db.GetContext(ctx, &row, query, reviewerID, windowDays); err != nil {
		return nil, err
	}

	return &ReviewerStats{
		ReviewerID:          reviewerID,
		WindowDays:          windowDays,
		Approved:            row.Approved,
		Rejected:            row.Rejected,
		MeanHandlingSeconds: row.MeanSeconds,
	}, nil
}
