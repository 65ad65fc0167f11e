package trust

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines trust registry data access interface
type Repository interface {
	// Spammer flag
	UpsertSpammer(ctx context.Context, record *SpammerRecord) error
	DeleteSpammer(ctx context.Context, userID uuid.UUID) (bool, error)
	GetSpammer(ctx context.Context, userID uuid.UUID) (*SpammerRecord, error)

	// Pending-account gate
	CreatePending(ctx context.Context, record *PendingUserRecord) error
	GetPending(ctx context.Context, userID uuid.UUID) (*PendingUserRecord, error)
	ListPending(ctx context.Context, limit, offset int) ([]*PendingUserRecord, error)
	// ReviewPending flips a record out of pending exactly once. Returns
	// false when the record was not in pending state.
	ReviewPending(ctx context.Context, userID uuid.UUID, status PendingStatus, reviewedBy uuid.UUID, notes string) (bool, error)

	// Reports. CreateReport inserts and returns the number of pending
	// reports for the same content reference, counted in the same
	// transaction as the insert.
	CreateReport(ctx context.Context, report *Report) (int, error)
	GetReportByID(ctx context.Context, id uuid.UUID) (*Report, error)
	ListReports(ctx context.Context, filter *ListReportsFilter) ([]*Report, error)
	CountReports(ctx context.Context, filter *ListReportsFilter) (int, error)
	// ResolveReport flips a pending report exactly once. Returns false
	// when the report was already resolved.
	ResolveReport(ctx context.Context, id uuid.UUID, status ReportStatus, resolvedBy uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new trust repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Spammer flag

func (r *repository) UpsertSpammer(ctx context.Context, record *SpammerRecord) error {
	query := `
		INSERT INTO spammer_records (user_id, marked_by, reason, evidence, marked_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET marked_by = EXCLUDED.marked_by,
		    reason = EXCLUDED.reason,
		    evidence = EXCLUDED.evidence,
		    marked_at = EXCLUDED.marked_at
	`
	if record.MarkedAt.IsZero() {
		record.MarkedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		record.UserID,
		record.MarkedBy,
		record.Reason,
		record.Evidence,
		record.MarkedAt,
	)
	return err
}

func (r *repository) DeleteSpammer(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM spammer_records WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *repository) GetSpammer(ctx context.Context, userID uuid.UUID) (*SpammerRecord, error) {
	query := `SELECT * FROM spammer_records WHERE user_id = $1`
	var record SpammerRecord
	err := r.db.GetContext(ctx, &record, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Pending-account gate

func (r *repository) CreatePending(ctx context.Context, record *PendingUserRecord) error {
	query := `
		INSERT INTO pending_users (user_id, reason, submitted_data, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		record.UserID,
		record.Reason,
		record.SubmittedData,
		PendingStatusPending,
		record.CreatedAt,
	)
	return err
}

func (r *repository) GetPending(ctx context.Context, userID uuid.UUID) (*PendingUserRecord, error) {
	query := `SELECT * FROM pending_users WHERE user_id = $1`
	var record PendingUserRecord
	err := r.db.GetContext(ctx, &record, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListPending(ctx context.Context, limit, offset int) ([]*PendingUserRecord, error) {
	query := `
		SELECT * FROM pending_users
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`
	var records []*PendingUserRecord
	err := r.db.SelectContext(ctx, &records, query, limit, offset)
	return records, err
}

func (r *repository) ReviewPending(ctx context.Context, userID uuid.UUID, status PendingStatus, reviewedBy uuid.UUID, notes string) (bool, error) {
	query := `
		UPDATE pending_users
		SET status = $1, reviewed_by = $2, review_notes = $3, reviewed_at = NOW()
		WHERE user_id = $4 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, status, reviewedBy, notes, userID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Reports

func (r *repository) CreateReport(ctx context.Context, report *Report) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Serialize reports against the same content for the rest of the
	// transaction. Without this, two reporters racing at the threshold
	// can each count one short of it and neither triggers the flip.
	// The lock releases on commit or rollback.
	lock := `SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`
	if _, err := tx.ExecContext(ctx, lock, report.ContentType, report.ContentID); err != nil {
		return 0, err
	}

	insert := `
		INSERT INTO content_reports (id, reporter_id, content_type, content_id, author_id, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	report.Status = ReportStatusPending

	if _, err := tx.ExecContext(ctx, insert,
		report.ID,
		report.ReporterID,
		report.ContentType,
		report.ContentID,
		report.AuthorID,
		report.Reason,
		report.Status,
		report.CreatedAt,
	); err != nil {
		return 0, err
	}

	// Count inside the same transaction so the threshold decision sees
	// this insert and concurrent inserts cannot all read a stale count
	count := `
		SELECT COUNT(*) FROM content_reports
		WHERE content_type = $1 AND content_id = $2 AND status = 'pending'
	`
	var pending int
	if err := tx.GetContext(ctx, &pending, count, report.ContentType, report.ContentID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return pending, nil
}

func (r *repository) GetReportByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	query := `SELECT * FROM content_reports WHERE id = $1`
	var report Report
	err := r.db.GetContext(ctx, &report, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *repository) ListReports(ctx context.Context, filter *ListReportsFilter) ([]*Report, error) {
	query := `SELECT * FROM content_reports WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter != nil && filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argPos)
		args = append(args, filter.Status)
		argPos++
	}

	query += ` ORDER BY created_at DESC`

	limit := 50
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}
	query += fmt.Sprintf(` LIMIT $%d`, argPos)
	args = append(args, limit)
	argPos++

	if filter != nil && filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argPos)
		args = append(args, filter.Offset)
	}

	var reports []*Report
	err := r.db.SelectContext(ctx, &reports, query, args...)
	return reports, err
}

func (r *repository) CountReports(ctx context.Context, filter *ListReportsFilter) (int, error) {
	query := `SELECT COUNT(*) FROM content_reports WHERE 1=1`
	args := []interface{}{}

	if filter != nil && filter.Status != "" {
		query += ` AND status = $1`
		args = append(args, filter.Status)
	}

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	return count, err
}

func (r *repository) ResolveReport(ctx context.Context, id uuid.UUID, status ReportStatus, resolvedBy uuid.UUID) (bool, error) {
	query := `
		UPDATE content_reports
		SET status = $1, resolved_by = $2, resolved_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, status, resolvedBy, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
