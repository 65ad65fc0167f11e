package queue

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sentinel-mod/sentinel-api/internal/domain/audit"
)

type spyAuditRepo struct {
	entries   []*audit.Entry
	insertErr error
}

func (s *spyAuditRepo) InsertTx(ctx context.Context, tx *sqlx.Tx, entry *audit.Entry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.entries = append(s.entries, entry)
	return nil
}
func (s *spyAuditRepo) GetByQueueID(ctx context.Context, queueID uuid.UUID) ([]*audit.Entry, error) {
	return nil, nil
}
func (s *spyAuditRepo) GetReviewerActions(ctx context.Context, reviewerID uuid.UUID, limit int) ([]*audit.Entry, error) {
	return nil, nil
}
func (s *spyAuditRepo) GetAuthorHistory(ctx context.Context, authorID uuid.UUID) (*audit.AuthorHistory, error) {
	return nil, nil
}

var itemColumns = []string{
	"id", "content_type", "content_id", "author_id", "content_preview",
	"reason", "status", "priority", "assigned_reviewer_id", "review_notes",
	"submitted_at", "reviewed_at", "reviewer_id",
}

func newMockRepo(t *testing.T, spy *spyAuditRepo) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return NewRepository(sqlx.NewDb(mockDB, "sqlmock"), spy), mock
}

func itemRow(itemID, authorID, reviewerID uuid.UUID, status Status, notes string) *sqlmock.Rows {
	return sqlmock.NewRows(itemColumns).AddRow(
		itemID.String(), "post", "p5", authorID.String(), "preview",
		"reason", string(status), PriorityNormal, nil, notes,
		time.Now(), time.Now(), reviewerID.String(),
	)
}

func TestTransitionAppendsExactlyOneAuditEntry(t *testing.T) {
	spy := &spyAuditRepo{}
	repo, mock := newMockRepo(t, spy)

	itemID := uuid.New()
	authorID := uuid.New()
	reviewerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE moderation_queue").
		WillReturnRows(itemRow(itemID, authorID, reviewerID, StatusApproved, "looks fine"))
	mock.ExpectCommit()

	item, err := repo.Transition(context.Background(), itemID, sourceStates(StatusApproved), TransitionParams{
		To:         StatusApproved,
		ReviewerID: reviewerID,
		Notes:      "looks fine",
		Action:     audit.ActionApproved,
	})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if item.Status != StatusApproved {
		t.Fatalf("expected approved item, got %s", item.Status)
	}

	if len(spy.entries) != 1 {
		t.Fatalf("expected exactly one audit entry, got %d", len(spy.entries))
	}
	entry := spy.entries[0]
	if entry.QueueID != itemID {
		t.Fatalf("expected audit entry for item %s, got %s", itemID, entry.QueueID)
	}
	if entry.Action != audit.ActionApproved {
		t.Fatalf("expected approved action, got %s", entry.Action)
	}
	if entry.ReviewerID != reviewerID {
		t.Fatalf("expected reviewer %s, got %s", reviewerID, entry.ReviewerID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionNoAuditEntryOnIllegalState(t *testing.T) {
	spy := &spyAuditRepo{}
	repo, mock := newMockRepo(t, spy)

	itemID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE moderation_queue").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), itemID, sourceStates(StatusApproved), TransitionParams{
		To:         StatusApproved,
		ReviewerID: uuid.New(),
		Action:     audit.ActionApproved,
	})
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}

	if len(spy.entries) != 0 {
		t.Fatalf("expected no audit entry on failed transition, got %d", len(spy.entries))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionNoAuditEntryOnMissingItem(t *testing.T) {
	spy := &spyAuditRepo{}
	repo, mock := newMockRepo(t, spy)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE moderation_queue").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), uuid.New(), sourceStates(StatusApproved), TransitionParams{
		To:         StatusApproved,
		ReviewerID: uuid.New(),
		Action:     audit.ActionApproved,
	})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	if len(spy.entries) != 0 {
		t.Fatalf("expected no audit entry when item missing, got %d", len(spy.entries))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionRollsBackWhenAuditAppendFails(t *testing.T) {
	spy := &spyAuditRepo{insertErr: errors.New("audit table gone")}
	repo, mock := newMockRepo(t, spy)

	itemID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE moderation_queue").
		WillReturnRows(itemRow(itemID, uuid.New(), uuid.New(), StatusApproved, ""))
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), itemID, sourceStates(StatusApproved), TransitionParams{
		To:         StatusApproved,
		ReviewerID: uuid.New(),
		Action:     audit.ActionApproved,
	})
	if err == nil {
		t.Fatal("expected error when audit append fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected status update rolled back with audit append: %v", err)
	}
}

func TestTransitionsAccumulateOneEntryEach(t *testing.T) {
	spy := &spyAuditRepo{}
	repo, mock := newMockRepo(t, spy)

	itemID := uuid.New()
	reviewerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE moderation_queue").
		WillReturnRows(itemRow(itemID, uuid.New(), reviewerID, StatusEscalated, ""))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE moderation_queue").
		WillReturnRows(itemRow(itemID, uuid.New(), reviewerID, StatusApproved, ""))
	mock.ExpectCommit()

	if _, err := repo.Transition(context.Background(), itemID, sourceStates(StatusEscalated), TransitionParams{
		To: StatusEscalated, ReviewerID: reviewerID, Action: audit.ActionEscalated, RaisePriority: true, ClearAssignment: true,
	}); err != nil {
		t.Fatalf("escalate: %v", err)
	}
	if _, err := repo.Transition(context.Background(), itemID, sourceStates(StatusApproved), TransitionParams{
		To: StatusApproved, ReviewerID: reviewerID, Action: audit.ActionApproved,
	}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if len(spy.entries) != 2 {
		t.Fatalf("expected two audit entries after two transitions, got %d", len(spy.entries))
	}
	for _, entry := range spy.entries {
		if entry.QueueID != itemID {
			t.Fatalf("expected both entries for item %s, got %s", itemID, entry.QueueID)
		}
	}
	if spy.entries[0].Action != audit.ActionEscalated || spy.entries[1].Action != audit.ActionApproved {
		t.Fatalf("expected escalated then approved, got %s then %s",
			spy.entries[0].Action, spy.entries[1].Action)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
