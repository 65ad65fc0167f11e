package trust

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func newMockTrustRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return NewRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func TestCreateReportLocksContentBeforeCounting(t *testing.T) {
	repo, mock := newMockTrustRepo(t)

	report := &Report{
		ID:          uuid.New(),
		ReporterID:  uuid.New(),
		ContentType: "post",
		ContentID:   "p5",
		AuthorID:    uuid.New(),
		Reason:      "spam",
	}

	// The advisory lock must be taken before the insert and count, so
	// concurrent reporters serialize and the flip at the threshold
	// cannot be skipped by two stale counts.
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs(report.ContentType, report.ContentID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO content_reports").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(report.ContentType, report.ContentID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	pending, err := repo.CreateReport(context.Background(), report)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if pending != 3 {
		t.Fatalf("expected pending count 3, got %d", pending)
	}
	if report.Status != ReportStatusPending {
		t.Fatalf("expected new report pending, got %s", report.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected lock, insert, count in order: %v", err)
	}
}

func TestCreateReportRollsBackOnCountFailure(t *testing.T) {
	repo, mock := newMockTrustRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO content_reports").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.CreateReport(context.Background(), &Report{
		ID:          uuid.New(),
		ReporterID:  uuid.New(),
		ContentType: "post",
		ContentID:   "p6",
		AuthorID:    uuid.New(),
		Reason:      "spam",
	})
	if err == nil {
		t.Fatal("expected error when count fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected insert rolled back with failed count: %v", err)
	}
}
