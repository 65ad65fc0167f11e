package queue

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sentinel-mod/sentinel-api/internal/content"
	"github.com/sentinel-mod/sentinel-api/internal/domain/notification"
)

type fakeQueueRepo struct {
	items map[uuid.UUID]*Item

	enqueueCreated bool
	lastParams     TransitionParams
	transitionErr  error
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{items: make(map[uuid.UUID]*Item), enqueueCreated: true}
}

func (f *fakeQueueRepo) Enqueue(ctx context.Context, item *Item) (uuid.UUID, bool, error) {
	if !f.enqueueCreated {
		for _, existing := range f.items {
			if existing.ContentType == item.ContentType && existing.ContentID == item.ContentID {
				return existing.ID, false, nil
			}
		}
	}
	f.items[item.ID] = item
	return item.ID, true, nil
}

func (f *fakeQueueRepo) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	return f.items[id], nil
}

func (f *fakeQueueRepo) Transition(ctx context.Context, id uuid.UUID, from []Status, params TransitionParams) (*Item, error) {
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	item, ok := f.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	legal := false
	for _, s := range from {
		if item.Status == s {
			legal = true
			break
		}
	}
	if !legal {
		return nil, ErrIllegalTransition
	}
	f.lastParams = params
	item.Status = params.To
	if params.RaisePriority {
		item.Priority = PriorityEscalated
	}
	if params.ClearAssignment {
		item.AssignedReviewerID = uuid.NullUUID{}
	}
	return item, nil
}

func (f *fakeQueueRepo) Assign(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID) error {
	item, ok := f.items[id]
	if !ok {
		return ErrItemNotFound
	}
	if item.Status != StatusPending {
		return ErrNotAssignable
	}
	item.AssignedReviewerID = uuid.NullUUID{UUID: reviewerID, Valid: true}
	return nil
}

func (f *fakeQueueRepo) Unassign(ctx context.Context, id uuid.UUID) error {
	item, ok := f.items[id]
	if !ok {
		return ErrItemNotFound
	}
	item.AssignedReviewerID = uuid.NullUUID{}
	return nil
}

func (f *fakeQueueRepo) GetPending(ctx context.Context, limit, offset int) ([]*Item, error) {
	return nil, nil
}
func (f *fakeQueueRepo) GetByType(ctx context.Context, contentType string, status Status, limit int) ([]*Item, error) {
	return nil, nil
}
func (f *fakeQueueRepo) GetAssigned(ctx context.Context, reviewerID uuid.UUID, limit int) ([]*Item, error) {
	return nil, nil
}
func (f *fakeQueueRepo) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return nil, nil
}
func (f *fakeQueueRepo) CountByType(ctx context.Context) (map[string]int, error) {
	return nil, nil
}
func (f *fakeQueueRepo) GetReviewerStats(ctx context.Context, reviewerID uuid.UUID, windowDays int) (*ReviewerStats, error) {
	return nil, nil
}

type fakeAdapter struct {
	statuses map[string]string
	deleted  []string
	err      error
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{statuses: make(map[string]string)}
}

func (f *fakeAdapter) UpdateStatus(ctx context.Context, contentID string, status string) error {
	if f.err != nil {
		return f.err
	}
	f.statuses[contentID] = status
	return nil
}

func (f *fakeAdapter) Delete(ctx context.Context, contentID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, contentID)
	return nil
}

type recordingDispatcher struct {
	events []notification.Event
}

func (r *recordingDispatcher) Dispatch(e notification.Event) {
	r.events = append(r.events, e)
}

type fakeArchive struct {
	keys []string
	err  error
}

func (f *fakeArchive) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}
func (f *fakeArchive) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not stored")
}
func (f *fakeArchive) Delete(ctx context.Context, key string) error { return nil }
func (f *fakeArchive) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}
func (f *fakeArchive) GetURL(key string) string { return "" }

func seedPending(repo *fakeQueueRepo, contentType, contentID string) *Item {
	item := &Item{
		ID:          uuid.New(),
		ContentType: contentType,
		ContentID:   contentID,
		AuthorID:    uuid.New(),
		Status:      StatusPending,
		Priority:    PriorityNormal,
	}
	repo.items[item.ID] = item
	return item
}

func TestEnqueueDispatchesOnlyWhenCreated(t *testing.T) {
	repo := newFakeQueueRepo()
	disp := &recordingDispatcher{}
	svc := NewService(repo, content.NewRegistry(), nil, disp)

	id1, err := svc.Enqueue(context.Background(), "post", "p1", uuid.New(), "preview", "reason")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(disp.events) != 1 || disp.events[0].Name != notification.EventContentQueued {
		t.Fatalf("expected one queued event, got %v", disp.events)
	}

	// Second submission for the same content collapses onto the first
	repo.enqueueCreated = false
	id2, err := svc.Enqueue(context.Background(), "post", "p1", uuid.New(), "preview", "reason")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id2 != id1 {
		t.Fatal("expected duplicate submission to return the existing item ID")
	}
	if len(disp.events) != 1 {
		t.Fatal("expected no event for duplicate submission")
	}
}

func TestApproveRepublishesContent(t *testing.T) {
	repo := newFakeQueueRepo()
	adapter := newFakeAdapter()
	registry := content.NewRegistry()
	registry.Register("post", adapter)
	disp := &recordingDispatcher{}
	svc := NewService(repo, registry, nil, disp)

	item := seedPending(repo, "post", "p1")
	reviewerID := uuid.New()

	if err := svc.Approve(context.Background(), item.ID, reviewerID, "looks fine"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Status != StatusApproved {
		t.Fatalf("expected status approved, got %s", item.Status)
	}
	if adapter.statuses["p1"] != content.StatusPublished {
		t.Fatalf("expected content republished, got %q", adapter.statuses["p1"])
	}
	if len(disp.events) != 1 || disp.events[0].Name != notification.EventContentApproved {
		t.Fatalf("expected approved event, got %v", disp.events)
	}
}

func TestApproveAlreadyDecidedReturnsIllegalTransition(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := NewService(repo, content.NewRegistry(), nil, nil)

	item := seedPending(repo, "post", "p1")
	item.Status = StatusRejected

	err := svc.Approve(context.Background(), item.ID, uuid.New(), "")
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestRejectWithDeleteArchivesThenDeletes(t *testing.T) {
	repo := newFakeQueueRepo()
	adapter := newFakeAdapter()
	registry := content.NewRegistry()
	registry.Register("comment", adapter)
	arch := &fakeArchive{}
	svc := NewService(repo, registry, arch, nil)

	item := seedPending(repo, "comment", "c9")
	item.ContentPreview = "spam text"

	if err := svc.Reject(context.Background(), item.ID, uuid.New(), "spam", true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Status != StatusRejected {
		t.Fatalf("expected status rejected, got %s", item.Status)
	}
	if len(arch.keys) != 1 || !strings.HasPrefix(arch.keys[0], "snapshots/comment/c9/") {
		t.Fatalf("expected one snapshot under the content key, got %v", arch.keys)
	}
	if len(adapter.deleted) != 1 || adapter.deleted[0] != "c9" {
		t.Fatalf("expected content deleted once, got %v", adapter.deleted)
	}
}

func TestRejectWithoutDeleteLeavesContent(t *testing.T) {
	repo := newFakeQueueRepo()
	adapter := newFakeAdapter()
	registry := content.NewRegistry()
	registry.Register("comment", adapter)
	arch := &fakeArchive{}
	svc := NewService(repo, registry, arch, nil)

	item := seedPending(repo, "comment", "c9")

	if err := svc.Reject(context.Background(), item.ID, uuid.New(), "", false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(adapter.deleted) != 0 {
		t.Fatal("expected content untouched")
	}
	if len(arch.keys) != 0 {
		t.Fatal("expected no snapshot without delete")
	}
}

func TestRejectDeleteToleratesMissingContent(t *testing.T) {
	repo := newFakeQueueRepo()
	adapter := newFakeAdapter()
	adapter.err = errors.New("row gone")
	registry := content.NewRegistry()
	registry.Register("comment", adapter)
	svc := NewService(repo, registry, nil, nil)

	item := seedPending(repo, "comment", "c9")

	if err := svc.Reject(context.Background(), item.ID, uuid.New(), "", true); err != nil {
		t.Fatalf("expected rejection to survive a missing target, got %v", err)
	}
	if item.Status != StatusRejected {
		t.Fatalf("expected status rejected, got %s", item.Status)
	}
}

func TestEscalateRaisesPriorityAndClearsAssignment(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := NewService(repo, content.NewRegistry(), nil, nil)

	item := seedPending(repo, "post", "p1")
	item.AssignedReviewerID = uuid.NullUUID{UUID: uuid.New(), Valid: true}

	if err := svc.Escalate(context.Background(), item.ID, uuid.New(), "needs a second look"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Status != StatusEscalated {
		t.Fatalf("expected status escalated, got %s", item.Status)
	}
	if item.Priority != PriorityEscalated {
		t.Fatalf("expected raised priority, got %d", item.Priority)
	}
	if item.AssignedReviewerID.Valid {
		t.Fatal("expected assignment cleared")
	}
	if !repo.lastParams.RaisePriority || !repo.lastParams.ClearAssignment {
		t.Fatal("expected transition params to raise priority and clear assignment")
	}
}

func TestAssignOnlyPendingItems(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := NewService(repo, content.NewRegistry(), nil, nil)

	item := seedPending(repo, "post", "p1")
	item.Status = StatusApproved

	err := svc.Assign(context.Background(), item.ID, uuid.New())
	if !errors.Is(err, ErrNotAssignable) {
		t.Fatalf("expected ErrNotAssignable, got %v", err)
	}
}

func TestBulkProcessTalliesFailures(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := NewService(repo, content.NewRegistry(), nil, nil)

	good1 := seedPending(repo, "post", "p1")
	good2 := seedPending(repo, "post", "p2")
	decided := seedPending(repo, "post", "p3")
	decided.Status = StatusApproved
	missing := uuid.New()

	result, err := svc.BulkProcess(context.Background(),
		[]uuid.UUID{good1.ID, good2.ID, decided.ID, missing},
		uuid.New(), "reject", "cleanup")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Succeeded != 2 {
		t.Fatalf("expected 2 successes, got %d", result.Succeeded)
	}
	if result.Failed != 2 {
		t.Fatalf("expected 2 failures, got %d", result.Failed)
	}
	if len(result.FailedIDs) != 2 {
		t.Fatalf("expected 2 failed IDs, got %v", result.FailedIDs)
	}
}

func TestBulkProcessRejectsUnknownAction(t *testing.T) {
	svc := NewService(newFakeQueueRepo(), content.NewRegistry(), nil, nil)

	_, err := svc.BulkProcess(context.Background(), []uuid.UUID{uuid.New()}, uuid.New(), "purge", "")
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestGetItemNotFound(t *testing.T) {
	svc := NewService(newFakeQueueRepo(), content.NewRegistry(), nil, nil)

	_, err := svc.GetItem(context.Background(), uuid.New())
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
