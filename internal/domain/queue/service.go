package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sentinel-mod/sentinel-api/internal/content"
	"github.com/sentinel-mod/sentinel-api/internal/domain/audit"
	"github.com/sentinel-mod/sentinel-api/internal/domain/notification"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/archive"
)

// Service owns the moderation queue state machine. All queue mutation
// in the system goes through it.
type Service struct {
	repo       Repository
	registry   *content.Registry
	evidence   archive.Store // nil disables snapshotting
	dispatcher notification.Dispatcher
}

// NewService creates queue service
func NewService(repo Repository, registry *content.Registry, evidence archive.Store, dispatcher notification.Dispatcher) *Service {
	if dispatcher == nil {
		dispatcher = notification.NopDispatcher{}
	}
	return &Service{
		repo:       repo,
		registry:   registry,
		evidence:   evidence,
		dispatcher: dispatcher,
	}
}

// Enqueue creates a pending item, or returns the existing pending
// item's ID for the same content reference. Duplicate submissions are
// silently idempotent.
func (s *Service) Enqueue(ctx context.Context, contentType, contentID string, authorID uuid.UUID, preview, reason string) (uuid.UUID, error) {
	item := &Item{
		ID:             uuid.New(),
		ContentType:    contentType,
		ContentID:      contentID,
		AuthorID:       authorID,
		ContentPreview: preview,
		Reason:         reason,
		Status:         StatusPending,
		Priority:       PriorityNormal,
	}

	id, created, err := s.repo.Enqueue(ctx, item)
	if err != nil {
		return uuid.Nil, err
	}

	if created {
		s.dispatcher.Dispatch(notification.Event{
			Name:        notification.EventContentQueued,
			QueueID:     id,
			ContentType: contentType,
			ContentID:   contentID,
			SubjectID:   authorID,
			OccurredAt:  time.Now(),
		})
	}

	return id, nil
}

// GetItem returns one queue item
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// Approve transitions pending/escalated → approved and restores the
// content to published.
func (s *Service) Approve(ctx context.Context, id, reviewerID uuid.UUID, notes string) error {
	item, err := s.repo.Transition(ctx, id, sourceStates(StatusApproved), TransitionParams{
		To:         StatusApproved,
		ReviewerID: reviewerID,
		Notes:      notes,
		Action:     audit.ActionApproved,
	})
	if err != nil {
		return err
	}

	if err := s.registry.UpdateStatus(ctx, item.ContentType, item.ContentID, content.StatusPublished); err != nil {
		log.Error().Err(err).
			Str("content_type", item.ContentType).
			Str("content_id", item.ContentID).
			Msg("Failed to republish approved content")
	}

	s.dispatchTransition(notification.EventContentApproved, item, reviewerID)
	return nil
}

// Reject transitions pending/escalated → rejected. With deleteContent,
// the underlying content is archived then deleted/hidden; a missing
// target does not fail the rejection.
func (s *Service) Reject(ctx context.Context, id, reviewerID uuid.UUID, notes string, deleteContent bool) error {
	item, err := s.repo.Transition(ctx, id, sourceStates(StatusRejected), TransitionParams{
		To:         StatusRejected,
		ReviewerID: reviewerID,
		Notes:      notes,
		Action:     audit.ActionRejected,
	})
	if err != nil {
		return err
	}

	if deleteContent {
		s.snapshotContent(ctx, item)

		if err := s.registry.Delete(ctx, item.ContentType, item.ContentID); err != nil {
			// Tolerated: the rejection itself already committed
			log.Warn().Err(err).
				Str("content_type", item.ContentType).
				Str("content_id", item.ContentID).
				Msg("Failed to delete rejected content")
		}
	}

	s.dispatchTransition(notification.EventContentRejected, item, reviewerID)
	return nil
}

// Escalate transitions pending → escalated, raises priority, and
// clears any reviewer assignment.
func (s *Service) Escalate(ctx context.Context, id, reviewerID uuid.UUID, notes string) error {
	item, err := s.repo.Transition(ctx, id, sourceStates(StatusEscalated), TransitionParams{
		To:              StatusEscalated,
		ReviewerID:      reviewerID,
		Notes:           notes,
		Action:          audit.ActionEscalated,
		RaisePriority:   true,
		ClearAssignment: true,
	})
	if err != nil {
		return err
	}

	s.dispatchTransition(notification.EventContentEscalated, item, reviewerID)
	return nil
}

// Assign assigns a pending item to a reviewer
func (s *Service) Assign(ctx context.Context, id, reviewerID uuid.UUID) error {
	return s.repo.Assign(ctx, id, reviewerID)
}

// Unassign clears a pending item's assignment
func (s *Service) Unassign(ctx context.Context, id uuid.UUID) error {
	return s.repo.Unassign(ctx, id)
}

// BulkProcess applies one action to each ID independently. Failures
// are tallied, never propagated.
func (s *Service) BulkProcess(ctx context.Context, ids []uuid.UUID, reviewerID uuid.UUID, action, notes string) (*BulkResult, error) {
	var apply func(context.Context, uuid.UUID) error
	switch action {
	case "approve":
		apply = func(ctx context.Context, id uuid.UUID) error {
			return s.Approve(ctx, id, reviewerID, notes)
		}
	case "reject":
		apply = func(ctx context.Context, id uuid.UUID) error {
			return s.Reject(ctx, id, reviewerID, notes, false)
		}
	case "escalate":
		apply = func(ctx context.Context, id uuid.UUID) error {
			return s.Escalate(ctx, id, reviewerID, notes)
		}
	default:
		return nil, ErrInvalidAction
	}

	result := &BulkResult{}
	for _, id := range ids {
		if err := apply(ctx, id); err != nil {
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.Succeeded++
	}

	return result, nil
}

// GetPending lists pending items, highest priority first
func (s *Service) GetPending(ctx context.Context, limit, offset int) ([]*Item, error) {
	return s.repo.GetPending(ctx, limit, offset)
}

// GetByType lists items of one content type and status
func (s *Service) GetByType(ctx context.Context, contentType string, status Status, limit int) ([]*Item, error) {
	return s.repo.GetByType(ctx, contentType, status, limit)
}

// GetAssigned lists a reviewer's assigned pending items
func (s *Service) GetAssigned(ctx context.Context, reviewerID uuid.UUID, limit int) ([]*Item, error) {
	return s.repo.GetAssigned(ctx, reviewerID, limit)
}

// CountByStatus returns item counts per status
func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}

// CountByType returns pending item counts per content type
func (s *Service) CountByType(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByType(ctx)
}

// GetReviewerStats summarizes a reviewer's recent decisions
func (s *Service) GetReviewerStats(ctx context.Context, reviewerID uuid.UUID, windowDays int) (*ReviewerStats, error) {
	return s.repo.GetReviewerStats(ctx, reviewerID, windowDays)
}

// snapshotContent archives the item's preview before destructive
// deletion. Best effort: archive failure is logged, not propagated.
func (s *Service) snapshotContent(ctx context.Context, item *Item) {
	if s.evidence == nil {
		return
	}

	_, err := archive.PutSnapshot(ctx, s.evidence, archive.Snapshot{
		ContentType: item.ContentType,
		ContentID:   item.ContentID,
		AuthorID:    item.AuthorID,
		Preview:     item.ContentPreview,
		Reason:      item.Reason,
		ArchivedAt:  time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).
			Str("content_type", item.ContentType).
			Str("content_id", item.ContentID).
			Msg("Failed to archive content snapshot")
	}
}

func (s *Service) dispatchTransition(name notification.EventName, item *Item, reviewerID uuid.UUID) {
	s.dispatcher.Dispatch(notification.Event{
		Name:        name,
		QueueID:     item.ID,
		ContentType: item.ContentType,
		ContentID:   item.ContentID,
		ActorID:     reviewerID,
		SubjectID:   item.AuthorID,
		OccurredAt:  time.Now(),
	})
}
