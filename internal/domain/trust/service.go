package trust

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sentinel-mod/sentinel-api/internal/content"
	"github.com/sentinel-mod/sentinel-api/internal/domain/notification"
	"github.com/sentinel-mod/sentinel-api/internal/domain/user"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/ratelimit"
)

// Service handles account-level trust state: the spammer flag, the
// pending-account gate, and user report intake.
type Service struct {
	repo            Repository
	userRepo        user.Repository
	registry        *content.Registry
	reportLimiter   ratelimit.Limiter
	dispatcher      notification.Dispatcher
	reportThreshold int
}

// NewService creates trust registry service
func NewService(repo Repository, userRepo user.Repository, registry *content.Registry, reportLimiter ratelimit.Limiter, dispatcher notification.Dispatcher, reportThreshold int) *Service {
	if reportLimiter == nil {
		reportLimiter = ratelimit.NopLimiter{}
	}
	if dispatcher == nil {
		dispatcher = notification.NopDispatcher{}
	}
	if reportThreshold <= 0 {
		reportThreshold = 3
	}
	return &Service{
		repo:            repo,
		userRepo:        userRepo,
		registry:        registry,
		reportLimiter:   reportLimiter,
		dispatcher:      dispatcher,
		reportThreshold: reportThreshold,
	}
}

// Spammer flag

// MarkSpammer flags an account and drops it into the restricted tier.
// Marking an already-marked user updates the reason and evidence.
func (s *Service) MarkSpammer(ctx context.Context, markedBy uuid.UUID, req *MarkSpammerRequest) error {
	target, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	record := &SpammerRecord{
		UserID:   req.UserID,
		MarkedBy: markedBy,
		Reason:   req.Reason,
		Evidence: req.Evidence,
		MarkedAt: time.Now(),
	}
	if err := s.repo.UpsertSpammer(ctx, record); err != nil {
		return err
	}

	if err := s.userRepo.UpdateRole(ctx, req.UserID, user.RoleRestricted); err != nil {
		return err
	}

	s.dispatcher.Dispatch(notification.Event{
		Name:       notification.EventUserMarkedSpammer,
		ActorID:    markedBy,
		SubjectID:  req.UserID,
		OccurredAt: time.Now(),
	})

	return nil
}

// UnmarkSpammer clears the flag and restores the default tier.
// Unmarking a clear user is a no-op.
func (s *Service) UnmarkSpammer(ctx context.Context, actorID, userID uuid.UUID) error {
	removed, err := s.repo.DeleteSpammer(ctx, userID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	if err := s.userRepo.UpdateRole(ctx, userID, user.RoleMember); err != nil {
		return err
	}

	s.dispatcher.Dispatch(notification.Event{
		Name:       notification.EventUserClearedSpammer,
		ActorID:    actorID,
		SubjectID:  userID,
		OccurredAt: time.Now(),
	})

	return nil
}

// IsSpammer is a pure lookup
func (s *Service) IsSpammer(ctx context.Context, userID uuid.UUID) (bool, error) {
	record, err := s.repo.GetSpammer(ctx, userID)
	if err != nil {
		return false, err
	}
	return record != nil, nil
}

// GetSpammer returns the flag record, or nil
func (s *Service) GetSpammer(ctx context.Context, userID uuid.UUID) (*SpammerRecord, error) {
	return s.repo.GetSpammer(ctx, userID)
}

// Pending-account gate

// AddPending gates an account behind manual review
func (s *Service) AddPending(ctx context.Context, req *AddPendingRequest) error {
	existing, err := s.repo.GetPending(ctx, req.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Status == PendingStatusPending {
			return ErrAlreadyPending
		}
		// A previously reviewed account re-entering the gate keeps its
		// old record immutable; this is not supported.
		return ErrNotPending
	}

	return s.repo.CreatePending(ctx, &PendingUserRecord{
		UserID:        req.UserID,
		Reason:        req.Reason,
		SubmittedData: req.SubmittedData,
	})
}

// ApprovePending promotes a gated account to the default tier. Only
// valid from pending; re-approving an approved account is a no-op.
func (s *Service) ApprovePending(ctx context.Context, userID, reviewerID uuid.UUID, notes string) error {
	flipped, err := s.repo.ReviewPending(ctx, userID, PendingStatusApproved, reviewerID, notes)
	if err != nil {
		return err
	}

	if !flipped {
		record, err := s.repo.GetPending(ctx, userID)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrPendingNotFound
		}
		if record.Status == PendingStatusApproved {
			// Idempotent re-approval
			return nil
		}
		return ErrNotPending
	}

	if err := s.userRepo.UpdateRole(ctx, userID, user.RoleMember); err != nil {
		return err
	}
	if err := s.userRepo.UpdateStatus(ctx, userID, user.StatusActive); err != nil {
		return err
	}

	s.dispatcher.Dispatch(notification.Event{
		Name:       notification.EventAccountApproved,
		ActorID:    reviewerID,
		SubjectID:  userID,
		OccurredAt: time.Now(),
	})

	return nil
}

// RejectPending rejects a gated account. Only valid from pending.
func (s *Service) RejectPending(ctx context.Context, userID, reviewerID uuid.UUID, notes string) error {
	flipped, err := s.repo.ReviewPending(ctx, userID, PendingStatusRejected, reviewerID, notes)
	if err != nil {
		return err
	}

	if !flipped {
		record, err := s.repo.GetPending(ctx, userID)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrPendingNotFound
		}
		return ErrNotPending
	}

	s.dispatcher.Dispatch(notification.Event{
		Name:       notification.EventAccountRejected,
		ActorID:    reviewerID,
		SubjectID:  userID,
		OccurredAt: time.Now(),
	})

	return nil
}

// IsPending is a pure lookup
func (s *Service) IsPending(ctx context.Context, userID uuid.UUID) (bool, error) {
	record, err := s.repo.GetPending(ctx, userID)
	if err != nil {
		return false, err
	}
	return record != nil && record.Status == PendingStatusPending, nil
}

// GetPendingStatus returns the gate record, or nil
func (s *Service) GetPendingStatus(ctx context.Context, userID uuid.UUID) (*PendingUserRecord, error) {
	return s.repo.GetPending(ctx, userID)
}

// ListPending lists accounts awaiting review
func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*PendingUserRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListPending(ctx, limit, offset)
}

// Report intake

// SubmitReport records a user report. When pending reports for the
// same content reach the threshold, the content itself is flipped to
// pending review via its adapter. Report-triggered reviews stay
// outside the moderation queue; the two mechanisms are deliberately
// loosely coupled.
func (s *Service) SubmitReport(ctx context.Context, reporterID uuid.UUID, req *SubmitReportRequest) (uuid.UUID, error) {
	if reporterID == req.AuthorID {
		return uuid.Nil, ErrCannotReportSelf
	}

	allowed, err := s.reportLimiter.Allow(ctx, reporterID.String())
	if err != nil {
		log.Warn().Err(err).Msg("Report rate limiter unavailable, allowing")
	} else if !allowed {
		return uuid.Nil, ErrRateLimited
	}

	report := &Report{
		ID:          uuid.New(),
		ReporterID:  reporterID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		AuthorID:    req.AuthorID,
		Reason:      req.Reason,
	}

	pendingCount, err := s.repo.CreateReport(ctx, report)
	if err != nil {
		return uuid.Nil, err
	}

	if pendingCount >= s.reportThreshold {
		if err := s.registry.UpdateStatus(ctx, req.ContentType, req.ContentID, content.StatusPendingReview); err != nil {
			log.Error().Err(err).
				Str("content_type", req.ContentType).
				Str("content_id", req.ContentID).
				Msg("Failed to flip reported content to pending review")
		}
	}

	s.dispatcher.Dispatch(notification.Event{
		Name:        notification.EventReportSubmitted,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		ActorID:     reporterID,
		SubjectID:   req.AuthorID,
		OccurredAt:  time.Now(),
	})

	return report.ID, nil
}

// ResolveReport closes a report. Action "approved" removes the
// reported content; anything else dismisses with no side effect.
func (s *Service) ResolveReport(ctx context.Context, reportID, reviewerID uuid.UUID, action string) error {
	report, err := s.repo.GetReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return ErrReportNotFound
	}

	status := ReportStatusDismissed
	if action == string(ReportStatusApproved) {
		status = ReportStatusApproved
	}

	flipped, err := s.repo.ResolveReport(ctx, reportID, status, reviewerID)
	if err != nil {
		return err
	}
	if !flipped {
		return ErrReportResolved
	}

	if status == ReportStatusApproved {
		if err := s.registry.Delete(ctx, report.ContentType, report.ContentID); err != nil {
			log.Warn().Err(err).
				Str("content_type", report.ContentType).
				Str("content_id", report.ContentID).
				Msg("Failed to delete reported content")
		}
	}

	s.dispatcher.Dispatch(notification.Event{
		Name:        notification.EventReportResolved,
		ContentType: report.ContentType,
		ContentID:   report.ContentID,
		ActorID:     reviewerID,
		SubjectID:   report.AuthorID,
		OccurredAt:  time.Now(),
	})

	return nil
}

// ListReports lists reports for the admin panel
func (s *Service) ListReports(ctx context.Context, filter *ListReportsFilter) ([]*Report, error) {
	return s.repo.ListReports(ctx, filter)
}

// CountReports returns the total matching the filter
func (s *Service) CountReports(ctx context.Context, filter *ListReportsFilter) (int, error) {
	return s.repo.CountReports(ctx, filter)
}
