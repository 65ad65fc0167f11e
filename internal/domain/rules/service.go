package rules

import (
	"context"
	"encoding/json"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/sentinel-mod/sentinel-api/internal/pkg/logger"
)

// Enqueuer creates moderation queue items. Satisfied by the queue
// service; faked in tests.
type Enqueuer interface {
	Enqueue(ctx context.Context, contentType, contentID string, authorID uuid.UUID, preview, reason string) (uuid.UUID, error)
}

// Service evaluates content against moderation rules
type Service struct {
	repo             Repository
	queue            Enqueuer
	previewMaxLength int
}

// NewService creates rule engine service
func NewService(repo Repository, queue Enqueuer, previewMaxLength int) *Service {
	if previewMaxLength <= 0 {
		previewMaxLength = 280
	}
	return &Service{
		repo:             repo,
		queue:            queue,
		previewMaxLength: previewMaxLength,
	}
}

// CreateRule validates and stores a new rule. Regex patterns are
// compiled here so malformed rules are rejected at creation rather
// than silently skipped at match time.
func (s *Service) CreateRule(ctx context.Context, adminID uuid.UUID, req *CreateRuleRequest) (*Rule, error) {
	ruleType := RuleType(req.Type)
	switch ruleType {
	case RuleTypeKeyword, RuleTypeRegex, RuleTypeURL:
	default:
		return nil, ErrInvalidType
	}

	action := RuleAction(req.Action)
	switch action {
	case ActionBlock, ActionQueue, ActionPass:
	default:
		return nil, ErrInvalidAction
	}

	if req.Pattern == "" {
		return nil, ErrEmptyPattern
	}

	if ruleType == RuleTypeRegex {
		if _, err := regexp.Compile("(?i)" + req.Pattern); err != nil {
			return nil, ErrInvalidPattern
		}
	}

	rule := &Rule{
		ID:        uuid.New(),
		Type:      ruleType,
		Pattern:   req.Pattern,
		Action:    action,
		Priority:  req.Priority,
		Active:    true,
		CreatedBy: adminID,
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// ListRules returns rules ordered by priority descending
func (s *Service) ListRules(ctx context.Context, activeOnly bool) ([]*Rule, error) {
	return s.repo.List(ctx, activeOnly)
}

// ToggleRule activates or deactivates a rule
func (s *Service) ToggleRule(ctx context.Context, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

// DeleteRule hard-deletes a rule. Normal operation toggles instead.
func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// CheckContent evaluates every active rule against content and returns
// all matches in priority order, not just the first.
func (s *Service) CheckContent(ctx context.Context, content, contentType string) ([]Match, error) {
	active, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, rule := range active {
		if matchRule(rule, content) {
			matches = append(matches, Match{
				RuleID:   rule.ID,
				Type:     rule.Type,
				Pattern:  rule.Pattern,
				Action:   rule.Action,
				Priority: rule.Priority,
			})
		}
	}

	return matches, nil
}

// AutoModerate reduces the match list to one decision. Block wins over
// queue; queue creates exactly one pending item (duplicate submissions
// return the existing item); anything else passes.
func (s *Service) AutoModerate(ctx context.Context, contentType, contentID string, authorID uuid.UUID, content string) (*ModerateResult, error) {
	matches, err := s.CheckContent(ctx, content, contentType)
	if err != nil {
		return nil, err
	}

	decision := DecisionPass
	for _, m := range matches {
		switch m.Action {
		case ActionBlock:
			decision = DecisionBlock
		case ActionQueue:
			if decision != DecisionBlock {
				decision = DecisionQueue
			}
		}
	}

	result := &ModerateResult{
		Decision: decision,
		Matches:  matches,
	}

	if decision == DecisionBlock {
		logger.FromContext(ctx).Info().
			Str("content_type", contentType).
			Str("content_id", contentID).
			Str("author_id", authorID.String()).
			Int("matches", len(matches)).
			Msg("Content blocked by rule")
		return result, nil
	}

	if decision == DecisionQueue {
		reason := serializeMatches(matches)
		preview := makePreview(content, s.previewMaxLength)

		queueID, err := s.queue.Enqueue(ctx, contentType, contentID, authorID, preview, reason)
		if err != nil {
			return nil, err
		}
		result.QueueID = &queueID
	}

	return result, nil
}

// serializeMatches produces the queue item's reason field
func serializeMatches(matches []Match) string {
	type matchSummary struct {
		RuleID  uuid.UUID  `json:"rule_id"`
		Type    RuleType   `json:"type"`
		Pattern string     `json:"pattern"`
		Action  RuleAction `json:"action"`
	}

	summaries := make([]matchSummary, 0, len(matches))
	for _, m := range matches {
		summaries = append(summaries, matchSummary{
			RuleID:  m.RuleID,
			Type:    m.Type,
			Pattern: m.Pattern,
			Action:  m.Action,
		})
	}

	data, err := json.Marshal(struct {
		MatchedAt time.Time      `json:"matched_at"`
		Matches   []matchSummary `json:"matches"`
	}{
		MatchedAt: time.Now(),
		Matches:   summaries,
	})
	if err != nil {
		return "rule match (serialization failed)"
	}

	return string(data)
}
