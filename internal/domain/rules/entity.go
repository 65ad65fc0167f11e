package rules

import (
	"time"

	"github.com/google/uuid"
)

// RuleType selects the matcher applied to content
type RuleType string

const (
	RuleTypeKeyword RuleType = "keyword"
	RuleTypeRegex   RuleType = "regex"
	RuleTypeURL     RuleType = "url"
)

// RuleAction is what a matching rule asks the dispatcher to do
type RuleAction string

const (
	ActionBlock RuleAction = "block"
	ActionQueue RuleAction = "queue"
	ActionPass  RuleAction = "pass"
)

// Rule is one moderation rule. Rules are toggled inactive rather than
// deleted in normal operation.
type Rule struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Type      RuleType   `db:"rule_type" json:"type"`
	Pattern   string     `db:"pattern" json:"pattern"`
	Action    RuleAction `db:"action" json:"action"`
	Priority  int        `db:"priority" json:"priority"`
	Active    bool       `db:"active" json:"active"`
	CreatedBy uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Match records one rule that matched a piece of content
type Match struct {
	RuleID   uuid.UUID  `json:"rule_id"`
	Type     RuleType   `json:"type"`
	Pattern  string     `json:"pattern"`
	Action   RuleAction `json:"action"`
	Priority int        `json:"priority"`
}

// Decision is the reduction of a match list
type Decision string

const (
	DecisionBlock Decision = "block"
	DecisionQueue Decision = "queue"
	DecisionPass  Decision = "pass"
)
