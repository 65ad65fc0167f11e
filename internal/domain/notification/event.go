package notification

import (
	"time"

	"github.com/google/uuid"
)

// EventName identifies a moderation event
type EventName string

const (
	EventContentQueued      EventName = "content.queued"
	EventContentApproved    EventName = "content.approved"
	EventContentRejected    EventName = "content.rejected"
	EventContentEscalated   EventName = "content.escalated"
	EventUserMarkedSpammer  EventName = "user.marked_spammer"
	EventUserClearedSpammer EventName = "user.cleared_spammer"
	EventAccountApproved    EventName = "account.approved"
	EventAccountRejected    EventName = "account.rejected"
	EventReportSubmitted    EventName = "report.submitted"
	EventReportResolved     EventName = "report.resolved"
)

// Event is emitted by the engine after a successful transition.
// Delivery and formatting are the dispatcher's problem; the engine
// only names what happened.
type Event struct {
	Name        EventName `json:"name"`
	QueueID     uuid.UUID `json:"queue_id,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	ContentID   string    `json:"content_id,omitempty"`
	ActorID     uuid.UUID `json:"actor_id,omitempty"`
	SubjectID   uuid.UUID `json:"subject_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Dispatcher receives events from the engine. Implementations must not
// block transition commits; slow delivery is dropped, not awaited.
type Dispatcher interface {
	Dispatch(event Event)
}

// NopDispatcher discards all events
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(Event) {}
