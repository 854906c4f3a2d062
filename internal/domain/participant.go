package domain

import (
	"context"
	"time"
)

// EventParticipant represents a user's enrollment in an event.
// swagger:model EventParticipant
type EventParticipant struct {
	ID       string      `json:"id"`
	EventID  string      `json:"event_id"`
	UserID   string      `json:"-"`
	User     UserSummary `json:"user"`
	JoinedAt time.Time   `json:"joined_at"`
}

// NewEventParticipant creates a new EventParticipant. ID is typically set by the repository on create.
func NewEventParticipant(eventID, userID string, joinedAt time.Time) *EventParticipant {
	return &EventParticipant{
		EventID:  eventID,
		UserID:   userID,
		User:     UserSummary{ID: userID},
		JoinedAt: joinedAt,
	}
}

// EventParticipantRepository defines storage operations for event participants.
type EventParticipantRepository interface {
	// Register enrolls the participant while holding a lock on the event row.
	// Returns ErrNotFound, ErrAlreadyRegistered or ErrEventFull.
	Register(ctx context.Context, p *EventParticipant) error
	Unregister(ctx context.Context, eventID, userID string) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventParticipant, error)
	ListByEventID(ctx context.Context, eventID string) ([]*EventParticipant, error)
	// ListByUserIDWithEvents returns the user's participations joined with their events.
	ListByUserIDWithEvents(ctx context.Context, userID string) ([]*ParticipationWithEvent, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// ParticipationWithEvent bundles a participation with its related event.
type ParticipationWithEvent struct {
	Participation *EventParticipant `json:"participation"`
	Event         *Event            `json:"event"`
}

// ParticipantService defines participant-facing operations such as event registration.
type ParticipantService interface {
	Register(ctx context.Context, eventID, userID string) (*EventParticipant, error)
	Unregister(ctx context.Context, eventID, userID string) error
	// ListParticipants is restricted to the event host.
	ListParticipants(ctx context.Context, eventID, callerID string) ([]*EventParticipant, error)
	ListMyParticipations(ctx context.Context, userID string) ([]*ParticipationWithEvent, error)
}
