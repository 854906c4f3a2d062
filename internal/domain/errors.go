package domain

import "errors"

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Event lifecycle errors.
var (
	// ErrQuotaExceeded is returned when a host already created the daily maximum of events.
	ErrQuotaExceeded = errors.New("daily event creation limit reached")
	// ErrCapacityBelowParticipants is returned when max_participants would drop below the current enrollment.
	ErrCapacityBelowParticipants = errors.New("max_participants is lower than the number of registered participants")
)

// Participant errors.
var (
	ErrAlreadyRegistered = errors.New("user already registered for this event")
	ErrEventFull         = errors.New("event is full")
	ErrNotParticipant    = errors.New("user is not a participant of this event")
)

// Invitation errors.
var (
	ErrAlreadyInvited   = errors.New("invitation already sent")
	ErrSelfInvitation   = errors.New("host cannot invite themselves")
	ErrAlreadyResponded = errors.New("invitation already answered")
	ErrInvalidStatus    = errors.New("status must be ACCEPTED or DECLINED")
)

// ErrDuplicateFeedback is returned when a participant submits feedback twice for the same event.
var ErrDuplicateFeedback = errors.New("feedback already submitted for this event")
