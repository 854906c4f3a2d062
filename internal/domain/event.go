package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits for events.
const (
	MaxTitleLength    = 255
	MaxLocationLength = 255
)

// Event represents an event organised by a host.
// swagger:model Event
type Event struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	HostID          string      `json:"-"`
	Host            UserSummary `json:"host"`
	StartTime       time.Time   `json:"start_time"`
	EndTime         time.Time   `json:"end_time"`
	Location        string      `json:"location"`
	MaxParticipants int         `json:"max_participants"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, description, hostID, location string, startTime, endTime time.Time, maxParticipants int, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:           title,
		Description:     description,
		HostID:          hostID,
		Host:            UserSummary{ID: hostID},
		StartTime:       startTime,
		EndTime:         endTime,
		Location:        location,
		MaxParticipants: maxParticipants,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// IsHostedBy reports whether userID is the host of the event.
func (e *Event) IsHostedBy(userID string) bool {
	return e.HostID == userID
}

// Validate checks the field constraints of an event. Errors wrap ErrInvalidInput.
func (e *Event) Validate() error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case utf8.RuneCountInString(e.Title) > MaxTitleLength:
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, MaxTitleLength)
	case utf8.RuneCountInString(e.Location) > MaxLocationLength:
		return fmt.Errorf("%w: location must be at most %d characters", ErrInvalidInput, MaxLocationLength)
	case e.StartTime.IsZero() || e.EndTime.IsZero():
		return fmt.Errorf("%w: start_time and end_time are required", ErrInvalidInput)
	case e.EndTime.Before(e.StartTime):
		return fmt.Errorf("%w: end_time must not be before start_time", ErrInvalidInput)
	case e.MaxParticipants < 1:
		return fmt.Errorf("%w: max_participants must be at least 1", ErrInvalidInput)
	}
	return nil
}

// EventPatch carries the optional fields of an event update. Nil fields are left unchanged.
type EventPatch struct {
	Title           *string
	Description     *string
	StartTime       *time.Time
	EndTime         *time.Time
	Location        *string
	MaxParticipants *int
}

// Apply copies the non-nil fields of the patch onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.MaxParticipants != nil {
		e.MaxParticipants = *p.MaxParticipants
	}
}

// EventFilter narrows event listings.
type EventFilter struct {
	// Search matches title or location, case-insensitive.
	Search string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	// CreateWithQuota inserts the event unless its host already created limit events since the given time.
	// Returns ErrQuotaExceeded in that case.
	CreateWithQuota(ctx context.Context, event *Event, limit int, since time.Time) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListByHostID(ctx context.Context, hostID string) ([]*Event, error)
	Update(ctx context.Context, event *Event) (*Event, error)
	Delete(ctx context.Context, id string) error
	// DeleteCreatedBefore removes every event created before cutoff and returns how many were deleted.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CalendarEncoder renders events as iCalendar documents.
type CalendarEncoder interface {
	Encode(events ...*Event) ([]byte, error)
}

// EventService defines the business logic for the event lifecycle.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListHostedEvents(ctx context.Context, hostID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, callerID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, callerID string) error
	ExportCalendar(ctx context.Context, eventID string) ([]byte, error)
	// PurgeExpiredEvents deletes events created more than the configured retention ago.
	PurgeExpiredEvents(ctx context.Context) (int64, error)
}

// PurgeMessage describes the outcome of a purge run.
func PurgeMessage(deleted int64) string {
	switch deleted {
	case 0:
		return "no events found"
	case 1:
		return "deleted 1 event"
	}
	return fmt.Sprintf("deleted %d events", deleted)
}
