package domain

import (
	"context"
	"time"
)

// Rating bounds for feedback.
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a participant's rating of an event.
// swagger:model Feedback
type Feedback struct {
	ID        string      `json:"id"`
	EventID   string      `json:"event_id"`
	UserID    string      `json:"-"`
	User      UserSummary `json:"user"`
	Rating    int         `json:"rating"`
	Comment   *string     `json:"comment"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewFeedback returns a new Feedback. ID is typically set by the repository on create.
func NewFeedback(eventID, userID string, rating int, comment *string, createdAt time.Time) *Feedback {
	return &Feedback{
		EventID:   eventID,
		UserID:    userID,
		User:      UserSummary{ID: userID},
		Rating:    rating,
		Comment:   comment,
		CreatedAt: createdAt,
	}
}

// FeedbackSummary aggregates the ratings of an event.
type FeedbackSummary struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// FeedbackRepository defines storage operations for feedback.
type FeedbackRepository interface {
	// Create returns ErrDuplicateFeedback when the user already rated the event.
	Create(ctx context.Context, fb *Feedback) error
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*Feedback, int, error)
	SummaryByEventID(ctx context.Context, eventID string) (FeedbackSummary, error)
}

// FeedbackService defines post-event feedback collection.
type FeedbackService interface {
	Submit(ctx context.Context, eventID, userID string, rating int, comment *string) (*Feedback, error)
	// List is restricted to the event host.
	List(ctx context.Context, eventID, callerID string, params PaginationParams) ([]*Feedback, int, FeedbackSummary, error)
}
