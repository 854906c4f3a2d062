package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
)

type feedbackService struct {
	feedbackRepo    domain.FeedbackRepository
	eventRepo       domain.EventRepository
	participantRepo domain.EventParticipantRepository
	contextTimeout  time.Duration
}

// NewFeedbackService creates a FeedbackService.
func NewFeedbackService(
	feedbackRepo domain.FeedbackRepository,
	eventRepo domain.EventRepository,
	participantRepo domain.EventParticipantRepository,
	timeout time.Duration,
) domain.FeedbackService {
	return &feedbackService{
		feedbackRepo:    feedbackRepo,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		contextTimeout:  timeout,
	}
}

func (s *feedbackService) Submit(ctx context.Context, eventID, userID string, rating int, comment *string) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if _, err := s.participantRepo.GetByEventAndUser(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotParticipant
		}
		return nil, fmt.Errorf("check participation: %w", err)
	}

	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if trimmed == "" {
			comment = nil
		} else {
			comment = &trimmed
		}
	}

	fb := domain.NewFeedback(eventID, userID, rating, comment, time.Now())
	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	metrics.FeedbackSubmitted.WithLabelValues(strconv.Itoa(rating)).Inc()
	return fb, nil
}

func (s *feedbackService) List(ctx context.Context, eventID, callerID string, params domain.PaginationParams) ([]*domain.Feedback, int, domain.FeedbackSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, 0, domain.FeedbackSummary{}, fmt.Errorf("get event: %w", err)
	}
	if !event.IsHostedBy(callerID) {
		return nil, 0, domain.FeedbackSummary{}, domain.ErrForbidden
	}

	items, total, err := s.feedbackRepo.ListByEventID(ctx, eventID, params)
	if err != nil {
		return nil, 0, domain.FeedbackSummary{}, fmt.Errorf("list feedback: %w", err)
	}
	summary, err := s.feedbackRepo.SummaryByEventID(ctx, eventID)
	if err != nil {
		return nil, 0, domain.FeedbackSummary{}, fmt.Errorf("summarize feedback: %w", err)
	}
	return items, total, summary, nil
}
