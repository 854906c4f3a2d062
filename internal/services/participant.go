package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
)

type participantService struct {
	participantRepo domain.EventParticipantRepository
	eventRepo       domain.EventRepository
	contextTimeout  time.Duration
}

// NewParticipantService creates a ParticipantService.
func NewParticipantService(participantRepo domain.EventParticipantRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		contextTimeout:  timeout,
	}
}

func (s *participantService) Register(ctx context.Context, eventID, userID string) (*domain.EventParticipant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p := domain.NewEventParticipant(eventID, userID, time.Now())
	if err := s.participantRepo.Register(ctx, p); err != nil {
		metrics.ParticipantRegistrations.WithLabelValues(registrationOutcome(err)).Inc()
		return nil, fmt.Errorf("register participant: %w", err)
	}
	metrics.ParticipantRegistrations.WithLabelValues("registered").Inc()
	return p, nil
}

func (s *participantService) Unregister(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.participantRepo.Unregister(ctx, eventID, userID); err != nil {
		return fmt.Errorf("unregister participant: %w", err)
	}
	return nil
}

func (s *participantService) ListParticipants(ctx context.Context, eventID, callerID string) ([]*domain.EventParticipant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsHostedBy(callerID) {
		return nil, domain.ErrForbidden
	}
	participants, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

func (s *participantService) ListMyParticipations(ctx context.Context, userID string) ([]*domain.ParticipationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, err := s.participantRepo.ListByUserIDWithEvents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	return items, nil
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrEventFull):
		return "full"
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return "duplicate"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
