package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
)

// quotaWindow is the rolling window the daily event limit applies to.
const quotaWindow = 24 * time.Hour

type eventService struct {
	eventRepo      domain.EventRepository
	calendar       domain.CalendarEncoder
	dailyLimit     int
	retention      time.Duration
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService creates an EventService. dailyLimit caps events per host per 24h;
// events older than retention are removed by PurgeExpiredEvents.
func NewEventService(
	eventRepo domain.EventRepository,
	calendar domain.CalendarEncoder,
	dailyLimit int,
	retention time.Duration,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		calendar:       calendar,
		dailyLimit:     dailyLimit,
		retention:      retention,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.HostID == "" {
		return fmt.Errorf("event host is required")
	}
	if err := event.Validate(); err != nil {
		return err
	}

	now := s.now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.CreateWithQuota(ctx, event, s.dailyLimit, now.Add(-quotaWindow)); err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			metrics.EventQuotaRejections.Inc()
		}
		return fmt.Errorf("create event: %w", err)
	}
	metrics.EventsCreated.Inc()
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) ListHostedEvents(ctx context.Context, hostID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByHostID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("list hosted events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, callerID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsHostedBy(callerID) {
		return nil, domain.ErrForbidden
	}

	patch.Apply(event)
	if err := event.Validate(); err != nil {
		return nil, err
	}
	event.UpdatedAt = s.now()

	updated, err := s.eventRepo.Update(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if !event.IsHostedBy(callerID) {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ExportCalendar(ctx context.Context, eventID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	data, err := s.calendar.Encode(event)
	if err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return data, nil
}

func (s *eventService) PurgeExpiredEvents(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	deleted, err := s.eventRepo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge events: %w", err)
	}
	metrics.EventsPurged.Add(float64(deleted))
	s.logger.InfoContext(ctx, domain.PurgeMessage(deleted), "deleted", deleted, "cutoff", cutoff)
	return deleted, nil
}
