package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
)

type invitationService struct {
	invitationRepo domain.InvitationRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewInvitationService creates an InvitationService. emailService may be nil to skip notifications.
func NewInvitationService(
	invitationRepo domain.InvitationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *invitationService) Send(ctx context.Context, eventID, hostID, inviteeID string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inviteeID = strings.TrimSpace(inviteeID)
	if inviteeID == "" {
		return nil, fmt.Errorf("%w: invitee is required", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsHostedBy(hostID) {
		return nil, domain.ErrForbidden
	}
	if strings.EqualFold(inviteeID, hostID) {
		return nil, domain.ErrSelfInvitation
	}

	invitee, err := s.userRepo.GetByID(ctx, inviteeID)
	if err != nil {
		return nil, fmt.Errorf("get invitee: %w", err)
	}

	inv := domain.NewInvitation(eventID, hostID, inviteeID, time.Now())
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	metrics.InvitationsSent.Inc()
	inv.Inviter = event.Host
	inv.Invitee = invitee.Summary()

	if s.emailService != nil && invitee.Email != "" {
		data := &domain.InvitationEmailData{
			Email:       invitee.Email,
			InviteeName: invitee.Username,
			HostName:    event.Host.Username,
			EventTitle:  event.Title,
			EventID:     event.ID,
			StartTime:   event.StartTime.UTC().Format("2006-01-02 15:04 MST"),
			Location:    event.Location,
		}
		if err := s.emailService.SendInvitation(ctx, data); err != nil {
			metrics.EmailsFailed.WithLabelValues(templateInvitation).Inc()
			s.logger.WarnContext(ctx, "invitation email not sent", "invitation_id", inv.ID, "err", err)
		}
	}
	return inv, nil
}

func (s *invitationService) Respond(ctx context.Context, eventID, inviteeID string, status domain.InvitationStatus) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.IsResponse() {
		return nil, domain.ErrInvalidStatus
	}
	inv, err := s.invitationRepo.GetByEventAndInvitee(ctx, eventID, inviteeID)
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	updated, err := s.invitationRepo.Respond(ctx, inv.ID, status, time.Now())
	if err != nil {
		return nil, fmt.Errorf("respond to invitation: %w", err)
	}
	metrics.InvitationResponses.WithLabelValues(string(status)).Inc()
	return updated, nil
}

func (s *invitationService) ListForEvent(ctx context.Context, eventID, callerID string, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsHostedBy(callerID) {
		return nil, domain.ErrForbidden
	}
	invitations, err := s.invitationRepo.ListByEventID(ctx, eventID, status)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

func (s *invitationService) ListReceived(ctx context.Context, inviteeID string, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invitations, err := s.invitationRepo.ListByInviteeID(ctx, inviteeID, status)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}
