package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventmanagement/internal/domain"
)

const (
	templateWelcome    = "welcome"
	templateInvitation = "invitation"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	if err := s.send(ctx, templateWelcome, data.Email, data); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	s.logger.InfoContext(ctx, "welcome email sent", "to", data.Email)
	return nil
}

// SendInvitation notifies an invitee using the "invitation" template.
func (s *emailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation email data is nil")
	}
	if err := s.send(ctx, templateInvitation, data.Email, data); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	s.logger.InfoContext(ctx, "invitation email sent", "to", data.Email, "event_id", data.EventID)
	return nil
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", template, err)
	}
	return s.mailer.Send(ctx, to, subject, htmlBody, textBody)
}
