package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email.
type WelcomeMessageEmailData struct {
	Email    string
	Username string
}

// InvitationEmailData holds data for the event invitation email.
type InvitationEmailData struct {
	Email       string
	InviteeName string
	HostName    string
	EventTitle  string
	EventID     string
	StartTime   string
	Location    string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
}
