package domain

import (
	"context"
	"strings"
	"time"
)

// InvitationStatus is the state of an invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
)

// ParseInvitationStatus normalises s and reports whether it is a known status.
func ParseInvitationStatus(s string) (InvitationStatus, bool) {
	st := InvitationStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case InvitationPending, InvitationAccepted, InvitationDeclined:
		return st, true
	}
	return "", false
}

// IsResponse reports whether the status is a valid answer from an invitee.
func (s InvitationStatus) IsResponse() bool {
	return s == InvitationAccepted || s == InvitationDeclined
}

// Invitation represents a host inviting a user to an event.
// swagger:model Invitation
type Invitation struct {
	ID          string           `json:"id"`
	EventID     string           `json:"event_id"`
	InviterID   string           `json:"-"`
	Inviter     UserSummary      `json:"inviter"`
	InviteeID   string           `json:"-"`
	Invitee     UserSummary      `json:"invitee"`
	Status      InvitationStatus `json:"status"`
	SentAt      time.Time        `json:"sent_at"`
	RespondedAt *time.Time       `json:"responded_at"`
}

// NewInvitation returns a pending invitation. ID is typically set by the repository on create.
func NewInvitation(eventID, inviterID, inviteeID string, sentAt time.Time) *Invitation {
	return &Invitation{
		EventID:   eventID,
		InviterID: inviterID,
		Inviter:   UserSummary{ID: inviterID},
		InviteeID: inviteeID,
		Invitee:   UserSummary{ID: inviteeID},
		Status:    InvitationPending,
		SentAt:    sentAt,
	}
}

// InvitationRepository defines storage operations for invitations.
type InvitationRepository interface {
	// Create returns ErrAlreadyInvited when the invitee already has an invitation for the event.
	Create(ctx context.Context, inv *Invitation) error
	GetByEventAndInvitee(ctx context.Context, eventID, inviteeID string) (*Invitation, error)
	// Respond moves a PENDING invitation to status. Returns ErrAlreadyResponded if it is no longer pending.
	Respond(ctx context.Context, id string, status InvitationStatus, respondedAt time.Time) (*Invitation, error)
	ListByEventID(ctx context.Context, eventID string, status InvitationStatus) ([]*Invitation, error)
	ListByInviteeID(ctx context.Context, inviteeID string, status InvitationStatus) ([]*Invitation, error)
}

// InvitationService defines invitation exchange between hosts and invitees.
type InvitationService interface {
	Send(ctx context.Context, eventID, hostID, inviteeID string) (*Invitation, error)
	Respond(ctx context.Context, eventID, inviteeID string, status InvitationStatus) (*Invitation, error)
	// ListForEvent is restricted to the event host. An empty status lists all.
	ListForEvent(ctx context.Context, eventID, callerID string, status InvitationStatus) ([]*Invitation, error)
	ListReceived(ctx context.Context, inviteeID string, status InvitationStatus) ([]*Invitation, error)
}
