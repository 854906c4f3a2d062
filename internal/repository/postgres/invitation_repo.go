package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventmanagement/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

const invitationSelect = `
	SELECT i.id, i.event_id,
		i.inviter_id, inviter.username, COALESCE(inviter.email, ''),
		i.invitee_id, invitee.username, COALESCE(invitee.email, ''),
		i.status, i.sent_at, i.responded_at
	FROM invitations i
	JOIN users inviter ON inviter.id = i.inviter_id
	JOIN users invitee ON invitee.id = i.invitee_id
`

func scanInvitation(row scanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var respondedAt sql.NullTime
	err := row.Scan(
		&inv.ID, &inv.EventID,
		&inv.InviterID, &inv.Inviter.Username, &inv.Inviter.Email,
		&inv.InviteeID, &inv.Invitee.Username, &inv.Invitee.Email,
		&inv.Status, &inv.SentAt, &respondedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Inviter.ID = inv.InviterID
	inv.Invitee.ID = inv.InviteeID
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	return inv, nil
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (event_id, inviter_id, invitee_id, status, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, inv.EventID, inv.InviterID, inv.InviteeID, inv.Status, inv.SentAt).Scan(&inv.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrAlreadyInvited
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		case isCheckViolation(err):
			return domain.ErrSelfInvitation
		}
		return err
	}
	return nil
}

func (r *invitationRepository) GetByEventAndInvitee(ctx context.Context, eventID, inviteeID string) (*domain.Invitation, error) {
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, invitationSelect+` WHERE i.event_id = $1 AND i.invitee_id = $2`, eventID, inviteeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) Respond(ctx context.Context, id string, status domain.InvitationStatus, respondedAt time.Time) (*domain.Invitation, error) {
	// The status guard makes the PENDING transition a compare-and-set.
	res, err := r.DB.ExecContext(ctx, `
		UPDATE invitations
		SET status = $1, responded_at = $2
		WHERE id = $3 AND status = $4
	`, status, respondedAt, id, domain.InvitationPending)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, invitationSelect+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrAlreadyResponded
	}
	return inv, nil
}

func (r *invitationRepository) ListByEventID(ctx context.Context, eventID string, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	return r.list(ctx, `i.event_id = $1`, eventID, status)
}

func (r *invitationRepository) ListByInviteeID(ctx context.Context, inviteeID string, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	return r.list(ctx, `i.invitee_id = $1`, inviteeID, status)
}

func (r *invitationRepository) list(ctx context.Context, cond, id string, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	query := invitationSelect + ` WHERE ` + cond
	args := []any{id}
	if status != "" {
		query += ` AND i.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY i.sent_at DESC, i.id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invitations, nil
}
