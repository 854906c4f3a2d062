package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventmanagement/internal/domain"
)

type eventParticipantRepository struct {
	DB *sql.DB
}

func NewEventParticipantRepository(db *sql.DB) domain.EventParticipantRepository {
	return &eventParticipantRepository{
		DB: db,
	}
}

const participantSelect = `
	SELECT p.id, p.event_id, p.user_id, u.username, COALESCE(u.email, ''), p.joined_at
	FROM event_participants p
	JOIN users u ON u.id = p.user_id
`

func scanParticipant(row scanner) (*domain.EventParticipant, error) {
	p := &domain.EventParticipant{}
	if err := row.Scan(&p.ID, &p.EventID, &p.UserID, &p.User.Username, &p.User.Email, &p.JoinedAt); err != nil {
		return nil, err
	}
	p.User.ID = p.UserID
	return p, nil
}

func (r *eventParticipantRepository) Register(ctx context.Context, p *domain.EventParticipant) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// The event row lock makes the duplicate and capacity checks atomic with the insert.
	var capacity int
	err = tx.QueryRowContext(ctx, `SELECT max_participants FROM events WHERE id = $1 FOR UPDATE`, p.EventID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	var registered bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2)`, p.EventID, p.UserID).
		Scan(&registered)
	if err != nil {
		return fmt.Errorf("check registration: %w", err)
	}
	if registered {
		return domain.ErrAlreadyRegistered
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_participants WHERE event_id = $1`, p.EventID).Scan(&count); err != nil {
		return fmt.Errorf("count participants: %w", err)
	}
	if count >= capacity {
		return domain.ErrEventFull
	}

	query := `
		WITH ins AS (
			INSERT INTO event_participants (event_id, user_id, joined_at)
			VALUES ($1, $2, $3)
			RETURNING id, user_id
		)
		SELECT ins.id, u.username, COALESCE(u.email, '')
		FROM ins
		JOIN users u ON u.id = ins.user_id
	`
	err = tx.QueryRowContext(ctx, query, p.EventID, p.UserID, p.JoinedAt).Scan(&p.ID, &p.User.Username, &p.User.Email)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrAlreadyRegistered
		case isForeignKeyViolation(err):
			return domain.ErrUserNotFound
		}
		return err
	}
	p.User.ID = p.UserID
	return tx.Commit()
}

func (r *eventParticipantRepository) Unregister(ctx context.Context, eventID, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventParticipantRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventParticipant, error) {
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, participantSelect+` WHERE p.event_id = $1 AND p.user_id = $2`, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *eventParticipantRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventParticipant, error) {
	return r.list(ctx, participantSelect+` WHERE p.event_id = $1 ORDER BY p.joined_at, p.id`, eventID)
}

func (r *eventParticipantRepository) ListByUserIDWithEvents(ctx context.Context, userID string) ([]*domain.ParticipationWithEvent, error) {
	query := `
		SELECT p.id, p.event_id, p.user_id, pu.username, COALESCE(pu.email, ''), p.joined_at,
			e.id, e.title, e.description, e.host_id, h.username, COALESCE(h.email, ''),
			e.start_time, e.end_time, e.location, e.max_participants, e.created_at, e.updated_at
		FROM event_participants p
		JOIN users pu ON pu.id = p.user_id
		JOIN events e ON e.id = p.event_id
		JOIN users h ON h.id = e.host_id
		WHERE p.user_id = $1
		ORDER BY p.joined_at DESC, p.id
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.ParticipationWithEvent, 0)
	for rows.Next() {
		p := &domain.EventParticipant{}
		e := &domain.Event{}
		err := rows.Scan(
			&p.ID, &p.EventID, &p.UserID, &p.User.Username, &p.User.Email, &p.JoinedAt,
			&e.ID, &e.Title, &e.Description, &e.HostID, &e.Host.Username, &e.Host.Email,
			&e.StartTime, &e.EndTime, &e.Location, &e.MaxParticipants, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.User.ID = p.UserID
		e.Host.ID = e.HostID
		items = append(items, &domain.ParticipationWithEvent{Participation: p, Event: e})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *eventParticipantRepository) list(ctx context.Context, query string, args ...any) ([]*domain.EventParticipant, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.EventParticipant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *eventParticipantRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_participants WHERE event_id = $1`, eventID).Scan(&count)
	return count, err
}
