package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventmanagement/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// eventSelect joins the host so every read carries the host summary.
const eventSelect = `
	SELECT e.id, e.title, e.description, e.host_id, u.username, COALESCE(u.email, ''),
		e.start_time, e.end_time, e.location, e.max_participants, e.created_at, e.updated_at
	FROM events e
	JOIN users u ON u.id = e.host_id
`

func scanEvent(row scanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.HostID, &e.Host.Username, &e.Host.Email,
		&e.StartTime, &e.EndTime, &e.Location, &e.MaxParticipants, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Host.ID = e.HostID
	return e, nil
}

func scanEvents(rows *sql.Rows) ([]*domain.Event, error) {
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CreateWithQuota(ctx context.Context, e *domain.Event, limit int, since time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Locking the host row serialises concurrent creations by the same host.
	var host domain.UserSummary
	err = tx.QueryRowContext(ctx, `SELECT id, username, COALESCE(email, '') FROM users WHERE id = $1 FOR UPDATE`, e.HostID).
		Scan(&host.ID, &host.Username, &host.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("lock host: %w", err)
	}

	var created int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE host_id = $1 AND created_at >= $2`, e.HostID, since).Scan(&created)
	if err != nil {
		return fmt.Errorf("count recent events: %w", err)
	}
	if created >= limit {
		return domain.ErrQuotaExceeded
	}

	query := `
		INSERT INTO events (title, description, host_id, start_time, end_time, location, max_participants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		e.Title, e.Description, e.HostID, e.StartTime, e.EndTime, e.Location, e.MaxParticipants, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	e.Host = host
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var where string
	args := make([]any, 0, 3)
	if filter.Search != "" {
		args = append(args, containsPattern(filter.Search))
		where = ` WHERE (e.title ILIKE $1 OR e.location ILIKE $1)`
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := eventSelect + where + ` ORDER BY e.start_time, e.id`
	if limit := params.Limit(); limit > 0 {
		args = append(args, limit, params.Offset())
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) ListByHostID(ctx context.Context, hostID string) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, eventSelect+` WHERE e.host_id = $1 ORDER BY e.start_time, e.id`, hostID)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var locked string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, e.ID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}

	var participants int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_participants WHERE event_id = $1`, e.ID).Scan(&participants); err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}
	if e.MaxParticipants < participants {
		return nil, domain.ErrCapacityBelowParticipants
	}

	query := `
		UPDATE events
		SET title = $1, description = $2, start_time = $3, end_time = $4, location = $5, max_participants = $6, updated_at = $7
		WHERE id = $8
	`
	if _, err := tx.ExecContext(ctx, query,
		e.Title, e.Description, e.StartTime, e.EndTime, e.Location, e.MaxParticipants, e.UpdatedAt, e.ID,
	); err != nil {
		return nil, err
	}

	updated, err := scanEvent(tx.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, e.ID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
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

func (r *eventRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
