package postgres

import (
	"context"
	"database/sql"

	"eventmanagement/internal/domain"
)

type feedbackRepository struct {
	DB *sql.DB
}

func NewFeedbackRepository(db *sql.DB) domain.FeedbackRepository {
	return &feedbackRepository{
		DB: db,
	}
}

func (r *feedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	query := `
		WITH ins AS (
			INSERT INTO feedback (event_id, user_id, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, user_id
		)
		SELECT ins.id, u.username, COALESCE(u.email, '')
		FROM ins
		JOIN users u ON u.id = ins.user_id
	`
	err := r.DB.QueryRowContext(ctx, query, fb.EventID, fb.UserID, fb.Rating, fb.Comment, fb.CreatedAt).
		Scan(&fb.ID, &fb.User.Username, &fb.User.Email)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicateFeedback
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return err
	}
	fb.User.ID = fb.UserID
	return nil
}

func (r *feedbackRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Feedback, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT f.id, f.event_id, f.user_id, u.username, COALESCE(u.email, ''), f.rating, f.comment, f.created_at
		FROM feedback f
		JOIN users u ON u.id = f.user_id
		WHERE f.event_id = $1
		ORDER BY f.created_at DESC, f.id
	`
	args := []any{eventID}
	if limit := params.Limit(); limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, params.Offset())
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]*domain.Feedback, 0)
	for rows.Next() {
		fb := &domain.Feedback{}
		var comment sql.NullString
		if err := rows.Scan(&fb.ID, &fb.EventID, &fb.UserID, &fb.User.Username, &fb.User.Email, &fb.Rating, &comment, &fb.CreatedAt); err != nil {
			return nil, 0, err
		}
		fb.User.ID = fb.UserID
		if comment.Valid {
			fb.Comment = &comment.String
		}
		items = append(items, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *feedbackRepository) SummaryByEventID(ctx context.Context, eventID string) (domain.FeedbackSummary, error) {
	var s domain.FeedbackSummary
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8 FROM feedback WHERE event_id = $1`, eventID).
		Scan(&s.Count, &s.AverageRating)
	return s, err
}
