package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lms/api/internal/models"
)

type ProgressRepository struct {
	pool *pgxpool.Pool
}

func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

func (r *ProgressRepository) Create(ctx context.Context, progress models.Progress) (models.Progress, error) {
	const query = `
		INSERT INTO progress (id, user_id, lesson_id, completed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, lesson_id) DO NOTHING
		RETURNING completed_at
	`
	rows, err := r.pool.Query(ctx, query, progress.ID, progress.UserID, progress.LessonID)
	if err != nil {
		return models.Progress{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.Progress{}, err
		}
		return models.Progress{}, ErrProgressExists
	}
	if err := rows.Scan(&progress.CompletedAt); err != nil {
		return models.Progress{}, err
	}
	return progress, rows.Err()
}

// CompletedLessonIDs returns which of lessonIDs the user has completed, in a
// single query.
func (r *ProgressRepository) CompletedLessonIDs(ctx context.Context, userID string, lessonIDs []string) (map[string]struct{}, error) {
	completed := make(map[string]struct{})
	if len(lessonIDs) == 0 {
		return completed, nil
	}

	const query = `SELECT lesson_id FROM progress WHERE user_id = $1 AND lesson_id = ANY($2)`
	rows, err := r.pool.Query(ctx, query, userID, lessonIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		completed[id] = struct{}{}
	}
	return completed, rows.Err()
}
