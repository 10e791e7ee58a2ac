package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lms/api/internal/models"
)

type LessonRepository struct {
	pool *pgxpool.Pool
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

const lessonColumns = `id, course_id, title, content, "order", video_url, video_object_key, created_at, updated_at`

func scanLesson(row pgx.Row) (models.Lesson, error) {
	var lesson models.Lesson
	if err := row.Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.Title,
		&lesson.Content,
		&lesson.Order,
		&lesson.VideoURL,
		&lesson.VideoObjectKey,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Lesson{}, ErrLessonNotFound
		}
		return models.Lesson{}, err
	}
	return lesson, nil
}

func (r *LessonRepository) Create(ctx context.Context, lesson models.Lesson) (models.Lesson, error) {
	const query = `
		INSERT INTO lessons (id, course_id, title, content, "order", video_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + lessonColumns
	return scanLesson(r.pool.QueryRow(ctx, query,
		lesson.ID,
		lesson.CourseID,
		lesson.Title,
		lesson.Content,
		lesson.Order,
		lesson.VideoURL,
	))
}

func (r *LessonRepository) GetByID(ctx context.Context, id string) (models.Lesson, error) {
	const query = `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	return scanLesson(r.pool.QueryRow(ctx, query, id))
}

func (r *LessonRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Lesson, error) {
	const query = `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE course_id = $1
		ORDER BY "order" ASC, created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

// Update applies the patch. Setting VideoURL by hand detaches any uploaded
// object, so video_object_key is cleared in that case.
func (r *LessonRepository) Update(ctx context.Context, id string, patch models.LessonPatch) (models.Lesson, error) {
	const query = `
		UPDATE lessons
		SET title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    "order" = COALESCE($4, "order"),
		    video_url = COALESCE($5, video_url),
		    video_object_key = CASE WHEN $5::text IS NULL THEN video_object_key ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + lessonColumns
	return scanLesson(r.pool.QueryRow(ctx, query, id, patch.Title, patch.Content, patch.Order, patch.VideoURL))
}

func (r *LessonRepository) SetVideo(ctx context.Context, id string, videoURL string, objectKey string) (models.Lesson, error) {
	const query = `
		UPDATE lessons
		SET video_url = $2,
		    video_object_key = $3,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + lessonColumns
	return scanLesson(r.pool.QueryRow(ctx, query, id, videoURL, objectKey))
}

// Delete removes the lesson and returns the deleted record.
func (r *LessonRepository) Delete(ctx context.Context, id string) (models.Lesson, error) {
	const query = `DELETE FROM lessons WHERE id = $1 RETURNING ` + lessonColumns
	return scanLesson(r.pool.QueryRow(ctx, query, id))
}

// VideoObjectKeys lists the uploaded video objects of a course's lessons.
func (r *LessonRepository) VideoObjectKeys(ctx context.Context, courseID string) ([]string, error) {
	const query = `
		SELECT video_object_key FROM lessons
		WHERE course_id = $1 AND video_object_key IS NOT NULL
	`
	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
