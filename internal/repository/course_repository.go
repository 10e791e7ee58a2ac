package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lms/api/internal/models"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, title, description, created_at, updated_at`

func scanCourse(row pgx.Row) (models.Course, error) {
	var course models.Course
	if err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.CreatedAt,
		&course.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}

func (r *CourseRepository) Create(ctx context.Context, course models.Course) (models.Course, error) {
	const query = `
		INSERT INTO courses (id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + courseColumns
	return scanCourse(r.pool.QueryRow(ctx, query, course.ID, course.Title, course.Description))
}

func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	return scanCourse(r.pool.QueryRow(ctx, query, id))
}

func (r *CourseRepository) Update(ctx context.Context, id string, patch models.CoursePatch) (models.Course, error) {
	const query = `
		UPDATE courses
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + courseColumns
	return scanCourse(r.pool.QueryRow(ctx, query, id, patch.Title, patch.Description))
}

// Delete removes the course; lessons, enrollments and progress go with it
// through foreign-key cascades.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM courses WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}
