package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lms/api/internal/models"
)

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create inserts the enrollment. The (user_id, course_id) unique constraint
// makes a concurrent duplicate fail with ErrEnrollmentExists instead of
// producing a second row.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment models.Enrollment) (models.Enrollment, error) {
	const query = `
		INSERT INTO enrollments (id, user_id, course_id, enrolled_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, course_id) DO NOTHING
		RETURNING enrolled_at
	`
	rows, err := r.pool.Query(ctx, query, enrollment.ID, enrollment.UserID, enrollment.CourseID)
	if err != nil {
		return models.Enrollment{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.Enrollment{}, err
		}
		return models.Enrollment{}, ErrEnrollmentExists
	}
	if err := rows.Scan(&enrollment.EnrolledAt); err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, rows.Err()
}

func (r *EnrollmentRepository) Exists(ctx context.Context, userID string, courseID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.EnrollmentWithCourse, error) {
	const query = `
		SELECT e.id, e.user_id, e.course_id, e.enrolled_at,
		       c.id, c.title, c.description, c.created_at, c.updated_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC, e.id DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.EnrollmentWithCourse{}
	for rows.Next() {
		var item models.EnrollmentWithCourse
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.CourseID,
			&item.EnrolledAt,
			&item.Course.ID,
			&item.Course.Title,
			&item.Course.Description,
			&item.Course.CreatedAt,
			&item.Course.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string, limit, offset int) ([]models.Enrollment, error) {
	const query = `
		SELECT id, user_id, course_id, enrolled_at
		FROM enrollments
		WHERE course_id = $1
		ORDER BY enrolled_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, courseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
