package service

import (
	"context"
	"io"

	"lms/api/internal/jobs"
	"lms/api/internal/models"
)

// Storage ports. The pgx repositories and memstore both satisfy them.

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, id string, patch models.UserPatch) (models.User, error)
}

type RefreshTokenStore interface {
	Create(ctx context.Context, token models.RefreshToken) error
	Consume(ctx context.Context, tokenHash []byte) (models.RefreshToken, error)
	DeleteByHash(ctx context.Context, tokenHash []byte) error
}

type CourseStore interface {
	Create(ctx context.Context, course models.Course) (models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	GetByID(ctx context.Context, id string) (models.Course, error)
	Update(ctx context.Context, id string, patch models.CoursePatch) (models.Course, error)
	Delete(ctx context.Context, id string) error
}

type LessonStore interface {
	Create(ctx context.Context, lesson models.Lesson) (models.Lesson, error)
	GetByID(ctx context.Context, id string) (models.Lesson, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Lesson, error)
	Update(ctx context.Context, id string, patch models.LessonPatch) (models.Lesson, error)
	SetVideo(ctx context.Context, id string, videoURL string, objectKey string) (models.Lesson, error)
	Delete(ctx context.Context, id string) (models.Lesson, error)
	VideoObjectKeys(ctx context.Context, courseID string) ([]string, error)
}

type EnrollmentStore interface {
	Create(ctx context.Context, enrollment models.Enrollment) (models.Enrollment, error)
	Exists(ctx context.Context, userID string, courseID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.EnrollmentWithCourse, error)
	ListByCourse(ctx context.Context, courseID string, limit, offset int) ([]models.Enrollment, error)
}

type ProgressStore interface {
	Create(ctx context.Context, progress models.Progress) (models.Progress, error)
	CompletedLessonIDs(ctx context.Context, userID string, lessonIDs []string) (map[string]struct{}, error)
}

// CourseCache is the read-through catalog cache. Implementations return
// cache.ErrMiss for absent entries.
type CourseCache interface {
	GetList(ctx context.Context) ([]models.Course, error)
	SetList(ctx context.Context, courses []models.Course) error
	Get(ctx context.Context, id string) (models.Course, error)
	Set(ctx context.Context, course models.Course) error
	Invalidate(ctx context.Context, ids ...string) error
}

type TaskPublisher interface {
	Publish(ctx context.Context, task jobs.Task) error
}

type ObjectStore interface {
	Bucket() string
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (int64, error)
	PublicURL(key string) string
}

