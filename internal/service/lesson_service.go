package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"lms/api/internal/content"
	"lms/api/internal/ids"
	"lms/api/internal/models"
	"lms/api/internal/repository"
)

type LessonService struct {
	courses     CourseStore
	lessons     LessonStore
	enrollments EnrollmentStore
	progress    ProgressStore
	sanitizer   *content.Sanitizer
	queue       TaskPublisher
	bucket      string
	log         zerolog.Logger
}

func NewLessonService(
	courses CourseStore,
	lessons LessonStore,
	enrollments EnrollmentStore,
	progress ProgressStore,
	sanitizer *content.Sanitizer,
	queue TaskPublisher,
	bucket string,
	log zerolog.Logger,
) *LessonService {
	return &LessonService{
		courses:     courses,
		lessons:     lessons,
		enrollments: enrollments,
		progress:    progress,
		sanitizer:   sanitizer,
		queue:       queue,
		bucket:      bucket,
		log:         log,
	}
}

type LessonInput struct {
	Title    string
	Content  string
	Order    *int
	VideoURL *string
}

func (s *LessonService) Create(ctx context.Context, courseID string, input LessonInput) (models.Lesson, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return models.Lesson{}, err
	}

	lesson := models.Lesson{
		ID:       ids.New(),
		CourseID: courseID,
		Title:    strings.TrimSpace(input.Title),
		Content:  s.sanitizer.Sanitize(input.Content),
		VideoURL: input.VideoURL,
	}
	if input.Order != nil {
		lesson.Order = *input.Order
	}

	created, err := s.lessons.Create(ctx, lesson)
	if errors.Is(err, repository.ErrCourseNotFound) {
		return models.Lesson{}, ErrCourseNotFound
	}
	return created, err
}

type LessonUpdate struct {
	Title    *string
	Content  *string
	Order    *int
	VideoURL *string
}

// Update applies a partial change. Replacing the video URL by hand releases
// a previously uploaded video object.
func (s *LessonService) Update(ctx context.Context, id string, input LessonUpdate) (models.Lesson, error) {
	current, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return models.Lesson{}, ErrLessonNotFound
		}
		return models.Lesson{}, err
	}

	patch := models.LessonPatch{
		Order:    input.Order,
		VideoURL: input.VideoURL,
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		patch.Title = &title
	}
	if input.Content != nil {
		clean := s.sanitizer.Sanitize(*input.Content)
		patch.Content = &clean
	}

	lesson, err := s.lessons.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return models.Lesson{}, ErrLessonNotFound
		}
		return models.Lesson{}, err
	}

	if input.VideoURL != nil && current.VideoObjectKey != nil {
		purgeObjects(ctx, s.queue, s.bucket, []string{*current.VideoObjectKey}, s.log)
	}
	return lesson, nil
}

func (s *LessonService) Delete(ctx context.Context, id string) error {
	lesson, err := s.lessons.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return ErrLessonNotFound
		}
		return err
	}
	if lesson.VideoObjectKey != nil {
		purgeObjects(ctx, s.queue, s.bucket, []string{*lesson.VideoObjectKey}, s.log)
	}
	return nil
}

// LessonView is a lesson as seen by a caller. IsCompleted is set only for
// learners.
type LessonView struct {
	models.Lesson
	IsCompleted *bool
}

// ListByCourse returns the course's lessons in order. Admins see them
// unconditionally. Learners must be enrolled and get each lesson annotated
// with their completion, resolved with one batched progress lookup.
func (s *LessonService) ListByCourse(ctx context.Context, caller models.User, courseID string) ([]LessonView, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	if caller.Role != models.UserRoleAdmin {
		enrolled, err := s.enrollments.Exists(ctx, caller.ID, courseID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, ErrNotEnrolled
		}
	}

	lessons, err := s.lessons.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	views := make([]LessonView, len(lessons))
	for i, l := range lessons {
		views[i] = LessonView{Lesson: l}
	}
	if caller.Role == models.UserRoleAdmin {
		return views, nil
	}

	lessonIDs := make([]string, len(lessons))
	for i, l := range lessons {
		lessonIDs[i] = l.ID
	}
	completed, err := s.progress.CompletedLessonIDs(ctx, caller.ID, lessonIDs)
	if err != nil {
		return nil, err
	}
	for i := range views {
		_, done := completed[views[i].ID]
		views[i].IsCompleted = &done
	}
	return views, nil
}

func (s *LessonService) requireCourse(ctx context.Context, courseID string) error {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return nil
}
