package service

import (
	"context"
	"errors"

	"lms/api/internal/ids"
	"lms/api/internal/metrics"
	"lms/api/internal/models"
	"lms/api/internal/repository"
)

type ProgressService struct {
	lessons     LessonStore
	enrollments EnrollmentStore
	progress    ProgressStore
	metrics     metrics.Recorder
}

func NewProgressService(lessons LessonStore, enrollments EnrollmentStore, progress ProgressStore, recorder metrics.Recorder) *ProgressService {
	if recorder == nil {
		recorder = metrics.Nop
	}
	return &ProgressService{
		lessons:     lessons,
		enrollments: enrollments,
		progress:    progress,
		metrics:     recorder,
	}
}

// MarkCompleted records that the user finished a lesson. The lesson must
// exist and belong to courseID, and the user must be enrolled in it.
func (s *ProgressService) MarkCompleted(ctx context.Context, userID, courseID, lessonID string) (models.Progress, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return models.Progress{}, ErrLessonNotFound
		}
		return models.Progress{}, err
	}
	if lesson.CourseID != courseID {
		return models.Progress{}, ErrLessonCourseMismatch
	}

	enrolled, err := s.enrollments.Exists(ctx, userID, courseID)
	if err != nil {
		return models.Progress{}, err
	}
	if !enrolled {
		return models.Progress{}, ErrNotEnrolled
	}

	progress, err := s.progress.Create(ctx, models.Progress{
		ID:       ids.New(),
		UserID:   userID,
		LessonID: lessonID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrProgressExists) {
			return models.Progress{}, ErrAlreadyCompleted
		}
		return models.Progress{}, err
	}

	s.metrics.RecordLessonCompleted()
	return progress, nil
}
