package service

import (
	"context"
	"errors"

	"lms/api/internal/ids"
	"lms/api/internal/metrics"
	"lms/api/internal/models"
	"lms/api/internal/repository"
)

const (
	DefaultRosterPageSize = 50
	MaxRosterPageSize     = 200
)

type EnrollmentService struct {
	courses     CourseStore
	enrollments EnrollmentStore
	metrics     metrics.Recorder
}

func NewEnrollmentService(courses CourseStore, enrollments EnrollmentStore, recorder metrics.Recorder) *EnrollmentService {
	if recorder == nil {
		recorder = metrics.Nop
	}
	return &EnrollmentService{courses: courses, enrollments: enrollments, metrics: recorder}
}

// Enroll registers the user for a course. A second enrollment in the same
// course fails with ErrAlreadyEnrolled, also when both race.
func (s *EnrollmentService) Enroll(ctx context.Context, userID string, courseID string) (models.EnrollmentWithCourse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return models.EnrollmentWithCourse{}, ErrCourseNotFound
		}
		return models.EnrollmentWithCourse{}, err
	}

	enrollment, err := s.enrollments.Create(ctx, models.Enrollment{
		ID:       ids.New(),
		UserID:   userID,
		CourseID: courseID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentExists) {
			return models.EnrollmentWithCourse{}, ErrAlreadyEnrolled
		}
		return models.EnrollmentWithCourse{}, err
	}

	s.metrics.RecordEnrollment()
	return models.EnrollmentWithCourse{Enrollment: enrollment, Course: course}, nil
}

func (s *EnrollmentService) ListMine(ctx context.Context, userID string) ([]models.EnrollmentWithCourse, error) {
	return s.enrollments.ListByUser(ctx, userID)
}

type Page struct {
	Page    int
	PerPage int
}

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultRosterPageSize
	}
	if p.PerPage > MaxRosterPageSize {
		p.PerPage = MaxRosterPageSize
	}
	return p
}

// Roster lists a course's enrollments, oldest first.
func (s *EnrollmentService) Roster(ctx context.Context, courseID string, page Page) ([]models.Enrollment, Page, error) {
	page = page.Normalize()
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, page, ErrCourseNotFound
		}
		return nil, page, err
	}

	items, err := s.enrollments.ListByCourse(ctx, courseID, page.PerPage, (page.Page-1)*page.PerPage)
	if err != nil {
		return nil, page, err
	}
	return items, page, nil
}
