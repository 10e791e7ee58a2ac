package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"lms/api/internal/cache"
	"lms/api/internal/ids"
	"lms/api/internal/jobs"
	"lms/api/internal/models"
	"lms/api/internal/repository"
)

// CourseService manages the catalog. Reads go through the cache when one is
// configured; cache and queue failures are logged and never fail a request.
type CourseService struct {
	courses CourseStore
	lessons LessonStore
	cache   CourseCache
	queue   TaskPublisher
	bucket  string
	log     zerolog.Logger
}

func NewCourseService(
	courses CourseStore,
	lessons LessonStore,
	courseCache CourseCache,
	queue TaskPublisher,
	bucket string,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courses: courses,
		lessons: lessons,
		cache:   courseCache,
		queue:   queue,
		bucket:  bucket,
		log:     log,
	}
}

type CourseInput struct {
	Title       string
	Description string
}

func (s *CourseService) Create(ctx context.Context, input CourseInput) (models.Course, error) {
	course, err := s.courses.Create(ctx, models.Course{
		ID:          ids.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
	})
	if err != nil {
		return models.Course{}, err
	}
	s.invalidate(ctx)
	return course, nil
}

// List returns every course, newest first.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	if s.cache != nil {
		courses, err := s.cache.GetList(ctx)
		if err == nil {
			return courses, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn().Err(err).Msg("course list cache read failed")
		}
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, courses); err != nil {
			s.log.Warn().Err(err).Msg("course list cache write failed")
		}
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (models.Course, error) {
	if s.cache != nil {
		course, err := s.cache.Get(ctx, id)
		if err == nil {
			return course, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn().Err(err).Str("course_id", id).Msg("course cache read failed")
		}
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, course); err != nil {
			s.log.Warn().Err(err).Str("course_id", id).Msg("course cache write failed")
		}
	}
	return course, nil
}

type CourseUpdate struct {
	Title       *string
	Description *string
}

func (s *CourseService) Update(ctx context.Context, id string, input CourseUpdate) (models.Course, error) {
	patch := models.CoursePatch{Description: input.Description}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		patch.Title = &title
	}

	course, err := s.courses.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	s.invalidate(ctx, id)
	return course, nil
}

// Delete removes the course with its lessons and enrollments, then queues
// removal of any uploaded lesson videos.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	keys, err := s.lessons.VideoObjectKeys(ctx, id)
	if err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	s.invalidate(ctx, id)
	purgeObjects(ctx, s.queue, s.bucket, keys, s.log)
	return nil
}

func (s *CourseService) invalidate(ctx context.Context, ids ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.log.Warn().Err(err).Strs("course_ids", ids).Msg("course cache invalidation failed")
	}
}

func purgeObjects(ctx context.Context, queue TaskPublisher, bucket string, keys []string, log zerolog.Logger) {
	if queue == nil || len(keys) == 0 {
		return
	}
	if err := queue.Publish(ctx, jobs.MediaPurgeTask(bucket, keys)); err != nil {
		log.Warn().Err(err).Strs("objects", keys).Msg("enqueue media purge failed")
	}
}
