package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"lms/api/internal/ids"
	"lms/api/internal/media/sniffer"
	"lms/api/internal/metrics"
	"lms/api/internal/models"
	"lms/api/internal/repository"
)

type VideoUploadInput struct {
	LessonID     string
	File         io.Reader
	Size         int64
	DeclaredType string
}

// MediaService stores lesson videos in the object store.
type MediaService struct {
	lessons  LessonStore
	store    ObjectStore
	queue    TaskPublisher
	maxBytes int64
	metrics  metrics.Recorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewMediaService(
	lessons LessonStore,
	store ObjectStore,
	queue TaskPublisher,
	maxBytes int64,
	recorder metrics.Recorder,
	log zerolog.Logger,
) *MediaService {
	if recorder == nil {
		recorder = metrics.Nop
	}
	return &MediaService{
		lessons:  lessons,
		store:    store,
		queue:    queue,
		maxBytes: maxBytes,
		metrics:  recorder,
		log:      log,
		now:      time.Now,
	}
}

// UploadLessonVideo sniffs the file, stores it and points the lesson's
// videoUrl at it. The object it replaces, if any, is queued for removal.
func (s *MediaService) UploadLessonVideo(ctx context.Context, input VideoUploadInput) (models.Lesson, error) {
	if input.File == nil || input.Size == 0 {
		return models.Lesson{}, ErrEmptyUpload
	}
	if s.maxBytes > 0 && input.Size > s.maxBytes {
		return models.Lesson{}, ErrUploadTooLarge
	}

	current, err := s.lessons.GetByID(ctx, input.LessonID)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return models.Lesson{}, ErrLessonNotFound
		}
		return models.Lesson{}, err
	}

	detected, head, err := sniffer.Detect(input.File)
	if err != nil {
		if errors.Is(err, sniffer.ErrUnknownType) {
			return models.Lesson{}, ErrUnsupportedMedia
		}
		return models.Lesson{}, fmt.Errorf("read head: %w", err)
	}
	if input.DeclaredType != "" && input.DeclaredType != detected.MIME {
		return models.Lesson{}, ErrMediaTypeMismatch
	}

	objectKey := s.buildObjectKey(input.LessonID, string(detected.Type))
	body := io.MultiReader(bytes.NewReader(head), input.File)

	written, err := s.store.Put(ctx, objectKey, body, input.Size, detected.MIME)
	if err != nil {
		return models.Lesson{}, err
	}

	lesson, err := s.lessons.SetVideo(ctx, input.LessonID, s.store.PublicURL(objectKey), objectKey)
	if err != nil {
		purgeObjects(ctx, s.queue, s.store.Bucket(), []string{objectKey}, s.log)
		if errors.Is(err, repository.ErrLessonNotFound) {
			return models.Lesson{}, ErrLessonNotFound
		}
		return models.Lesson{}, err
	}

	if current.VideoObjectKey != nil {
		purgeObjects(ctx, s.queue, s.store.Bucket(), []string{*current.VideoObjectKey}, s.log)
	}

	s.metrics.RecordVideoUpload(written)
	s.log.Info().
		Str("lesson_id", lesson.ID).
		Str("object", objectKey).
		Int64("bytes", written).
		Msg("lesson video stored")
	return lesson, nil
}

func (s *MediaService) buildObjectKey(lessonID string, ext string) string {
	datePrefix := s.now().UTC().Format("2006/01/02")
	return path.Join("lessons", lessonID, datePrefix, fmt.Sprintf("%s.%s", ids.New(), ext))
}
