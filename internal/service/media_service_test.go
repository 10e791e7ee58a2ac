package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mp4Bytes(n int) []byte {
	head := []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00}
	return append(head, bytes.Repeat([]byte{0x01}, n)...)
}

func TestUploadLessonVideo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t)
	lesson := f.lesson(t, course.ID, 1)
	data := mp4Bytes(2048)

	updated, err := f.media.UploadLessonVideo(ctx, VideoUploadInput{
		LessonID:     lesson.ID,
		File:         bytes.NewReader(data),
		Size:         int64(len(data)),
		DeclaredType: "video/mp4",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.VideoObjectKey)
	require.NotNil(t, updated.VideoURL)
	key := *updated.VideoObjectKey
	assert.True(t, strings.HasPrefix(key, "lessons/"+lesson.ID+"/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))
	assert.Equal(t, "http://cdn.test/lesson-videos/"+key, *updated.VideoURL)
	assert.Equal(t, data, f.objects.objects[key])
	assert.Empty(t, f.queue.Tasks())

	again, err := f.media.UploadLessonVideo(ctx, VideoUploadInput{
		LessonID: lesson.ID,
		File:     bytes.NewReader(data),
		Size:     int64(len(data)),
	})
	require.NoError(t, err)
	assert.NotEqual(t, key, *again.VideoObjectKey)

	tasks := f.queue.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, key, tasks[0].Fields["objects"])
}

func TestUploadLessonVideoRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t)
	lesson := f.lesson(t, course.ID, 1)
	data := mp4Bytes(64)

	tests := []struct {
		name  string
		input VideoUploadInput
		want  error
	}{
		{"empty", VideoUploadInput{LessonID: lesson.ID, File: bytes.NewReader(nil), Size: 0}, ErrEmptyUpload},
		{"too large", VideoUploadInput{LessonID: lesson.ID, File: bytes.NewReader(data), Size: 2 << 20}, ErrUploadTooLarge},
		{"not a video", VideoUploadInput{LessonID: lesson.ID, File: strings.NewReader("plain text, not a video"), Size: 23}, ErrUnsupportedMedia},
		{"declared mismatch", VideoUploadInput{LessonID: lesson.ID, File: bytes.NewReader(data), Size: int64(len(data)), DeclaredType: "video/webm"}, ErrMediaTypeMismatch},
		{"missing lesson", VideoUploadInput{LessonID: "aaaaaaaaaaaaaaaaaaaaaaaa", File: bytes.NewReader(data), Size: int64(len(data))}, ErrLessonNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.media.UploadLessonVideo(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
