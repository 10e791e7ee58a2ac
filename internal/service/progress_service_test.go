package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/api/internal/models"
)

func TestMarkCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	learner := f.user(t, models.UserRoleLearner)
	course := f.course(t)
	other := f.course(t)
	lesson := f.lesson(t, course.ID, 1)

	_, err := f.progress.MarkCompleted(ctx, learner.ID, course.ID, "aaaaaaaaaaaaaaaaaaaaaaaa")
	assert.ErrorIs(t, err, ErrLessonNotFound)

	_, err = f.progress.MarkCompleted(ctx, learner.ID, other.ID, lesson.ID)
	assert.ErrorIs(t, err, ErrLessonCourseMismatch)

	_, err = f.progress.MarkCompleted(ctx, learner.ID, course.ID, lesson.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, err = f.enrollments.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)

	progress, err := f.progress.MarkCompleted(ctx, learner.ID, course.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.ID, progress.LessonID)
	assert.False(t, progress.CompletedAt.IsZero())

	_, err = f.progress.MarkCompleted(ctx, learner.ID, course.ID, lesson.ID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}
