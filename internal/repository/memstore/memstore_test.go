package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/api/internal/ids"
	"lms/api/internal/models"
	"lms/api/internal/repository"
)

func TestEnrollmentUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()
	userID, courseID := ids.New(), ids.New()

	_, err := s.Enrollments().Create(ctx, models.Enrollment{ID: ids.New(), UserID: userID, CourseID: courseID})
	require.NoError(t, err)

	_, err = s.Enrollments().Create(ctx, models.Enrollment{ID: ids.New(), UserID: userID, CourseID: courseID})
	assert.ErrorIs(t, err, repository.ErrEnrollmentExists)
}

func TestCourseDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := New()

	course, err := s.Courses().Create(ctx, models.Course{ID: ids.New(), Title: "Go"})
	require.NoError(t, err)
	lesson, err := s.Lessons().Create(ctx, models.Lesson{ID: ids.New(), CourseID: course.ID, Title: "Intro"})
	require.NoError(t, err)
	userID := ids.New()
	_, err = s.Enrollments().Create(ctx, models.Enrollment{ID: ids.New(), UserID: userID, CourseID: course.ID})
	require.NoError(t, err)
	_, err = s.Progress().Create(ctx, models.Progress{ID: ids.New(), UserID: userID, LessonID: lesson.ID})
	require.NoError(t, err)

	require.NoError(t, s.Courses().Delete(ctx, course.ID))

	_, err = s.Lessons().GetByID(ctx, lesson.ID)
	assert.ErrorIs(t, err, repository.ErrLessonNotFound)
	enrolled, err := s.Enrollments().Exists(ctx, userID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
	done, err := s.Progress().CompletedLessonIDs(ctx, userID, []string{lesson.ID})
	require.NoError(t, err)
	assert.Empty(t, done)

	assert.ErrorIs(t, s.Courses().Delete(ctx, course.ID), repository.ErrCourseNotFound)
}

func TestRefreshTokenConsumeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	s := New()
	hash := []byte("hash")

	require.NoError(t, s.RefreshTokens().Create(ctx, models.RefreshToken{
		ID: ids.New(), UserID: ids.New(), TokenHash: hash, ExpiresAt: time.Now().Add(time.Hour),
	}))

	_, err := s.RefreshTokens().Consume(ctx, hash)
	require.NoError(t, err)
	_, err = s.RefreshTokens().Consume(ctx, hash)
	assert.ErrorIs(t, err, repository.ErrRefreshTokenNotFound)
}

func TestLessonsOrdered(t *testing.T) {
	ctx := context.Background()
	s := New()
	course, _ := s.Courses().Create(ctx, models.Course{ID: ids.New(), Title: "Go"})

	for _, order := range []int{3, 1, 2} {
		_, err := s.Lessons().Create(ctx, models.Lesson{ID: ids.New(), CourseID: course.ID, Order: order})
		require.NoError(t, err)
	}

	lessons, err := s.Lessons().ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{lessons[0].Order, lessons[1].Order, lessons[2].Order})
}
