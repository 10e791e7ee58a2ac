package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/api/internal/models"
)

func TestLessonCreateRequiresCourse(t *testing.T) {
	f := newFixture(t)
	_, err := f.lessons.Create(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaa", LessonInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestLessonCreateDefaultsAndSanitizes(t *testing.T) {
	f := newFixture(t)
	course := f.course(t)

	lesson, err := f.lessons.Create(context.Background(), course.ID, LessonInput{
		Title:   "Intro",
		Content: `<p>Hello</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, lesson.Order)
	assert.Nil(t, lesson.VideoURL)
	assert.Contains(t, lesson.Content, "<p>Hello</p>")
	assert.NotContains(t, lesson.Content, "script")
}

func TestListByCourseBranchesOnRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, models.UserRoleAdmin)
	learner := f.user(t, models.UserRoleLearner)
	course := f.course(t)
	second := f.lesson(t, course.ID, 2)
	first := f.lesson(t, course.ID, 1)

	_, err := f.lessons.ListByCourse(ctx, learner, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	views, err := f.lessons.ListByCourse(ctx, admin, course.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, first.ID, views[0].ID)
	assert.Nil(t, views[0].IsCompleted)

	_, err = f.enrollments.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)

	views, err = f.lessons.ListByCourse(ctx, learner, course.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		require.NotNil(t, v.IsCompleted)
		assert.False(t, *v.IsCompleted)
	}

	_, err = f.progress.MarkCompleted(ctx, learner.ID, course.ID, second.ID)
	require.NoError(t, err)

	views, err = f.lessons.ListByCourse(ctx, learner, course.ID)
	require.NoError(t, err)
	assert.False(t, *views[0].IsCompleted)
	assert.True(t, *views[1].IsCompleted)
}

func TestListByCourseMissingCourse(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, models.UserRoleAdmin)
	_, err := f.lessons.ListByCourse(context.Background(), admin, "aaaaaaaaaaaaaaaaaaaaaaaa")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestLessonUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t)
	lesson := f.lesson(t, course.ID, 1)

	_, err := f.store.Lessons().SetVideo(ctx, lesson.ID, "http://cdn.test/old.mp4", "lessons/old.mp4")
	require.NoError(t, err)

	url := "https://videos.example.com/intro"
	order := 5
	updated, err := f.lessons.Update(ctx, lesson.ID, LessonUpdate{VideoURL: &url, Order: &order})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Order)
	require.NotNil(t, updated.VideoURL)
	assert.Equal(t, url, *updated.VideoURL)
	assert.Nil(t, updated.VideoObjectKey)

	tasks := f.queue.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "lessons/old.mp4", tasks[0].Fields["objects"])

	require.NoError(t, f.lessons.Delete(ctx, lesson.ID))
	assert.ErrorIs(t, f.lessons.Delete(ctx, lesson.ID), ErrLessonNotFound)

	_, err = f.lessons.Update(ctx, lesson.ID, LessonUpdate{Order: &order})
	assert.ErrorIs(t, err, ErrLessonNotFound)
}
