package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/api/internal/cache"
	"lms/api/internal/models"
	"lms/api/internal/repository/memstore"
	"lms/api/internal/security"
)

func newSeeder(store *memstore.Store) *Seeder {
	hasher := security.NewPasswordHasher(security.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	return New(Stores{
		Users:       store.Users(),
		Courses:     store.Courses(),
		Lessons:     store.Lessons(),
		Enrollments: store.Enrollments(),
		Progress:    store.Progress(),
	}, hasher, zerolog.Nop())
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	res, err := newSeeder(store).Run(ctx)
	require.NoError(t, err)
	require.Len(t, res.Users, 3)
	assert.Equal(t, models.UserRoleAdmin, res.Users[0].Role)
	assert.Len(t, res.Courses, 2)
	assert.Len(t, res.Lessons, 10)

	learner := res.Users[1]
	enrolled, err := store.Enrollments().Exists(ctx, learner.ID, res.Courses[0].ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	enrolled, err = store.Enrollments().Exists(ctx, res.Users[2].ID, res.Courses[1].ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	lessons, err := store.Lessons().ListByCourse(ctx, res.Courses[0].ID)
	require.NoError(t, err)
	ids := make([]string, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
	}
	done, err := store.Progress().CompletedLessonIDs(ctx, learner.ID, ids)
	require.NoError(t, err)
	assert.Len(t, done, 1)
	_, ok := done[lessons[0].ID]
	assert.True(t, ok)
}

func TestRunTwice(t *testing.T) {
	store := memstore.New()
	s := newSeeder(store)

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySeeded)
}

func TestDemoPasswordVerifies(t *testing.T) {
	store := memstore.New()
	s := newSeeder(store)
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	user, err := store.Users().GetByID(context.Background(), res.Users[0].ID)
	require.NoError(t, err)
	ok, err := s.hasher.Verify(DemoPassword, user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

type truncator struct {
	calls int
	err   error
}

func (r *truncator) Reset(context.Context) error {
	r.calls++
	return r.err
}

func TestResetFlushesCourseCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	catalog := cache.NewCourseCache(client, time.Minute)
	require.NoError(t, catalog.SetList(ctx, []models.Course{{ID: "507f1f77bcf86cd799439011", Title: "Stale"}}))
	require.NoError(t, catalog.Set(ctx, models.Course{ID: "507f1f77bcf86cd799439011", Title: "Stale"}))

	db := &truncator{}
	require.NoError(t, newSeeder(memstore.New()).Reset(ctx, db, catalog))
	assert.Equal(t, 1, db.calls)

	_, err := catalog.GetList(ctx)
	assert.ErrorIs(t, err, cache.ErrMiss)
	_, err = catalog.Get(ctx, "507f1f77bcf86cd799439011")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestResetKeepsCacheWhenTruncateFails(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	catalog := cache.NewCourseCache(client, time.Minute)
	require.NoError(t, catalog.SetList(ctx, []models.Course{{ID: "507f1f77bcf86cd799439011"}}))

	db := &truncator{err: errors.New("permission denied")}
	err := newSeeder(memstore.New()).Reset(ctx, db, catalog)
	assert.ErrorContains(t, err, "permission denied")

	_, err = catalog.GetList(ctx)
	assert.NoError(t, err)
}
