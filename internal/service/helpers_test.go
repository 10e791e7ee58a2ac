package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"lms/api/internal/cache"
	"lms/api/internal/content"
	"lms/api/internal/ids"
	"lms/api/internal/jobs"
	"lms/api/internal/models"
	"lms/api/internal/repository/memstore"
	"lms/api/internal/security"
)

var fastArgon2 = security.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type recordingQueue struct {
	mu    sync.Mutex
	tasks []jobs.Task
}

func (q *recordingQueue) Publish(_ context.Context, task jobs.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *recordingQueue) Tasks() []jobs.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]jobs.Task(nil), q.tasks...)
}

type memObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: make(map[string][]byte)}
}

func (s *memObjectStore) Bucket() string { return "lesson-videos" }

func (s *memObjectStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (int64, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = buf.Bytes()
	return n, nil
}

func (s *memObjectStore) PublicURL(key string) string {
	return "http://cdn.test/lesson-videos/" + key
}

type fixture struct {
	store  *memstore.Store
	queue  *recordingQueue
	issuer *security.TokenIssuer
	hasher *security.PasswordHasher

	auth        *AuthService
	courses     *CourseService
	lessons     *LessonService
	enrollments *EnrollmentService
	progress    *ProgressService
	media       *MediaService
	objects     *memObjectStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zerolog.Nop()
	store := memstore.New()
	queue := &recordingQueue{}
	objects := newMemObjectStore()
	issuer := security.NewTokenIssuer(security.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	hasher := security.NewPasswordHasher(fastArgon2)

	return &fixture{
		store:   store,
		queue:   queue,
		issuer:  issuer,
		hasher:  hasher,
		objects: objects,
		auth:    NewAuthService(store.Users(), store.RefreshTokens(), issuer, hasher, nil, log),
		courses: NewCourseService(store.Courses(), store.Lessons(),
			cache.NewCourseCache(client, time.Minute), queue, objects.Bucket(), log),
		lessons: NewLessonService(store.Courses(), store.Lessons(), store.Enrollments(), store.Progress(),
			content.NewSanitizer(), queue, objects.Bucket(), log),
		enrollments: NewEnrollmentService(store.Courses(), store.Enrollments(), nil),
		progress:    NewProgressService(store.Lessons(), store.Enrollments(), store.Progress(), nil),
		media:       NewMediaService(store.Lessons(), objects, queue, 1<<20, nil, log),
	}
}

func (f *fixture) user(t *testing.T, role models.UserRole) models.User {
	t.Helper()
	hash, err := f.hasher.Hash("password")
	require.NoError(t, err)
	id := ids.New()
	user, err := f.store.Users().Create(context.Background(), models.User{
		ID:           id,
		Name:         string(role),
		Email:        id + "@example.com",
		PasswordHash: hash,
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) course(t *testing.T) models.Course {
	t.Helper()
	course, err := f.courses.Create(context.Background(), CourseInput{Title: "Go in practice", Description: "Idioms"})
	require.NoError(t, err)
	return course
}

func (f *fixture) lesson(t *testing.T, courseID string, order int) models.Lesson {
	t.Helper()
	lesson, err := f.lessons.Create(context.Background(), courseID, LessonInput{
		Title:   "Lesson",
		Content: "<p>body</p>",
		Order:   &order,
	})
	require.NoError(t, err)
	return lesson
}
