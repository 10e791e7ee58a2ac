// Package memstore keeps every collection in process memory. It mirrors the
// behaviour of the pgx repositories, including unique constraints and
// cascading deletes, and backs the service and HTTP tests.
package memstore

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"lms/api/internal/models"
	"lms/api/internal/repository"
)

type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	users       map[string]models.User
	tokens      map[string]models.RefreshToken
	courses     map[string]models.Course
	lessons     map[string]models.Lesson
	enrollments map[string]models.Enrollment
	progress    map[string]models.Progress
}

func New() *Store {
	return &Store{
		now:         time.Now,
		users:       make(map[string]models.User),
		tokens:      make(map[string]models.RefreshToken),
		courses:     make(map[string]models.Course),
		lessons:     make(map[string]models.Lesson),
		enrollments: make(map[string]models.Enrollment),
		progress:    make(map[string]models.Progress),
	}
}

func (s *Store) Users() *Users                 { return &Users{s} }
func (s *Store) RefreshTokens() *RefreshTokens { return &RefreshTokens{s} }
func (s *Store) Courses() *Courses             { return &Courses{s} }
func (s *Store) Lessons() *Lessons             { return &Lessons{s} }
func (s *Store) Enrollments() *Enrollments     { return &Enrollments{s} }
func (s *Store) Progress() *Progress           { return &Progress{s} }

// RefreshTokenCount reports how many refresh tokens are stored.
func (s *Store) RefreshTokenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, user models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return models.User{}, repository.ErrEmailTaken
		}
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = user
	return user, nil
}

func (r *Users) GetByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (r *Users) Update(_ context.Context, id string, patch models.UserPatch) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	if patch.Email != nil {
		for _, u := range r.s.users {
			if u.ID != id && u.Email == *patch.Email {
				return models.User{}, repository.ErrEmailTaken
			}
		}
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = patch.PasswordHash
	}
	user.UpdatedAt = r.s.now()
	r.s.users[id] = user
	return user, nil
}

type RefreshTokens struct{ s *Store }

func (r *RefreshTokens) Create(_ context.Context, token models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	token.CreatedAt = r.s.now()
	r.s.tokens[token.ID] = token
	return nil
}

func (r *RefreshTokens) Consume(_ context.Context, tokenHash []byte) (models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, t := range r.s.tokens {
		if bytes.Equal(t.TokenHash, tokenHash) {
			delete(r.s.tokens, id)
			return t, nil
		}
	}
	return models.RefreshToken{}, repository.ErrRefreshTokenNotFound
}

func (r *RefreshTokens) DeleteByHash(_ context.Context, tokenHash []byte) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, t := range r.s.tokens {
		if bytes.Equal(t.TokenHash, tokenHash) {
			delete(r.s.tokens, id)
		}
	}
	return nil
}

func (r *RefreshTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.tokens {
		if t.Expired(now) {
			delete(r.s.tokens, id)
			n++
		}
	}
	return n, nil
}

type Courses struct{ s *Store }

func (r *Courses) Create(_ context.Context, course models.Course) (models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	course.CreatedAt, course.UpdatedAt = now, now
	r.s.courses[course.ID] = course
	return course, nil
}

func (r *Courses) List(_ context.Context) ([]models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Course, 0, len(r.s.courses))
	for _, c := range r.s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *Courses) GetByID(_ context.Context, id string) (models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	course, ok := r.s.courses[id]
	if !ok {
		return models.Course{}, repository.ErrCourseNotFound
	}
	return course, nil
}

func (r *Courses) Update(_ context.Context, id string, patch models.CoursePatch) (models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	course, ok := r.s.courses[id]
	if !ok {
		return models.Course{}, repository.ErrCourseNotFound
	}
	if patch.Title != nil {
		course.Title = *patch.Title
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	course.UpdatedAt = r.s.now()
	r.s.courses[id] = course
	return course, nil
}

func (r *Courses) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[id]; !ok {
		return repository.ErrCourseNotFound
	}
	delete(r.s.courses, id)
	for lid, l := range r.s.lessons {
		if l.CourseID == id {
			r.s.deleteLessonLocked(lid)
		}
	}
	for eid, e := range r.s.enrollments {
		if e.CourseID == id {
			delete(r.s.enrollments, eid)
		}
	}
	return nil
}

type Lessons struct{ s *Store }

func (r *Lessons) Create(_ context.Context, lesson models.Lesson) (models.Lesson, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[lesson.CourseID]; !ok {
		return models.Lesson{}, repository.ErrCourseNotFound
	}
	now := r.s.now()
	lesson.CreatedAt, lesson.UpdatedAt = now, now
	lesson.VideoObjectKey = nil
	r.s.lessons[lesson.ID] = lesson
	return lesson, nil
}

func (r *Lessons) GetByID(_ context.Context, id string) (models.Lesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	lesson, ok := r.s.lessons[id]
	if !ok {
		return models.Lesson{}, repository.ErrLessonNotFound
	}
	return lesson, nil
}

func (r *Lessons) ListByCourse(_ context.Context, courseID string) ([]models.Lesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Lesson{}
	for _, l := range r.s.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Lessons) Update(_ context.Context, id string, patch models.LessonPatch) (models.Lesson, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lesson, ok := r.s.lessons[id]
	if !ok {
		return models.Lesson{}, repository.ErrLessonNotFound
	}
	if patch.Title != nil {
		lesson.Title = *patch.Title
	}
	if patch.Content != nil {
		lesson.Content = *patch.Content
	}
	if patch.Order != nil {
		lesson.Order = *patch.Order
	}
	if patch.VideoURL != nil {
		url := *patch.VideoURL
		lesson.VideoURL = &url
		lesson.VideoObjectKey = nil
	}
	lesson.UpdatedAt = r.s.now()
	r.s.lessons[id] = lesson
	return lesson, nil
}

func (r *Lessons) SetVideo(_ context.Context, id string, videoURL string, objectKey string) (models.Lesson, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lesson, ok := r.s.lessons[id]
	if !ok {
		return models.Lesson{}, repository.ErrLessonNotFound
	}
	lesson.VideoURL = &videoURL
	lesson.VideoObjectKey = &objectKey
	lesson.UpdatedAt = r.s.now()
	r.s.lessons[id] = lesson
	return lesson, nil
}

func (r *Lessons) Delete(_ context.Context, id string) (models.Lesson, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lesson, ok := r.s.lessons[id]
	if !ok {
		return models.Lesson{}, repository.ErrLessonNotFound
	}
	r.s.deleteLessonLocked(id)
	return lesson, nil
}

func (r *Lessons) VideoObjectKeys(_ context.Context, courseID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var keys []string
	for _, l := range r.s.lessons {
		if l.CourseID == courseID && l.VideoObjectKey != nil {
			keys = append(keys, *l.VideoObjectKey)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) deleteLessonLocked(id string) {
	delete(s.lessons, id)
	for pid, p := range s.progress {
		if p.LessonID == id {
			delete(s.progress, pid)
		}
	}
}

type Enrollments struct{ s *Store }

func (r *Enrollments) Create(_ context.Context, enrollment models.Enrollment) (models.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.enrollments {
		if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID {
			return models.Enrollment{}, repository.ErrEnrollmentExists
		}
	}
	enrollment.EnrolledAt = r.s.now()
	r.s.enrollments[enrollment.ID] = enrollment
	return enrollment, nil
}

func (r *Enrollments) Exists(_ context.Context, userID string, courseID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Enrollments) ListByUser(_ context.Context, userID string) ([]models.EnrollmentWithCourse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.EnrollmentWithCourse{}
	for _, e := range r.s.enrollments {
		if e.UserID != userID {
			continue
		}
		course, ok := r.s.courses[e.CourseID]
		if !ok {
			continue
		}
		out = append(out, models.EnrollmentWithCourse{Enrollment: e, Course: course})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EnrolledAt.Equal(out[j].EnrolledAt) {
			return out[i].EnrolledAt.After(out[j].EnrolledAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *Enrollments) ListByCourse(_ context.Context, courseID string, limit, offset int) ([]models.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := []models.Enrollment{}
	for _, e := range r.s.enrollments {
		if e.CourseID == courseID {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].EnrolledAt.Equal(all[j].EnrolledAt) {
			return all[i].EnrolledAt.Before(all[j].EnrolledAt)
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return []models.Enrollment{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type Progress struct{ s *Store }

func (r *Progress) Create(_ context.Context, progress models.Progress) (models.Progress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.progress {
		if p.UserID == progress.UserID && p.LessonID == progress.LessonID {
			return models.Progress{}, repository.ErrProgressExists
		}
	}
	progress.CompletedAt = r.s.now()
	r.s.progress[progress.ID] = progress
	return progress, nil
}

func (r *Progress) CompletedLessonIDs(_ context.Context, userID string, lessonIDs []string) (map[string]struct{}, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(lessonIDs))
	for _, id := range lessonIDs {
		wanted[id] = struct{}{}
	}
	completed := make(map[string]struct{})
	for _, p := range r.s.progress {
		if p.UserID != userID {
			continue
		}
		if _, ok := wanted[p.LessonID]; ok {
			completed[p.LessonID] = struct{}{}
		}
	}
	return completed, nil
}
