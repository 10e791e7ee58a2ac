// Package seed fills an empty database with demo accounts and courses.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"lms/api/internal/ids"
	"lms/api/internal/models"
	"lms/api/internal/repository"
	"lms/api/internal/security"
	"lms/api/internal/service"
)

const DemoPassword = "password"

// ErrAlreadySeeded is returned when the demo admin already exists.
var ErrAlreadySeeded = errors.New("database already seeded")

type demoUser struct {
	name  string
	email string
	role  models.UserRole
}

var demoUsers = []demoUser{
	{"Admin User", "admin@example.com", models.UserRoleAdmin},
	{"Learner 1", "learner@example.com", models.UserRoleLearner},
	{"Learner 2", "learner2@example.com", models.UserRoleLearner},
}

type demoLesson struct {
	title    string
	content  string
	videoURL string
}

type demoCourse struct {
	title       string
	description string
	lessons     []demoLesson
}

var demoCourses = []demoCourse{
	{
		title:       "PostgreSQL Fundamentals",
		description: "Learn the basics of PostgreSQL",
		lessons: []demoLesson{
			{"Introduction to PostgreSQL", "Intro content...", "https://video.example.com/pg1"},
			{"CRUD Operations", "CRUD content...", "https://video.example.com/pg2"},
			{"Indexes and Query Plans", "Index content...", "https://video.example.com/pg3"},
			{"Schema Design", "Schema content...", "https://video.example.com/pg4"},
			{"Performance Tuning", "Performance content...", "https://video.example.com/pg5"},
		},
	},
	{
		title:       "Advanced Go",
		description: "Deep dive into the Go runtime",
		lessons: []demoLesson{
			{"The Scheduler", "Scheduler content...", "https://video.example.com/go1"},
			{"Channels and Select", "Channels content...", "https://video.example.com/go2"},
			{"Memory and the GC", "GC content...", "https://video.example.com/go3"},
			{"Profiling with pprof", "Profiling content...", "https://video.example.com/go4"},
			{"Building Services", "Services content...", "https://video.example.com/go5"},
		},
	},
}

// Resetter empties every table.
type Resetter interface {
	Reset(ctx context.Context) error
}

// CatalogCache is the course cache a running API reads through.
type CatalogCache interface {
	Flush(ctx context.Context) error
}

type Stores struct {
	Users       service.UserStore
	Courses     service.CourseStore
	Lessons     service.LessonStore
	Enrollments service.EnrollmentStore
	Progress    service.ProgressStore
}

// Result lists what was created, in insertion order.
type Result struct {
	Users   []models.User
	Courses []models.Course
	Lessons []models.Lesson
}

type Seeder struct {
	stores Stores
	hasher *security.PasswordHasher
	log    zerolog.Logger
}

func New(stores Stores, hasher *security.PasswordHasher, log zerolog.Logger) *Seeder {
	return &Seeder{stores: stores, hasher: hasher, log: log}
}

// Reset truncates the database and then drops the cached catalog, so a
// running API stops serving the deleted courses. A nil cache is skipped.
func (s *Seeder) Reset(ctx context.Context, db Resetter, catalog CatalogCache) error {
	if err := db.Reset(ctx); err != nil {
		return fmt.Errorf("reset database: %w", err)
	}
	if catalog == nil {
		return nil
	}
	if err := catalog.Flush(ctx); err != nil {
		return fmt.Errorf("flush course cache: %w", err)
	}
	return nil
}

// Run inserts the demo data set. The first learner is enrolled in the first
// course and has completed its first lesson; the second learner is enrolled
// in the second course.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	if _, err := s.stores.Users.FindByEmail(ctx, demoUsers[0].email); err == nil {
		return res, ErrAlreadySeeded
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return res, err
	}

	hash, err := s.hasher.Hash(DemoPassword)
	if err != nil {
		return res, err
	}

	s.log.Info().Msg("seeding users")
	for _, u := range demoUsers {
		user, err := s.stores.Users.Create(ctx, models.User{
			ID:           ids.New(),
			Name:         u.name,
			Email:        u.email,
			PasswordHash: hash,
			Role:         u.role,
		})
		if err != nil {
			return res, fmt.Errorf("create user %s: %w", u.email, err)
		}
		res.Users = append(res.Users, user)
	}

	s.log.Info().Msg("seeding courses and lessons")
	firstLessons := make([]models.Lesson, 0, len(demoCourses))
	for _, c := range demoCourses {
		course, err := s.stores.Courses.Create(ctx, models.Course{
			ID:          ids.New(),
			Title:       c.title,
			Description: c.description,
		})
		if err != nil {
			return res, fmt.Errorf("create course %q: %w", c.title, err)
		}
		res.Courses = append(res.Courses, course)

		for i, l := range c.lessons {
			videoURL := l.videoURL
			lesson, err := s.stores.Lessons.Create(ctx, models.Lesson{
				ID:       ids.New(),
				CourseID: course.ID,
				Title:    l.title,
				Content:  l.content,
				Order:    i + 1,
				VideoURL: &videoURL,
			})
			if err != nil {
				return res, fmt.Errorf("create lesson %q: %w", l.title, err)
			}
			res.Lessons = append(res.Lessons, lesson)
			if i == 0 {
				firstLessons = append(firstLessons, lesson)
			}
		}
	}

	s.log.Info().Msg("seeding enrollments and progress")
	learners := res.Users[1:]
	for i, learner := range learners {
		if _, err := s.stores.Enrollments.Create(ctx, models.Enrollment{
			ID:       ids.New(),
			UserID:   learner.ID,
			CourseID: res.Courses[i].ID,
		}); err != nil {
			return res, fmt.Errorf("enroll %s: %w", learner.Email, err)
		}
	}

	if _, err := s.stores.Progress.Create(ctx, models.Progress{
		ID:       ids.New(),
		UserID:   learners[0].ID,
		LessonID: firstLessons[0].ID,
	}); err != nil {
		return res, fmt.Errorf("record progress: %w", err)
	}

	return res, nil
}
