package models

import "time"

type Course struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Lesson struct {
	ID       string
	CourseID string
	Title    string
	Content  string
	Order    int
	VideoURL *string
	// VideoObjectKey is set only when the video was uploaded through the API
	// and lives in the lesson video bucket.
	VideoObjectKey *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Enrollment struct {
	ID         string
	UserID     string
	CourseID   string
	EnrolledAt time.Time
}

// EnrollmentWithCourse is an enrollment joined with its course.
type EnrollmentWithCourse struct {
	Enrollment
	Course Course
}

type Progress struct {
	ID          string
	UserID      string
	LessonID    string
	CompletedAt time.Time
}
