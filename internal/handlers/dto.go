package handlers

import (
	"time"

	"lms/api/internal/models"
	"lms/api/internal/service"
)

// Response shapes keep the field names API clients already use, including
// the "_id" key for identifiers.

type userResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type authResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         userResponse `json:"user"`
}

func toAuthResponse(r service.AuthResult) authResponse {
	return authResponse{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		User:         toUserResponse(r.User),
	}
}

type courseResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCourseResponse(c models.Course) courseResponse {
	return courseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type lessonResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Course      string    `json:"course"`
	Order       int       `json:"order"`
	VideoURL    *string   `json:"videoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	IsCompleted *bool     `json:"isCompleted,omitempty"`
}

func toLessonResponse(l models.Lesson) lessonResponse {
	return lessonResponse{
		ID:        l.ID,
		Title:     l.Title,
		Content:   l.Content,
		Course:    l.CourseID,
		Order:     l.Order,
		VideoURL:  l.VideoURL,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

type enrollmentResponse struct {
	ID         string         `json:"_id"`
	User       string         `json:"user"`
	Course     courseResponse `json:"course"`
	EnrolledAt time.Time      `json:"enrolledAt"`
}

func toEnrollmentResponse(e models.EnrollmentWithCourse) enrollmentResponse {
	return enrollmentResponse{
		ID:         e.ID,
		User:       e.UserID,
		Course:     toCourseResponse(e.Course),
		EnrolledAt: e.EnrolledAt,
	}
}

type rosterEntryResponse struct {
	ID         string    `json:"_id"`
	User       string    `json:"user"`
	Course     string    `json:"course"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

type progressResponse struct {
	ID          string    `json:"_id"`
	User        string    `json:"user"`
	Lesson      string    `json:"lesson"`
	CompletedAt time.Time `json:"completedAt"`
}

func toProgressResponse(p models.Progress) progressResponse {
	return progressResponse{
		ID:          p.ID,
		User:        p.UserID,
		Lesson:      p.LessonID,
		CompletedAt: p.CompletedAt,
	}
}
