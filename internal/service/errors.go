package service

import "errors"

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrUserNotFound         = errors.New("user not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrAlreadyEnrolled      = errors.New("already enrolled")
	ErrNotEnrolled          = errors.New("not enrolled in this course")
	ErrAlreadyCompleted     = errors.New("already completed")
	ErrLessonCourseMismatch = errors.New("lesson does not belong to this course")
	ErrUnsupportedMedia     = errors.New("unsupported media type")
	ErrMediaTypeMismatch    = errors.New("declared content type does not match file")
	ErrEmptyUpload          = errors.New("empty file")
	ErrUploadTooLarge       = errors.New("file too large")
)
