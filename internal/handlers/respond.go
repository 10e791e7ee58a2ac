package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lms/api/internal/ids"
	"lms/api/internal/security"
	"lms/api/internal/service"
)

func writeData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func writeMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrEmailTaken, http.StatusConflict, "Email already registered"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{service.ErrInvalidRefreshToken, http.StatusUnauthorized, "Invalid or expired refresh token"},
	{security.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrCourseNotFound, http.StatusNotFound, "Course not found"},
	{service.ErrLessonNotFound, http.StatusNotFound, "Lesson not found"},
	{service.ErrAlreadyEnrolled, http.StatusBadRequest, "Already enrolled"},
	{service.ErrNotEnrolled, http.StatusForbidden, "Not enrolled in this course"},
	{service.ErrAlreadyCompleted, http.StatusBadRequest, "Already completed"},
	{service.ErrLessonCourseMismatch, http.StatusBadRequest, "Lesson does not belong to this course"},
	{service.ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "Unsupported video format"},
	{service.ErrMediaTypeMismatch, http.StatusBadRequest, "Declared content type does not match file"},
	{service.ErrEmptyUpload, http.StatusBadRequest, "File is empty"},
	{service.ErrUploadTooLarge, http.StatusRequestEntityTooLarge, "File too large"},
}

// writeError is the single place where errors become HTTP responses.
// Anything unrecognised is a 500 carrying the error text.
func (h HandlerSet) writeError(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			writeMessage(c, e.status, e.message)
			return
		}
	}

	_ = c.Error(err)
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	writeMessage(c, http.StatusInternalServerError, err.Error())
}

// pathID reads and checks an identifier path parameter.
func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if !ids.Valid(id) {
		writeMessage(c, http.StatusBadRequest, "params/"+name+" must match pattern \""+objectIDPattern+"\"")
		return "", false
	}
	return ids.Normalize(id), true
}

// bindJSON decodes and validates the body, answering 400 on failure.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		writeMessage(c, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}
