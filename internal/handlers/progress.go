package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lms/api/internal/ids"
	"lms/api/internal/middleware"
)

type markCompletedRequest struct {
	CourseID string `json:"courseId" binding:"required,objectid"`
	LessonID string `json:"lessonId" binding:"required,objectid"`
}

func (h HandlerSet) MarkCompleted(c *gin.Context) {
	var req markCompletedRequest
	if !bindJSON(c, &req) {
		return
	}
	user, _ := middleware.CurrentUser(c)

	progress, err := h.svc.Progress.MarkCompleted(c.Request.Context(), user.ID, ids.Normalize(req.CourseID), ids.Normalize(req.LessonID))
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusCreated, toProgressResponse(progress))
}
