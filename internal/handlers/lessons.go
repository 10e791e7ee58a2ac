package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lms/api/internal/middleware"
	"lms/api/internal/service"
)

type createLessonRequest struct {
	Title    string  `json:"title" binding:"required,min=1"`
	Content  *string `json:"content" binding:"required"`
	Order    *int    `json:"order"`
	VideoURL *string `json:"videoUrl"`
}

type updateLessonRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1"`
	Content  *string `json:"content"`
	Order    *int    `json:"order"`
	VideoURL *string `json:"videoUrl"`
}

func (h HandlerSet) CreateLesson(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createLessonRequest
	if !bindJSON(c, &req) {
		return
	}

	lesson, err := h.svc.Lessons.Create(c.Request.Context(), courseID, service.LessonInput{
		Title:    req.Title,
		Content:  *req.Content,
		Order:    req.Order,
		VideoURL: req.VideoURL,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusCreated, toLessonResponse(lesson))
}

func (h HandlerSet) ListLessons(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	views, err := h.svc.Lessons.ListByCourse(c.Request.Context(), user, courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]lessonResponse, 0, len(views))
	for _, v := range views {
		item := toLessonResponse(v.Lesson)
		item.IsCompleted = v.IsCompleted
		items = append(items, item)
	}
	writeData(c, http.StatusOK, items)
}

func (h HandlerSet) UpdateLesson(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateLessonRequest
	if !bindJSON(c, &req) {
		return
	}

	lesson, err := h.svc.Lessons.Update(c.Request.Context(), id, service.LessonUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Order:    req.Order,
		VideoURL: req.VideoURL,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusOK, toLessonResponse(lesson))
}

func (h HandlerSet) DeleteLesson(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Lessons.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	writeMessage(c, http.StatusOK, "Lesson deleted")
}
