package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lms/api/internal/service"
)

type createCourseRequest struct {
	Title       string  `json:"title" binding:"required,min=1"`
	Description *string `json:"description" binding:"required"`
}

type updateCourseRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

func (h HandlerSet) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.svc.Courses.Create(c.Request.Context(), service.CourseInput{
		Title:       req.Title,
		Description: *req.Description,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusCreated, toCourseResponse(course))
}

func (h HandlerSet) ListCourses(c *gin.Context) {
	courses, err := h.svc.Courses.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, toCourseResponse(course))
	}
	writeData(c, http.StatusOK, items)
}

func (h HandlerSet) GetCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	course, err := h.svc.Courses.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusOK, toCourseResponse(course))
}

func (h HandlerSet) UpdateCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.svc.Courses.Update(c.Request.Context(), id, service.CourseUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusOK, toCourseResponse(course))
}

func (h HandlerSet) DeleteCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Courses.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	writeMessage(c, http.StatusOK, "Deleted successfully")
}
