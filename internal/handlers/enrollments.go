package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lms/api/internal/ids"
	"lms/api/internal/middleware"
	"lms/api/internal/service"
)

type enrollRequest struct {
	CourseID string `json:"courseId" binding:"required,objectid"`
}

func (h HandlerSet) Enroll(c *gin.Context) {
	var req enrollRequest
	if !bindJSON(c, &req) {
		return
	}
	user, _ := middleware.CurrentUser(c)

	enrollment, err := h.svc.Enrollments.Enroll(c.Request.Context(), user.ID, ids.Normalize(req.CourseID))
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusCreated, toEnrollmentResponse(enrollment))
}

func (h HandlerSet) MyEnrollments(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	enrollments, err := h.svc.Enrollments.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]enrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		items = append(items, toEnrollmentResponse(e))
	}
	writeData(c, http.StatusOK, items)
}

// CourseRoster lists a course's enrollments for admins, paged with
// ?page=&perPage=.
func (h HandlerSet) CourseRoster(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var page service.Page
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		page.Page = v
	}
	if v, err := strconv.Atoi(c.Query("perPage")); err == nil {
		page.PerPage = v
	}

	enrollments, page, err := h.svc.Enrollments.Roster(c.Request.Context(), courseID, page)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]rosterEntryResponse, 0, len(enrollments))
	for _, e := range enrollments {
		items = append(items, rosterEntryResponse{
			ID:         e.ID,
			User:       e.UserID,
			Course:     e.CourseID,
			EnrolledAt: e.EnrolledAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    items,
		"page":    page.Page,
		"perPage": page.PerPage,
	})
}
