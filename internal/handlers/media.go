package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lms/api/internal/media/sniffer"
	"lms/api/internal/service"
)

// multipartOverhead leaves room for part headers and boundaries on top of
// the configured file size limit.
const multipartOverhead = 1 << 20

func (h HandlerSet) UploadLessonVideo(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(c, service.ErrUploadTooLarge)
			return
		}
		writeMessage(c, http.StatusBadRequest, "body must have required property 'file'")
		return
	}
	defer file.Close()

	lesson, err := h.svc.Media.UploadLessonVideo(c.Request.Context(), service.VideoUploadInput{
		LessonID:     lessonID,
		File:         file,
		Size:         header.Size,
		DeclaredType: sniffer.MimeTypeFromHTTP(http.Header(header.Header)),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusOK, toLessonResponse(lesson))
}
