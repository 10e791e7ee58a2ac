package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"lms/api/internal/metrics"
)

// Metrics records every request under its route template, so /api/lessons/:id
// is one series regardless of the id.
func Metrics(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
