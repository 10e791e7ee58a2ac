package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) Healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type healthResponse struct {
	Status      string            `json:"status"`
	Checks      map[string]string `json:"checks"`
	Environment string            `json:"environment"`
}

// Health pings every backing dependency. It answers 503 when any is down.
func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:      "ok",
		Checks:      make(map[string]string, len(h.probes)),
		Environment: h.environment,
	}
	for _, p := range h.probes {
		if err := p.Check(ctx); err != nil {
			h.log.Error().Err(err).Str("dependency", p.Name).Msg("health probe failed")
			resp.Checks[p.Name] = "error"
			resp.Status = "degraded"
			continue
		}
		resp.Checks[p.Name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
