package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voltalia/goom-relay/internal/models"
)

// isoMillis renders UTC timestamps with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

type HealthHandler struct {
	goomConfigured bool
	now            func() time.Time
}

func NewHealthHandler(goomConfigured bool) *HealthHandler {
	return &HealthHandler{
		goomConfigured: goomConfigured,
		now:            time.Now,
	}
}

// Healthcheck always answers 200; goomConfigured tells whether forwards can succeed.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:         "OK",
		Timestamp:      h.now().UTC().Format(isoMillis),
		GoomConfigured: h.goomConfigured,
	})
}
