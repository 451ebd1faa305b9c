package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voltalia/goom-relay/internal/models"
	"github.com/voltalia/goom-relay/internal/services"
)

// GoomTestHandler lets an operator trigger a single forward by hand.
type GoomTestHandler struct {
	service services.WebhookServiceInterface
}

func NewGoomTestHandler(service services.WebhookServiceInterface) *GoomTestHandler {
	return &GoomTestHandler{service: service}
}

// TestForward forwards {email} and returns the raw ForwardResult.
func (h *GoomTestHandler) TestForward(c *gin.Context) {
	var req models.TestForwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := ParseValidationErrors(err); len(details) > 0 {
			respondErrorWithDetails(c, http.StatusBadRequest, "Email requis", details, err)
			return
		}
		respondError(c, http.StatusBadRequest, "Email requis", err)
		return
	}

	result := h.service.ForwardEmail(context.WithoutCancel(c.Request.Context()), req.Email)
	c.JSON(http.StatusOK, result)
}
