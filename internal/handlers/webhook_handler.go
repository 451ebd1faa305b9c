package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voltalia/goom-relay/internal/middleware"
	"github.com/voltalia/goom-relay/internal/models"
	"github.com/voltalia/goom-relay/internal/services"
	apperrors "github.com/voltalia/goom-relay/pkg/errors"
	"github.com/voltalia/goom-relay/pkg/logger"
	"go.uber.org/zap"
)

const internalErrorMessage = "Erreur interne du serveur"

type WebhookHandler struct {
	service        services.WebhookServiceInterface
	goomConfigured bool
	exposeDetails  bool
}

// NewWebhookHandler builds the Airtable webhook handler. exposeDetails controls
// whether parse errors are echoed back to the caller.
func NewWebhookHandler(service services.WebhookServiceInterface, goomConfigured, exposeDetails bool) *WebhookHandler {
	return &WebhookHandler{
		service:        service,
		goomConfigured: goomConfigured,
		exposeDetails:  exposeDetails,
	}
}

// HandleAirtableWebhook relays signed-contract notifications to Goom.
// Forward failures are part of the 200 body; only a missing gateway token,
// an unreadable body or a panic produce an error status.
func (h *WebhookHandler) HandleAirtableWebhook(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Webhook processing panicked", zap.Any("panic", r))
			respondErrorWithDetails(c, http.StatusInternalServerError, internalErrorMessage,
				fmt.Sprint(r), apperrors.InternalError(fmt.Sprintf("webhook panic: %v", r)))
		}
	}()

	logger.Info("Airtable webhook received", zap.String("request_id", c.GetString(middleware.RequestIDKey)))

	if !h.goomConfigured {
		logger.Error("GOOM_GATEWAY_TOKEN not configured")
		respondError(c, http.StatusInternalServerError, "Configuration manquante: GOOM_GATEWAY_TOKEN",
			apperrors.ConfigMissingError("GOOM_GATEWAY_TOKEN"))
		return
	}

	notification, err := readNotification(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "Payload trop volumineux", err)
			return
		}
		if h.exposeDetails {
			respondErrorWithDetails(c, http.StatusInternalServerError, internalErrorMessage, err.Error(), err)
			return
		}
		respondError(c, http.StatusInternalServerError, internalErrorMessage, err)
		return
	}

	logger.Debug("Airtable webhook body", zap.Any("body", notification))

	// Forwards outlive an inbound disconnect; only their own timeout applies
	ctx := context.WithoutCancel(c.Request.Context())
	outcome := h.service.ProcessNotification(ctx, notification)

	c.JSON(http.StatusOK, outcome.Body())
}

// readNotification decodes the request body. An empty body or a JSON value
// that is not an object is treated as an empty notification.
func readNotification(body io.Reader) (models.InboundNotification, error) {
	if body == nil {
		return models.InboundNotification{}, nil
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.InboundNotification{}, nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, apperrors.InvalidInputError("body", err.Error())
	}

	object, ok := decoded.(map[string]any)
	if !ok {
		return models.InboundNotification{}, nil
	}
	return models.InboundNotification(object), nil
}
