package services

import (
	"context"

	"github.com/voltalia/goom-relay/internal/models"
)

// Forwarder delivers one e-mail to the validation gateway.
// Implementations never fail: problems are reported inside the result.
type Forwarder interface {
	Forward(ctx context.Context, email string) models.ForwardResult
}

// WebhookServiceInterface defines the interface for webhook business logic operations.
type WebhookServiceInterface interface {
	ProcessNotification(ctx context.Context, notification models.InboundNotification) *models.WebhookOutcome
	ForwardEmail(ctx context.Context, email string) models.ForwardResult
}
