package services

import (
	"context"

	"github.com/voltalia/goom-relay/internal/models"
	"github.com/voltalia/goom-relay/pkg/logger"
	"github.com/voltalia/goom-relay/pkg/metrics"
	"github.com/voltalia/goom-relay/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type WebhookService struct {
	forwarder Forwarder
}

func NewWebhookService(forwarder Forwarder) WebhookServiceInterface {
	return &WebhookService{forwarder: forwarder}
}

// ProcessNotification normalizes the notification and forwards every
// extracted e-mail. Record forwards run one after another so results keep
// the input order and the gateway sees at most one call per notification at
// a time.
func (s *WebhookService) ProcessNotification(ctx context.Context, notification models.InboundNotification) *models.WebhookOutcome {
	ctx, span := tracing.StartSpan(ctx, "webhook.process")
	defer span.End()

	normalized := NormalizePayload(notification)
	metrics.WebhookNotifications.WithLabelValues(string(normalized.Kind)).Inc()
	span.SetAttributes(
		attribute.String("webhook.kind", string(normalized.Kind)),
		attribute.Int("webhook.targets", len(normalized.Targets)),
	)

	if normalized.Kind == models.PayloadDirectEmail {
		email := normalized.Targets[0].Email
		logger.Info("Scripted Airtable payload detected", zap.String("email", email))

		return &models.WebhookOutcome{
			Kind: models.PayloadDirectEmail,
			Direct: &models.DirectEmailResponse{
				Message:    models.WebhookProcessedMessage,
				Email:      email,
				GoomResult: s.forwarder.Forward(ctx, email),
			},
		}
	}

	if normalized.Skipped > 0 {
		metrics.WebhookRecords.WithLabelValues("skipped").Add(float64(normalized.Skipped))
		logger.Info("Records without signed contract ignored", zap.Int("count", normalized.Skipped))
	}

	results := make([]models.RecordResult, 0, len(normalized.Targets))
	for _, target := range normalized.Targets {
		if !target.HasEmail() {
			logger.Warn("Signed contract without email", zap.String("record_id", target.RecordID))
			metrics.WebhookRecords.WithLabelValues("missing_email").Inc()
			results = append(results, models.RecordResult{
				RecordID: target.RecordID,
				Error:    target.Error,
			})
			continue
		}

		logger.Info("Signed contract detected",
			zap.String("record_id", target.RecordID),
			zap.String("email", target.Email))
		metrics.WebhookRecords.WithLabelValues("forwarded").Inc()

		result := s.forwarder.Forward(ctx, target.Email)
		results = append(results, models.RecordResult{
			RecordID:   target.RecordID,
			Email:      target.Email,
			GoomResult: &result,
		})
	}

	return &models.WebhookOutcome{
		Kind: models.PayloadRecordChangeSet,
		Batch: &models.RecordBatchResponse{
			Message:          models.WebhookProcessedMessage,
			ProcessedRecords: len(results),
			Results:          results,
		},
	}
}

// ForwardEmail forwards a single e-mail outside of any notification.
func (s *WebhookService) ForwardEmail(ctx context.Context, email string) models.ForwardResult {
	return s.forwarder.Forward(ctx, email)
}
