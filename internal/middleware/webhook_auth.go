package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voltalia/goom-relay/pkg/errors"
	"github.com/voltalia/goom-relay/pkg/logger"
	"go.uber.org/zap"
)

// AirtableSecretHeader carries the shared secret configured on the Airtable automation.
const AirtableSecretHeader = "x-airtable-webhook-secret"

// WebhookSecretMiddleware rejects notifications whose shared secret header
// does not exactly match secret. An empty secret disables the check.
func WebhookSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		received := c.GetHeader(AirtableSecretHeader)
		if subtle.ConstantTimeCompare([]byte(received), []byte(secret)) != 1 {
			logger.Warn("Invalid Airtable webhook secret",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Bool("header_present", received != ""),
			)
			_ = c.Error(errors.UnauthorizedError("airtable webhook secret mismatch")) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
			return
		}

		c.Next()
	}
}
