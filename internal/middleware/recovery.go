package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/voltalia/goom-relay/pkg/logger"
	"go.uber.org/zap"
)

// Recovery turns panics escaping the handlers into a 500 JSON response.
// The panic message is only exposed when exposeDetails is set (non-production).
func Recovery(exposeDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}

			logger.Error("Unhandled error",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)

			body := gin.H{"error": "Erreur interne du serveur"}
			if exposeDetails {
				body["details"] = fmt.Sprint(r)
			}
			_ = c.Error(fmt.Errorf("panic: %v", r)) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		}()
		c.Next()
	}
}
