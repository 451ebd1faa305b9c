package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/voltalia/goom-relay/config"
	"github.com/voltalia/goom-relay/internal/handlers"
	"github.com/voltalia/goom-relay/internal/middleware"
	"github.com/voltalia/goom-relay/internal/services"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// WebhookPath is where Airtable automations post notifications.
const WebhookPath = "/webhook/airtable"

// New wires middleware and routes around the webhook service.
func New(cfg *config.Config, webhookService services.WebhookServiceInterface) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(!cfg.IsProduction()))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	webhookHandler := handlers.NewWebhookHandler(webhookService, cfg.GoomConfigured(), !cfg.IsProduction())
	goomTestHandler := handlers.NewGoomTestHandler(webhookService)
	healthHandler := handlers.NewHealthHandler(cfg.GoomConfigured())

	bodyLimit := middleware.BodySizeLimitMiddleware(cfg.Server.MaxBodyBytes)

	router.POST(WebhookPath, middleware.WebhookSecretMiddleware(cfg.Airtable.WebhookSecret), bodyLimit, webhookHandler.HandleAirtableWebhook)
	router.POST("/test/goom", bodyLimit, goomTestHandler.TestForward)

	// Operational endpoints
	router.GET("/health", healthHandler.Healthcheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/favicon.ico", handlers.NoContent)
	router.GET("/favicon.png", handlers.NoContent)

	router.NoRoute(handlers.NotFound)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.AirtableSecretHeader, middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	return cfg
}
