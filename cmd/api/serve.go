package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/voltalia/goom-relay/config"
	"github.com/voltalia/goom-relay/internal/router"
	"github.com/voltalia/goom-relay/internal/services"
	"github.com/voltalia/goom-relay/pkg/goom"
	"github.com/voltalia/goom-relay/pkg/httpclient"
	"github.com/voltalia/goom-relay/pkg/logger"
	"github.com/voltalia/goom-relay/pkg/metrics"
	"github.com/voltalia/goom-relay/pkg/profiling"
	"github.com/voltalia/goom-relay/pkg/tracing"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook relay HTTP server",
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("port", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}

	logger.Info("Starting Goom relay",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceVersion,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability.ServiceName, cfg.Observability.ServiceVersion, cfg.Server.AppEnv)
	if err != nil {
		return err
	}
	defer stopProfiler()

	stopMetrics := make(chan struct{})
	defer close(stopMetrics)
	metrics.RecordInfrastructureMetrics(stopMetrics)

	// The forward deadline is applied per call by the Goom client
	goomClient := goom.NewClient(cfg.Goom, httpclient.NewStandardClient(0))
	webhookService := services.NewWebhookService(goomClient)

	gin.SetMode(cfg.Server.GinMode)
	engine := router.New(cfg, webhookService)

	// No WriteTimeout: a batch holds the response for one gateway timeout per record
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB max header size
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	logBanner(cfg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server failed to start", zap.Error(err))
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}

// logBanner prints the endpoints an operator needs right after boot.
func logBanner(cfg *config.Config) {
	base := "http://localhost:" + cfg.Server.Port

	logger.Info("Server started",
		zap.String("port", cfg.Server.Port),
		zap.String("webhook_url", base+router.WebhookPath),
		zap.String("health_url", base+"/health"),
		zap.String("test_url", base+"/test/goom"),
		zap.String("goom_url", cfg.Goom.WebhookURL),
		zap.Duration("goom_timeout", cfg.Goom.Timeout()),
	)

	if !cfg.GoomConfigured() {
		logger.Warn("GOOM_GATEWAY_TOKEN not configured: webhook notifications will be rejected")
	}
	if cfg.Airtable.WebhookSecret == "" {
		logger.Warn("AIRTABLE_WEBHOOK_SECRET not configured: webhook endpoint accepts unauthenticated calls")
	}
}
