package goom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"github.com/voltalia/goom-relay/config"
	"github.com/voltalia/goom-relay/internal/models"
	"github.com/voltalia/goom-relay/pkg/circuitbreaker"
	"github.com/voltalia/goom-relay/pkg/httpclient"
	"github.com/voltalia/goom-relay/pkg/logger"
	"github.com/voltalia/goom-relay/pkg/metrics"
	"github.com/voltalia/goom-relay/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// GatewayTokenHeader authenticates this service to the Goom gateway.
const GatewayTokenHeader = "x-gateway-token"

// Client forwards e-mails to the Goom project webhook.
type Client struct {
	webhookURL   string
	gatewayToken string
	timeout      time.Duration
	httpClient   httpclient.Client
	breaker      *gobreaker.CircuitBreaker // nil when disabled
}

// NewClient creates a Goom client from the gateway configuration
func NewClient(cfg config.GoomConfig, httpClient httpclient.Client) *Client {
	c := &Client{
		webhookURL:   cfg.WebhookURL,
		gatewayToken: cfg.GatewayToken,
		timeout:      cfg.Timeout(),
		httpClient:   httpClient,
	}
	if c.webhookURL == "" {
		c.webhookURL = config.DefaultGoomWebhookURL
	}
	if cfg.CircuitBreakerEnabled {
		c.breaker = circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("goom"))
	}
	return c
}

// gatewayResponse is what came back from the gateway, possibly alongside an
// error when the body could not be read.
type gatewayResponse struct {
	status int
	data   any
}

// Forward sends {email, action: "validate_quote"} to the gateway.
// It never returns an error: every failure is reported in the result. Any
// HTTP response, whatever its status, is reported as Success.
func (c *Client) Forward(ctx context.Context, email string) (result models.ForwardResult) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "goom.forward", attribute.String("goom.email", email))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			result = models.ForwardFailed(fmt.Sprintf("goom forward panicked: %v", r))
		}
		c.observe(start, email, result)
		if !result.Success {
			span.SetStatus(codes.Error, result.Error)
		}
	}()

	logger.Info("Sending webhook to Goom", zap.String("email", email))

	var partial *gatewayResponse
	send := func() (*gatewayResponse, error) {
		resp, err := c.send(ctx, email)
		partial = resp
		return resp, err
	}

	var resp *gatewayResponse
	var err error
	if c.breaker != nil {
		resp, err = circuitbreaker.Execute(c.breaker, send)
	} else {
		resp, err = send()
	}

	if err != nil {
		failed := models.ForwardFailed(err.Error())
		if partial != nil {
			status := partial.status
			failed.Status = &status
			failed.Data = partial.data
		}
		return failed
	}

	return models.ForwardSent(resp.status, resp.data)
}

func (c *Client) send(ctx context.Context, email string) (*gatewayResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(models.GoomRequest{Email: email, Action: models.GoomActionValidateQuote})
	if err != nil {
		return nil, fmt.Errorf("failed to encode goom payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create goom request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(GatewayTokenHeader, c.gatewayToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("timeout of %dms exceeded", c.timeout.Milliseconds())
		}
		return nil, fmt.Errorf("failed to send goom webhook: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &gatewayResponse{status: resp.StatusCode}, fmt.Errorf("failed to read goom response: %w", err)
	}

	return &gatewayResponse{status: resp.StatusCode, data: decodeBody(body)}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// decodeBody returns the parsed JSON body, or the raw text when it is not JSON.
func decodeBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return string(body)
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}
	return data
}

func (c *Client) observe(start time.Time, email string, result models.ForwardResult) {
	duration := metrics.MeasureDuration(start)
	status := "success"
	if !result.Success {
		status = "error"
	}
	metrics.GoomForwardDuration.WithLabelValues(status).Observe(duration)
	metrics.GoomForwardTotal.WithLabelValues(status).Inc()

	fields := []zap.Field{zap.String("email", email)}
	if result.Status != nil {
		metrics.GoomResponseStatus.WithLabelValues(strconv.Itoa(*result.Status)).Inc()
		fields = append(fields, zap.Int("http_status", *result.Status))
	}
	if result.Error != "" {
		fields = append(fields, zap.String("error", result.Error))
		if result.Data != nil {
			fields = append(fields, zap.Any("response_data", result.Data))
		}
	}
	logger.LogAPICall("goom", "forward", status, duration, fields...)
}
