package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/voltalia/goom-relay/config"
	"github.com/voltalia/goom-relay/internal/middleware"
	"github.com/voltalia/goom-relay/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockWebhookService struct {
	mock.Mock
}

func (m *mockWebhookService) ProcessNotification(ctx context.Context, notification models.InboundNotification) *models.WebhookOutcome {
	args := m.Called(ctx, notification)
	return args.Get(0).(*models.WebhookOutcome)
}

func (m *mockWebhookService) ForwardEmail(ctx context.Context, email string) models.ForwardResult {
	args := m.Called(ctx, email)
	return args.Get(0).(models.ForwardResult)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "3000",
			AppEnv:         "development",
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1024,
		},
		Goom:          config.GoomConfig{WebhookURL: config.DefaultGoomWebhookURL, GatewayToken: "gw-token"},
		Airtable:      config.AirtableConfig{WebhookSecret: "s3cret"},
		Observability: config.ObservabilityConfig{ServiceName: "goom-relay"},
	}
}

func serve(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_WebhookRequiresSecret(t *testing.T) {
	service := new(mockWebhookService)
	router := New(testConfig(), service)

	w := serve(router, "POST", WebhookPath, `{"email":"x@y.com"}`, map[string]string{middleware.AirtableSecretHeader: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Token invalide"}`, w.Body.String())
	service.AssertNotCalled(t, "ProcessNotification", mock.Anything, mock.Anything)
}

func TestRouter_WebhookWithSecret(t *testing.T) {
	service := new(mockWebhookService)
	service.On("ProcessNotification", mock.Anything, models.InboundNotification{"email": "x@y.com"}).Return(&models.WebhookOutcome{
		Kind: models.PayloadDirectEmail,
		Direct: &models.DirectEmailResponse{
			Message:    models.WebhookProcessedMessage,
			Email:      "x@y.com",
			GoomResult: models.ForwardSent(200, "ok"),
		},
	}).Once()
	router := New(testConfig(), service)

	w := serve(router, "POST", WebhookPath, `{"email":"x@y.com"}`, map[string]string{middleware.AirtableSecretHeader: "s3cret"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	service.AssertExpectations(t)
}

func TestRouter_OversizedWebhookBody(t *testing.T) {
	service := new(mockWebhookService)
	router := New(testConfig(), service)

	body := `{"email":"` + strings.Repeat("a", 2048) + `@y.com"}`
	w := serve(router, "POST", WebhookPath, body, map[string]string{middleware.AirtableSecretHeader: "s3cret"})

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	service.AssertNotCalled(t, "ProcessNotification", mock.Anything, mock.Anything)
}

func TestRouter_OperationalRoutes(t *testing.T) {
	router := New(testConfig(), new(mockWebhookService))

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		bodyContains   string
	}{
		{name: "health", method: "GET", path: "/health", expectedStatus: http.StatusOK, bodyContains: `"goomConfigured":true`},
		{name: "favicon ico", method: "GET", path: "/favicon.ico", expectedStatus: http.StatusNoContent},
		{name: "favicon png", method: "GET", path: "/favicon.png", expectedStatus: http.StatusNoContent},
		{name: "metrics", method: "GET", path: "/metrics", expectedStatus: http.StatusOK, bodyContains: "go_goroutines"},
		{name: "unknown route", method: "GET", path: "/nope", expectedStatus: http.StatusNotFound, bodyContains: "Route non trouvée"},
		{name: "wrong method", method: "GET", path: WebhookPath, expectedStatus: http.StatusNotFound, bodyContains: "Route non trouvée"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.method, tt.path, "", nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.bodyContains != "" {
				assert.Contains(t, w.Body.String(), tt.bodyContains)
			}
		})
	}
}

func TestRouter_TestGoomEndpoint(t *testing.T) {
	service := new(mockWebhookService)
	service.On("ForwardEmail", mock.Anything, "x@y.com").Return(models.ForwardFailed("timeout of 30000ms exceeded")).Once()
	router := New(testConfig(), service)

	w := serve(router, "POST", "/test/goom", `{"email":"x@y.com"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"timeout of 30000ms exceeded"}`, w.Body.String())
	service.AssertExpectations(t)
}

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	assert.True(t, corsConfig(nil).AllowAllOrigins)

	restricted := corsConfig([]string{"https://airtable.com"})
	assert.False(t, restricted.AllowAllOrigins)
	assert.Equal(t, []string{"https://airtable.com"}, restricted.AllowOrigins)
}
