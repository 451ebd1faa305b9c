package goom_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/voltalia/goom-relay/config"
	"github.com/voltalia/goom-relay/internal/models"
	"github.com/voltalia/goom-relay/pkg/goom"
	"github.com/voltalia/goom-relay/pkg/httpclient"
)

// MockHTTPClient mocks the HTTP client
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset by peer") }
func (failingBody) Close() error             { return nil }

func newTestClient(url string, timeoutMs int) *goom.Client {
	return goom.NewClient(config.GoomConfig{
		WebhookURL:   url,
		GatewayToken: "gw-token",
		TimeoutMs:    timeoutMs,
	}, httpclient.NewStandardClient(0))
}

func TestClient_Forward_SendsPayloadAndHeaders(t *testing.T) {
	var received models.GoomRequest
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		headers = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"project":"P-1"}`))
	}))
	defer server.Close()

	result := newTestClient(server.URL, 1000).Forward(context.Background(), "x@y.com")

	assert.Equal(t, models.GoomRequest{Email: "x@y.com", Action: "validate_quote"}, received)
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "gw-token", headers.Get("x-gateway-token"))

	assert.True(t, result.Success)
	require.NotNil(t, result.Status)
	assert.Equal(t, http.StatusOK, *result.Status)
	assert.Equal(t, map[string]any{"ok": true, "project": "P-1"}, result.Data)
	assert.Empty(t, result.Error)
}

func TestClient_Forward_ServerErrorStillReportsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("quote not found"))
	}))
	defer server.Close()

	result := newTestClient(server.URL, 1000).Forward(context.Background(), "x@y.com")

	assert.True(t, result.Success)
	require.NotNil(t, result.Status)
	assert.Equal(t, http.StatusInternalServerError, *result.Status)
	assert.Equal(t, "quote not found", result.Data)
}

func TestClient_Forward_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	result := newTestClient(server.URL, 50).Forward(context.Background(), "x@y.com")

	assert.False(t, result.Success)
	assert.Equal(t, "timeout of 50ms exceeded", result.Error)
	assert.Nil(t, result.Status)
	assert.Nil(t, result.Data)
}

func TestClient_Forward_TransportError(t *testing.T) {
	mockClient := new(MockHTTPClient)
	mockClient.On("Do", mock.AnythingOfType("*http.Request")).Return(nil, errors.New("dial tcp: connection refused")).Once()

	client := goom.NewClient(config.GoomConfig{GatewayToken: "gw-token"}, mockClient)
	result := client.Forward(context.Background(), "x@y.com")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "connection refused")
	assert.Nil(t, result.Status)
	mockClient.AssertExpectations(t)
}

func TestClient_Forward_DefaultsToGatewayURL(t *testing.T) {
	mockClient := new(MockHTTPClient)
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == config.DefaultGoomWebhookURL
	})).Return(&http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(http.NoBody)}, nil).Once()

	result := goom.NewClient(config.GoomConfig{GatewayToken: "gw-token"}, mockClient).Forward(context.Background(), "x@y.com")

	assert.True(t, result.Success)
	assert.Equal(t, "", result.Data)
	mockClient.AssertExpectations(t)
}

func TestClient_Forward_UnreadableBodyKeepsStatus(t *testing.T) {
	mockClient := new(MockHTTPClient)
	mockClient.On("Do", mock.Anything).Return(&http.Response{StatusCode: http.StatusBadGateway, Body: failingBody{}}, nil).Once()

	result := goom.NewClient(config.GoomConfig{GatewayToken: "gw-token"}, mockClient).Forward(context.Background(), "x@y.com")

	assert.False(t, result.Success)
	require.NotNil(t, result.Status)
	assert.Equal(t, http.StatusBadGateway, *result.Status)
	assert.Contains(t, result.Error, "failed to read goom response")
}

func TestClient_Forward_RecoversFromPanics(t *testing.T) {
	mockClient := new(MockHTTPClient)
	mockClient.On("Do", mock.Anything).Run(func(mock.Arguments) { panic("boom") }).Return(nil, nil)

	var result models.ForwardResult
	assert.NotPanics(t, func() {
		result = goom.NewClient(config.GoomConfig{GatewayToken: "gw-token"}, mockClient).Forward(context.Background(), "x@y.com")
	})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "boom")
}

func TestClient_Forward_CircuitBreakerOpens(t *testing.T) {
	mockClient := new(MockHTTPClient)
	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection refused")).Times(3)

	client := goom.NewClient(config.GoomConfig{
		GatewayToken:          "gw-token",
		TimeoutMs:             int(time.Second.Milliseconds()),
		CircuitBreakerEnabled: true,
	}, mockClient)

	for i := 0; i < 3; i++ {
		result := client.Forward(context.Background(), "x@y.com")
		assert.False(t, result.Success)
	}

	result := client.Forward(context.Background(), "x@y.com")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "circuit breaker 'goom' is open")
	mockClient.AssertNumberOfCalls(t, "Do", 3)
}
