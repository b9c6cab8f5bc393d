package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/shadowrec/pkg/logging"
)

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		apiKey         string
		requestHeader  string
		expectedStatus int
	}{
		{
			name:           "valid API key",
			apiKey:         "test-key",
			requestHeader:  "test-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing API key header",
			apiKey:         "test-key",
			requestHeader:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid API key",
			apiKey:         "test-key",
			requestHeader:  "wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			handler := apiKeyMiddleware(tt.apiKey)(testHandler)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.requestHeader != "" {
				req.Header.Set("X-API-Key", tt.requestHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "info", "json")

	var fromCtx *slog.Logger
	handler := middleware.RequestID(requestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest("GET", "/api/v1/replays", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.NotNil(t, fromCtx)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Contains(t, buf.String(), `"path":"/api/v1/replays"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"request_id"`)
}

func TestSendSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	sendSuccess(w, map[string]string{"message": "test"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decodeResponse(t, w, nil)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"message":"test"}`, string(resp.Data))
}

func TestSendError(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		statusCode int
	}{
		{name: "bad request error", message: "Invalid request", statusCode: http.StatusBadRequest},
		{name: "unauthorized error", message: "Not authorized", statusCode: http.StatusUnauthorized},
		{name: "internal server error", message: "Server error", statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			sendError(w, tt.message, tt.statusCode)

			assert.Equal(t, tt.statusCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			resp := decodeResponse(t, w, nil)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}
