package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr string
	}{
		{name: "json info", level: "info", format: "json"},
		{name: "console debug", level: "debug", format: "console"},
		{name: "upper case level", level: "WARN", format: ""},
		{name: "invalid level", level: "verbose", format: "json", wantErr: "invalid log level"},
		{name: "invalid format", level: "info", format: "xml", wantErr: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.level, tt.format)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, logger)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
			_ = logger.Sync()
		})
	}
}

func TestMetrics(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.RecordHTTPRequest(http.MethodPost, "/api/v1/chat-responses", http.StatusOK, 120*time.Millisecond)
	m.RecordHTTPRequest(http.MethodPost, "/api/v1/chat-responses", http.StatusOK, 80*time.Millisecond)
	m.RecordProviderCall("openai", "chat", nil, time.Second)
	m.RecordProviderCall("openai", "chat", errors.New("boom"), time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/chat-responses", "200")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.providerLatency))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "drivel_server_http_requests_total")
	assert.Contains(t, string(body), `drivel_server_provider_request_duration_seconds_count{operation="chat",outcome="error",provider="openai"} 1`)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
		m.RecordProviderCall("openai", "chat", nil, time.Millisecond)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
