package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travel-compass/internal/metrics"
)

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	b, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(b)
}

func TestObservers_ExposedOnHandler(t *testing.T) {
	metrics.ObserveRequest("POST", "/api/recommendations", "200", 1500*time.Millisecond)
	metrics.ObserveLLMCall("openai", nil, 2*time.Second)
	metrics.ObserveLLMCall("gemini", errors.New("quota"), time.Second)
	metrics.ObserveNormalize("fallback")

	body := scrape(t)
	assert.Contains(t, body, `travel_http_requests_total{method="POST",route="/api/recommendations",status="200"}`)
	assert.Contains(t, body, `travel_http_request_duration_seconds_bucket{method="POST",route="/api/recommendations"`)
	assert.Contains(t, body, `travel_llm_calls_total{outcome="ok",provider="openai"}`)
	assert.Contains(t, body, `travel_llm_calls_total{outcome="error",provider="gemini"}`)
	assert.Contains(t, body, `travel_llm_call_duration_seconds_count{provider="openai"}`)
	assert.Contains(t, body, `travel_normalize_total{stage="fallback"}`)
}
