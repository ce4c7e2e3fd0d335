package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/0x5457/textsim/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	m := metrics.New("textsim")
	m.ObserveRequest("POST /compute-embeddings", http.StatusOK, time.Now())
	m.ObserveInference("bert-small", "ok", time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `textsim_http_requests_total{route="POST /compute-embeddings",service="textsim",status="200"} 1`)
	assert.Contains(t, text, `textsim_inference_duration_seconds_count{model="bert-small",outcome="ok",service="textsim"} 1`)
	assert.Contains(t, text, "go_goroutines")
}

func TestMetricsIsolatedRegistries(t *testing.T) {
	// two instances must not collide on registration
	assert.NotPanics(t, func() {
		metrics.New("a")
		metrics.New("b")
	})
}
