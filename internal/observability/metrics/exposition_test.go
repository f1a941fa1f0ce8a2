package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSampler struct {
	calls int
}

func (s *countingSampler) Sample() { s.calls++ }

func TestExpositionHandler_SamplesOncePerScrape(t *testing.T) {
	reg := NewRegistry()
	sampler := &countingSampler{}
	handler := ExpositionHandler(reg, sampler)

	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 3, sampler.calls)
}

func TestExpositionHandler_NilSampler(t *testing.T) {
	reg := NewRegistry()
	handler := ExpositionHandler(reg, nil)

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpositionHandler_TextFormat(t *testing.T) {
	reg := NewRegistry()
	reg.HTTPRequestsTotal.WithLabelValues("GET", "/items", "200").Inc()
	reg.SetItemsInDatabase(7)

	rec := httptest.NewRecorder()
	ExpositionHandler(reg, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	body := rec.Body.String()
	assert.Contains(t, body, "# HELP http_requests_total")
	assert.Contains(t, body, "# TYPE http_requests_total counter")
	assert.Contains(t, body,
		`http_requests_total{method="GET",path="/items",status="200"} 1`)
	assert.Contains(t, body, "items_in_database 7")
}

func TestExpositionHandler_HistogramRendering(t *testing.T) {
	reg := NewRegistry()
	hist := promauto.With(reg.Underlying()).NewHistogram(prometheus.HistogramOpts{
		Name:    "test_duration_seconds",
		Help:    "test histogram",
		Buckets: []float64{0.1, 0.5, 1.0},
	})
	hist.Observe(0.3)

	rec := httptest.NewRecorder()
	ExpositionHandler(reg, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "# TYPE test_duration_seconds histogram")
	assert.Contains(t, body, `test_duration_seconds_bucket{le="0.1"} 0`)
	assert.Contains(t, body, `test_duration_seconds_bucket{le="0.5"} 1`)
	assert.Contains(t, body, `test_duration_seconds_bucket{le="1"} 1`)
	assert.Contains(t, body, `test_duration_seconds_bucket{le="+Inf"} 1`)
	assert.Contains(t, body, "test_duration_seconds_sum 0.3")
	assert.Contains(t, body, "test_duration_seconds_count 1")
}

func TestExpositionHandler_UnobservedFamiliesAbsent(t *testing.T) {
	reg := NewRegistry()

	rec := httptest.NewRecorder()
	ExpositionHandler(reg, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Labeled families with no observed series render nothing, not zeros.
	for _, line := range strings.Split(rec.Body.String(), "\n") {
		assert.False(t, strings.HasPrefix(line, "http_requests_total{"),
			"unexpected series line: %s", line)
	}
}
