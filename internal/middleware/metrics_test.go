package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/walklog/backend/internal/middleware"
)

// TestMetrics_countsByRoutePattern verifies that requests are labelled with
// the chi route pattern so that different IDs share one series.
func TestMetrics_countsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/entries/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/entries/a", "/entries/b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	count, err := testutil.GatherAndCount(reg, "walklog_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "both IDs share one series")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range mfs {
		if mf.GetName() != "walklog_http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			assert.Equal(t, "/entries/{id}", labels["route"])
			assert.Equal(t, "404", labels["code"])
			assert.Equal(t, 2.0, metric.GetCounter().GetValue())
			found = true
		}
	}
	assert.True(t, found)
}

// TestMetrics_defaultStatusIsOK verifies handlers that never call
// WriteHeader are recorded as 200.
func TestMetrics_defaultStatusIsOK(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(reg)

	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	expected := `
# HELP walklog_http_requests_total HTTP requests by method, route, and status code.
# TYPE walklog_http_requests_total counter
walklog_http_requests_total{code="200",method="GET",route="unmatched"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "walklog_http_requests_total"))
}
