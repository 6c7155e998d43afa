package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/test", http.NoBody))
	require.Equal(t, http.StatusOK, rr.Code)

	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/test", "200")), 1.0)
	assert.NotZero(t, testutil.CollectAndCount(httpRequestDuration))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/records/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/records/"+id, http.NoBody))
	}

	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/records/{id}", "404")), 3.0)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "unknown", normalizePath(""))
	assert.Equal(t, "/healthz", normalizePath("/healthz"))
}

func TestObserveSearch(t *testing.T) {
	before := testutil.ToFloat64(searchesTotal.WithLabelValues("fuzzy"))

	ObserveSearch("fuzzy", 3, 250*time.Microsecond)
	ObserveSearch("fuzzy", 0, 100*time.Microsecond)

	assert.Equal(t, before+2, testutil.ToFloat64(searchesTotal.WithLabelValues("fuzzy")))
	assert.NotZero(t, testutil.CollectAndCount(searchDuration))
}

func TestObserveHistoryDrop(t *testing.T) {
	before := testutil.ToFloat64(historyDropped)
	ObserveHistoryDrop()
	assert.Equal(t, before+1, testutil.ToFloat64(historyDropped))
}
