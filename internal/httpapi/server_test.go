package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/search"
	"github.com/khanglvm/catalog-search/internal/version"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := catalog.NewStore([]search.Record{
		{ID: 1, Title: "碳中和预测实验", Category: search.CategoryExperiment, Tags: []string{"碳中和", "预测"}},
		{ID: 2, Title: "Carbon Accounting Basics", Category: search.CategoryCourse, Tags: []string{"carbon"}},
		{ID: 3, Title: "Emission dataset", Description: "1990-2024", Category: search.CategoryDataset},
		{ID: 4, Title: "Carbon market news", Category: search.CategoryNews, Tags: []string{"carbon"}},
	})
	return NewServer(catalog.NewService(store), zap.NewNop())
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr := get(t, s, "/api/search?q=carbon")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	resp := decode[catalog.Response](t, rr)
	assert.Equal(t, search.StrategyScored, resp.Strategy)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 2, resp.Results[0].ID)
	assert.Equal(t, 4, resp.Results[1].ID)
}

func TestSearchEndpoint_CJKQuery(t *testing.T) {
	s := newTestServer(t)

	rr := get(t, s, "/api/search?q="+url.QueryEscape("碳中和"))
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[catalog.Response](t, rr)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Results[0].ID)
}

func TestSearchEndpoint_FilterAndLimit(t *testing.T) {
	s := newTestServer(t)

	resp := decode[catalog.Response](t, get(t, s, "/api/search?q=carbon&category=news"))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 4, resp.Results[0].ID)

	resp = decode[catalog.Response](t, get(t, s, "/api/search?limit=1"))
	assert.Equal(t, search.StrategyAll, resp.Strategy)
	assert.Equal(t, 4, resp.Total)
	assert.Len(t, resp.Results, 1)
}

func TestSearchEndpoint_BadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		target string
		code   string
	}{
		{"/api/search?q=x&limit=abc", CodeBadRequest},
		{"/api/search?q=x&limit=-1", CodeBadRequest},
		{"/api/search?q=x&category=podcast", CodeInvalidQuery},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := get(t, s, tt.target)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rr).Code)
		})
	}
}

func TestSuggestEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr := get(t, s, "/api/suggest?q=carb")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[SuggestResponse](t, rr)
	assert.Equal(t, []string{"Carbon Accounting Basics", "carbon", "Carbon market news"}, resp.Suggestions)

	resp = decode[SuggestResponse](t, get(t, s, "/api/suggest"))
	assert.NotNil(t, resp.Suggestions)
	assert.Empty(t, resp.Suggestions)
}

func TestSegmentEndpoint(t *testing.T) {
	s := newTestServer(t)

	resp := decode[SegmentResponse](t, get(t, s, "/api/segment?text="+url.QueryEscape("AI碳排放Model")))
	assert.Equal(t, []string{"ai", "碳排放", "model"}, resp.Tokens)
}

func TestRecordsEndpoints(t *testing.T) {
	s := newTestServer(t)

	list := decode[RecordsResponse](t, get(t, s, "/api/records"))
	assert.Equal(t, 4, list.Total)

	list = decode[RecordsResponse](t, get(t, s, "/api/records?category=course"))
	require.Len(t, list.Records, 1)
	assert.Equal(t, 2, list.Records[0].ID)

	rr := get(t, s, "/api/records/3")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Emission dataset", decode[search.Record](t, rr).Title)

	rr = get(t, s, "/api/records/99")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, CodeNotFound, decode[ErrorResponse](t, rr).Code)

	rr = get(t, s, "/api/records/abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rr := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "catalog-search/"+version.Get().Version, rr.Header().Get("Server"))
	health := decode[map[string]any](t, rr)
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 4, health["records"])
	assert.Equal(t, version.Get().Version, health["version"])

	get(t, s, "/api/search?q=carbon")
	rr = get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "catalog_search_searches_total"))
	assert.True(t, strings.Contains(rr.Body.String(), "catalog_search_http_requests_total"))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rr := get(t, s, "/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, CodeBadRequest, decode[ErrorResponse](t, rr).Code)
}

func TestRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, CodeInternalError, decode[ErrorResponse](t, rr).Code)
}
