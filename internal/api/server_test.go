package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoscope/geoscope/internal/config"
	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/snapshot"
)

func newTestServer(snap *models.AnalyticsSnapshot) *Server {
	store := snapshot.NewStore()
	if snap != nil {
		store.Set(snap)
	}
	return NewServer(nil, store, nil, config.APIConfig{CORSOrigin: "http://localhost:3000"})
}

func dashboardSnapshot() *models.AnalyticsSnapshot {
	return &models.AnalyticsSnapshot{
		ID:        "snap-1",
		BrandName: "Acme",
		Brands: []models.BrandRecord{
			{Brand: "Acme", GeoScore: 65, MentionScore: 50, MentionBreakdown: map[string]int{"kw1": 3}},
			{Brand: "Beta", GeoScore: 90, MentionScore: 80, MentionBreakdown: map[string]int{"kw1": 6}},
		},
		SearchKeywords: map[string]models.KeywordRecord{
			"kw1": {Name: "widgets", Prompts: []string{"p1", "p2"}},
		},
	}
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, envelope.Error)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(dashboardSnapshot())

	w := doRequest(s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"snapshot_loaded":true`)
}

func TestOverviewEndpoint(t *testing.T) {
	s := newTestServer(dashboardSnapshot())

	w := doRequest(s, http.MethodGet, "/api/v1/metrics/overview", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var overview models.BrandOverview
	decodeData(t, w, &overview)
	assert.Equal(t, "Acme", overview.Brand)
	assert.Equal(t, 2, overview.GeoPosition)
	assert.Equal(t, 2, overview.TotalPrompts)
}

func TestCompetitorsEndpoint(t *testing.T) {
	s := newTestServer(dashboardSnapshot())

	w := doRequest(s, http.MethodGet, "/api/v1/metrics/competitors", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var rows []models.CompetitorRow
	decodeData(t, w, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "Beta", rows[0].Brand)
	assert.True(t, rows[1].Subject)
}

func TestResponseRatesRejectsBadLimit(t *testing.T) {
	s := newTestServer(dashboardSnapshot())

	w := doRequest(s, http.MethodGet, "/api/v1/metrics/response-rates?limit=zero", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEmptyState(t *testing.T) {
	s := newTestServer(nil)

	w := doRequest(s, http.MethodGet, "/api/v1/metrics/competitors", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var rows []models.CompetitorRow
	decodeData(t, w, &rows)
	assert.Empty(t, rows)
}

func TestIngestSnapshotPublishes(t *testing.T) {
	s := newTestServer(nil)

	payload, err := json.Marshal(dashboardSnapshot())
	require.NoError(t, err)

	w := doRequest(s, http.MethodPost, "/api/v1/snapshot", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(s, http.MethodGet, "/api/v1/snapshot", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap models.AnalyticsSnapshot
	decodeData(t, w, &snap)
	assert.Equal(t, "Acme", snap.BrandName)
	// ingest normalizes: tiers are filled from the cohort
	assert.NotEmpty(t, snap.Brands[0].GeoTier)
}

func TestIngestSnapshotRequiresBrandName(t *testing.T) {
	s := newTestServer(nil)

	w := doRequest(s, http.MethodPost, "/api/v1/snapshot", []byte(`{"brands":[]}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestSnapshotAssignsID(t *testing.T) {
	s := newTestServer(nil)

	w := doRequest(s, http.MethodPost, "/api/v1/snapshot", []byte(`{"brand_name":"Acme"}`))

	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &created)
	assert.NotEmpty(t, created.ID)
}

func TestClearSnapshot(t *testing.T) {
	s := newTestServer(dashboardSnapshot())

	w := doRequest(s, http.MethodDelete, "/api/v1/snapshot", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(s, http.MethodGet, "/api/v1/snapshot", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(nil)

	w := doRequest(s, http.MethodOptions, "/api/v1/metrics/overview", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatsUnavailableWithoutMongo(t *testing.T) {
	s := newTestServer(nil)

	w := doRequest(s, http.MethodGet, "/api/v1/stats/archive", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
