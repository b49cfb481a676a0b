// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// Tests for route registration

package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getgsa/getgsa/services/analyzer/drafting"
	"github.com/getgsa/getgsa/services/analyzer/retrieval"
	"github.com/getgsa/getgsa/services/analyzer/rulepack"
	"github.com/getgsa/getgsa/services/analyzer/services"
	"github.com/getgsa/getgsa/services/analyzer/storage"
)

func newRoutedEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pack, err := rulepack.New()
	require.NoError(t, err)
	store := storage.New(0, nil)
	svc, err := services.NewAnalysisService(services.Config{
		Retriever: retrieval.NewRetriever(pack, retrieval.NewTFIDFEmbedder(), nil),
		Drafter:   drafting.New(nil, nil),
		Store:     store,
	})
	require.NoError(t, err)

	router := gin.New()
	SetupRoutes(router, svc, store, nil)
	return router
}

func TestRoutesRegistered(t *testing.T) {
	router := newRoutedEngine(t)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/v1/storage/stats", http.StatusOK},
		{http.MethodPost, "/analyze", http.StatusNotFound},    // nothing ingested yet
		{http.MethodPost, "/v1/analyze", http.StatusNotFound}, // same handler under /v1
		{http.MethodPost, "/ingest", http.StatusBadRequest},   // empty body
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestHealthReportsServiceDetail(t *testing.T) {
	router := newRoutedEngine(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var report services.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, retrieval.PathEmbedding, report.RetrievalPath)
	assert.True(t, report.TemplateOnly, "no chain configured in tests")
	assert.Empty(t, report.LLMProviders)
	assert.Equal(t, 0, report.Storage.TotalDocuments)

	// The liveness probe stays minimal.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
