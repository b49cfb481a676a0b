// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// Tests for the analyzer HTTP handlers

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
	"github.com/getgsa/getgsa/services/analyzer/drafting"
	"github.com/getgsa/getgsa/services/analyzer/retrieval"
	"github.com/getgsa/getgsa/services/analyzer/rulepack"
	"github.com/getgsa/getgsa/services/analyzer/services"
	"github.com/getgsa/getgsa/services/analyzer/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
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
	router.GET("/healthz", HealthCheck)
	router.GET("/health", HandleHealth(svc))
	router.POST("/ingest", HandleIngest(svc, nil))
	router.POST("/analyze", HandleAnalyze(svc, nil))
	router.GET("/storage/stats", HandleStorageStats(store))
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck_ReturnsOK(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
}

func TestHandleHealth_ReportsCollaborators(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var report services.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, retrieval.PathEmbedding, report.RetrievalPath)
	assert.True(t, report.TemplateOnly)
}

// =============================================================================
// Ingest Tests
// =============================================================================

func TestHandleIngest_StoresBatch(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(router, "/ingest", datatypes.IngestRequest{
		Documents: []datatypes.Document{{
			Name: "profile.txt",
			Text: "UEI: ABC123456789\nContact: jane@acme.com",
		}},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp datatypes.IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	require.Len(t, resp.DocSummaries, 1)
	assert.Equal(t, 1, resp.DocSummaries[0].PIIItemsRedacted)
}

func TestHandleIngest_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewBufferString("{not json"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleIngest_EmptyDocuments(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(router, "/ingest", map[string]any{"documents": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// Analyze Tests
// =============================================================================

func TestHandleAnalyze_NothingIngested(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(router, "/analyze", datatypes.AnalyzeRequest{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleAnalyze_UnknownRequestID(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(router, "/analyze", datatypes.AnalyzeRequest{RequestID: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleAnalyze_RoundTrip(t *testing.T) {
	router := newTestRouter(t)

	ingest := postJSON(router, "/ingest", datatypes.IngestRequest{
		Documents: []datatypes.Document{{
			Name: "profile.txt",
			Text: "Acme Federal LLC\nUEI: ABC123456789\nDUNS: 123456789\nSAM.gov registration: active\nNAICS: 541511",
		}},
	})
	require.Equal(t, http.StatusOK, ingest.Code)
	var ingestResp datatypes.IngestResponse
	require.NoError(t, json.Unmarshal(ingest.Body.Bytes(), &ingestResp))

	w := postJSON(router, "/analyze", datatypes.AnalyzeRequest{RequestID: ingestResp.RequestID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ingestResp.RequestID, resp.RequestID)
	assert.Len(t, resp.Checklist.Items, 5)
	assert.Len(t, resp.Citations, 5)
	assert.NotEmpty(t, resp.Brief)
	assert.NotEmpty(t, resp.ClientEmail)
	assert.Equal(t, "ABC123456789", resp.Parsed.Fields.UEI)
}

func TestHandleAnalyze_EmptyBodyUsesLatest(t *testing.T) {
	router := newTestRouter(t)

	ingest := postJSON(router, "/ingest", datatypes.IngestRequest{
		Documents: []datatypes.Document{{Name: "doc.txt", Text: "NAICS: 541511"}},
	})
	require.Equal(t, http.StatusOK, ingest.Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

// =============================================================================
// Storage Stats Tests
// =============================================================================

func TestHandleStorageStats(t *testing.T) {
	router := newTestRouter(t)

	postJSON(router, "/ingest", datatypes.IngestRequest{
		Documents: []datatypes.Document{{Name: "doc.txt", Text: "NAICS: 541511"}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/storage/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats storage.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalDocuments)
}
