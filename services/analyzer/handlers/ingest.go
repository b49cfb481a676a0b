// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers contains the HTTP handlers of the analyzer service.
// Handlers stay thin: bind and validate the request, call the analysis
// service, translate errors to status codes.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
	"github.com/getgsa/getgsa/services/analyzer/observability"
	"github.com/getgsa/getgsa/services/analyzer/services"
)

// HandleIngest accepts a document batch, redacts it, and stores the
// redacted form under a fresh request id.
func HandleIngest(svc *services.AnalysisService, metrics *observability.AnalyzerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.IngestRequest
		if err := c.BindJSON(&req); err != nil {
			metrics.RecordRequest("ingest", "error")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		resp, err := svc.Ingest(c.Request.Context(), req)
		if err != nil {
			metrics.RecordRequest("ingest", "error")
			slog.Warn("ingest rejected", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		metrics.RecordRequest("ingest", "success")
		c.JSON(http.StatusOK, resp)
	}
}
