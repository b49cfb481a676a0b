// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
	"github.com/getgsa/getgsa/services/analyzer/observability"
	"github.com/getgsa/getgsa/services/analyzer/services"
)

// HandleAnalyze runs the compliance pipeline over a stored batch. The
// body is optional; an absent or empty request_id analyzes the most
// recent ingest.
func HandleAnalyze(svc *services.AnalysisService, metrics *observability.AnalyzerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			metrics.RecordRequest("analyze", "error")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		resp, err := svc.Analyze(c.Request.Context(), req.RequestID)
		if err != nil {
			metrics.RecordRequest("analyze", "error")
			if errors.Is(err, services.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		metrics.RecordRequest("analyze", "success")
		c.JSON(http.StatusOK, resp)
	}
}
