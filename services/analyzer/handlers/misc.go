// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getgsa/getgsa/services/analyzer/services"
	"github.com/getgsa/getgsa/services/analyzer/storage"
)

// HealthCheck reports process liveness. Used for /healthz probes that
// only care whether the process answers.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleHealth reports the detailed service health: pinned retrieval
// path, configured LLM providers, and store counts.
func HandleHealth(svc *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Health())
	}
}

// HandleStorageStats exposes current document store counts. Useful for
// smoke checks; carries no document content.
func HandleStorageStats(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Stats())
	}
}
