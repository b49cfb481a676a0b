// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getgsa/getgsa/services/analyzer/handlers"
	"github.com/getgsa/getgsa/services/analyzer/observability"
	"github.com/getgsa/getgsa/services/analyzer/services"
	"github.com/getgsa/getgsa/services/analyzer/storage"
)

// SetupRoutes registers every analyzer endpoint on the router.
func SetupRoutes(router *gin.Engine, svc *services.AnalysisService,
	store *storage.Store, metrics *observability.AnalyzerMetrics) {

	router.GET("/health", handlers.HandleHealth(svc))
	router.GET("/healthz", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/ingest", handlers.HandleIngest(svc, metrics))
	router.POST("/analyze", handlers.HandleAnalyze(svc, metrics))

	// API version 1 group, same handlers under a stable prefix
	v1 := router.Group("/v1")
	{
		v1.POST("/ingest", handlers.HandleIngest(svc, metrics))
		v1.POST("/analyze", handlers.HandleAnalyze(svc, metrics))
		v1.GET("/storage/stats", handlers.HandleStorageStats(store))
	}
}
