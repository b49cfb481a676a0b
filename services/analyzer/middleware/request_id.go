// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the analyzer service.
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// =============================================================================
// Context Keys
// =============================================================================

// requestIDKey is the context key for the per-request correlation id.
// Using a typed key prevents collisions with other context values.
const requestIDKey = "getgsa_request_id"

// RequestIDHeader is the header the id is read from and echoed back on.
const RequestIDHeader = "X-Request-ID"

// =============================================================================
// Context Helpers
// =============================================================================

// GetRequestID returns the correlation id set by RequestID, or "" when
// the middleware did not run.
func GetRequestID(c *gin.Context) string {
	id, _ := c.Get(requestIDKey)
	s, _ := id.(string)
	return s
}

// =============================================================================
// Middleware
// =============================================================================

// RequestID attaches a correlation id to every request. An incoming
// X-Request-ID is honored so clients can trace calls across services;
// otherwise a fresh UUID is minted. The id is echoed in the response
// header and stored in the Gin context for handlers and logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger emits one structured line per request with the
// correlation id, method, path, status and latency. Run it after
// RequestID so the id is populated.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
