// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the analyzer.
//
// # Description
//
// Metrics cover the full analysis pipeline:
//   - Request counters (by endpoint, status)
//   - Retrieval path usage (embedding vs keyword fallback)
//   - Rule failure counters (by rule id and problem code)
//   - Stage latency histograms (ingest, analyze)
//   - Drafting fallback counter (template vs provider)
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "getgsa"

// Subsystem for analyzer metrics
const analyzerSubsystem = "analyzer"

// AnalyzerMetrics holds all Prometheus metrics for the analysis pipeline.
//
// # Description
//
// Provides counters and histograms for monitoring ingest/analyze traffic
// and compliance outcomes. Initialize once at startup via InitMetrics().
//
// # Thread Safety
//
// All operations are thread-safe.
type AnalyzerMetrics struct {
	// RequestsTotal counts API requests by endpoint and status.
	// Labels: endpoint (ingest, analyze), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// RetrievalPathTotal counts analyses by retrieval path.
	// Labels: path (embedding, keyword)
	RetrievalPathTotal *prometheus.CounterVec

	// RuleFailuresTotal counts failed rule verdicts.
	// Labels: rule_id (R1..R5), issue (missing_uei, unmapped_naics, ...)
	RuleFailuresTotal *prometheus.CounterVec

	// AnalysesCompliantTotal counts analyses by final compliance outcome.
	// Labels: compliant (true, false)
	AnalysesCompliantTotal *prometheus.CounterVec

	// StageDurationSeconds measures pipeline stage latency.
	// Labels: stage (ingest, analyze)
	StageDurationSeconds *prometheus.HistogramVec

	// DocumentsIngestedTotal counts documents accepted for analysis.
	DocumentsIngestedTotal prometheus.Counter

	// DraftingFallbacksTotal counts artifacts served from templates
	// because every LLM provider failed.
	// Labels: artifact (brief, email)
	DraftingFallbacksTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance of AnalyzerMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *AnalyzerMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once at
// application startup.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *AnalyzerMetrics {
	DefaultMetrics = &AnalyzerMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "requests_total",
				Help:      "Total API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		RetrievalPathTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "retrieval_path_total",
				Help:      "Analyses performed by retrieval path",
			},
			[]string{"path"},
		),

		RuleFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "rule_failures_total",
				Help:      "Failed rule verdicts by rule id and problem code",
			},
			[]string{"rule_id", "issue"},
		),

		AnalysesCompliantTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "analyses_compliant_total",
				Help:      "Analyses by final compliance outcome",
			},
			[]string{"compliant"},
		),

		StageDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "stage_duration_seconds",
				Help:      "Pipeline stage duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"stage"},
		),

		DocumentsIngestedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "documents_ingested_total",
				Help:      "Total documents accepted for analysis",
			},
		),

		DraftingFallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "drafting_fallbacks_total",
				Help:      "Artifacts served from templates after provider failure",
			},
			[]string{"artifact"},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Recording Helpers
// =============================================================================

// RecordRequest increments the request counter; a nil receiver is a noop
// so handlers work without initialized metrics in tests.
func (m *AnalyzerMetrics) RecordRequest(endpoint, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordRetrievalPath counts one analysis on the given retrieval path.
func (m *AnalyzerMetrics) RecordRetrievalPath(path string) {
	if m == nil {
		return
	}
	m.RetrievalPathTotal.WithLabelValues(path).Inc()
}

// RecordRuleFailure counts one failed verdict problem.
func (m *AnalyzerMetrics) RecordRuleFailure(ruleID, issue string) {
	if m == nil {
		return
	}
	m.RuleFailuresTotal.WithLabelValues(ruleID, issue).Inc()
}

// RecordCompliance counts one finished analysis by outcome.
func (m *AnalyzerMetrics) RecordCompliance(compliant bool) {
	if m == nil {
		return
	}
	label := "false"
	if compliant {
		label = "true"
	}
	m.AnalysesCompliantTotal.WithLabelValues(label).Inc()
}

// ObserveStage records one stage duration in seconds.
func (m *AnalyzerMetrics) ObserveStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDurationSeconds.WithLabelValues(stage).Observe(seconds)
}

// RecordDraftingFallback counts one artifact ("brief" or "email") served
// from templates.
func (m *AnalyzerMetrics) RecordDraftingFallback(artifact string) {
	if m == nil {
		return
	}
	m.DraftingFallbacksTotal.WithLabelValues(artifact).Inc()
}

// RecordDocumentsIngested counts accepted documents.
func (m *AnalyzerMetrics) RecordDocumentsIngested(n int) {
	if m == nil {
		return
	}
	m.DocumentsIngestedTotal.Add(float64(n))
}
