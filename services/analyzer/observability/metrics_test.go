// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// Tests for the observability package

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// newTestMetrics creates an AnalyzerMetrics instance with its own
// registry so tests never collide with the global Prometheus registry.
func newTestMetrics(t *testing.T) *AnalyzerMetrics {
	t.Helper()

	reg := prometheus.NewRegistry()

	m := &AnalyzerMetrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "requests_total",
				Help:      "Total API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		RetrievalPathTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "retrieval_path_total",
				Help:      "Analyses performed by retrieval path",
			},
			[]string{"path"},
		),
		RuleFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "rule_failures_total",
				Help:      "Failed rule verdicts by rule id and problem code",
			},
			[]string{"rule_id", "issue"},
		),
		AnalysesCompliantTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "analyses_compliant_total",
				Help:      "Analyses by final compliance outcome",
			},
			[]string{"compliant"},
		),
		StageDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "stage_duration_seconds",
				Help:      "Pipeline stage duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"stage"},
		),
		DocumentsIngestedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "documents_ingested_total",
				Help:      "Total documents accepted for analysis",
			},
		),
		DraftingFallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "drafting_fallbacks_total",
				Help:      "Artifacts served from templates after provider failure",
			},
			[]string{"artifact"},
		),
	}

	reg.MustRegister(m.RequestsTotal, m.RetrievalPathTotal, m.RuleFailuresTotal,
		m.AnalysesCompliantTotal, m.StageDurationSeconds, m.DocumentsIngestedTotal,
		m.DraftingFallbacksTotal)
	return m
}

func TestRecordRequest(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRequest("analyze", "success")
	m.RecordRequest("analyze", "success")
	m.RecordRequest("ingest", "error")

	got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("analyze", "success"))
	if got != 2 {
		t.Errorf("analyze/success = %v, want 2", got)
	}
	got = testutil.ToFloat64(m.RequestsTotal.WithLabelValues("ingest", "error"))
	if got != 1 {
		t.Errorf("ingest/error = %v, want 1", got)
	}
}

func TestRecordRetrievalPath(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRetrievalPath("embedding")
	m.RecordRetrievalPath("keyword")
	m.RecordRetrievalPath("keyword")

	if got := testutil.ToFloat64(m.RetrievalPathTotal.WithLabelValues("keyword")); got != 2 {
		t.Errorf("keyword path = %v, want 2", got)
	}
}

func TestRecordRuleFailure(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRuleFailure("R2", "unmapped_naics")

	got := testutil.ToFloat64(m.RuleFailuresTotal.WithLabelValues("R2", "unmapped_naics"))
	if got != 1 {
		t.Errorf("rule failure count = %v, want 1", got)
	}
}

func TestRecordCompliance(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordCompliance(true)
	m.RecordCompliance(false)
	m.RecordCompliance(false)

	if got := testutil.ToFloat64(m.AnalysesCompliantTotal.WithLabelValues("false")); got != 2 {
		t.Errorf("non-compliant count = %v, want 2", got)
	}
}

func TestRecordDocumentsIngested(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordDocumentsIngested(3)
	m.RecordDocumentsIngested(2)

	if got := testutil.ToFloat64(m.DocumentsIngestedTotal); got != 5 {
		t.Errorf("documents ingested = %v, want 5", got)
	}
}

func TestNilReceiverIsNoop(t *testing.T) {
	var m *AnalyzerMetrics

	// None of these may panic.
	m.RecordRequest("analyze", "success")
	m.RecordRetrievalPath("embedding")
	m.RecordRuleFailure("R1", "missing_uei")
	m.RecordCompliance(true)
	m.ObserveStage("analyze", 0.1)
	m.RecordDocumentsIngested(1)
}
