// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package services holds the analyzer's application logic: the pipeline
// that turns uploaded documents into a stored redacted batch, and a
// stored batch into a cited compliance checklist with drafts.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getgsa/getgsa/services/analyzer/classify"
	"github.com/getgsa/getgsa/services/analyzer/datatypes"
	"github.com/getgsa/getgsa/services/analyzer/drafting"
	"github.com/getgsa/getgsa/services/analyzer/evaluate"
	"github.com/getgsa/getgsa/services/analyzer/extract"
	"github.com/getgsa/getgsa/services/analyzer/observability"
	"github.com/getgsa/getgsa/services/analyzer/redact"
	"github.com/getgsa/getgsa/services/analyzer/retrieval"
	"github.com/getgsa/getgsa/services/analyzer/storage"
)

// ErrNoDocuments is returned by Analyze when the request id resolves to
// nothing, either because it is unknown or because the batch expired.
var ErrNoDocuments = errors.New("no documents found for request")

// AnalysisService wires redaction, storage, classification, extraction,
// retrieval, evaluation and drafting into the two API operations.
// Construct once at startup; safe for concurrent use.
type AnalysisService struct {
	redactor   *redact.Redactor
	extractor  *extract.Extractor
	classifier *classify.Classifier
	retriever  *retrieval.Retriever
	evaluator  *evaluate.Evaluator
	drafter    *drafting.Drafter
	store      *storage.Store
	metrics    *observability.AnalyzerMetrics
	log        *slog.Logger
}

// Config collects the service's collaborators. Retriever, Drafter and
// Store are required; Metrics and Logger may be nil.
type Config struct {
	Retriever *retrieval.Retriever
	Drafter   *drafting.Drafter
	Store     *storage.Store
	Metrics   *observability.AnalyzerMetrics
	Logger    *slog.Logger
}

// NewAnalysisService builds the service from its collaborators.
func NewAnalysisService(cfg Config) (*AnalysisService, error) {
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("analysis service requires a retriever")
	}
	if cfg.Drafter == nil {
		return nil, fmt.Errorf("analysis service requires a drafter")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("analysis service requires a store")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &AnalysisService{
		redactor:   redact.New(),
		extractor:  extract.New(),
		classifier: classify.New(),
		retriever:  cfg.Retriever,
		evaluator:  evaluate.New(log),
		drafter:    cfg.Drafter,
		store:      cfg.Store,
		metrics:    cfg.Metrics,
		log:        log,
	}, nil
}

// HealthReport is the payload of the detailed health endpoint: which
// retrieval path the process is pinned to, which generation providers
// are configured, and what the store currently holds.
type HealthReport struct {
	Status        string        `json:"status"`
	RetrievalPath string        `json:"retrieval_path"`
	LLMProviders  []string      `json:"llm_providers"`
	TemplateOnly  bool          `json:"template_only"`
	Storage       storage.Stats `json:"storage"`
}

// Health snapshots the service's collaborators for the health endpoint.
func (s *AnalysisService) Health() HealthReport {
	providers := s.drafter.Providers()
	return HealthReport{
		Status:        "ok",
		RetrievalPath: s.retriever.Path(),
		LLMProviders:  providers,
		TemplateOnly:  len(providers) == 0,
		Storage:       s.store.Stats(),
	}
}

// Ingest validates the batch, redacts every document, and stores only
// the redacted form. Raw text is discarded once its length is counted.
func (s *AnalysisService) Ingest(ctx context.Context, req datatypes.IngestRequest) (datatypes.IngestResponse, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return datatypes.IngestResponse{}, err
	}

	requestID := s.store.NewRequestID()
	summaries := make([]datatypes.DocumentSummary, 0, len(req.Documents))
	for _, doc := range req.Documents {
		redacted := s.redactor.Redact(doc.Text)
		stats := s.redactor.RedactionStats(doc.Text, redacted)
		docID := s.store.Put(requestID, doc.Name, doc.TypeHint, redacted, len(doc.Text))

		summaries = append(summaries, datatypes.DocumentSummary{
			DocID:                  docID,
			Name:                   doc.Name,
			TypeHint:               doc.TypeHint,
			CharacterCount:         len(doc.Text),
			RedactedCharacterCount: len(redacted),
			PIIItemsRedacted:       stats.TotalRedacted,
		})
	}

	s.metrics.RecordDocumentsIngested(len(req.Documents))
	s.metrics.ObserveStage("ingest", time.Since(start).Seconds())
	s.log.Info("batch ingested",
		"request_id", requestID, "documents", len(req.Documents))

	return datatypes.IngestResponse{
		DocSummaries: summaries,
		RequestID:    requestID,
		Message:      fmt.Sprintf("%d document(s) ingested and redacted", len(summaries)),
	}, nil
}

// Extract builds the structured field set from already-redacted text.
func (s *AnalysisService) Extract(rawText string) *datatypes.ExtractedFields {
	return s.extractor.Extract(rawText)
}

// Evaluate retrieves the rule pack against the field summary and runs
// every ranked rule. redactedText feeds only the hygiene rule.
func (s *AnalysisService) Evaluate(fields *datatypes.ExtractedFields, redactedText string) (evaluate.Result, string) {
	ranked := s.retriever.Retrieve(fields.RetrievalSummary(), 0)
	return s.evaluator.EvaluateAll(ranked, fields, redactedText), ranked.Path
}

// Analyze runs the full pipeline over a stored batch. An empty requestID
// means the most recent ingest.
func (s *AnalysisService) Analyze(ctx context.Context, requestID string) (datatypes.AnalyzeResponse, error) {
	start := time.Now()

	if requestID == "" {
		latest, ok := s.store.LatestRequestID()
		if !ok {
			return datatypes.AnalyzeResponse{}, ErrNoDocuments
		}
		requestID = latest
	}
	stored := s.store.ByRequest(requestID)
	if len(stored) == 0 {
		return datatypes.AnalyzeResponse{}, fmt.Errorf("%w: %s", ErrNoDocuments, requestID)
	}

	fields := &datatypes.ExtractedFields{}
	classifications := make([]datatypes.ClassificationResult, 0, len(stored))
	var redactedParts []string
	for _, doc := range stored {
		classifications = append(classifications, s.classifier.Classify(datatypes.Document{
			Name:     doc.Name,
			Text:     doc.RedactedText,
			TypeHint: doc.TypeHint,
		}))
		s.extractor.ExtractInto(doc.RedactedText, doc.Name, fields)
		redactedParts = append(redactedParts, doc.RedactedText)
	}
	redactedText := strings.Join(redactedParts, "\n\n")

	result, path := s.Evaluate(fields, redactedText)
	s.metrics.RecordRetrievalPath(path)
	s.metrics.RecordCompliance(result.Checklist.RequiredOK)
	for _, item := range result.Checklist.Items {
		for _, p := range item.Problems {
			s.metrics.RecordRuleFailure(item.RuleID, p.Issue)
		}
	}

	drafts := s.drafter.Draft(ctx, fields, result.Checklist)
	if drafts.BriefFromTemplate {
		s.metrics.RecordDraftingFallback("brief")
	}
	if drafts.EmailFromTemplate {
		s.metrics.RecordDraftingFallback("email")
	}

	status := "non_compliant"
	if result.Checklist.RequiredOK {
		status = "compliant"
	}
	s.metrics.ObserveStage("analyze", time.Since(start).Seconds())
	s.log.Info("analysis complete",
		"request_id", requestID,
		"documents", len(stored),
		"retrieval_path", path,
		"compliance_status", status,
		"compliance_rate", result.Checklist.ComplianceRate,
	)

	return datatypes.AnalyzeResponse{
		Parsed: datatypes.ParsedResults{
			Classifications: classifications,
			Fields:          *fields,
		},
		Checklist:         result.Checklist,
		Citations:         result.Citations,
		Brief:             drafts.Brief,
		ClientEmail:       drafts.ClientEmail,
		RequestID:         requestID,
		DocumentsAnalyzed: len(stored),
		ComplianceStatus:  status,
		RetrievalPath:     path,
	}, nil
}
