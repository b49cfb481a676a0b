// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// ClassificationResult reports how a document was classified, with the
// confidence score and whether the classifier abstained rather than guess.
type ClassificationResult struct {
	DocumentName  string  `json:"document_name"`
	PredictedType string  `json:"predicted_type"`
	Confidence    float64 `json:"confidence"`
	Abstained     bool    `json:"abstained"`
	Reason        string  `json:"reason,omitempty"`
}

// AnalyzeRequest is the body of POST /analyze. RequestID defaults to the
// most recent ingest when empty.
type AnalyzeRequest struct {
	RequestID string `json:"request_id,omitempty"`
}

// ParsedResults bundles everything the extraction stage produced for one
// document batch.
type ParsedResults struct {
	Classifications []ClassificationResult `json:"classifications"`
	Fields          ExtractedFields        `json:"fields"`
}

// AnalyzeResponse is the body returned by POST /analyze.
type AnalyzeResponse struct {
	Parsed            ParsedResults `json:"parsed"`
	Checklist         Checklist     `json:"checklist"`
	Citations         []Citation    `json:"citations"`
	Brief             string        `json:"brief"`
	ClientEmail       string        `json:"client_email"`
	RequestID         string        `json:"request_id"`
	DocumentsAnalyzed int           `json:"documents_analyzed"`
	ComplianceStatus  string        `json:"compliance_status"`
	RetrievalPath     string        `json:"retrieval_path"`
}
