// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the request, response, and domain types shared
// by the analyzer service packages.
//
// Request types carry gin binding tags plus a shared validator/v10 instance
// with custom validators for byte limits. Domain types (ExtractedFields,
// Verdict, Checklist) are plain structs with no behavior beyond derived
// accessors, so the extraction, rule, and evaluation packages can share
// them without import cycles.
package datatypes

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxDocumentBytes is the maximum size of a single document's text.
	// Oversized uploads are rejected before redaction or storage.
	MaxDocumentBytes = 1 << 20 // 1 MiB

	// MaxDocumentsPerRequest caps the documents accepted by one ingest call.
	MaxDocumentsPerRequest = 10
)

// docValidate is the validator instance for document datatypes.
// Initialized in init() with custom validators.
var docValidate *validator.Validate

func init() {
	docValidate = validator.New()
	_ = docValidate.RegisterValidation("maxdocbytes", validateMaxDocBytes)
}

// validateMaxDocBytes checks byte length (not rune count) against
// MaxDocumentBytes, so multi-byte text cannot slip past the cap.
func validateMaxDocBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxDocumentBytes
}

// Document is one uploaded procurement document.
//
// TypeHint is an optional caller-supplied classification hint
// ("company_profile", "past_performance", "pricing") consulted only when
// the classifier's own confidence is low.
type Document struct {
	Name     string `json:"name" binding:"required" validate:"required"`
	Text     string `json:"text" binding:"required" validate:"required,maxdocbytes"`
	TypeHint string `json:"type_hint,omitempty" validate:"omitempty,oneof=company_profile past_performance pricing"`
}

// IngestRequest is the body of POST /ingest.
type IngestRequest struct {
	Documents []Document `json:"documents" binding:"required" validate:"required,min=1,max=10,dive"`
}

// Validate applies the full validation rules beyond gin's binding tags.
func (r *IngestRequest) Validate() error {
	if err := docValidate.Struct(r); err != nil {
		return fmt.Errorf("invalid ingest request: %w", err)
	}
	return nil
}

// DocumentSummary reports what ingestion did with one document. Only
// derived counts are returned; redacted text stays in the store.
type DocumentSummary struct {
	DocID                  string `json:"doc_id"`
	Name                   string `json:"name"`
	TypeHint               string `json:"type_hint,omitempty"`
	CharacterCount         int    `json:"character_count"`
	RedactedCharacterCount int    `json:"redacted_character_count"`
	PIIItemsRedacted       int    `json:"pii_items_redacted"`
}

// IngestResponse is the body returned by POST /ingest.
type IngestResponse struct {
	DocSummaries []DocumentSummary `json:"doc_summaries"`
	RequestID    string            `json:"request_id"`
	Message      string            `json:"message"`
}
