// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"strings"
	"time"
)

// Contact holds post-redaction contact info. By the time extraction runs,
// the redactor has replaced live emails and phone numbers with
// placeholders, so these fields only ever hold placeholders or are empty.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ContractRecord is one past-performance entry extracted from a document.
//
// EndDate is the parsed end of the period of performance; zero when no
// date range was recognized. Period keeps the raw text for evidence.
type ContractRecord struct {
	Customer string    `json:"customer,omitempty"`
	Value    float64   `json:"value"`
	Period   string    `json:"period,omitempty"`
	EndDate  time.Time `json:"end_date,omitzero"`
	Source   string    `json:"source_document,omitempty"`
}

// PriceLineItem is one "labor category: rate" line from a pricing sheet.
type PriceLineItem struct {
	Category string  `json:"category"`
	Rate     float64 `json:"rate"`
	Unit     string  `json:"unit,omitempty"`
}

// ExtractedFields is the structured field set built per document batch.
// It is request-scoped and never shared between concurrent analyses.
type ExtractedFields struct {
	CompanyName     string           `json:"company_name,omitempty"`
	UEI             string           `json:"uei,omitempty"`
	DUNS            string           `json:"duns,omitempty"`
	SAMStatus       string           `json:"sam_status,omitempty"`
	NAICSCodes      []string         `json:"naics,omitempty"`
	Contact         Contact          `json:"contact,omitzero"`
	PastPerformance []ContractRecord `json:"past_performance,omitempty"`
	Pricing         []PriceLineItem  `json:"pricing,omitempty"`
}

// HasAny reports whether extraction recognized at least one field.
func (f *ExtractedFields) HasAny() bool {
	return f.UEI != "" || f.DUNS != "" || f.SAMStatus != "" ||
		len(f.NAICSCodes) > 0 || len(f.PastPerformance) > 0 || len(f.Pricing) > 0 ||
		f.Contact.Email != "" || f.Contact.Phone != ""
}

// RetrievalSummary renders the canonical query text used when retrieving
// rules for compliance evaluation. It is a deterministic concatenation of
// field-presence markers: identical field sets always produce identical
// query text, which keeps retrieval ordering reproducible.
func (f *ExtractedFields) RetrievalSummary() string {
	var parts []string
	if f.UEI != "" {
		parts = append(parts, "uei unique entity identifier")
	}
	if f.DUNS != "" {
		parts = append(parts, "duns registration number")
	}
	if f.SAMStatus != "" {
		parts = append(parts, "sam registration status "+f.SAMStatus)
	}
	if len(f.NAICSCodes) > 0 {
		parts = append(parts, "naics codes sin mapping")
	}
	if f.Contact.Email != "" || f.Contact.Phone != "" {
		parts = append(parts, "primary contact email phone")
	}
	if len(f.PastPerformance) > 0 {
		parts = append(parts, "past performance customer contract value period")
	}
	if len(f.Pricing) > 0 {
		parts = append(parts, "pricing labor categories rates catalog")
	}
	parts = append(parts, "submission hygiene pii redaction")
	return strings.Join(parts, " ")
}
