// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package classify labels procurement documents by type using pattern
// voting. The classifier prefers to abstain over guessing: a document
// that matches no type clearly is marked "unknown" for human review
// rather than forced into the closest bucket.
package classify

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
)

// Document type labels. "unknown" is reserved for abstentions.
const (
	TypeCompanyProfile  = "company_profile"
	TypePastPerformance = "past_performance"
	TypePricing         = "pricing"
	TypeUnknown         = "unknown"
)

// abstainThreshold is the minimum pattern-vote fraction below which the
// classifier abstains instead of committing to a type.
const abstainThreshold = 0.3

// hintThreshold is the confidence below which a caller-supplied type
// hint overrides the vote.
const hintThreshold = 0.5

// hintConfidence is reported when the hint decided the outcome.
const hintConfidence = 0.6

// typePatterns holds the per-type voting patterns. Each match is one
// vote; confidence is votes over pattern count for the winning type.
var typePatterns = map[string][]*regexp.Regexp{
	TypeCompanyProfile: {
		regexp.MustCompile(`(?i)uei[:\s(]*(?:unique entity identifier[:\s]*)?[a-zA-Z0-9]{12}`),
		regexp.MustCompile(`(?i)duns[:\s(]*(?:number[:\s]*)?[0-9]{9}`),
		regexp.MustCompile(`(?i)naics[:\s]*(?:code[:\s]*)?[0-9]{6}`),
		regexp.MustCompile(`(?i)sam[\s.]*(?:gov|registration)`),
		regexp.MustCompile(`(?i)(?:business\s+)?address[:\s]+`),
		regexp.MustCompile(`(?i)(?:primary\s+)?contact[:\s]+|poc[:\s]+`),
	},
	TypePastPerformance: {
		regexp.MustCompile(`(?i)customer[:\s]+[a-zA-Z\s]+`),
		regexp.MustCompile(`(?i)(?:contract|value)[:\s]+.*\$[0-9,]+`),
		regexp.MustCompile(`(?i)period[:\s]+.*[0-9]{4}`),
		regexp.MustCompile(`(?i)contact[:\s]+\S+@\S+`),
		regexp.MustCompile(`(?i)performance[:\s]+[a-zA-Z\s]+`),
	},
	TypePricing: {
		regexp.MustCompile(`(?i)labor\s+categor(?:y|ies)`),
		regexp.MustCompile(`(?i)(?:rate|hour)[:\s]*\$[0-9]+`),
		regexp.MustCompile(`(?i)(?:hourly|per\s+hour)`),
		regexp.MustCompile(`(?i)(?:senior|junior)\s+(?:developer|analyst|manager|engineer)`),
		regexp.MustCompile(`(?i)pricing[:\s]*(?:structure|information|sheet)`),
	},
}

// Classifier is stateless and safe for concurrent use.
type Classifier struct{}

// New returns a classifier backed by the package-level pattern tables.
func New() *Classifier {
	return &Classifier{}
}

// Classify labels one document. The type hint only matters when the vote
// is weak; a strong vote always wins over the hint.
func (c *Classifier) Classify(doc datatypes.Document) datatypes.ClassificationResult {
	bestType, confidence := vote(doc.Text)

	if confidence == 0 {
		if hinted, ok := applyHint(doc); ok {
			return hinted
		}
		return datatypes.ClassificationResult{
			DocumentName:  doc.Name,
			PredictedType: TypeUnknown,
			Abstained:     true,
			Reason:        "no recognizable patterns, requires human review",
		}
	}

	if confidence < hintThreshold {
		if hinted, ok := applyHint(doc); ok {
			return hinted
		}
	}

	if confidence < abstainThreshold {
		return datatypes.ClassificationResult{
			DocumentName:  doc.Name,
			PredictedType: TypeUnknown,
			Confidence:    confidence,
			Abstained:     true,
			Reason:        fmt.Sprintf("low confidence (%.2f), requires human review", confidence),
		}
	}

	return datatypes.ClassificationResult{
		DocumentName:  doc.Name,
		PredictedType: bestType,
		Confidence:    confidence,
	}
}

// ClassifyAll labels every document in a batch, in input order.
func (c *Classifier) ClassifyAll(docs []datatypes.Document) []datatypes.ClassificationResult {
	results := make([]datatypes.ClassificationResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, c.Classify(doc))
	}
	return results
}

// vote scores every type and returns the winner. Types are visited in
// sorted order so equal scores resolve the same way on every call.
func vote(text string) (string, float64) {
	types := make([]string, 0, len(typePatterns))
	for t := range typePatterns {
		types = append(types, t)
	}
	sort.Strings(types)

	bestType := TypeUnknown
	bestScore := 0.0
	for _, t := range types {
		patterns := typePatterns[t]
		matches := 0
		for _, p := range patterns {
			if p.MatchString(text) {
				matches++
			}
		}
		score := float64(matches) / float64(len(patterns))
		if score > bestScore {
			bestType, bestScore = t, score
		}
	}
	return bestType, bestScore
}

func applyHint(doc datatypes.Document) (datatypes.ClassificationResult, bool) {
	if doc.TypeHint == "" {
		return datatypes.ClassificationResult{}, false
	}
	if _, ok := typePatterns[doc.TypeHint]; !ok {
		return datatypes.ClassificationResult{}, false
	}
	return datatypes.ClassificationResult{
		DocumentName:  doc.Name,
		PredictedType: doc.TypeHint,
		Confidence:    hintConfidence,
		Reason:        "classified from provided type hint",
	}, true
}
