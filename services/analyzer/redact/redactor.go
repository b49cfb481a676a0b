// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package redact removes personally identifiable information from document
// text before any other component sees it.
//
// Only emails and phone numbers are in scope. Matches are replaced with
// fixed placeholders, so downstream extraction sees "[EMAIL_REDACTED]"
// where a live address used to be. The redactor also powers the submission
// hygiene rule (R5), which re-scans the redacted text and fails when any
// live pattern survived.
package redact

import (
	"regexp"
	"strings"
)

// Redaction placeholders. These must never themselves match the PII
// patterns, or IsClean would report redacted text as dirty.
const (
	EmailPlaceholder = "[EMAIL_REDACTED]"
	PhonePlaceholder = "[PHONE_REDACTED]"
)

// emailPattern matches RFC-5322-ish addresses; good enough for documents,
// not a validator.
var emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)

// phonePatterns cover the US formats seen in procurement documents.
// The bare 10-digit pattern is word-bounded so it cannot fire inside a
// longer digit run such as a 12-character numeric UEI.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-\s]?\d{4}`), // (415) 555-0100
	regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`),        // 415-555-0100
	regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{4}\b`),      // 415.555.0100
	regexp.MustCompile(`\b\d{10}\b`),                   // 4155550100
}

// Findings lists the distinct PII items located in a text.
type Findings struct {
	Emails []string
	Phones []string
}

// Count returns the total number of distinct PII items found.
func (f Findings) Count() int {
	return len(f.Emails) + len(f.Phones)
}

// Redactor replaces PII with placeholders. The zero value is not usable;
// construct with New. Redactor is stateless after construction and safe
// for concurrent use.
type Redactor struct {
	email  *regexp.Regexp
	phones []*regexp.Regexp
}

// New returns a ready Redactor.
func New() *Redactor {
	return &Redactor{email: emailPattern, phones: phonePatterns}
}

// Redact returns text with all emails and phone numbers replaced by
// placeholders. The input string is never modified.
func (r *Redactor) Redact(text string) string {
	redacted := r.email.ReplaceAllString(text, EmailPlaceholder)
	for _, p := range r.phones {
		redacted = p.ReplaceAllString(redacted, PhonePlaceholder)
	}
	return redacted
}

// FindPII locates all PII in text without modifying it. Results are
// de-duplicated, order of first appearance preserved.
func (r *Redactor) FindPII(text string) Findings {
	var findings Findings
	findings.Emails = dedupe(r.email.FindAllString(text, -1))

	var phones []string
	for _, p := range r.phones {
		phones = append(phones, p.FindAllString(text, -1)...)
	}
	findings.Phones = dedupe(phones)
	return findings
}

// IsClean reports whether text contains no live PII patterns. Placeholder
// tokens do not count as PII.
func (r *Redactor) IsClean(text string) bool {
	return r.FindPII(text).Count() == 0
}

// Stats summarizes what a redaction pass removed.
type Stats struct {
	EmailsRedacted int `json:"emails_redacted"`
	PhonesRedacted int `json:"phones_redacted"`
	TotalRedacted  int `json:"total_redacted"`
}

// RedactionStats compares the text before and after redaction.
func (r *Redactor) RedactionStats(original, redacted string) Stats {
	before := r.FindPII(original)
	after := r.FindPII(redacted)
	stats := Stats{
		EmailsRedacted: len(before.Emails) - len(after.Emails),
		PhonesRedacted: len(before.Phones) - len(after.Phones),
	}
	stats.TotalRedacted = stats.EmailsRedacted + stats.PhonesRedacted
	return stats
}

func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		key := strings.TrimSpace(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
