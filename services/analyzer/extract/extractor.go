// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extract converts raw document text into structured fields.
//
// Extraction is a fixed sequence of independent pattern matchers. Every
// matcher fails soft: when nothing matches, the corresponding field stays
// empty and extraction moves on. No matcher ever returns an error or
// mutates the input text.
//
// The extractor runs on post-redaction text. Contact fields therefore
// contain redaction placeholders rather than live PII.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
)

// Identifier patterns. Labels are matched case-insensitively with the
// variants seen in real submissions ("UEI:", "UEI (Unique Entity
// Identifier):", "DUNS Number:").
var (
	ueiPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)uei\s*(?:\([^)]*\))?[:\s]+([A-Za-z0-9]{12})\b`),
		regexp.MustCompile(`(?i)unique\s+entity\s+identifier[:\s]+([A-Za-z0-9]{12})\b`),
	}
	dunsPattern      = regexp.MustCompile(`(?i)duns\s*(?:number)?[:\s]+(\d{9})\b`)
	samStatusPattern = regexp.MustCompile(`(?i)sam(?:\.gov)?\s*(?:registration)?\s*(?:status)?[:\s]+(active|inactive)\b`)
	naicsPattern     = regexp.MustCompile(`(?i)naics\s*(?:code)?s?[:\s]+(\d{6}(?:\s*,\s*\d{6})*)`)
	naicsCodeToken   = regexp.MustCompile(`\d{6}`)
)

// Past-performance patterns, applied per contract-like block.
var (
	customerPattern = regexp.MustCompile(`(?i)customer[:\s]+([^\n]+)`)
	contractPattern = regexp.MustCompile(`(?i)contract[:\s]+([^\n]+)`)
	valuePattern    = regexp.MustCompile(`(?i)value[:\s]+\$?([\d,]+(?:\.\d+)?)`)
	dollarPattern   = regexp.MustCompile(`\$([\d,]+(?:\.\d+)?)`)
	periodPattern   = regexp.MustCompile(`(?i)period[:\s]+([^\n]+)`)
	// monthYear matches "06/2024" and "2024-06"; bareYear catches "2024".
	monthYearPattern = regexp.MustCompile(`\b(\d{1,2})/(\d{4})\b|\b(\d{4})-(\d{1,2})\b`)
	bareYearPattern  = regexp.MustCompile(`\b(20\d{2})\b`)
)

// Pricing patterns.
var (
	priceLinePattern = regexp.MustCompile(`(?mi)^\s*[-•*]?\s*([A-Za-z][A-Za-z ()/]*?)\s*:\s*\$?(\d+(?:\.\d+)?)\s*/?\s*([A-Za-z]+)?\s*$`)

	// laborVocabulary gates price lines to role-like categories, so
	// "Value: $250000" never parses as a labor rate.
	laborVocabulary = []string{
		"developer", "engineer", "analyst", "manager", "architect",
		"consultant", "specialist", "administrator", "designer", "tester",
		"lead", "scientist", "labor",
	}
)

// Contact patterns over redacted text: the values are placeholders.
var (
	contactNamePattern  = regexp.MustCompile(`(?i)(?:primary\s+)?(?:poc|contact)[:\s]+([^,\n\r]+)`)
	contactEmailPattern = regexp.MustCompile(`(?i)email[:\s]*(\[EMAIL_REDACTED\])`)
	contactPhonePattern = regexp.MustCompile(`(?i)phone[:\s]*(\[PHONE_REDACTED\])`)
)

// blockSplitPattern separates documents into paragraph blocks for
// past-performance scanning.
var blockSplitPattern = regexp.MustCompile(`\n\s*\n`)

// Extractor parses documents into ExtractedFields. It is stateless and
// safe for concurrent use; one instance serves all requests.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses one document's text into fields. Fields that fail to
// match stay at their zero values.
func (e *Extractor) Extract(text string) *datatypes.ExtractedFields {
	fields := &datatypes.ExtractedFields{}
	e.ExtractInto(text, "", fields)
	return fields
}

// ExtractInto merges the matchers' results for one document into an
// existing field set, so a multi-document batch accumulates fields.
// Scalar fields keep their first non-empty match; sequences append.
func (e *Extractor) ExtractInto(text, docName string, fields *datatypes.ExtractedFields) {
	if fields.UEI == "" {
		fields.UEI = matchUEI(text)
	}
	if fields.DUNS == "" {
		fields.DUNS = matchDUNS(text)
	}
	if fields.SAMStatus == "" {
		fields.SAMStatus = matchSAMStatus(text)
	}
	fields.NAICSCodes = appendDistinct(fields.NAICSCodes, matchNAICS(text))

	contact := matchContact(text)
	if fields.Contact.Name == "" {
		fields.Contact.Name = contact.Name
	}
	if fields.Contact.Email == "" {
		fields.Contact.Email = contact.Email
	}
	if fields.Contact.Phone == "" {
		fields.Contact.Phone = contact.Phone
	}

	fields.PastPerformance = append(fields.PastPerformance, matchPastPerformance(text, docName)...)
	fields.Pricing = append(fields.Pricing, matchPricing(text)...)

	if fields.CompanyName == "" {
		fields.CompanyName = matchCompanyName(text)
	}
}

// matchUEI finds the first 12-character alphanumeric identifier after a
// UEI label variant.
func matchUEI(text string) string {
	for _, p := range ueiPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// matchDUNS finds the first 9-digit sequence after a DUNS label.
func matchDUNS(text string) string {
	if m := dunsPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// matchSAMStatus finds an active/inactive token near a SAM label.
// Absence leaves the status undefined; that is not an error.
func matchSAMStatus(text string) string {
	if m := samStatusPattern.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// matchNAICS collects every 6-digit code after a NAICS label,
// de-duplicated, order of first appearance preserved.
func matchNAICS(text string) []string {
	var codes []string
	for _, group := range naicsPattern.FindAllStringSubmatch(text, -1) {
		codes = append(codes, naicsCodeToken.FindAllString(group[1], -1)...)
	}
	return codes
}

// matchContact picks up the contact name and the post-redaction
// email/phone placeholders.
func matchContact(text string) datatypes.Contact {
	var contact datatypes.Contact
	if m := contactNamePattern.FindStringSubmatch(text); m != nil {
		contact.Name = strings.TrimSpace(m[1])
	}
	if m := contactEmailPattern.FindStringSubmatch(text); m != nil {
		contact.Email = m[1]
	}
	if m := contactPhonePattern.FindStringSubmatch(text); m != nil {
		contact.Phone = m[1]
	}
	return contact
}

// matchPastPerformance extracts one ContractRecord per contract-like
// paragraph block. A block qualifies when it names a customer or contract
// and carries a dollar value.
func matchPastPerformance(text, docName string) []datatypes.ContractRecord {
	var records []datatypes.ContractRecord
	for _, block := range blockSplitPattern.Split(text, -1) {
		var record datatypes.ContractRecord
		record.Source = docName

		if m := customerPattern.FindStringSubmatch(block); m != nil {
			record.Customer = strings.TrimSpace(m[1])
		} else if m := contractPattern.FindStringSubmatch(block); m != nil {
			record.Customer = strings.TrimSpace(m[1])
		}

		if m := valuePattern.FindStringSubmatch(block); m != nil {
			record.Value = parseAmount(m[1])
		} else if m := dollarPattern.FindStringSubmatch(block); m != nil {
			record.Value = parseAmount(m[1])
		}

		if m := periodPattern.FindStringSubmatch(block); m != nil {
			record.Period = strings.TrimSpace(m[1])
			record.EndDate = parsePeriodEnd(record.Period)
		}

		if record.Customer != "" && record.Value > 0 {
			records = append(records, record)
		}
	}
	return records
}

// matchPricing extracts "role: rate" lines whose category contains a
// labor-vocabulary term.
func matchPricing(text string) []datatypes.PriceLineItem {
	var items []datatypes.PriceLineItem
	for _, m := range priceLinePattern.FindAllStringSubmatch(text, -1) {
		category := strings.TrimSpace(m[1])
		if !isLaborCategory(category) {
			continue
		}
		rate, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		item := datatypes.PriceLineItem{Category: category, Rate: rate}
		if m[3] != "" {
			item.Unit = strings.ToLower(m[3])
		}
		items = append(items, item)
	}
	return items
}

// matchCompanyName takes the first non-empty line unless it reads like a
// section header.
func matchCompanyName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "company") || strings.HasPrefix(lower, "profile") ||
			strings.HasPrefix(lower, "document") {
			return ""
		}
		if strings.Contains(line, ":") {
			return ""
		}
		return line
	}
	return ""
}

func isLaborCategory(category string) bool {
	lower := strings.ToLower(category)
	for _, term := range laborVocabulary {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// parseAmount converts a currency-formatted number ("2,500,000.50") to a
// float. Returns 0 when unparseable.
func parseAmount(s string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// parsePeriodEnd finds the latest month/year in a period string and
// returns the end of that month. Returns the zero time when no date is
// recognized; callers treat an unknown period as not disqualifying.
func parsePeriodEnd(period string) time.Time {
	var latest time.Time
	for _, m := range monthYearPattern.FindAllStringSubmatch(period, -1) {
		var month, year int
		if m[1] != "" {
			month, _ = strconv.Atoi(m[1])
			year, _ = strconv.Atoi(m[2])
		} else {
			year, _ = strconv.Atoi(m[3])
			month, _ = strconv.Atoi(m[4])
		}
		if month < 1 || month > 12 {
			continue
		}
		end := endOfMonth(year, time.Month(month))
		if end.After(latest) {
			latest = end
		}
	}
	if !latest.IsZero() {
		return latest
	}
	// Fall back to bare years; use December as the period end.
	for _, m := range bareYearPattern.FindAllStringSubmatch(period, -1) {
		year, _ := strconv.Atoi(m[1])
		end := endOfMonth(year, time.December)
		if end.After(latest) {
			latest = end
		}
	}
	return latest
}

func endOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0).Add(-time.Second)
}

// appendDistinct appends codes not already present, preserving order of
// first appearance.
func appendDistinct(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, code := range existing {
		seen[code] = struct{}{}
	}
	for _, code := range incoming {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		existing = append(existing, code)
	}
	return existing
}
