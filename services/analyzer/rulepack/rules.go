// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rulepack

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
	"github.com/getgsa/getgsa/services/analyzer/redact"
)

// predicates binds rule ids to their evaluation logic. The pack loader
// rejects any embedded definition without a matching entry here.
var predicates = map[string]predicate{
	"R1": evaluateIdentityRegistry,
	"R2": evaluateNAICSMapping,
	"R3": evaluatePastPerformance,
	"R4": evaluatePricingCatalog,
	"R5": evaluateSubmissionHygiene,
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// hygieneRedactor backs R5's re-scan of the redacted text. The redactor
// is stateless, so one shared instance serves all evaluations.
var hygieneRedactor = redact.New()

func newVerdict(ruleID, title string) datatypes.Verdict {
	return datatypes.Verdict{
		RuleID:   ruleID,
		Title:    title,
		Evidence: []string{},
		Problems: []datatypes.Problem{},
	}
}

func addProblem(v *datatypes.Verdict, issue, description string) {
	v.Problems = append(v.Problems, datatypes.Problem{
		Issue:       issue,
		RuleID:      v.RuleID,
		Description: description,
	})
}

// fieldsOrEmpty lets predicates stay total when a caller hands in a nil
// field set: every check then reads zero values and fails with explicit
// problems instead of panicking.
func fieldsOrEmpty(in Input) *datatypes.ExtractedFields {
	if in.Fields == nil {
		return &datatypes.ExtractedFields{}
	}
	return in.Fields
}

// evaluateIdentityRegistry implements R1: a UEI of the configured length,
// a DUNS of the configured digit count, and an active SAM registration.
// Contact presence is recorded as evidence but is not a failure
// condition.
func evaluateIdentityRegistry(cfg RuleConfig, in Input) datatypes.Verdict {
	fields := fieldsOrEmpty(in)
	v := newVerdict("R1", "Identity & Registry")

	if len(fields.UEI) == cfg.UEILength && fields.UEI != "" {
		v.Evidence = append(v.Evidence, fmt.Sprintf("UEI present (%d characters)", cfg.UEILength))
	} else {
		addProblem(&v, datatypes.ProblemMissingUEI,
			fmt.Sprintf("UEI not found or invalid format (requires %d characters)", cfg.UEILength))
	}

	if len(fields.DUNS) == cfg.DUNSDigits && digitsOnly.MatchString(fields.DUNS) {
		v.Evidence = append(v.Evidence, fmt.Sprintf("DUNS present (%d digits)", cfg.DUNSDigits))
	} else {
		addProblem(&v, datatypes.ProblemMissingDUNS,
			fmt.Sprintf("DUNS not found or invalid format (requires %d digits)", cfg.DUNSDigits))
	}

	if fields.SAMStatus == "active" {
		v.Evidence = append(v.Evidence, "SAM.gov registration active")
	} else {
		status := fields.SAMStatus
		if status == "" {
			status = "unknown"
		}
		addProblem(&v, datatypes.ProblemInactiveRegistration,
			fmt.Sprintf("SAM.gov registration status: %s", status))
	}

	if fields.Contact.Email != "" && fields.Contact.Phone != "" {
		v.Evidence = append(v.Evidence, "primary contact email and phone on file (redacted)")
	}

	v.Passed = len(v.Problems) == 0
	return v
}

// evaluateNAICSMapping implements R2: at least one classification code,
// each mapped through the pack's NAICS-to-SIN table.
func evaluateNAICSMapping(cfg RuleConfig, in Input) datatypes.Verdict {
	fields := fieldsOrEmpty(in)
	v := newVerdict("R2", "NAICS & SIN Mapping")

	if len(fields.NAICSCodes) == 0 {
		addProblem(&v, datatypes.ProblemMissingNAICS, "no NAICS codes found")
		v.Passed = false
		return v
	}

	for _, code := range fields.NAICSCodes {
		sin, ok := cfg.NAICSSINMap[code]
		if !ok {
			addProblem(&v, datatypes.ProblemUnmappedNAICS,
				fmt.Sprintf("NAICS %s not in approved SIN mapping", code))
			continue
		}
		v.Evidence = append(v.Evidence, fmt.Sprintf("NAICS %s maps to SIN %s", code, sin))
	}

	v.Passed = len(v.Problems) == 0
	return v
}

// evaluatePastPerformance implements R3: at least one record at or above
// the configured value within the configured recency window. A record
// with no parseable period is not disqualified on recency; extraction
// soft-fails must not manufacture compliance failures.
func evaluatePastPerformance(cfg RuleConfig, in Input) datatypes.Verdict {
	fields := fieldsOrEmpty(in)
	v := newVerdict("R3", "Past Performance")

	cutoff := time.Now().UTC().AddDate(0, -cfg.RecencyMonths, 0)
	qualifying := 0
	for _, record := range fields.PastPerformance {
		if record.Value < cfg.MinContractValue {
			continue
		}
		if !record.EndDate.IsZero() && record.EndDate.Before(cutoff) {
			v.Evidence = append(v.Evidence, fmt.Sprintf(
				"%s ($%.0f) outside %d-month window (period %s)",
				record.Customer, record.Value, cfg.RecencyMonths, record.Period))
			continue
		}
		qualifying++
		v.Evidence = append(v.Evidence, fmt.Sprintf(
			"qualifying performance: %s - $%.0f", record.Customer, record.Value))
	}

	if qualifying == 0 {
		addProblem(&v, datatypes.ProblemInsufficientPastPerf,
			fmt.Sprintf("no past performance of $%.0f or more within the last %d months",
				cfg.MinContractValue, cfg.RecencyMonths))
	}

	v.Passed = len(v.Problems) == 0
	return v
}

// evaluatePricingCatalog implements R4: at least one line item with both
// a labor category and a positive rate.
func evaluatePricingCatalog(cfg RuleConfig, in Input) datatypes.Verdict {
	fields := fieldsOrEmpty(in)
	v := newVerdict("R4", "Pricing & Catalog")

	complete := 0
	for _, item := range fields.Pricing {
		if item.Category == "" || item.Rate <= 0 {
			addProblem(&v, datatypes.ProblemIncompletePricing,
				fmt.Sprintf("missing rate or category for %q", item.Category))
			continue
		}
		complete++
		unit := item.Unit
		if unit == "" {
			unit = "unit unspecified"
		}
		v.Evidence = append(v.Evidence, fmt.Sprintf("%s: $%.2f/%s", item.Category, item.Rate, unit))
	}

	if complete == 0 {
		addProblem(&v, datatypes.ProblemIncompletePricing,
			"no pricing line items with labor category and positive rate")
	}

	v.Passed = complete > 0 && len(v.Problems) == 0
	return v
}

// evaluateSubmissionHygiene implements R5: the post-redaction text must
// carry no live PII patterns. This rule reads the redacted text, not the
// structured fields.
func evaluateSubmissionHygiene(cfg RuleConfig, in Input) datatypes.Verdict {
	v := newVerdict("R5", "Submission Hygiene")

	findings := hygieneRedactor.FindPII(in.RedactedText)
	if findings.Count() > 0 {
		addProblem(&v, datatypes.ProblemPIIPresent,
			fmt.Sprintf("%d live PII pattern(s) remain after redaction", findings.Count()))
		v.Passed = false
		return v
	}

	v.Evidence = append(v.Evidence, "no live email or phone patterns in redacted text")
	v.Passed = true
	return v
}

// sortRulesByID orders rules by id ascending; the pack relies on this for
// deterministic corpus ordering and tie-breaks.
func sortRulesByID(rules []Rule) {
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
}
