// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package drafting

import (
	"fmt"
	"strings"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
)

// Deterministic templates used when no LLM provider is reachable. Same
// checklist in, same text out, so the analyze endpoint never fails on
// provider outages and stays reproducible in tests.

func templateBrief(fields *datatypes.ExtractedFields, checklist datatypes.Checklist) string {
	company := companyOr(fields, "The vendor")

	var strengths, weaknesses, negotiationPoints []string
	for _, item := range checklist.Items {
		if item.Passed {
			strengths = append(strengths, fmt.Sprintf("%s (Rule %s)", item.Title, item.RuleID))
			continue
		}
		issues := make([]string, 0, len(item.Problems))
		for _, p := range item.Problems {
			issues = append(issues, p.Issue)
		}
		weaknesses = append(weaknesses, fmt.Sprintf("%s - %s (Rule %s)",
			item.Title, strings.Join(issues, ", "), item.RuleID))

		for _, p := range item.Problems {
			switch p.Issue {
			case datatypes.ProblemIncompletePricing:
				negotiationPoints = append(negotiationPoints,
					"Request a detailed pricing breakdown with clear rate basis and units.")
			case datatypes.ProblemInsufficientPastPerf:
				negotiationPoints = append(negotiationPoints,
					"Require additional past performance examples or accept higher risk.")
			case datatypes.ProblemMissingUEI, datatypes.ProblemMissingDUNS, datatypes.ProblemMissingNAICS:
				negotiationPoints = append(negotiationPoints,
					"Obtain missing registration documentation before contract award.")
			}
		}
	}

	var parts []string
	switch {
	case len(strengths) > 0 && len(weaknesses) > 0:
		parts = append(parts, fmt.Sprintf(
			"Overall Assessment: %s presents a mixed profile. They meet %d key requirements, "+
				"with %d area(s) requiring attention before contract award.",
			company, len(strengths), len(weaknesses)))
	case len(strengths) > 0:
		parts = append(parts, fmt.Sprintf(
			"Overall Assessment: %s demonstrates strong compliance across all reviewed areas, "+
				"meeting %d key GSA requirements. This positions them as a low-risk vendor.",
			company, len(strengths)))
	default:
		parts = append(parts, fmt.Sprintf(
			"Overall Assessment: %s has significant compliance gaps that must be addressed. "+
				"High risk profile requiring substantial remediation before contract consideration.",
			company))
	}

	findings := "Key Findings: "
	if len(strengths) > 0 {
		findings += "Strengths include: " + strings.Join(head(strengths, 3), "; ") + ". "
	}
	if len(weaknesses) > 0 {
		findings += "Critical gaps: " + strings.Join(head(weaknesses, 3), "; ") + ". "
	}
	parts = append(parts, findings)

	if len(negotiationPoints) > 0 {
		parts = append(parts, "Negotiation Strategy: "+strings.Join(dedupe(head(negotiationPoints, 3)), " "))
	} else {
		parts = append(parts, "Negotiation Strategy: Vendor meets all requirements. "+
			"Focus on competitive pricing and favorable terms.")
	}

	return strings.Join(parts, "\n\n")
}

func templateEmail(fields *datatypes.ExtractedFields, checklist datatypes.Checklist) string {
	company := companyOr(fields, "your organization")

	var missing []string
	for _, item := range checklist.Items {
		if item.Passed {
			continue
		}
		for _, p := range item.Problems {
			missing = append(missing, fmt.Sprintf("- %s (per GSA Rule %s)", p.Description, item.RuleID))
		}
	}

	if len(missing) > 0 {
		return fmt.Sprintf(`Subject: GSA Submission Review - Additional Information Required

Dear %s Team,

Thank you for your recent GSA submission. Our review team has completed the initial analysis of your documentation.

To proceed with your application, we need the following items to be addressed:

%s

Please provide the missing information within 10 business days. Once we receive these items, we will complete our review and provide next steps.

We appreciate your interest in working with GSA and look forward to your response.

Best regards,
GSA Contracting Team`, company, strings.Join(missing, "\n"))
	}

	return fmt.Sprintf(`Subject: GSA Submission Review - Complete

Dear %s Team,

Thank you for your GSA submission. Our review team has completed the analysis of your documentation.

We are pleased to inform you that your submission meets all initial requirements. We will proceed with the next phase of the evaluation process and will contact you within 5 business days with further instructions.

Thank you for your thoroughness in preparing your submission.

Best regards,
GSA Contracting Team`, company)
}

func companyOr(fields *datatypes.ExtractedFields, fallback string) string {
	if fields != nil && fields.CompanyName != "" {
		return fields.CompanyName
	}
	return fallback
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
