// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// Problem codes emitted by rule predicates. Handlers and clients match on
// these strings, so they are part of the API surface and never change.
const (
	ProblemMissingUEI           = "missing_uei"
	ProblemMissingDUNS          = "missing_duns"
	ProblemInactiveRegistration = "inactive_registration"
	ProblemMissingNAICS         = "missing_naics"
	ProblemUnmappedNAICS        = "unmapped_naics"
	ProblemInsufficientPastPerf = "insufficient_past_performance"
	ProblemIncompletePricing    = "incomplete_pricing"
	ProblemPIIPresent           = "pii_present"
	ProblemEvaluationError      = "evaluation_error"
)

// Problem describes one compliance defect found by a rule predicate.
type Problem struct {
	Issue       string `json:"issue"`
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
}

// Verdict is the outcome of evaluating one rule against one field set.
// Verdicts are built fresh per evaluation call and never cached across
// documents.
type Verdict struct {
	RuleID   string    `json:"rule_id"`
	Title    string    `json:"title"`
	Passed   bool      `json:"passed"`
	Evidence []string  `json:"evidence"`
	Problems []Problem `json:"problems"`
}

// Citation links a checklist verdict back to the rule text that was
// retrieved for it, with the retrieval relevance score.
type Citation struct {
	RuleID         string  `json:"rule_id"`
	Chunk          string  `json:"chunk"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Checklist aggregates the verdicts of one analysis, in retrieval order.
//
// RequiredOK is true only when every verdict passed AND the checklist is
// non-empty: a zero-rule checklist signals misconfiguration and must not
// read as compliant.
type Checklist struct {
	Items          []Verdict `json:"items"`
	RequiredOK     bool      `json:"required_ok"`
	ComplianceRate float64   `json:"compliance_rate"`
}

// NewChecklist derives the aggregate flags from the verdict sequence.
func NewChecklist(items []Verdict) Checklist {
	checklist := Checklist{Items: items}
	if len(items) == 0 {
		return checklist
	}
	passed := 0
	for _, v := range items {
		if v.Passed {
			passed++
		}
	}
	checklist.RequiredOK = passed == len(items)
	checklist.ComplianceRate = float64(passed) / float64(len(items))
	return checklist
}

// HasProblem reports whether any verdict carries the given issue code.
func (c *Checklist) HasProblem(issue string) bool {
	for _, item := range c.Items {
		for _, p := range item.Problems {
			if p.Issue == issue {
				return true
			}
		}
	}
	return false
}

// VerdictFor returns the verdict for a rule id, or nil when the rule was
// not part of this evaluation (e.g. removed from the pack).
func (c *Checklist) VerdictFor(ruleID string) *Verdict {
	for i := range c.Items {
		if c.Items[i].RuleID == ruleID {
			return &c.Items[i]
		}
	}
	return nil
}
