// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package evaluate turns a retrieval ranking into a cited compliance
// checklist. Every rule the retriever returned is evaluated; rules absent
// from the ranking (removed from the pack) are never evaluated and never
// cited, so the checklist mirrors the live pack exactly.
package evaluate

import (
	"fmt"
	"log/slog"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
	"github.com/getgsa/getgsa/services/analyzer/retrieval"
	"github.com/getgsa/getgsa/services/analyzer/rulepack"
)

// Result bundles the checklist with its citations. Citations are in the
// same order as the checklist items (retrieval rank order), one per rule.
type Result struct {
	Checklist datatypes.Checklist
	Citations []datatypes.Citation
}

// Evaluator applies ranked rules to extracted fields. Stateless apart
// from the logger; safe for concurrent use.
type Evaluator struct {
	log *slog.Logger
}

// New returns an evaluator. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Evaluator {
	if log == nil {
		log = slog.Default()
	}
	return &Evaluator{log: log}
}

// EvaluateAll runs every ranked rule against the input and assembles the
// checklist plus citations. A predicate that panics yields a failed
// verdict with an evaluation_error problem instead of aborting the
// request; the verdict order always matches the ranking order.
func (e *Evaluator) EvaluateAll(ranked retrieval.RetrievalResult, fields *datatypes.ExtractedFields, redactedText string) Result {
	input := rulepack.Input{Fields: fields, RedactedText: redactedText}

	verdicts := make([]datatypes.Verdict, 0, len(ranked.Rules))
	citations := make([]datatypes.Citation, 0, len(ranked.Rules))
	for _, rr := range ranked.Rules {
		verdicts = append(verdicts, e.evaluateOne(rr.Rule, input))
		citations = append(citations, datatypes.Citation{
			RuleID:         rr.Rule.ID,
			Chunk:          rr.Rule.RetrievalText,
			RelevanceScore: rr.Score,
		})
	}

	return Result{
		Checklist: datatypes.NewChecklist(verdicts),
		Citations: citations,
	}
}

// evaluateOne guards the predicate call boundary. Predicates are written
// to be total, but a panic from one rule must not take down the verdicts
// of the other four.
func (e *Evaluator) evaluateOne(rule rulepack.Rule, in rulepack.Input) (verdict datatypes.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("rule predicate panicked",
				"rule_id", rule.ID, "panic", fmt.Sprint(r))
			verdict = datatypes.Verdict{
				RuleID: rule.ID,
				Title:  rule.Title,
				Passed: false,
				Problems: []datatypes.Problem{{
					Issue:       datatypes.ProblemEvaluationError,
					RuleID:      rule.ID,
					Description: fmt.Sprintf("rule %s evaluation failed internally", rule.ID),
				}},
			}
		}
	}()
	return rule.Evaluate(in)
}
