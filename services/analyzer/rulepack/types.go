// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rulepack

import (
	"github.com/getgsa/getgsa/services/analyzer/datatypes"
)

// Input carries everything a rule predicate may inspect. RedactedText is
// the post-redaction document text; only the submission hygiene rule (R5)
// reads it, the structured-field rules ignore it.
type Input struct {
	Fields       *datatypes.ExtractedFields
	RedactedText string
}

// RuleConfig holds the per-rule threshold values loaded from the pack
// definition. Zero values mean "not configured for this rule".
type RuleConfig struct {
	UEILength        int               `yaml:"uei_length"`
	DUNSDigits       int               `yaml:"duns_digits"`
	NAICSSINMap      map[string]string `yaml:"naics_sin_map"`
	MinContractValue float64           `yaml:"min_contract_value"`
	RecencyMonths    int               `yaml:"recency_months"`
}

// ruleDefinition is the YAML shape of one rule in the embedded pack file.
type ruleDefinition struct {
	ID             string     `yaml:"id"`
	Title          string     `yaml:"title"`
	RetrievalText  string     `yaml:"retrieval_text"`
	RequiredFields []string   `yaml:"required_fields"`
	Config         RuleConfig `yaml:"config"`
}

// packFile is the YAML shape of the embedded pack file.
type packFile struct {
	Rules []ruleDefinition `yaml:"rules"`
}

// predicate evaluates structured input against one rule's requirements.
// Predicates are pure: no I/O, no side effects, and they never panic on
// well-formed input. The evaluator still guards the call boundary so a
// malformed field cannot abort a whole checklist.
type predicate func(cfg RuleConfig, in Input) datatypes.Verdict

// Rule is one immutable compliance rule. Rules are built once at pack
// construction and never mutated afterwards; every Rule value handed out
// by a Pack is a copy.
type Rule struct {
	ID             string
	Title          string
	RetrievalText  string
	RequiredFields []string

	config   RuleConfig
	evaluate predicate
}

// Evaluate applies the rule's predicate to the input and returns a fresh
// Verdict. It is safe for concurrent use.
func (r Rule) Evaluate(in Input) datatypes.Verdict {
	return r.evaluate(r.config, in)
}

// NewRule builds a rule with a caller-supplied predicate. Production
// rules come from the embedded pack definitions; this exists for pack
// extensions and tests.
func NewRule(id, title, retrievalText string, cfg RuleConfig, eval func(RuleConfig, Input) datatypes.Verdict) Rule {
	return Rule{ID: id, Title: title, RetrievalText: retrievalText, config: cfg, evaluate: eval}
}
