// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package rulepack holds the GSA Rules Pack: the fixed set of compliance
// rules (R1-R5) evaluated against extracted document fields.
//
// Rule definitions (titles, retrieval text, threshold configuration) are
// embedded YAML; the predicates live in Go and are bound by rule id at
// pack construction. A Pack is immutable once built and safe for
// concurrent reads, which is what makes citations trustworthy: a rule
// removed from the pack can never appear in a later checklist.
//
// The Pack is an explicitly constructed value injected into the retriever
// and evaluator, not a process-global registry. Tests build packs with a
// rule removed via Without without touching shared state.
package rulepack

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/getgsa/getgsa/services/analyzer/rulepack/enforcement"
)

// Pack is an immutable, ordered set of compliance rules.
type Pack struct {
	rules []Rule
}

// New loads the embedded rule definitions and binds each to its
// predicate. Returns an error when the embedded YAML is malformed or a
// definition has no matching predicate.
func New() (*Pack, error) {
	var file packFile
	if err := yaml.Unmarshal(enforcement.RuleDefinitions, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the embedded rule pack: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("embedded rule pack contains no rules")
	}

	rules := make([]Rule, 0, len(file.Rules))
	for _, def := range file.Rules {
		eval, ok := predicates[def.ID]
		if !ok {
			return nil, fmt.Errorf("rule %q has no registered predicate", def.ID)
		}
		rules = append(rules, Rule{
			ID:             def.ID,
			Title:          def.Title,
			RetrievalText:  def.RetrievalText,
			RequiredFields: def.RequiredFields,
			config:         def.Config,
			evaluate:       eval,
		})
	}
	sortRulesByID(rules)
	return &Pack{rules: rules}, nil
}

// Rules returns the rules in id order. The slice is a copy; callers
// cannot mutate the pack through it.
func (p *Pack) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Get returns the rule with the given id.
func (p *Pack) Get(id string) (Rule, bool) {
	for _, r := range p.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Size returns the number of rules in the pack.
func (p *Pack) Size() int {
	return len(p.rules)
}

// Without returns a new pack with the given rule removed. The receiver
// is unchanged. Used by tests and pack revisions to verify that removed
// rules leave no citations behind.
func (p *Pack) Without(id string) *Pack {
	rules := make([]Rule, 0, len(p.rules))
	for _, r := range p.rules {
		if r.ID != id {
			rules = append(rules, r)
		}
	}
	return &Pack{rules: rules}
}
