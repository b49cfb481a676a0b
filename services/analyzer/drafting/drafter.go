// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package drafting produces the natural-language artifacts of an
// analysis: the negotiation prep brief and the client-facing email.
// Generation goes through the configured LLM chain when one is
// available and silently degrades to deterministic templates when it
// is not; the analyze flow never fails because a provider is down.
package drafting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
	"github.com/getgsa/getgsa/services/llm"
)

// Drafts holds both generated artifacts. The FromTemplate flags report
// which of them came from the deterministic templates because a provider
// failed or no chain was configured.
type Drafts struct {
	Brief             string
	ClientEmail       string
	BriefFromTemplate bool
	EmailFromTemplate bool
}

// Drafter generates briefs and emails. A nil client means template-only
// operation.
type Drafter struct {
	client llm.LLMClient
	log    *slog.Logger
}

// New returns a drafter over the given generation backend. client may be
// nil; a zero-size llm.Chain is treated the same way.
func New(client llm.LLMClient, log *slog.Logger) *Drafter {
	if log == nil {
		log = slog.Default()
	}
	if chain, ok := client.(*llm.Chain); ok && chain.Size() == 0 {
		client = nil
	}
	return &Drafter{client: client, log: log}
}

// Providers reports the configured generation backends in priority
// order. Template-only drafters report none.
func (d *Drafter) Providers() []string {
	switch client := d.client.(type) {
	case nil:
		return nil
	case *llm.Chain:
		return client.Providers()
	default:
		return []string{"custom"}
	}
}

// Draft produces the brief and email for one checklist, generating both
// concurrently. Provider errors degrade to templates per artifact, so a
// partial outage can still yield one AI-written piece.
func (d *Drafter) Draft(ctx context.Context, fields *datatypes.ExtractedFields, checklist datatypes.Checklist) Drafts {
	var drafts Drafts
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		drafts.Brief, drafts.BriefFromTemplate = d.brief(ctx, fields, checklist)
		return nil
	})
	g.Go(func() error {
		drafts.ClientEmail, drafts.EmailFromTemplate = d.email(ctx, fields, checklist)
		return nil
	})
	g.Wait() // both goroutines always return nil
	return drafts
}

func (d *Drafter) brief(ctx context.Context, fields *datatypes.ExtractedFields, checklist datatypes.Checklist) (string, bool) {
	if d.client == nil {
		return templateBrief(fields, checklist), true
	}
	text, err := d.client.Generate(ctx, briefPrompt(fields, checklist), briefParams())
	if err != nil || strings.TrimSpace(text) == "" {
		d.log.Warn("brief generation fell back to template", "error", err)
		return templateBrief(fields, checklist), true
	}
	return text, false
}

func (d *Drafter) email(ctx context.Context, fields *datatypes.ExtractedFields, checklist datatypes.Checklist) (string, bool) {
	if d.client == nil {
		return templateEmail(fields, checklist), true
	}
	text, err := d.client.Generate(ctx, emailPrompt(fields, checklist), emailParams())
	if err != nil || strings.TrimSpace(text) == "" {
		d.log.Warn("email generation fell back to template", "error", err)
		return templateEmail(fields, checklist), true
	}
	return text, false
}

func briefParams() llm.GenerationParams {
	temp := float32(0.3)
	maxTokens := 700
	return llm.GenerationParams{Temperature: &temp, MaxTokens: &maxTokens}
}

func emailParams() llm.GenerationParams {
	temp := float32(0.4)
	maxTokens := 500
	return llm.GenerationParams{Temperature: &temp, MaxTokens: &maxTokens}
}

func briefPrompt(fields *datatypes.ExtractedFields, checklist datatypes.Checklist) string {
	return fmt.Sprintf(`You are a GSA contracting specialist preparing a negotiation brief.

Based on the following analysis:
%s

Generate a comprehensive negotiation prep brief (2-3 paragraphs) that:
1. Summarizes the vendor's strengths and weaknesses
2. Identifies key negotiation points and leverage areas
3. Provides specific recommendations for pricing discussions
4. Cites relevant GSA rules (R1-R5) where applicable

Be professional, concise, and focus on actionable insights.`, analysisContext(fields, checklist))
}

func emailPrompt(fields *datatypes.ExtractedFields, checklist datatypes.Checklist) string {
	return fmt.Sprintf(`You are a GSA contracting specialist writing to a vendor.

Based on the following analysis:
%s

Write a professional email to the vendor that:
1. Thanks them for their submission
2. Lists any missing or deficient items, citing the GSA rule for each
3. States a clear deadline and the next steps

Keep the tone courteous and direct. Start with a Subject: line.`, analysisContext(fields, checklist))
}

// analysisContext renders the checklist for prompt inclusion. Only
// derived fields appear here; raw document text never reaches a
// provider.
func analysisContext(fields *datatypes.ExtractedFields, checklist datatypes.Checklist) string {
	var parts []string
	if name := companyOr(fields, ""); name != "" {
		parts = append(parts, "Company: "+name)
	}
	if fields != nil && len(fields.NAICSCodes) > 0 {
		parts = append(parts, "NAICS: "+strings.Join(fields.NAICSCodes, ", "))
	}

	passed, failed := 0, 0
	var problems []string
	for _, item := range checklist.Items {
		if item.Passed {
			passed++
			continue
		}
		failed++
		for _, p := range item.Problems {
			problems = append(problems, fmt.Sprintf("%s (Rule %s)", p.Description, item.RuleID))
		}
	}
	parts = append(parts, fmt.Sprintf("Compliant requirements: %d", passed))
	parts = append(parts, fmt.Sprintf("Non-compliant requirements: %d", failed))
	if len(problems) > 0 {
		parts = append(parts, "Problems: "+strings.Join(problems, "; "))
	}
	return strings.Join(parts, "\n")
}
