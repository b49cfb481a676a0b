// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// Tests for the drafting package

package drafting

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
	"github.com/getgsa/getgsa/services/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	text string
	err  error
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	return f.text, f.err
}

func passingChecklist() datatypes.Checklist {
	return datatypes.NewChecklist([]datatypes.Verdict{
		{RuleID: "R1", Title: "Identity & Registry", Passed: true},
		{RuleID: "R2", Title: "NAICS & SIN Mapping", Passed: true},
	})
}

func failingChecklist() datatypes.Checklist {
	return datatypes.NewChecklist([]datatypes.Verdict{
		{RuleID: "R1", Title: "Identity & Registry", Passed: true},
		{RuleID: "R4", Title: "Pricing & Catalog", Passed: false, Problems: []datatypes.Problem{{
			Issue:       datatypes.ProblemIncompletePricing,
			RuleID:      "R4",
			Description: "no pricing line items with labor category and positive rate",
		}}},
	})
}

func TestDraftUsesLLMWhenAvailable(t *testing.T) {
	d := New(&fakeLLM{text: "AI generated artifact"}, nil)

	drafts := d.Draft(context.Background(), &datatypes.ExtractedFields{}, passingChecklist())
	assert.Equal(t, "AI generated artifact", drafts.Brief)
	assert.Equal(t, "AI generated artifact", drafts.ClientEmail)
	assert.False(t, drafts.BriefFromTemplate)
	assert.False(t, drafts.EmailFromTemplate)
}

func TestDraftFallsBackToTemplatesOnError(t *testing.T) {
	d := New(&fakeLLM{err: errors.New("provider down")}, nil)
	fields := &datatypes.ExtractedFields{CompanyName: "Acme Federal LLC"}

	drafts := d.Draft(context.Background(), fields, passingChecklist())
	assert.Contains(t, drafts.Brief, "Acme Federal LLC")
	assert.Contains(t, drafts.Brief, "Overall Assessment")
	assert.Contains(t, drafts.ClientEmail, "Subject: GSA Submission Review - Complete")
	assert.True(t, drafts.BriefFromTemplate)
	assert.True(t, drafts.EmailFromTemplate)
}

func TestDraftNilClientIsTemplateOnly(t *testing.T) {
	d := New(nil, nil)

	drafts := d.Draft(context.Background(), nil, failingChecklist())
	assert.Contains(t, drafts.Brief, "Negotiation Strategy")
	assert.Contains(t, drafts.ClientEmail, "Additional Information Required")
}

func TestDraftEmptyChainTreatedAsNil(t *testing.T) {
	d := New(llm.NewChain(nil), nil)

	drafts := d.Draft(context.Background(), nil, passingChecklist())
	assert.Contains(t, drafts.Brief, "Overall Assessment")
}

func TestTemplateBriefMixedProfile(t *testing.T) {
	brief := templateBrief(&datatypes.ExtractedFields{CompanyName: "Acme"}, failingChecklist())

	assert.Contains(t, brief, "mixed profile")
	assert.Contains(t, brief, "Identity & Registry (Rule R1)")
	assert.Contains(t, brief, "incomplete_pricing")
	assert.Contains(t, brief, "detailed pricing breakdown")
}

func TestTemplateBriefAllFailing(t *testing.T) {
	checklist := datatypes.NewChecklist([]datatypes.Verdict{
		{RuleID: "R1", Title: "Identity & Registry", Passed: false, Problems: []datatypes.Problem{{
			Issue: datatypes.ProblemMissingUEI, RuleID: "R1", Description: "UEI not found",
		}}},
	})

	brief := templateBrief(nil, checklist)
	assert.Contains(t, brief, "significant compliance gaps")
	assert.Contains(t, brief, "missing registration documentation")
}

func TestTemplateEmailListsProblemsWithRules(t *testing.T) {
	email := templateEmail(&datatypes.ExtractedFields{CompanyName: "Acme"}, failingChecklist())

	require.Contains(t, email, "Dear Acme Team")
	assert.Contains(t, email, "per GSA Rule R4")
	assert.Contains(t, email, "10 business days")
}

func TestTemplateOutputsAreDeterministic(t *testing.T) {
	fields := &datatypes.ExtractedFields{CompanyName: "Acme"}
	checklist := failingChecklist()

	first := templateBrief(fields, checklist) + templateEmail(fields, checklist)
	for i := 0; i < 5; i++ {
		again := templateBrief(fields, checklist) + templateEmail(fields, checklist)
		assert.Equal(t, first, again)
	}
}

func TestAnalysisContextOmitsRawText(t *testing.T) {
	fields := &datatypes.ExtractedFields{
		CompanyName: "Acme",
		NAICSCodes:  []string{"541511"},
	}
	ctx := analysisContext(fields, failingChecklist())

	assert.True(t, strings.HasPrefix(ctx, "Company: Acme"))
	assert.Contains(t, ctx, "NAICS: 541511")
	assert.Contains(t, ctx, "Non-compliant requirements: 1")
}
