// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// Tests for the evaluate package

package evaluate

import (
	"testing"
	"time"

	"github.com/getgsa/getgsa/services/analyzer/datatypes"
	"github.com/getgsa/getgsa/services/analyzer/redact"
	"github.com/getgsa/getgsa/services/analyzer/retrieval"
	"github.com/getgsa/getgsa/services/analyzer/rulepack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compliantFields() *datatypes.ExtractedFields {
	return &datatypes.ExtractedFields{
		CompanyName: "Acme Federal LLC",
		UEI:         "ABC123DEF456",
		DUNS:        "123456789",
		SAMStatus:   "active",
		NAICSCodes:  []string{"541511"},
		Contact: datatypes.Contact{
			Name:  "Jane Smith",
			Email: redact.EmailPlaceholder,
			Phone: redact.PhonePlaceholder,
		},
		PastPerformance: []datatypes.ContractRecord{{
			Customer: "Department of Example",
			Value:    82000,
			Period:   "Jan 2025 - Jun 2026",
			EndDate:  time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
		}},
		Pricing: []datatypes.PriceLineItem{
			{Category: "Senior Developer", Rate: 185, Unit: "hour"},
			{Category: "Project Manager", Rate: 165, Unit: "hour"},
		},
	}
}

func rankedPack(t *testing.T, pack *rulepack.Pack, fields *datatypes.ExtractedFields) retrieval.RetrievalResult {
	t.Helper()
	r := retrieval.NewRetriever(pack, retrieval.NewTFIDFEmbedder(), nil)
	return r.Retrieve(fields.RetrievalSummary(), 0)
}

func TestEvaluateAllCompliantScenario(t *testing.T) {
	pack, err := rulepack.New()
	require.NoError(t, err)
	fields := compliantFields()

	result := New(nil).EvaluateAll(rankedPack(t, pack, fields), fields, "clean redacted text")

	assert.True(t, result.Checklist.RequiredOK)
	assert.Equal(t, 1.0, result.Checklist.ComplianceRate)
	require.Len(t, result.Checklist.Items, pack.Size())
	require.Len(t, result.Citations, pack.Size())

	for i, item := range result.Checklist.Items {
		assert.True(t, item.Passed, "rule %s should pass", item.RuleID)
		assert.Equal(t, item.RuleID, result.Citations[i].RuleID,
			"citation order must match checklist order")
	}
}

func TestEvaluateAllFailingScenario(t *testing.T) {
	pack, err := rulepack.New()
	require.NoError(t, err)
	fields := &datatypes.ExtractedFields{
		DUNS:            "123456789",
		SAMStatus:       "expired",
		NAICSCodes:      []string{"999999"},
		PastPerformance: []datatypes.ContractRecord{{
			Customer: "Old Client",
			Value:    18000,
			EndDate:  time.Date(2021, time.March, 31, 0, 0, 0, 0, time.UTC),
		}},
	}

	result := New(nil).EvaluateAll(rankedPack(t, pack, fields), fields, "ok")
	checklist := result.Checklist

	assert.False(t, checklist.RequiredOK)
	assert.True(t, checklist.HasProblem(datatypes.ProblemMissingUEI))
	assert.True(t, checklist.HasProblem(datatypes.ProblemInactiveRegistration))
	assert.True(t, checklist.HasProblem(datatypes.ProblemUnmappedNAICS))
	assert.True(t, checklist.HasProblem(datatypes.ProblemInsufficientPastPerf))
	assert.True(t, checklist.HasProblem(datatypes.ProblemIncompletePricing))
	assert.False(t, checklist.HasProblem(datatypes.ProblemEvaluationError))
}

func TestEvaluateAllEmptyRankingNotCompliant(t *testing.T) {
	result := New(nil).EvaluateAll(retrieval.RetrievalResult{}, &datatypes.ExtractedFields{}, "")

	assert.Empty(t, result.Checklist.Items)
	assert.Empty(t, result.Citations)
	assert.False(t, result.Checklist.RequiredOK,
		"an empty checklist must never read as compliant")
}

// Removing a rule from the pack must remove both its verdict and its
// citation, with no residue from the embedded definitions.
func TestEvaluateAllRespectsPackRemoval(t *testing.T) {
	pack, err := rulepack.New()
	require.NoError(t, err)
	trimmed := pack.Without("R3")
	fields := compliantFields()

	result := New(nil).EvaluateAll(rankedPack(t, trimmed, fields), fields, "clean")

	assert.Len(t, result.Checklist.Items, pack.Size()-1)
	assert.Nil(t, result.Checklist.VerdictFor("R3"))
	for _, c := range result.Citations {
		assert.NotEqual(t, "R3", c.RuleID)
	}
}

func TestEvaluateOneContainsPanic(t *testing.T) {
	panicking := rulepack.NewRule("R9", "Broken Rule", "broken rule text",
		rulepack.RuleConfig{},
		func(cfg rulepack.RuleConfig, in rulepack.Input) datatypes.Verdict {
			panic("nil map write")
		})
	sound := rulepack.NewRule("R8", "Sound Rule", "sound rule text",
		rulepack.RuleConfig{},
		func(cfg rulepack.RuleConfig, in rulepack.Input) datatypes.Verdict {
			return datatypes.Verdict{RuleID: "R8", Title: "Sound Rule", Passed: true}
		})

	ranked := retrieval.RetrievalResult{
		Path: retrieval.PathKeyword,
		Rules: []retrieval.RankedRule{
			{Rule: panicking, Score: 0.9},
			{Rule: sound, Score: 0.4},
		},
	}

	result := New(nil).EvaluateAll(ranked, &datatypes.ExtractedFields{}, "")
	require.Len(t, result.Checklist.Items, 2)

	broken := result.Checklist.VerdictFor("R9")
	require.NotNil(t, broken)
	assert.False(t, broken.Passed)
	require.Len(t, broken.Problems, 1)
	assert.Equal(t, datatypes.ProblemEvaluationError, broken.Problems[0].Issue)

	ok := result.Checklist.VerdictFor("R8")
	require.NotNil(t, ok)
	assert.True(t, ok.Passed, "a panicking rule must not poison its neighbors")

	assert.False(t, result.Checklist.RequiredOK)
	assert.Equal(t, 0.5, result.Checklist.ComplianceRate)
}

func TestCitationsCarryRuleTextAndScore(t *testing.T) {
	pack, err := rulepack.New()
	require.NoError(t, err)
	fields := compliantFields()

	result := New(nil).EvaluateAll(rankedPack(t, pack, fields), fields, "clean")
	for _, c := range result.Citations {
		rule, ok := pack.Get(c.RuleID)
		require.True(t, ok)
		assert.Equal(t, rule.RetrievalText, c.Chunk)
		assert.GreaterOrEqual(t, c.RelevanceScore, 0.0)
		assert.LessOrEqual(t, c.RelevanceScore, 1.0)
	}
}
