// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package retrieval

import (
	"math"
	"sort"
	"strings"
)

// ruleIDBoost is added when the rule's own id appears literally in the
// query text ("check R3 compliance"), capped so scores stay in [0,1].
const ruleIDBoost = 0.1

// KeywordMatcher is the deterministic retrieval fallback: Jaccard overlap
// between lowercase alphanumeric token sets, no model required. It can
// never fail, which is what guarantees retrieval degrades gracefully
// instead of erroring when embeddings are unavailable.
type KeywordMatcher struct {
	corpus []corpusTokens
}

type corpusTokens struct {
	id     string
	tokens map[string]struct{}
}

// NewKeywordMatcher tokenizes the corpus once up front. The matcher is
// read-only afterwards and safe for concurrent queries.
func NewKeywordMatcher(corpus []CorpusDoc) *KeywordMatcher {
	entries := make([]corpusTokens, 0, len(corpus))
	for _, doc := range corpus {
		entries = append(entries, corpusTokens{id: doc.ID, tokens: tokenSet(doc.Text)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return &KeywordMatcher{corpus: entries}
}

// Query scores every corpus entry against the query text and returns the
// same ranking contract as the embedding index: all ids, descending by
// score, ties broken by id ascending.
func (m *KeywordMatcher) Query(text string) []Scored {
	queryTokens := tokenSet(text)
	queryLower := strings.ToLower(text)

	scored := make([]Scored, 0, len(m.corpus))
	for _, entry := range m.corpus {
		score := jaccard(queryTokens, entry.tokens)
		if strings.Contains(queryLower, strings.ToLower(entry.id)) {
			score = math.Min(1, score+ruleIDBoost)
		}
		scored = append(scored, Scored{ID: entry.id, Score: score})
	}
	rankScored(scored)
	return scored
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// jaccard returns |intersection| / |union| of two token sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
