// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package retrieval

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/getgsa/getgsa/services/analyzer/rulepack"
)

// =============================================================================
// Retriever
// =============================================================================

const (
	// PathEmbedding marks results ranked by embedding cosine similarity.
	PathEmbedding = "embedding"
	// PathKeyword marks results ranked by the keyword fallback matcher.
	PathKeyword = "keyword"
)

// RankedRule pairs a rule with its relevance score for one query.
type RankedRule struct {
	Rule  rulepack.Rule
	Score float64
}

// RetrievalResult is the ordered outcome of a single retrieval query.
// Rules are sorted by score descending, ties broken by rule id ascending,
// so repeated queries over the same pack always return the same order.
type RetrievalResult struct {
	Rules []RankedRule
	Path  string
}

// Retriever ranks a rule pack against query text. It prefers the configured
// embedder and pins itself to the keyword matcher for the lifetime of the
// process if the embedder reports ErrEmbeddingUnavailable during index
// construction. The availability probe runs exactly once, on first use.
type Retriever struct {
	pack     *rulepack.Pack
	embedder Embedder
	log      *slog.Logger

	buildOnce sync.Once
	index     *Index
	fallback  *KeywordMatcher
	path      string
}

// NewRetriever wires a retriever over the given pack and embedder.
// A nil logger falls back to slog.Default.
func NewRetriever(pack *rulepack.Pack, embedder Embedder, log *slog.Logger) *Retriever {
	if log == nil {
		log = slog.Default()
	}
	return &Retriever{pack: pack, embedder: embedder, log: log}
}

func (r *Retriever) corpus() []CorpusDoc {
	rules := r.pack.Rules()
	docs := make([]CorpusDoc, 0, len(rules))
	for _, rule := range rules {
		docs = append(docs, CorpusDoc{ID: rule.ID, Text: rule.RetrievalText})
	}
	return docs
}

func (r *Retriever) ensureIndex() {
	r.buildOnce.Do(func() {
		docs := r.corpus()
		// The keyword matcher is always built so the degraded path never
		// has to mutate the retriever under concurrent requests.
		r.fallback = NewKeywordMatcher(docs)
		idx, err := BuildIndex(r.embedder, docs)
		if err != nil {
			if !errors.Is(err, ErrEmbeddingUnavailable) {
				r.log.Error("retrieval index build failed", "error", err)
			}
			r.log.Warn("embedding model unavailable, pinning keyword fallback",
				"embedder", r.embedder.Name(), "error", err)
			r.path = PathKeyword
			return
		}
		r.index = idx
		r.path = PathEmbedding
		r.log.Info("retrieval index ready",
			"embedder", r.embedder.Name(), "rules", len(docs))
	})
}

// Path reports which ranking path the retriever is pinned to. It triggers
// the one-time availability probe if that has not happened yet.
func (r *Retriever) Path() string {
	r.ensureIndex()
	return r.path
}

// Retrieve ranks the pack's rules against queryText and returns the top
// topK of them. topK <= 0 or larger than the pack returns every rule.
func (r *Retriever) Retrieve(queryText string, topK int) RetrievalResult {
	r.ensureIndex()

	var scored []Scored
	path := r.path
	if r.index != nil {
		ranked, err := r.index.Query(queryText)
		if err != nil {
			// A query-time failure after a successful build is transient;
			// serve this request from keywords without repinning.
			r.log.Warn("embedding query failed, using keyword ranking for request",
				"error", err)
			ranked = r.fallback.Query(queryText)
			path = PathKeyword
		}
		scored = ranked
	} else {
		scored = r.fallback.Query(queryText)
	}

	if topK <= 0 || topK > len(scored) {
		topK = len(scored)
	}

	result := RetrievalResult{Path: path, Rules: make([]RankedRule, 0, topK)}
	for _, s := range scored[:topK] {
		rule, ok := r.pack.Get(s.ID)
		if !ok {
			continue
		}
		result.Rules = append(result.Rules, RankedRule{Rule: rule, Score: s.Score})
	}
	return result
}
