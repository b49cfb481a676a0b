// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package retrieval

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern splits text into lowercase alphanumeric tokens. Rule ids
// like "R3" and codes like "541511" survive tokenization, which both the
// TF-IDF vocabulary and the keyword fallback rely on.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// tokenize lowercases text and returns its alphanumeric tokens.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// TFIDFEmbedder is a local, deterministic embedder: it builds a
// vocabulary from the rule corpus and produces L2-normalized TF-IDF
// vectors. It needs no model artifact and no network, so it is the
// default embedding backend. Vocabulary order is sorted, which makes
// repeated Prepare calls yield identical vectors.
type TFIDFEmbedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
}

// NewTFIDFEmbedder returns an unprepared TF-IDF embedder.
func NewTFIDFEmbedder() *TFIDFEmbedder {
	return &TFIDFEmbedder{vocabulary: make(map[string]int)}
}

// Name implements Embedder.
func (e *TFIDFEmbedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and smoothed IDF values from the corpus.
func (e *TFIDFEmbedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("%w: empty corpus", ErrEmbeddingUnavailable)
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return fmt.Errorf("%w: corpus has no tokens", ErrEmbeddingUnavailable)
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Embed computes the L2-normalized TF-IDF vector for text. Tokens outside
// the corpus vocabulary contribute nothing; a query sharing no vocabulary
// yields the zero vector, which cosine-scores 0 against everything.
func (e *TFIDFEmbedder) Embed(text string) ([]float64, error) {
	if !e.prepared {
		return nil, fmt.Errorf("%w: embedder not prepared", ErrEmbeddingUnavailable)
	}

	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		vec[idx] = (float64(count) / float64(total)) * e.idf[idx]
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// cosineSimilarity returns the cosine of two equal-length vectors,
// clamped to [0,1] so retrieval scores stay in range regardless of the
// embedding backend.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Min(1, math.Max(0, score))
}
