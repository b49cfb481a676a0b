// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package retrieval ranks the rule pack against query text.
//
// Two paths exist: an embedding index (cosine similarity over vectors
// produced by an Embedder) and a deterministic keyword fallback (Jaccard
// token overlap). The Retriever tries the embedding path once at first
// use; if the embedder cannot be prepared it pins the fallback path for
// the process lifetime, so retrieval never fails outright and never
// switches behavior mid-session.
//
// Both paths share one ranking contract: all corpus ids, descending by
// score in [0,1], ties broken by id ascending. Repeated queries with the
// same corpus and text produce bit-identical orderings.
package retrieval

import "errors"

// ErrEmbeddingUnavailable signals that the vector model could not be
// initialized or loaded. The Retriever treats it as the cue to switch to
// the keyword fallback; it is never surfaced to analyze callers.
var ErrEmbeddingUnavailable = errors.New("embedding model unavailable")

// Embedder maps text to a fixed-dimension vector.
//
// Prepare is called once with the full rule corpus before any Embed call;
// implementations may build vocabulary or verify model access there.
// Preparing twice with the same corpus must yield the same vectors up to
// numeric tolerance. Implementations must be safe for concurrent Embed
// calls after Prepare returns.
type Embedder interface {
	// Name identifies the implementation ("tfidf", "openai") for logs.
	Name() string

	// Prepare readies the embedder for the given corpus. Returns
	// ErrEmbeddingUnavailable (possibly wrapped) when the underlying
	// model cannot be initialized.
	Prepare(corpus []string) error

	// Embed computes the vector for one text. Only valid after a
	// successful Prepare.
	Embed(text string) ([]float64, error)
}

// Scored is one (rule id, score) pair in a ranking.
type Scored struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}
