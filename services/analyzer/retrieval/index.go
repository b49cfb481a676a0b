// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package retrieval

import (
	"fmt"
	"sort"
)

// indexEntry is one corpus document with its precomputed vector.
type indexEntry struct {
	id     string
	vector []float64
}

// Index ranks a small fixed corpus by cosine similarity to a query
// vector. It is read-only after Build and safe for concurrent queries.
type Index struct {
	embedder Embedder
	entries  []indexEntry
}

// BuildIndex prepares the embedder on the corpus and precomputes one
// vector per entry. Building twice with the same corpus yields the same
// vectors (the Embedder contract), so rebuilds are idempotent.
//
// Returns an error wrapping ErrEmbeddingUnavailable when the embedder
// cannot be prepared; the caller switches to the keyword fallback then.
func BuildIndex(embedder Embedder, corpus []CorpusDoc) (*Index, error) {
	texts := make([]string, len(corpus))
	for i, doc := range corpus {
		texts[i] = doc.Text
	}
	if err := embedder.Prepare(texts); err != nil {
		return nil, fmt.Errorf("preparing %s embedder: %w", embedder.Name(), err)
	}

	entries := make([]indexEntry, 0, len(corpus))
	for _, doc := range corpus {
		vec, err := embedder.Embed(doc.Text)
		if err != nil {
			return nil, fmt.Errorf("embedding corpus entry %s: %w", doc.ID, err)
		}
		entries = append(entries, indexEntry{id: doc.ID, vector: vec})
	}
	// Id order makes the tie-break below stable regardless of the
	// corpus order handed in.
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return &Index{embedder: embedder, entries: entries}, nil
}

// Query embeds the text and returns all corpus ids ranked by descending
// cosine similarity, ties broken by id ascending.
func (ix *Index) Query(text string) ([]Scored, error) {
	queryVec, err := ix.embedder.Embed(text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	scored := make([]Scored, 0, len(ix.entries))
	for _, entry := range ix.entries {
		scored = append(scored, Scored{
			ID:    entry.id,
			Score: cosineSimilarity(queryVec, entry.vector),
		})
	}
	rankScored(scored)
	return scored, nil
}

// CorpusDoc is one (id, text) pair indexed for retrieval.
type CorpusDoc struct {
	ID   string
	Text string
}

// rankScored sorts by score descending with ties broken by id ascending.
// The input order is already deterministic, so equal inputs always
// produce bit-identical rankings.
func rankScored(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})
}
