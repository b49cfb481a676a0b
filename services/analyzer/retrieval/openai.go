// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder produces vectors via the OpenAI embeddings API. It is an
// optional backend selected with EMBEDDING_BACKEND=openai; availability
// is verified once in Prepare (a probe embedding of the first corpus
// entry), which is what lets the retriever pin the fallback path at
// startup instead of discovering a dead key mid-session.
type OpenAIEmbedder struct {
	client  *openai.Client
	model   openai.EmbeddingModel
	timeout time.Duration
}

// NewOpenAIEmbedder reads OPENAI_API_KEY and OPENAI_EMBEDDING_MODEL.
// Returns ErrEmbeddingUnavailable when no key is configured.
func NewOpenAIEmbedder() (*OpenAIEmbedder, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrEmbeddingUnavailable)
	}
	model := openai.EmbeddingModel(os.Getenv("OPENAI_EMBEDDING_MODEL"))
	if model == "" {
		model = openai.SmallEmbedding3
		slog.Warn("OPENAI_EMBEDDING_MODEL not set, defaulting to text-embedding-3-small")
	}
	slog.Info("Initializing OpenAI embedder", "model", string(model))
	return &OpenAIEmbedder{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: 30 * time.Second,
	}, nil
}

// Name implements Embedder.
func (e *OpenAIEmbedder) Name() string { return "openai" }

// Prepare probes the API with the first corpus entry so a broken key or
// unreachable endpoint is detected before any request depends on it.
func (e *OpenAIEmbedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("%w: empty corpus", ErrEmbeddingUnavailable)
	}
	if _, err := e.Embed(corpus[0]); err != nil {
		return fmt.Errorf("%w: probe embedding failed: %v", ErrEmbeddingUnavailable, err)
	}
	return nil
}

// Embed requests one embedding from the API.
func (e *OpenAIEmbedder) Embed(text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding response contained no data")
	}
	vec := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float64(v)
	}
	return vec, nil
}
