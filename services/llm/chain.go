// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrNoProviders is returned by a chain with no configured backends.
var ErrNoProviders = errors.New("no LLM providers configured")

// namedClient pairs a backend with its label for logging.
type namedClient struct {
	name   string
	client LLMClient
}

// Chain tries a sequence of backends in order and returns the first
// successful generation. Callers that need a non-failing path wrap the
// chain themselves (drafting falls back to deterministic templates).
type Chain struct {
	clients []namedClient
	log     *slog.Logger
}

// NewChain builds a chain over the given named backends, in priority
// order. A nil logger falls back to slog.Default.
func NewChain(log *slog.Logger) *Chain {
	if log == nil {
		log = slog.Default()
	}
	return &Chain{log: log}
}

// Add appends a backend to the chain. Nil clients are ignored so callers
// can pass the result of a failed constructor without checking.
func (c *Chain) Add(name string, client LLMClient) *Chain {
	if client == nil {
		return c
	}
	c.clients = append(c.clients, namedClient{name: name, client: client})
	return c
}

// Size reports how many backends are configured.
func (c *Chain) Size() int { return len(c.clients) }

// Providers lists the configured backend names in priority order.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.clients))
	for _, nc := range c.clients {
		names = append(names, nc.name)
	}
	return names
}

// Generate implements the LLMClient interface. Each provider failure is
// logged and the next backend is tried; the last error is returned when
// every backend fails.
func (c *Chain) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	if len(c.clients) == 0 {
		return "", ErrNoProviders
	}

	var lastErr error
	for _, nc := range c.clients {
		text, err := nc.client.Generate(ctx, prompt, params)
		if err == nil {
			return text, nil
		}
		lastErr = err
		c.log.Warn("LLM provider failed, trying next", "provider", nc.name, "error", err)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("all LLM providers failed: %w", lastErr)
}

// ChainFromEnv wires the default provider order from the environment:
// OpenAI, then Groq, then Ollama. Providers whose configuration is
// absent are skipped; an empty chain is valid and callers fall back to
// template generation.
func ChainFromEnv(log *slog.Logger) *Chain {
	chain := NewChain(log)

	if os.Getenv("OPENAI_API_KEY") != "" {
		if client, err := NewOpenAIClient(); err == nil {
			chain.Add("openai", client)
		}
	}
	if os.Getenv("GROQ_API_KEY") != "" {
		if client, err := NewGroqClient(); err == nil {
			chain.Add("groq", client)
		}
	}
	if os.Getenv("OLLAMA_BASE_URL") != "" {
		if client, err := NewOllamaClient(); err == nil {
			chain.Add("ollama", client)
		}
	}
	return chain
}
