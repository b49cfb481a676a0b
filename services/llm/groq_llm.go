package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient talks to Groq's OpenAI-compatible chat endpoint. It is the
// second provider in the default generation chain, behind OpenAI.
type GroqClient struct {
	client *openai.Client
	model  string
}

func NewGroqClient() (*GroqClient, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}
	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = "llama-3.1-8b-instant"
		slog.Warn("GROQ_MODEL not set, defaulting to llama-3.1-8b-instant")
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = groqBaseURL
	slog.Info("Initializing Groq client", "model", model)
	return &GroqClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Generate implements the LLMClient interface
func (g *GroqClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	slog.Debug("Generating text via Groq", "model", g.model)
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPersona()},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.MaxTokens != nil {
		req.MaxTokens = *params.MaxTokens
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("Groq API call failed", "error", err)
		return "", fmt.Errorf("Groq API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("Groq returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
