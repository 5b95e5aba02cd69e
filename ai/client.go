// Package ai wraps the OpenAI chat API used by the generative decision
// strategy, the population generator, and the evolution analyst.
package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// LLMConfig holds configuration for LLM interactions
type LLMConfig struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// DefaultLLMConfig returns standard LLM configuration
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:       openai.GPT4oMini,
		MaxTokens:   1024,
		Temperature: 0.9,
	}
}

// Client is a thin wrapper over the OpenAI chat API.
type Client struct {
	client *openai.Client
	cfg    LLMConfig
}

// NewClient creates a chat client. Returns nil if apiKey is empty, which
// disables all generative features.
func NewClient(apiKey string, cfg LLMConfig) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		client: openai.NewClient(apiKey),
		cfg:    cfg,
	}
}

// Enabled returns true if the client is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Complete sends a system+user prompt pair and returns the raw response text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
			MaxTokens:   c.cfg.MaxTokens,
			Temperature: c.cfg.Temperature,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// StripFences removes markdown code fences models wrap JSON in despite
// instructions.
func StripFences(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}
