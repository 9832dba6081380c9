package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Generation parameters for notification text.
const (
	generateTimeout     = 20 * time.Second
	generateMaxTokens   = 200
	generateTemperature = 0.2
)

// Generator produces free text from a prompt via the chat completions API.
// The notification composer treats every failure here as a signal to fall
// back to its deterministic template.
type Generator struct {
	client     *openai.Client
	model      string
	configured bool
}

// GeneratorConfig holds the text generation provider settings.
type GeneratorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewGenerator creates a chat-completion text generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		configured: cfg.APIKey != "",
	}
}

// Enabled reports whether a credential is configured.
func (g *Generator) Enabled() bool {
	return g.configured
}

// Generate sends a single prompt and returns the raw completion text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
