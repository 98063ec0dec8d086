package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client for Claude models.
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicClient{client: anthropic.NewClient(opts...), config: config}, nil
}

// GenerateContent implements Client.
func (c *AnthropicClient) GenerateContent(ctx context.Context, prompt string, opts Options) (string, error) {
	modelName := c.GetModel()
	return generate(ctx, ProviderAnthropic, modelName, opts, func(ctx context.Context) (string, error) {
		resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(modelName),
			MaxTokens: int64(opts.MaxOutputTokens),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
			Temperature: anthropic.Float(opts.Temperature),
		})
		if err != nil {
			return "", fmt.Errorf("anthropic request failed: %w", err)
		}

		var sb strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		return sb.String(), nil
	})
}

// GetModel returns the generation model name
func (c *AnthropicClient) GetModel() string {
	return c.config.GetModel(RoleGeneration)
}

// Close is a no-op for the HTTP-based client.
func (c *AnthropicClient) Close() error {
	return nil
}
