package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient implements Client for OpenAI chat completions.
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client. A key is optional when
// BaseURL points at a local OpenAI-compatible server.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" && config.BaseURL == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAIClient{client: openai.NewClient(opts...), config: config}, nil
}

// GenerateContent implements Client.
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, opts Options) (string, error) {
	modelName := c.GetModel()
	return generate(ctx, ProviderOpenAI, modelName, opts, func(ctx context.Context) (string, error) {
		resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: shared.ChatModel(modelName),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			MaxTokens:   openai.Int(int64(opts.MaxOutputTokens)),
			Temperature: openai.Float(opts.Temperature),
		})
		if err != nil {
			return "", fmt.Errorf("openai request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices in response")
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// GetModel returns the generation model name
func (c *OpenAIClient) GetModel() string {
	return c.config.GetModel(RoleGeneration)
}

// Close is a no-op for the HTTP-based client.
func (c *OpenAIClient) Close() error {
	return nil
}
