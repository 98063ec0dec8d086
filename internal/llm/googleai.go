package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleAIClient implements Client for Gemini through the Gen AI SDK.
type GoogleAIClient struct {
	client *genai.Client
	config *Config
}

// NewGoogleAIClient creates a new Gen AI SDK client.
func NewGoogleAIClient(ctx context.Context, config *Config, apiKey string) (*GoogleAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("googleai client: %w", err)
	}

	return &GoogleAIClient{client: client, config: config}, nil
}

// GenerateContent implements Client.
func (c *GoogleAIClient) GenerateContent(ctx context.Context, prompt string, opts Options) (string, error) {
	modelName := c.GetModel()
	return generate(ctx, ProviderGoogleAI, modelName, opts, func(ctx context.Context) (string, error) {
		resp, err := c.client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(opts.Temperature)),
			MaxOutputTokens: int32(opts.MaxOutputTokens),
		})
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		if resp == nil {
			return "", fmt.Errorf("no response")
		}
		return resp.Text(), nil
	})
}

// GetModel returns the generation model name
func (c *GoogleAIClient) GetModel() string {
	return c.config.GetModel(RoleGeneration)
}

// Close is a no-op; the Gen AI client holds no long-lived resources.
func (c *GoogleAIClient) Close() error {
	return nil
}
