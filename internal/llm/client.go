package llm

import (
	"context"
	"fmt"
	"strings"
)

// Options controls a single generation call.
type Options struct {
	MaxOutputTokens int
	Temperature     float64
}

// DefaultOptions returns 700 output tokens at temperature 0.2.
func DefaultOptions() Options {
	return Options{MaxOutputTokens: 700, Temperature: 0.2}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if o.MaxOutputTokens <= 0 {
		return fmt.Errorf("max output tokens must be positive, got %d", o.MaxOutputTokens)
	}
	if o.Temperature < 0 || o.Temperature > 1 {
		return fmt.Errorf("temperature must be within [0, 1], got %g", o.Temperature)
	}
	return nil
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent returns the model's text for prompt, whitespace-trimmed.
	// Every failure, including an empty answer, is a *GenerationError.
	GenerateContent(ctx context.Context, prompt string, opts Options) (string, error)
	// GetModel returns the generation model name
	GetModel() string
	// Close releases any resources held by the client
	Close() error
}

// GenerationError wraps any failure to obtain model output.
type GenerationError struct {
	Provider Provider
	Model    string
	Message  string
	Cause    error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation (%s/%s): %s: %v", e.Provider, e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation (%s/%s): %s", e.Provider, e.Model, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.GetModel(RoleGeneration) == "" {
		return nil, fmt.Errorf("no generation model configured for provider %s", config.Provider)
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderGoogleAI:
		return NewGoogleAIClient(ctx, config, apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
	}
}

// generate validates options, makes exactly one provider call, and trims the
// result. Empty text is returned as is; recovery reports it as a parse failure.
func generate(ctx context.Context, provider Provider, model string, opts Options, call func(context.Context) (string, error)) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", &GenerationError{Provider: provider, Model: model, Message: "invalid options", Cause: err}
	}

	text, err := call(ctx)
	if err != nil {
		return "", &GenerationError{Provider: provider, Model: model, Message: "request failed", Cause: err}
	}

	return strings.TrimSpace(text), nil
}
