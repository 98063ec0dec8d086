package embedding

import (
	"context"
	"fmt"
)

// Backend names accepted by New.
const (
	BackendGemini   = "gemini"
	BackendGoogleAI = "googleai"
	BackendOpenAI   = "openai"
	BackendREST     = "rest"
	BackendHash     = "hash"
)

// Config selects and configures a backend.
type Config struct {
	Backend    string
	APIKey     string
	Model      string
	BaseURL    string
	Dimensions int
}

// New builds a Client for the configured backend.
func New(ctx context.Context, cfg Config) (*Client, error) {
	var (
		service Service
		err     error
	)

	switch cfg.Backend {
	case BackendGemini, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini embedding backend requires an API key")
		}
		service, err = NewGeminiService(ctx, cfg.APIKey, cfg.Model)
	case BackendGoogleAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("googleai embedding backend requires an API key")
		}
		service, err = NewGoogleAIService(ctx, cfg.APIKey, cfg.Model)
	case BackendOpenAI:
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("openai embedding backend requires an API key or base URL")
		}
		service = NewOpenAIService(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case BackendREST:
		service, err = NewRESTService(RESTConfig{URL: cfg.BaseURL, APIKey: cfg.APIKey, Model: cfg.Model})
	case BackendHash:
		service = NewHashService(cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	name := cfg.Backend
	if name == "" {
		name = BackendGemini
	}
	return NewClient(name, service), nil
}
