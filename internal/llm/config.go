// Package llm provides model configuration, the generation clients for each
// supported provider, and recovery of JSON objects from model output.
package llm

// ModelRole names what a model is used for.
type ModelRole string

const (
	// RoleGeneration is the model that writes recommendations.
	RoleGeneration ModelRole = "generation"
	// RoleEmbedding is the model that embeds profiles and catalog entries.
	RoleEmbedding ModelRole = "embedding"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is Google Gemini through the generative-ai-go SDK
	ProviderGemini Provider = "gemini"
	// ProviderGoogleAI is Google Gemini through the Gen AI SDK
	ProviderGoogleAI Provider = "googleai"
	// ProviderOpenAI is OpenAI or any OpenAI-compatible server
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is Anthropic Claude (generation only)
	ProviderAnthropic Provider = "anthropic"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelRole]string
	// BaseURL overrides the provider endpoint (OpenAI-compatible servers).
	BaseURL string
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelRole]string{
			RoleGeneration: "gemini-1.5-flash",
			RoleEmbedding:  "text-embedding-004",
		},
	}
}

// DefaultGoogleAIConfig returns the default Gen AI SDK configuration
func DefaultGoogleAIConfig() *Config {
	cfg := DefaultGeminiConfig()
	cfg.Provider = ProviderGoogleAI
	return cfg
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelRole]string{
			RoleGeneration: "gpt-4o-mini",
			RoleEmbedding:  "text-embedding-3-small",
		},
	}
}

// DefaultAnthropicConfig returns the default Anthropic configuration.
// Anthropic has no embedding model; pair it with another embedding backend.
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelRole]string{
			RoleGeneration: "claude-3-5-haiku-latest",
		},
	}
}

// ConfigFor returns the default configuration for a provider, or nil if unknown.
func ConfigFor(p Provider) *Config {
	switch p {
	case ProviderGemini, "":
		return DefaultGeminiConfig()
	case ProviderGoogleAI:
		return DefaultGoogleAIConfig()
	case ProviderOpenAI:
		return DefaultOpenAIConfig()
	case ProviderAnthropic:
		return DefaultAnthropicConfig()
	default:
		return nil
	}
}

// GetModel returns the model name for a role, or "" if none is configured.
// Roles never fall back to each other.
func (c *Config) GetModel(role ModelRole) string {
	return c.Models[role]
}

// WithModel returns a new Config with a specific model for a role
func (c *Config) WithModel(role ModelRole, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelRole]string),
		BaseURL:  c.BaseURL,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[role] = model
	return newConfig
}
