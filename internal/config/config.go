// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/career-advisor/internal/advisor"
	"github.com/jonathan/career-advisor/internal/embedding"
	"github.com/jonathan/career-advisor/internal/llm"
)

// Config represents the service configuration. It can be loaded from a JSON
// file; environment variables override file values and defaults fill the rest.
type Config struct {
	// Providers
	LLMProvider     string `json:"llm_provider,omitempty" validate:"oneof=gemini googleai openai anthropic"`
	EmbedProvider   string `json:"embed_provider,omitempty" validate:"oneof=gemini googleai openai rest hash"`
	GenModel        string `json:"gen_model,omitempty" validate:"required"`
	EmbedModel      string `json:"embed_model,omitempty"`
	LLMBaseURL      string `json:"llm_base_url,omitempty" validate:"omitempty,url"`
	EmbedBaseURL    string `json:"embed_base_url,omitempty" validate:"omitempty,url"`
	EmbedDimensions int    `json:"embed_dimensions,omitempty" validate:"gte=0"`

	// Credentials
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`
	OpenAIAPIKey    string `json:"openai_api_key,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`

	// Pipeline
	TopK            int      `json:"top_k,omitempty" validate:"gte=1,lte=20"`
	MaxOutputTokens int      `json:"max_output_tokens,omitempty" validate:"gte=1"`
	Temperature     *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
	Mode            string   `json:"mode,omitempty" validate:"oneof=generative retrieval"`
	CatalogPath     string   `json:"catalog_path,omitempty" validate:"required"`

	// Server
	Port        int    `json:"port,omitempty" validate:"gte=1,lte=65535"`
	DatabaseURL string `json:"database_url,omitempty"`
	Verbose     bool   `json:"verbose,omitempty"`
}

// Defaults returns the built-in defaults.
func Defaults() Config {
	return Config{
		LLMProvider:     string(llm.ProviderGemini),
		TopK:            3,
		MaxOutputTokens: 700,
		Temperature:     float64Ptr(0.2),
		Mode:            string(advisor.ModeGenerative),
		CatalogPath:     filepath.Join("data", "careers.json"),
		Port:            8080,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: optional file, then environment,
// then defaults, then validation.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := getenv(key); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&c.LLMProvider, "LLM_PROVIDER")
	setString(&c.EmbedProvider, "EMBED_PROVIDER")
	setString(&c.GenModel, "GEN_MODEL")
	setString(&c.EmbedModel, "EMBED_MODEL")
	setString(&c.LLMBaseURL, "LLM_BASE_URL")
	setString(&c.EmbedBaseURL, "EMBED_BASE_URL")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.Mode, "ADVISOR_MODE")
	setString(&c.CatalogPath, "CATALOG_PATH")
	setString(&c.DatabaseURL, "DATABASE_URL")

	ints := []struct {
		key string
		dst *int
	}{
		{"TOP_K", &c.TopK},
		{"MAX_OUTPUT_TOKENS", &c.MaxOutputTokens},
		{"EMBED_DIMENSIONS", &c.EmbedDimensions},
		{"PORT", &c.Port},
	}
	for _, e := range ints {
		if v := getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config error: %s must be an integer: %w", e.key, err)
			}
			*e.dst = n
		}
	}

	if v := getenv("TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config error: TEMPERATURE must be a number: %w", err)
		}
		c.Temperature = &f
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Model names default per provider once the providers are settled.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.LLMProvider == "" {
		result.LLMProvider = defaults.LLMProvider
	}
	if result.Mode == "" {
		result.Mode = defaults.Mode
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.MaxOutputTokens == 0 {
		result.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Temperature 0 is a valid setting, so only an absent value is defaulted.
	if result.Temperature == nil && defaults.Temperature != nil {
		result.Temperature = float64Ptr(*defaults.Temperature)
	}

	// Anthropic has no embedding API, so embeddings fall back to Gemini.
	if result.EmbedProvider == "" {
		result.EmbedProvider = result.LLMProvider
		if result.EmbedProvider == string(llm.ProviderAnthropic) {
			result.EmbedProvider = string(llm.ProviderGemini)
		}
	}

	if result.GenModel == "" {
		if pc := llm.ConfigFor(llm.Provider(result.LLMProvider)); pc != nil {
			result.GenModel = pc.GetModel(llm.RoleGeneration)
		}
	}
	if result.EmbedModel == "" {
		result.EmbedModel = defaultEmbedModel(result.EmbedProvider)
	}

	return result
}

func defaultEmbedModel(provider string) string {
	switch provider {
	case embedding.BackendGemini, embedding.BackendGoogleAI:
		return llm.DefaultGeminiConfig().GetModel(llm.RoleEmbedding)
	case embedding.BackendOpenAI:
		return llm.DefaultOpenAIConfig().GetModel(llm.RoleEmbedding)
	case embedding.BackendREST:
		return "nomic-embed-text"
	default:
		return ""
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.EmbedProvider == embedding.BackendREST && c.EmbedBaseURL == "" {
		return fmt.Errorf("config error: 'embed_base_url' is required for the rest embedding provider")
	}

	if _, err := os.Stat(c.CatalogPath); os.IsNotExist(err) {
		return fmt.Errorf("config error: catalog file not found: %s", c.CatalogPath)
	}

	return nil
}

// LLMConfig returns the generation model configuration.
func (c *Config) LLMConfig() *llm.Config {
	base := llm.ConfigFor(llm.Provider(c.LLMProvider))
	if base == nil {
		base = llm.DefaultConfig()
	}
	cfg := base.WithModel(llm.RoleGeneration, c.GenModel).WithModel(llm.RoleEmbedding, c.EmbedModel)
	cfg.BaseURL = c.LLMBaseURL
	return cfg
}

// GenerationAPIKey returns the key for the configured generation provider.
func (c *Config) GenerationAPIKey() string {
	switch llm.Provider(c.LLMProvider) {
	case llm.ProviderOpenAI:
		return c.OpenAIAPIKey
	case llm.ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// EmbeddingConfig returns the embedding backend configuration.
func (c *Config) EmbeddingConfig() embedding.Config {
	cfg := embedding.Config{
		Backend:    c.EmbedProvider,
		Model:      c.EmbedModel,
		BaseURL:    c.EmbedBaseURL,
		Dimensions: c.EmbedDimensions,
	}
	switch c.EmbedProvider {
	case embedding.BackendOpenAI, embedding.BackendREST:
		cfg.APIKey = c.OpenAIAPIKey
	default:
		cfg.APIKey = c.GeminiAPIKey
	}
	return cfg
}

// AdvisorOptions returns the pipeline options.
func (c *Config) AdvisorOptions() advisor.Options {
	opts := advisor.DefaultOptions()
	opts.TopK = c.TopK
	opts.Mode = advisor.Mode(c.Mode)
	opts.Generation = llm.Options{MaxOutputTokens: c.MaxOutputTokens}
	if c.Temperature != nil {
		opts.Generation.Temperature = *c.Temperature
	}
	return opts
}

func float64Ptr(f float64) *float64 {
	return &f
}
