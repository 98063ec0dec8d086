package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "defaults", opts: DefaultOptions()},
		{name: "zero temperature", opts: Options{MaxOutputTokens: 1, Temperature: 0}},
		{name: "max temperature", opts: Options{MaxOutputTokens: 1, Temperature: 1}},
		{name: "zero tokens", opts: Options{MaxOutputTokens: 0, Temperature: 0.2}, wantErr: true},
		{name: "negative temperature", opts: Options{MaxOutputTokens: 10, Temperature: -0.1}, wantErr: true},
		{name: "temperature above one", opts: Options{MaxOutputTokens: 10, Temperature: 1.5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 700, opts.MaxOutputTokens)
	assert.InDelta(t, 0.2, opts.Temperature, 1e-9)
}

func TestGenerate_TrimsOutput(t *testing.T) {
	text, err := generate(context.Background(), ProviderGemini, "m", DefaultOptions(), func(context.Context) (string, error) {
		return "  {\"a\":1}\n", nil
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}

func TestGenerate_Errors(t *testing.T) {
	calls := 0
	tests := []struct {
		name  string
		opts  Options
		call  func(context.Context) (string, error)
		calls int
	}{
		{
			name: "invalid options skip the call",
			opts: Options{MaxOutputTokens: 0},
			call: func(context.Context) (string, error) {
				calls++
				return "x", nil
			},
			calls: 0,
		},
		{
			name: "provider failure",
			opts: DefaultOptions(),
			call: func(context.Context) (string, error) {
				calls++
				return "", errors.New("503 service unavailable")
			},
			calls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = 0
			_, err := generate(context.Background(), ProviderOpenAI, "gpt", tt.opts, tt.call)
			require.Error(t, err)

			var genErr *GenerationError
			require.True(t, errors.As(err, &genErr))
			assert.Equal(t, ProviderOpenAI, genErr.Provider)
			assert.Equal(t, "gpt", genErr.Model)
			assert.Equal(t, tt.calls, calls)
		})
	}
}

func TestGenerate_CallsProviderOnce(t *testing.T) {
	calls := 0
	_, err := generate(context.Background(), ProviderGemini, "m", DefaultOptions(), func(context.Context) (string, error) {
		calls++
		return "", errors.New("quota exceeded")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.EqualError(t, genErr.Cause, "quota exceeded")
}

func TestGenerate_EmptyOutputIsNotAnError(t *testing.T) {
	text, err := generate(context.Background(), ProviderGemini, "m", DefaultOptions(), func(context.Context) (string, error) {
		return "  \n ", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestNewClient_Providers(t *testing.T) {
	ctx := context.Background()

	client, err := NewClient(ctx, DefaultOpenAIConfig(), "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.GetModel())
	assert.NoError(t, client.Close())

	client, err = NewClient(ctx, DefaultAnthropicConfig(), "sk-ant-test")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", client.GetModel())

	_, err = NewClient(ctx, DefaultGeminiConfig(), "")
	assert.Error(t, err, "gemini requires a key")

	_, err = NewClient(ctx, DefaultOpenAIConfig().WithModel(RoleGeneration, ""), "sk-test")
	assert.Error(t, err, "generation model required")

	_, err = NewClient(ctx, &Config{Provider: "cohere", Models: map[ModelRole]string{RoleGeneration: "x"}}, "k")
	assert.Error(t, err)
}

func TestNewOpenAIClient_LocalServerWithoutKey(t *testing.T) {
	cfg := DefaultOpenAIConfig()
	cfg.BaseURL = "http://localhost:11434/v1"

	_, err := NewOpenAIClient(cfg, "")
	assert.NoError(t, err)
}

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}}},
		},
	}

	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
	})
	assert.Error(t, err)
}

func TestGenerationError_Unwrap(t *testing.T) {
	cause := errors.New("quota")
	err := &GenerationError{Provider: ProviderGemini, Model: "m", Message: "request failed", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gemini/m")
}
