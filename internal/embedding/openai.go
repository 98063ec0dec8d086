package embedding

import (
	"context"
	"fmt"
	"sort"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jonathan/career-advisor/internal/vector"
)

// OpenAIService embeds through the OpenAI embeddings endpoint, or any
// OpenAI-compatible server when a base URL is set.
type OpenAIService struct {
	client openai.Client
	model  string
}

// NewOpenAIService creates an OpenAI embedding backend.
func NewOpenAIService(apiKey, model, baseURL string) *OpenAIService {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIService{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// EmbedTexts implements Service.
func (s *OpenAIService) EmbedTexts(ctx context.Context, texts []string) (Response, error) {
	resp, err := s.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(s.model),
	})
	if err != nil {
		return Response{}, fmt.Errorf("openai embeddings: %w", err)
	}
	return fromOpenAI(resp), nil
}

// fromOpenAI orders data items by their index field before converting.
func fromOpenAI(resp *openai.CreateEmbeddingResponse) Response {
	if resp == nil || resp.Data == nil {
		return Response{}
	}
	data := append([]openai.Embedding(nil), resp.Data...)
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	out := make([]vector.Vector, len(data))
	for i, d := range data {
		out[i] = vector.FromFloat64(d.Embedding)
	}
	return BatchResponse(out)
}
