package embedding

import (
	"context"
	"fmt"

	gemini "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/career-advisor/internal/vector"
)

// GeminiService embeds through the Gemini API using the generative-ai-go SDK.
// A single text goes through EmbedContent, which answers with one embedding;
// several texts go through BatchEmbedContents, which answers with a list.
type GeminiService struct {
	client *gemini.Client
	model  string
}

// NewGeminiService creates a Gemini embedding backend.
func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	client, err := gemini.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{client: client, model: model}, nil
}

// EmbedTexts implements Service.
func (s *GeminiService) EmbedTexts(ctx context.Context, texts []string) (Response, error) {
	em := s.client.EmbeddingModel(s.model)

	if len(texts) == 1 {
		res, err := em.EmbedContent(ctx, gemini.Text(texts[0]))
		if err != nil {
			return Response{}, fmt.Errorf("gemini embed content: %w", err)
		}
		return fromGeminiSingle(res), nil
	}

	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(gemini.Text(t))
	}
	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return Response{}, fmt.Errorf("gemini batch embed contents: %w", err)
	}
	return fromGeminiBatch(res), nil
}

// Close closes the underlying client.
func (s *GeminiService) Close() error {
	return s.client.Close()
}

func fromGeminiSingle(res *gemini.EmbedContentResponse) Response {
	if res == nil || res.Embedding == nil {
		return Response{}
	}
	return SingleResponse(vector.Vector(res.Embedding.Values))
}

func fromGeminiBatch(res *gemini.BatchEmbedContentsResponse) Response {
	if res == nil || res.Embeddings == nil {
		return Response{}
	}
	out := make([]vector.Vector, len(res.Embeddings))
	for i, e := range res.Embeddings {
		if e != nil {
			out[i] = vector.Vector(e.Values)
		}
	}
	return BatchResponse(out)
}
