package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/jonathan/career-advisor/internal/vector"
)

// GoogleAIService embeds through the Gemini API using the Google Gen AI SDK.
// The SDK always answers with a list, even for one text.
type GoogleAIService struct {
	client *genai.Client
	model  string
}

// NewGoogleAIService creates a Gen AI SDK embedding backend.
func NewGoogleAIService(ctx context.Context, apiKey, model string) (*GoogleAIService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("googleai client: %w", err)
	}
	return &GoogleAIService{client: client, model: model}, nil
}

// EmbedTexts implements Service.
func (s *GoogleAIService) EmbedTexts(ctx context.Context, texts []string) (Response, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := s.client.Models.EmbedContent(ctx, s.model, contents, nil)
	if err != nil {
		return Response{}, fmt.Errorf("googleai embedding: %w", err)
	}
	return fromGoogleAI(resp), nil
}

func fromGoogleAI(resp *genai.EmbedContentResponse) Response {
	if resp == nil || resp.Embeddings == nil {
		return Response{}
	}
	out := make([]vector.Vector, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e != nil {
			out[i] = vector.Vector(e.Values)
		}
	}
	return BatchResponse(out)
}
