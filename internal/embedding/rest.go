package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/jonathan/career-advisor/internal/vector"
)

// RESTConfig configures a plain-HTTP embedding backend.
type RESTConfig struct {
	// URL is the full endpoint, e.g. http://localhost:11434/api/embed.
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// RESTService posts {"model","input"} to an OpenAI- or Ollama-style endpoint and
// accepts whichever response shape the server answers with.
type RESTService struct {
	cfg    RESTConfig
	client *http.Client
}

// NewRESTService creates a REST embedding backend.
func NewRESTService(cfg RESTConfig) (*RESTService, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("rest embedding backend requires a URL")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &RESTService{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

type restRequest struct {
	Model string   `json:"model,omitempty"`
	Input []string `json:"input"`
}

type restPayload struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Embedding  json.RawMessage `json:"embedding"`
	Embeddings json.RawMessage `json:"embeddings"`
}

type restValues struct {
	Values []float64 `json:"values"`
}

// EmbedTexts implements Service.
func (s *RESTService) EmbedTexts(ctx context.Context, texts []string) (Response, error) {
	body, err := json.Marshal(restRequest{Model: s.cfg.Model, Input: texts})
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return Response{}, fmt.Errorf("embedding endpoint returned %s: %s", resp.Status, truncate(string(data), 200))
	}

	return decodeRESTResponse(data)
}

// decodeRESTResponse understands:
//
//	{"data":[{"embedding":[...],"index":0}]}
//	{"embeddings":[[...],[...]]}
//	{"embeddings":[{"values":[...]}]}
//	{"embedding":[...]}
//	{"embedding":{"values":[...]}}
func decodeRESTResponse(data []byte) (Response, error) {
	var p restPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return Response{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if p.Data != nil {
		items := p.Data
		sort.SliceStable(items, func(i, j int) bool { return items[i].Index < items[j].Index })
		out := make([]vector.Vector, len(items))
		for i, item := range items {
			out[i] = vector.FromFloat64(item.Embedding)
		}
		return BatchResponse(out), nil
	}

	if isPresent(p.Embeddings) {
		var lists [][]float64
		if err := json.Unmarshal(p.Embeddings, &lists); err == nil {
			out := make([]vector.Vector, len(lists))
			for i, l := range lists {
				out[i] = vector.FromFloat64(l)
			}
			return BatchResponse(out), nil
		}
		var objs []restValues
		if err := json.Unmarshal(p.Embeddings, &objs); err != nil {
			return Response{}, fmt.Errorf("unsupported embeddings field: %w", err)
		}
		out := make([]vector.Vector, len(objs))
		for i, o := range objs {
			out[i] = vector.FromFloat64(o.Values)
		}
		return BatchResponse(out), nil
	}

	if isPresent(p.Embedding) {
		var values []float64
		if err := json.Unmarshal(p.Embedding, &values); err == nil {
			return SingleResponse(vector.FromFloat64(values)), nil
		}
		var obj restValues
		if err := json.Unmarshal(p.Embedding, &obj); err != nil {
			return Response{}, fmt.Errorf("unsupported embedding field: %w", err)
		}
		return SingleResponse(vector.FromFloat64(obj.Values)), nil
	}

	return Response{}, nil
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
