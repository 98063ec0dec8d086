package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-advisor/internal/vector"
)

func TestDecodeRESTResponse(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantSingle vector.Vector
		wantBatch  []vector.Vector
	}{
		{
			name:      "openai data with out-of-order indices",
			body:      `{"data":[{"embedding":[0,1],"index":1},{"embedding":[1,0],"index":0}]}`,
			wantBatch: []vector.Vector{{1, 0}, {0, 1}},
		},
		{
			name:      "ollama embeddings list",
			body:      `{"embeddings":[[0.1,0.2],[0.3,0.4]]}`,
			wantBatch: []vector.Vector{{0.1, 0.2}, {0.3, 0.4}},
		},
		{
			name:      "embeddings with values objects",
			body:      `{"embeddings":[{"values":[1,2]}]}`,
			wantBatch: []vector.Vector{{1, 2}},
		},
		{
			name:       "legacy ollama single embedding",
			body:       `{"embedding":[0.5,0.25]}`,
			wantSingle: vector.Vector{0.5, 0.25},
		},
		{
			name:       "single embedding with values",
			body:       `{"embedding":{"values":[3,4]}}`,
			wantSingle: vector.Vector{3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := decodeRESTResponse([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSingle, resp.Embedding)
			assert.Equal(t, tt.wantBatch, resp.Embeddings)
		})
	}
}

func TestDecodeRESTResponse_Unrecognized(t *testing.T) {
	resp, err := decodeRESTResponse([]byte(`{"object":"list"}`))
	require.NoError(t, err)
	assert.Nil(t, resp.Embedding)
	assert.Nil(t, resp.Embeddings)

	_, err = decodeRESTResponse([]byte(`not json`))
	assert.Error(t, err)

	_, err = decodeRESTResponse([]byte(`{"embedding":"abc"}`))
	assert.Error(t, err)
}

func TestRESTService_EmbedTexts(t *testing.T) {
	var got restRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings":[[1,0],[0,1]]}`))
	}))
	defer srv.Close()

	svc, err := NewRESTService(RESTConfig{URL: srv.URL, APIKey: "secret", Model: "nomic-embed-text"})
	require.NoError(t, err)

	c := NewClient(BackendREST, svc)
	res, err := c.Embed(context.Background(), Batch("a", "b"))
	require.NoError(t, err)

	vs, ok := res.Batch()
	require.True(t, ok)
	assert.Equal(t, []vector.Vector{{1, 0}, {0, 1}}, vs)
	assert.Equal(t, "nomic-embed-text", got.Model)
	assert.Equal(t, []string{"a", "b"}, got.Input)
}

func TestRESTService_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	svc, err := NewRESTService(RESTConfig{URL: srv.URL})
	require.NoError(t, err)

	_, err = NewClient(BackendREST, svc).EmbedText(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestNewRESTService_RequiresURL(t *testing.T) {
	_, err := NewRESTService(RESTConfig{})
	assert.Error(t, err)
}
