package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-advisor/internal/embedding"
	"github.com/jonathan/career-advisor/internal/types"
	"github.com/jonathan/career-advisor/internal/vector"
)

type failingService struct{}

func (failingService) EmbedTexts(context.Context, []string) (embedding.Response, error) {
	return embedding.Response{}, errors.New("service unavailable")
}

func sampleEntries() []types.CareerEntry {
	return []types.CareerEntry{
		{Title: "Data Analyst", Summary: "Works with data.", Skills: []string{"sql", "excel"}},
		{Title: "Nurse", Summary: "Cares for patients.", Skills: []string{"biology"}},
		{Title: "Graphic Designer"},
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string
		entry types.CareerEntry
		want  string
	}{
		{
			name:  "full entry",
			entry: types.CareerEntry{Title: "Data Analyst", Summary: "Works with data.", Skills: []string{"sql", "excel"}},
			want:  "Data Analyst. Works with data. Skills: sql, excel",
		},
		{
			name:  "title only",
			entry: types.CareerEntry{Title: "Chef"},
			want:  "Chef.  Skills: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.entry))
		})
	}
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "careers.json")
	content := `[{"title":"Pilot","summary":"Flies aircraft.","skills":["navigation"]},{"title":"Baker"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Pilot", entries[0].Title)
	assert.Equal(t, []string{"navigation"}, entries[0].Skills)
	assert.Empty(t, entries[1].Summary)
	assert.Empty(t, entries[1].Skills)
}

func TestLoad_YAML(t *testing.T) {
	entries, err := Load(filepath.Join("testdata", "careers.yaml"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Electrician", entries[1].Title)
	assert.Equal(t, []string{"wiring", "safety"}, entries[1].Skills)
	assert.Equal(t, "Content Writer", entries[2].Title)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{name: "empty catalog", file: "empty.json", content: `[]`, errMsg: "invalid catalog"},
		{name: "missing title", file: "notitle.json", content: `[{"summary":"x"}]`, errMsg: "invalid catalog"},
		{name: "malformed json", file: "bad.json", content: `[{`, errMsg: "invalid catalog"},
		{name: "malformed yaml", file: "bad.yaml", content: "- title: [", errMsg: "failed to parse catalog YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog")
}

func TestBuild(t *testing.T) {
	client := embedding.NewClient(embedding.BackendHash, embedding.NewHashService(8))

	idx, err := Build(context.Background(), sampleEntries(), client)
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 8, idx.Dimension())
	assert.Equal(t, "Nurse", idx.Entry(1).Title)

	want, err := client.EmbedText(context.Background(), Describe(sampleEntries()[1]))
	require.NoError(t, err)
	assert.Equal(t, vector.Normalize(want), idx.Normalized(1), "entry i must carry the embedding of description i")
}

func TestBuild_EmbeddingFailure(t *testing.T) {
	client := embedding.NewClient("broken", failingService{})

	_, err := Build(context.Background(), sampleEntries(), client)
	require.Error(t, err)

	var embErr *embedding.EmbeddingError
	assert.True(t, errors.As(err, &embErr))
}

func TestBuild_EmptyCatalog(t *testing.T) {
	client := embedding.NewClient(embedding.BackendHash, embedding.NewHashService(8))

	_, err := Build(context.Background(), nil, client)
	assert.Error(t, err)
}

func TestNewIndex_Validation(t *testing.T) {
	entries := sampleEntries()[:2]

	_, err := NewIndex(entries, []vector.Vector{{1, 0}})
	assert.Error(t, err, "count mismatch")

	_, err = NewIndex(entries, []vector.Vector{{1, 0}, {1, 0, 0}})
	assert.Error(t, err, "dimension mismatch")

	_, err = NewIndex(entries, []vector.Vector{{}, {}})
	assert.Error(t, err, "empty vectors")
}

func TestNewIndex_DoesNotAliasInputs(t *testing.T) {
	vectors := []vector.Vector{{3, 4}, {0, 1}}
	idx, err := NewIndex(sampleEntries()[:2], vectors)
	require.NoError(t, err)

	vectors[0][0] = 100
	assert.InDelta(t, 0.6, idx.Normalized(0)[0], 1e-9)
	assert.InDelta(t, 0.8, idx.Normalized(0)[1], 1e-9)
}

func TestHolder_Replace(t *testing.T) {
	first, err := NewIndex(sampleEntries()[:1], []vector.Vector{{1}})
	require.NoError(t, err)
	second, err := NewIndex(sampleEntries(), []vector.Vector{{1}, {2}, {3}})
	require.NoError(t, err)

	h := NewHolder(first)
	assert.Same(t, first, h.Current())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := h.Current().Len()
			assert.True(t, n == 1 || n == 3)
		}()
	}
	h.Replace(second)
	wg.Wait()

	assert.Same(t, second, h.Current())
}

func TestHolder_ReloadKeepsOldIndexOnFailure(t *testing.T) {
	first, err := NewIndex(sampleEntries()[:1], []vector.Vector{{1}})
	require.NoError(t, err)
	h := NewHolder(first)

	client := embedding.NewClient("broken", failingService{})
	err = h.Reload(context.Background(), filepath.Join("testdata", "careers.yaml"), client)
	require.Error(t, err)
	assert.Same(t, first, h.Current())

	ok := embedding.NewClient(embedding.BackendHash, embedding.NewHashService(4))
	require.NoError(t, h.Reload(context.Background(), filepath.Join("testdata", "careers.yaml"), ok))
	assert.Equal(t, 3, h.Current().Len())
}
