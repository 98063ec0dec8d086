package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/types"
	"github.com/jonathan/career-advisor/internal/vector"
)

func buildIndex(t *testing.T, titles []string, vectors []vector.Vector) *catalog.Index {
	t.Helper()
	entries := make([]types.CareerEntry, len(titles))
	for i, title := range titles {
		entries[i] = types.CareerEntry{Title: title}
	}
	idx, err := catalog.NewIndex(entries, vectors)
	require.NoError(t, err)
	return idx
}

func titles(results []types.RankedResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Entry.Title
	}
	return out
}

func TestRank_OrdersByCosine(t *testing.T) {
	idx := buildIndex(t,
		[]string{"A", "B", "C"},
		[]vector.Vector{{1, 0}, {0, 1}, {1, 1}},
	)

	results, err := Rank(idx, vector.Vector{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, []string{"A", "C"}, titles(results))
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.InDelta(t, 0.7071, results[1].Score, 1e-4)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, 2, results[1].Index)
}

func TestRank_QueryMatchingOneEntry(t *testing.T) {
	vectors := []vector.Vector{
		{0.9, 0.1, 0, 0.2},
		{0.1, 0.8, 0.3, 0},
		{0.2, 0.3, 0.7, 0.4},
		{0, 0.1, 0.2, 0.9},
		{0.5, 0.5, 0.5, 0.5},
	}
	idx := buildIndex(t, []string{"A", "B", "C", "D", "E"}, vectors)

	results, err := Rank(idx, vectors[2].Clone(), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "C", results[0].Entry.Title)
	assert.Equal(t, 2, results[0].Index)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestRank_Deterministic(t *testing.T) {
	idx := buildIndex(t,
		[]string{"A", "B", "C", "D"},
		[]vector.Vector{{1, 2, 3}, {3, 2, 1}, {1, 1, 1}, {2, 2, 2}},
	)
	query := vector.Vector{1, 1.5, 2}

	first, err := Rank(idx, query, 4)
	require.NoError(t, err)
	second, err := Rank(idx, query, 4)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRank_KLargerThanCatalog(t *testing.T) {
	idx := buildIndex(t, []string{"A", "B"}, []vector.Vector{{1, 0}, {0, 1}})

	results, err := Rank(idx, vector.Vector{0, 1}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, titles(results))
}

func TestRank_TiesKeepCatalogOrder(t *testing.T) {
	idx := buildIndex(t,
		[]string{"first", "second", "third", "fourth"},
		[]vector.Vector{{0, 1}, {1, 2}, {1, 2}, {1, 2}},
	)

	results, err := Rank(idx, vector.Vector{1, 2}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "third", "fourth"}, titles(results))
	assert.Equal(t, results[0].Score, results[2].Score)
}

func TestRank_ZeroQuery(t *testing.T) {
	idx := buildIndex(t, []string{"A", "B"}, []vector.Vector{{1, 0}, {0, 1}})

	results, err := Rank(idx, vector.Vector{0, 0}, 2)
	require.NoError(t, err)
	for _, r := range results {
		assert.InDelta(t, 0.0, r.Score, 1e-9)
	}
	assert.Equal(t, []string{"A", "B"}, titles(results))
}

func TestRank_ScoresWithinBounds(t *testing.T) {
	idx := buildIndex(t,
		[]string{"A", "B", "C"},
		[]vector.Vector{{0.3, -2, 5}, {-1, -1, -1}, {100, 0.001, 3}},
	)

	results, err := Rank(idx, vector.Vector{2, 0.5, -1}, 3)
	require.NoError(t, err)
	for i, r := range results {
		assert.LessOrEqual(t, r.Score, 1.0)
		assert.GreaterOrEqual(t, r.Score, -1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].Score, r.Score)
		}
	}
}

func TestRank_Errors(t *testing.T) {
	idx := buildIndex(t, []string{"A"}, []vector.Vector{{1, 0}})

	_, err := Rank(idx, vector.Vector{1, 0}, 0)
	assert.Error(t, err)

	_, err = Rank(idx, vector.Vector{1, 0, 0}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")

	_, err = Rank(nil, vector.Vector{1, 0}, 1)
	assert.Error(t, err)
}

func TestRank_DoesNotMutateIndex(t *testing.T) {
	idx := buildIndex(t, []string{"A", "B"}, []vector.Vector{{3, 4}, {0, 2}})

	before := [][]float64{
		append([]float64(nil), idx.Normalized(0)...),
		append([]float64(nil), idx.Normalized(1)...),
	}
	query := vector.Vector{1, 1}

	_, err := Rank(idx, query, 2)
	require.NoError(t, err)
	assert.Equal(t, before[0], idx.Normalized(0))
	assert.Equal(t, before[1], idx.Normalized(1))
	assert.Equal(t, vector.Vector{1, 1}, query)
}

func TestJustify(t *testing.T) {
	r := types.RankedResult{
		Entry: types.CareerEntry{Title: "Data Analyst", Skills: []string{"sql", "excel"}},
		Score: 0.8749,
		Rank:  1,
	}
	assert.Equal(t, []string{"Similarity score: 0.87", "Skills: sql, excel"}, Justify(r))

	empty := types.RankedResult{Entry: types.CareerEntry{Title: "Chef"}, Score: 0.5}
	assert.Equal(t, []string{"Similarity score: 0.50", "Skills: "}, Justify(empty))
}

func TestToRetrieval(t *testing.T) {
	results := []types.RankedResult{
		{Entry: types.CareerEntry{Title: "Nurse", Summary: "Cares.", Skills: []string{"biology"}}, Score: 0.9, Rank: 1},
		{Entry: types.CareerEntry{Title: "Chef"}, Score: 0.4, Rank: 2},
	}

	resp := ToRetrieval(results)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "Nurse", resp.Recommendations[0].Title)
	assert.Equal(t, 1, resp.Recommendations[0].Rank)
	assert.Equal(t, []string{"Similarity score: 0.90", "Skills: biology"}, resp.Recommendations[0].WhyFit)
	assert.Equal(t, []string{}, resp.Recommendations[1].Skills)
}
