// Package ranking ranks catalog entries against a profile embedding by cosine similarity.
package ranking

import (
	"fmt"
	"sort"

	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/types"
	"github.com/jonathan/career-advisor/internal/vector"
)

// Rank scores every catalog entry against query and returns the best min(k, N)
// in descending score order. Equal scores keep catalog order.
func Rank(idx *catalog.Index, query vector.Vector, k int) ([]types.RankedResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}
	if idx == nil || idx.Len() == 0 {
		return nil, fmt.Errorf("catalog index is empty")
	}
	if len(query) != idx.Dimension() {
		return nil, fmt.Errorf("query dimension %d does not match catalog dimension %d", len(query), idx.Dimension())
	}

	q := vector.Normalize(query)

	results := make([]types.RankedResult, idx.Len())
	for i := range results {
		results[i] = types.RankedResult{
			Entry: idx.Entry(i),
			Index: i,
			Score: vector.Dot(idx.Normalized(i), q),
		}
	}

	// Sort by score (descending)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}
