package catalog

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/jonathan/career-advisor/internal/embedding"
	"github.com/jonathan/career-advisor/internal/types"
	"github.com/jonathan/career-advisor/internal/vector"
)

// Embedder is the part of the embedding client the index needs.
type Embedder interface {
	Embed(ctx context.Context, in embedding.Input) (embedding.Result, error)
}

// Index pairs every catalog entry with its embedding. It is immutable once built
// and safe for concurrent readers.
type Index struct {
	entries    []types.CareerEntry
	normalized [][]float64
	dimension  int
}

// Build embeds every entry's description in one batch call and returns the index.
func Build(ctx context.Context, entries []types.CareerEntry, embedder Embedder) (*Index, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = Describe(e)
	}

	res, err := embedder.Embed(ctx, embedding.Batch(texts...))
	if err != nil {
		return nil, fmt.Errorf("failed to embed catalog: %w", err)
	}

	vectors, _ := res.Batch()
	idx, err := NewIndex(entries, vectors)
	if err != nil {
		return nil, err
	}

	log.Printf("[catalog] Indexed %d careers (dimension %d)", idx.Len(), idx.Dimension())
	return idx, nil
}

// NewIndex builds an index from precomputed vectors. The inputs are not retained
// or modified; the index keeps L2-normalized copies.
func NewIndex(entries []types.CareerEntry, vectors []vector.Vector) (*Index, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	if len(vectors) != len(entries) {
		return nil, fmt.Errorf("got %d vectors for %d catalog entries", len(vectors), len(entries))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("catalog vector 0 is empty")
	}

	idx := &Index{
		entries:    make([]types.CareerEntry, len(entries)),
		normalized: make([][]float64, len(vectors)),
		dimension:  dim,
	}
	copy(idx.entries, entries)

	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("catalog vector %d has dimension %d, want %d", i, len(v), dim)
		}
		idx.normalized[i] = vector.Normalize(v)
	}

	return idx, nil
}

// Len returns the number of entries.
func (idx *Index) Len() int { return len(idx.entries) }

// Dimension returns the shared vector dimension.
func (idx *Index) Dimension() int { return idx.dimension }

// Entry returns the catalog entry at position i.
func (idx *Index) Entry(i int) types.CareerEntry { return idx.entries[i] }

// Entries returns a copy of all entries in catalog order.
func (idx *Index) Entries() []types.CareerEntry {
	out := make([]types.CareerEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Normalized returns the precomputed unit vector at position i. Callers must not modify it.
func (idx *Index) Normalized(i int) []float64 { return idx.normalized[i] }

// Holder publishes the current index. Replace swaps in a fully built index, so
// readers see either the old index or the new one.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder creates a holder around an initial index.
func NewHolder(idx *Index) *Holder {
	h := &Holder{}
	h.current.Store(idx)
	return h
}

// Current returns the index in use.
func (h *Holder) Current() *Index {
	return h.current.Load()
}

// Replace publishes a new index.
func (h *Holder) Replace(idx *Index) {
	h.current.Store(idx)
}

// Reload loads path, rebuilds the index, and publishes it. On failure the
// previous index stays in place.
func (h *Holder) Reload(ctx context.Context, path string, embedder Embedder) error {
	entries, err := Load(path)
	if err != nil {
		return err
	}
	idx, err := Build(ctx, entries, embedder)
	if err != nil {
		return err
	}
	h.Replace(idx)
	return nil
}
