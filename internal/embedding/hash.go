package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/jonathan/career-advisor/internal/vector"
)

// HashService produces deterministic vectors from a SHA-256 of the text.
// It makes no network calls and is used for offline runs and tests.
type HashService struct {
	dimensions int
}

// NewHashService creates a hash backend. Non-positive dimensions default to 256.
func NewHashService(dimensions int) *HashService {
	if dimensions <= 0 {
		dimensions = 256
	}
	return &HashService{dimensions: dimensions}
}

// EmbedTexts implements Service.
func (s *HashService) EmbedTexts(_ context.Context, texts []string) (Response, error) {
	out := make([]vector.Vector, len(texts))
	for i, t := range texts {
		out[i] = s.vectorFor(t)
	}
	return BatchResponse(out), nil
}

func (s *HashService) vectorFor(text string) vector.Vector {
	v := make(vector.Vector, s.dimensions)
	var block [sha256.Size]byte
	for i := range v {
		if i%sha256.Size == 0 {
			var counter [4]byte
			binary.BigEndian.PutUint32(counter[:], uint32(i/sha256.Size))
			block = sha256.Sum256(append([]byte(text), counter[:]...))
		}
		v[i] = (float32(block[i%sha256.Size]) / 127.5) - 1.0
	}
	return v
}
