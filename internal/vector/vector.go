// Package vector holds the dense embedding vector type and the cosine math used to rank it.
package vector

import "math"

// Epsilon is added to a vector's norm before dividing so zero vectors normalize to zeros.
const Epsilon = 1e-10

// Vector is a dense embedding. All vectors compared against each other must share a dimension.
type Vector []float32

// Clone returns a copy that shares no memory with v.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Norm returns the L2 norm of v.
func Norm(v Vector) float64 {
	var sum float64
	for _, x := range v {
		f := float64(x)
		sum += f * f
	}
	return math.Sqrt(sum)
}

// Normalize returns v divided by (‖v‖ + Epsilon) as a new float64 slice.
// v itself is not modified.
func Normalize(v Vector) []float64 {
	n := Norm(v) + Epsilon
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x) / n
	}
	return out
}

// Dot returns the inner product of two equal-length slices.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// FromFloat64 narrows a float64 embedding, as returned by some providers, to a Vector.
func FromFloat64(values []float64) Vector {
	out := make(Vector, len(values))
	for i, x := range values {
		out[i] = float32(x)
	}
	return out
}
