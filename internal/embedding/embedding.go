// Package embedding turns text into dense vectors through a pluggable backend.
//
// Backends disagree on response shape: some answer a single input with one
// embedding, others always answer with a list. Backends report what they got
// as a Response and the Client normalizes it, so callers only ever see a
// Result whose shape mirrors the Input they sent.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jonathan/career-advisor/internal/vector"
)

// ErrUnrecognizedResponse is returned when a backend answer carries neither a
// singular nor a plural embedding.
var ErrUnrecognizedResponse = errors.New("embedding: response carried no embedding data")

// Service is one backend capable of embedding a list of texts in a single call.
type Service interface {
	EmbedTexts(ctx context.Context, texts []string) (Response, error)
}

// Response is what a backend returned. Exactly one of Embedding or Embeddings
// should be populated.
type Response struct {
	Embedding  vector.Vector
	Embeddings []vector.Vector
}

// SingleResponse wraps a singular embedding.
func SingleResponse(v vector.Vector) Response {
	return Response{Embedding: v}
}

// BatchResponse wraps a plural embedding list.
func BatchResponse(vs []vector.Vector) Response {
	return Response{Embeddings: vs}
}

func (r Response) vectors() ([]vector.Vector, error) {
	switch {
	case r.Embedding != nil && r.Embeddings != nil:
		return nil, errors.New("response carried both singular and plural embeddings")
	case r.Embedding != nil:
		return []vector.Vector{r.Embedding}, nil
	case r.Embeddings != nil:
		return r.Embeddings, nil
	default:
		return nil, ErrUnrecognizedResponse
	}
}

// Input is either one text or an ordered batch of texts.
type Input struct {
	texts []string
	batch bool
}

// Single builds an input for one text.
func Single(text string) Input {
	return Input{texts: []string{text}}
}

// Batch builds an input for an ordered list of texts.
func Batch(texts ...string) Input {
	return Input{texts: append([]string(nil), texts...), batch: true}
}

// Texts returns the texts in input order.
func (in Input) Texts() []string { return in.texts }

// IsBatch reports whether the input was built with Batch.
func (in Input) IsBatch() bool { return in.batch }

// Result mirrors the shape of the Input that produced it.
type Result struct {
	vectors []vector.Vector
	batch   bool
}

// Single returns the vector for a single-text input. ok is false for batch results.
func (r Result) Single() (vector.Vector, bool) {
	if r.batch || len(r.vectors) != 1 {
		return nil, false
	}
	return r.vectors[0], true
}

// Batch returns the vectors for a batch input in input order. ok is false for single results.
func (r Result) Batch() ([]vector.Vector, bool) {
	if !r.batch {
		return nil, false
	}
	return r.vectors, true
}

// EmbeddingError wraps any failure to obtain embeddings.
type EmbeddingError struct {
	Backend string
	Message string
	Cause   error
}

func (e *EmbeddingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding (%s): %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding (%s): %s", e.Backend, e.Message)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Cause
}

// Client validates and normalizes backend answers.
type Client struct {
	backend string
	service Service
}

// NewClient wraps a backend. name is used in errors and logs.
func NewClient(name string, service Service) *Client {
	return &Client{backend: name, service: service}
}

// Backend returns the backend name.
func (c *Client) Backend() string { return c.backend }

// Embed sends the input to the backend in one call and returns one vector per text.
// Returned vectors are owned by the caller.
func (c *Client) Embed(ctx context.Context, in Input) (Result, error) {
	texts := in.Texts()
	if len(texts) == 0 {
		return Result{}, c.fail("empty input", nil)
	}

	resp, err := c.service.EmbedTexts(ctx, texts)
	if err != nil {
		return Result{}, c.fail("request failed", err)
	}

	vectors, err := resp.vectors()
	if err != nil {
		return Result{}, c.fail("unrecognized response", err)
	}
	if len(vectors) != len(texts) {
		return Result{}, c.fail(fmt.Sprintf("got %d embeddings for %d texts", len(vectors), len(texts)), nil)
	}

	dim := len(vectors[0])
	out := make([]vector.Vector, len(vectors))
	for i, v := range vectors {
		if len(v) == 0 {
			return Result{}, c.fail(fmt.Sprintf("embedding %d is empty", i), nil)
		}
		if len(v) != dim {
			return Result{}, c.fail(fmt.Sprintf("embedding %d has dimension %d, want %d", i, len(v), dim), nil)
		}
		out[i] = v.Clone()
	}

	return Result{vectors: out, batch: in.IsBatch()}, nil
}

// EmbedText embeds one text.
func (c *Client) EmbedText(ctx context.Context, text string) (vector.Vector, error) {
	res, err := c.Embed(ctx, Single(text))
	if err != nil {
		return nil, err
	}
	v, _ := res.Single()
	return v, nil
}

// Close releases the backend if it holds resources.
func (c *Client) Close() error {
	if closer, ok := c.service.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Client) fail(msg string, cause error) error {
	return &EmbeddingError{Backend: c.backend, Message: msg, Cause: cause}
}
