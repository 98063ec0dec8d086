// Package advisor runs the recommendation pipeline: embed the profile, rank
// the catalog, then either return the ranked careers or ask a model for a
// structured recommendation and recover its JSON.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/embedding"
	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/prompts"
	"github.com/jonathan/career-advisor/internal/ranking"
	"github.com/jonathan/career-advisor/internal/schemas"
	"github.com/jonathan/career-advisor/internal/types"
	"github.com/jonathan/career-advisor/internal/vector"
)

// ProgressEvent reports a finished pipeline step.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called after each pipeline step.
type ProgressCallback func(event ProgressEvent)

type progressKey struct{}

// WithProgress returns a context that reports this request's pipeline steps to cb,
// in addition to any callback set in Options.
func WithProgress(ctx context.Context, cb ProgressCallback) context.Context {
	return context.WithValue(ctx, progressKey{}, cb)
}

// ProgressFrom returns the callback attached with WithProgress, if any.
func ProgressFrom(ctx context.Context) (ProgressCallback, bool) {
	cb, ok := ctx.Value(progressKey{}).(ProgressCallback)
	return cb, ok && cb != nil
}

// RunRecorder persists outcomes. Recorder failures are logged and never change an outcome.
type RunRecorder interface {
	RecordRun(ctx context.Context, profile types.ProfileRequest, outcome *Outcome) error
}

// Options configures an Advisor.
type Options struct {
	TopK       int
	Mode       Mode
	Generation llm.Options
	OnProgress ProgressCallback
}

// DefaultOptions returns top 3 in generative mode with the default generation options.
func DefaultOptions() Options {
	return Options{TopK: 3, Mode: ModeGenerative, Generation: llm.DefaultOptions()}
}

// Advisor holds the long-lived pieces of the pipeline. It is safe for concurrent use.
type Advisor struct {
	holder    *catalog.Holder
	embedder  catalog.Embedder
	generator llm.Client
	recorder  RunRecorder
	opts      Options
}

// New creates an Advisor. generator may be nil when opts.Mode is retrieval.
func New(holder *catalog.Holder, embedder catalog.Embedder, generator llm.Client, opts Options) (*Advisor, error) {
	if holder == nil || holder.Current() == nil {
		return nil, fmt.Errorf("catalog index is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if opts.TopK < 1 {
		return nil, fmt.Errorf("top k must be at least 1, got %d", opts.TopK)
	}
	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	if opts.Mode == ModeGenerative {
		if generator == nil {
			return nil, fmt.Errorf("generative mode requires a generator")
		}
		if err := opts.Generation.Validate(); err != nil {
			return nil, fmt.Errorf("invalid generation options: %w", err)
		}
	}

	return &Advisor{
		holder:    holder,
		embedder:  embedder,
		generator: generator,
		opts:      opts,
	}, nil
}

// SetRecorder attaches a run recorder. Call before serving requests.
func (a *Advisor) SetRecorder(r RunRecorder) {
	a.recorder = r
}

// Mode returns the configured mode.
func (a *Advisor) Mode() Mode { return a.opts.Mode }

// CatalogSize returns the number of careers in the current index.
func (a *Advisor) CatalogSize() int { return a.holder.Current().Len() }

// Recommend runs the pipeline in the configured mode.
func (a *Advisor) Recommend(ctx context.Context, profile types.ProfileRequest) *Outcome {
	return a.run(ctx, profile, a.opts.Mode)
}

// Retrieve runs the pipeline in retrieval-only mode regardless of configuration.
func (a *Advisor) Retrieve(ctx context.Context, profile types.ProfileRequest) *Outcome {
	return a.run(ctx, profile, ModeRetrieval)
}

func (a *Advisor) run(ctx context.Context, profile types.ProfileRequest, mode Mode) *Outcome {
	out := &Outcome{ID: uuid.New(), Mode: mode, StartedAt: time.Now()}
	runID := out.ID.String()

	a.execute(ctx, profile, out)

	out.Duration = time.Since(out.StartedAt)
	if out.OK() {
		log.Printf("[advisor] run %s (%s) succeeded in %s", runID, mode, out.Duration.Round(time.Millisecond))
	} else {
		log.Printf("[advisor] run %s (%s) ended in %s: %v", runID, mode, out.State, out.Err)
		if out.State == StateParseFailed {
			log.Printf("[advisor] run %s raw output: %q", runID, truncateRunes(out.Raw, 200))
		}
	}

	if a.recorder != nil {
		if err := a.recorder.RecordRun(ctx, profile, out); err != nil {
			log.Printf("[advisor] failed to record run %s: %v", runID, err)
		}
	}
	return out
}

func (a *Advisor) execute(ctx context.Context, profile types.ProfileRequest, out *Outcome) {
	runID := out.ID.String()
	idx := a.holder.Current()

	// Step 1: embed the profile
	profileText := prompts.RenderProfile(profile)
	query, err := a.embedText(ctx, profileText)
	if err != nil {
		out.State, out.Err = StateEmbeddingFailed, err
		return
	}
	a.progress(ctx, ProgressEvent{Step: "embed", Message: fmt.Sprintf("Embedded profile (%d dimensions)", len(query)), RunID: runID})

	// Step 2: rank the catalog
	retrieved, err := ranking.Rank(idx, query, a.opts.TopK)
	if err != nil {
		// Only a query whose dimension disagrees with the catalog reaches here.
		out.State, out.Err = StateEmbeddingFailed, fmt.Errorf("profile embedding incompatible with catalog: %w", err)
		return
	}
	out.Retrieved = retrieved
	a.progress(ctx, ProgressEvent{Step: "retrieve", Message: fmt.Sprintf("Retrieved %d careers", len(retrieved)), RunID: runID, Content: retrieved})

	if out.Mode == ModeRetrieval {
		out.State, out.Payload = StateSuccess, ranking.ToRetrieval(retrieved)
		return
	}

	// Step 3: generate
	prompt, err := prompts.BuildRecommendation(profileText, retrieved)
	if err != nil {
		out.State, out.Err = StateGenerationFailed, &llm.GenerationError{Model: a.generator.GetModel(), Message: "failed to build prompt", Cause: err}
		return
	}

	text, err := a.generator.GenerateContent(ctx, prompt, a.opts.Generation)
	if err != nil {
		out.State, out.Err = StateGenerationFailed, err
		return
	}
	a.progress(ctx, ProgressEvent{Step: "generate", Message: fmt.Sprintf("Model returned %d characters", len(text)), RunID: runID})

	// Step 4: recover the JSON object
	payload, err := llm.RecoverJSON(text)
	if err != nil {
		out.State, out.Err, out.Raw = StateParseFailed, err, text
		return
	}
	checkRecommendationShape(runID, payload)

	out.State, out.Payload = StateSuccess, payload
	a.progress(ctx, ProgressEvent{Step: "parse", Message: "Recovered recommendation JSON", RunID: runID, Content: payload})
}

func (a *Advisor) embedText(ctx context.Context, text string) (vector.Vector, error) {
	res, err := a.embedder.Embed(ctx, embedding.Single(text))
	if err != nil {
		return nil, err
	}
	v, ok := res.Single()
	if !ok {
		return nil, fmt.Errorf("embedding returned a batch for a single profile")
	}
	return v, nil
}

func (a *Advisor) progress(ctx context.Context, event ProgressEvent) {
	if a.opts.OnProgress != nil {
		a.opts.OnProgress(event)
	}
	if cb, ok := ProgressFrom(ctx); ok {
		cb(event)
	}
}

// checkRecommendationShape logs, but never rejects, output that deviates from the expected schema.
func checkRecommendationShape(runID string, payload map[string]any) {
	doc, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := schemas.ValidateDocument(schemas.Recommendation, doc); err != nil {
		log.Printf("[advisor] run %s: recommendation does not match expected shape: %v", runID, err)
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
