package advisor

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-advisor/internal/types"
)

// Mode selects what a recommendation returns.
type Mode string

const (
	// ModeGenerative asks the model for a structured recommendation.
	ModeGenerative Mode = "generative"
	// ModeRetrieval returns the ranked careers with similarity justifications.
	ModeRetrieval Mode = "retrieval"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeGenerative, ModeRetrieval:
		return Mode(s), nil
	default:
		return "", &UnknownModeError{Mode: s}
	}
}

// UnknownModeError is returned for an unrecognized mode name.
type UnknownModeError struct {
	Mode string
}

func (e *UnknownModeError) Error() string {
	return "unknown mode: " + e.Mode + " (want generative or retrieval)"
}

// State is the terminal state of one request.
type State string

const (
	StateSuccess          State = "success"
	StateEmbeddingFailed  State = "embedding_failed"
	StateGenerationFailed State = "generation_failed"
	StateParseFailed      State = "parse_failed"
)

// Outcome is the result of one request. Err is set for every state but success;
// Raw is set only for parse failures.
type Outcome struct {
	ID    uuid.UUID
	Mode  Mode
	State State
	// Payload is map[string]any in generative mode and types.RetrievalResponse in retrieval mode.
	Payload   any
	Retrieved []types.RankedResult
	Raw       string
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// OK reports whether the request succeeded.
func (o *Outcome) OK() bool {
	return o.State == StateSuccess
}
