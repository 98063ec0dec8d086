package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-advisor/internal/advisor"
	"github.com/jonathan/career-advisor/internal/types"
)

var _ advisor.RunRecorder = (*DB)(nil)

// RetrievedRow is the stored form of one ranked catalog entry.
type RetrievedRow struct {
	Title string  `json:"title"`
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
}

// Run represents a stored recommendation run
type Run struct {
	ID         uuid.UUID            `json:"id"`
	Mode       string               `json:"mode"`
	State      string               `json:"state"`
	Profile    types.ProfileRequest `json:"profile"`
	Retrieved  []RetrievedRow       `json:"retrieved"`
	Payload    json.RawMessage      `json:"payload,omitempty"`
	RawOutput  string               `json:"raw_output,omitempty"`
	Error      string               `json:"error,omitempty"`
	DurationMS int64                `json:"duration_ms"`
	CreatedAt  time.Time            `json:"created_at"`
}

// runRecord holds the column values for one insert.
type runRecord struct {
	id         uuid.UUID
	mode       string
	state      string
	profile    []byte
	retrieved  []byte
	payload    []byte
	rawOutput  *string
	errText    *string
	durationMS int64
}

func newRunRecord(profile types.ProfileRequest, outcome *advisor.Outcome) (*runRecord, error) {
	if outcome == nil {
		return nil, fmt.Errorf("outcome is nil")
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	rows := make([]RetrievedRow, 0, len(outcome.Retrieved))
	for _, r := range outcome.Retrieved {
		rows = append(rows, RetrievedRow{Title: r.Entry.Title, Rank: r.Rank, Score: r.Score})
	}
	retrievedJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal retrieved careers: %w", err)
	}

	rec := &runRecord{
		id:         outcome.ID,
		mode:       string(outcome.Mode),
		state:      string(outcome.State),
		profile:    profileJSON,
		retrieved:  retrievedJSON,
		durationMS: outcome.Duration.Milliseconds(),
	}

	if outcome.Payload != nil {
		rec.payload, err = json.Marshal(outcome.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
	}
	if outcome.Raw != "" {
		raw := outcome.Raw
		rec.rawOutput = &raw
	}
	if outcome.Err != nil {
		msg := outcome.Err.Error()
		rec.errText = &msg
	}
	return rec, nil
}

// RecordRun stores one outcome with the profile that produced it.
func (db *DB) RecordRun(ctx context.Context, profile types.ProfileRequest, outcome *advisor.Outcome) error {
	rec, err := newRunRecord(profile, outcome)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO recommendation_runs (id, mode, state, profile, retrieved, payload, raw_output, error, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.id, rec.mode, rec.state, rec.profile, rec.retrieved, rec.payload, rec.rawOutput, rec.errText, rec.durationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", rec.id, err)
	}
	return nil
}

const runColumns = `id, mode, state, profile, retrieved, payload, raw_output, error, duration_ms, created_at`

// GetRun retrieves a run by ID. Returns nil, nil if no run exists.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	run, err := scanRun(db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM recommendation_runs WHERE id = $1`,
		runID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM recommendation_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.Row) (*Run, error) {
	var (
		run           Run
		profileJSON   []byte
		retrievedJSON []byte
		payload       []byte
		rawOutput     *string
		errText       *string
	)
	if err := row.Scan(&run.ID, &run.Mode, &run.State, &profileJSON, &retrievedJSON, &payload,
		&rawOutput, &errText, &run.DurationMS, &run.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(profileJSON, &run.Profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if len(retrievedJSON) > 0 {
		if err := json.Unmarshal(retrievedJSON, &run.Retrieved); err != nil {
			return nil, fmt.Errorf("failed to decode retrieved careers: %w", err)
		}
	}
	if len(payload) > 0 {
		run.Payload = json.RawMessage(payload)
	}
	if rawOutput != nil {
		run.RawOutput = *rawOutput
	}
	if errText != nil {
		run.Error = *errText
	}
	return &run, nil
}
