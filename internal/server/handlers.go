package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/career-advisor/internal/advisor"
	"github.com/jonathan/career-advisor/internal/db"
	"github.com/jonathan/career-advisor/internal/types"
)

// decodeProfile reads a ProfileRequest. An empty body is an empty profile.
func decodeProfile(w http.ResponseWriter, r *http.Request) (types.ProfileRequest, error) {
	var profile types.ProfileRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		return profile, &ErrBadRequest{Cause: err}
	}
	if err := profile.Validate(); err != nil {
		return profile, err
	}
	return profile, nil
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), validationMessage(err))
}

// handleRecommend runs the pipeline in the configured mode.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	profile, err := decodeProfile(w, r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	s.writeOutcome(w, s.advisor.Recommend(r.Context(), profile))
}

// handleRetrieve runs retrieval only, whatever the configured mode.
func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	profile, err := decodeProfile(w, r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	s.writeOutcome(w, s.advisor.Retrieve(r.Context(), profile))
}

func (s *Server) writeOutcome(w http.ResponseWriter, out *advisor.Outcome) {
	w.Header().Set("X-Run-ID", out.ID.String())
	if out.OK() {
		s.jsonResponse(w, http.StatusOK, out.Payload)
		return
	}
	status, body := failureBody(out)
	s.jsonResponse(w, status, body)
}

// handleRecommendStream runs the configured mode and streams step events via SSE.
func (s *Server) handleRecommendStream(w http.ResponseWriter, r *http.Request) {
	profile, err := decodeProfile(w, r)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx := advisor.WithProgress(r.Context(), func(event advisor.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			log.Printf("[server] error writing SSE event: %v", err)
		}
	})

	out := s.advisor.Recommend(ctx, profile)
	if !out.OK() {
		_, body := failureBody(out)
		sse.WriteFailure(body)
		return
	}
	sse.WriteResult(out.ID.String(), out.Payload)
}

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// handleListRuns returns the most recent runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.errorResponse(w, http.StatusNotFound, "run history is not enabled")
		return
	}

	limit := defaultRunLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 || n > maxRunLimit {
			s.badRequest(w, &ErrValidation{Field: "limit", Message: "must be an integer between 1 and 100"})
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		log.Printf("[server] failed to list runs: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleGetRun returns a stored run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.errorResponse(w, http.StatusNotFound, "run history is not enabled")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.badRequest(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		log.Printf("[server] failed to get run %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}
