package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/career-advisor/internal/advisor"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBadRequest indicates a body that could not be decoded
type ErrBadRequest struct {
	Cause error
}

func (e *ErrBadRequest) Error() string {
	return "invalid request body: " + e.Cause.Error()
}

func (e *ErrBadRequest) Unwrap() error { return e.Cause }

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, new(*ErrValidation)), errors.As(err, &ve), errors.As(err, new(*ErrBadRequest)):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// validationMessage flattens validator errors into one line per field.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err.Error()
	}
	fe := ve[0]
	msg := fmt.Sprintf("validation error: %s failed '%s'", fe.Namespace(), fe.Tag())
	if fe.Param() != "" {
		msg += "=" + fe.Param()
	}
	if len(ve) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(ve)-1)
	}
	return msg
}

// outcomeError is the failure body for a pipeline outcome. Raw is present,
// possibly empty, only for parse failures.
type outcomeError struct {
	OK    bool    `json:"ok"`
	Error string  `json:"error"`
	Raw   *string `json:"raw,omitempty"`
	RunID string  `json:"run_id,omitempty"`
}

// failureBody maps a failed outcome to its status code and response body.
func failureBody(out *advisor.Outcome) (int, outcomeError) {
	body := outcomeError{RunID: out.ID.String()}
	switch out.State {
	case advisor.StateEmbeddingFailed:
		body.Error = "Embedding error: " + errString(out.Err)
	case advisor.StateGenerationFailed:
		body.Error = "Generation error: " + errString(out.Err)
	case advisor.StateParseFailed:
		body.Error = "Failed to parse model output"
		raw := out.Raw
		body.Raw = &raw
	default:
		body.Error = "Unexpected pipeline state: " + string(out.State)
	}
	return http.StatusInternalServerError, body
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
