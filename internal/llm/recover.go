package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ParseError is returned when no JSON object can be recovered from model output.
// Raw holds the unmodified text.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return "failed to parse model output: " + e.Cause.Error()
	}
	return "failed to parse model output"
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

var errNotObject = errors.New("output is not a non-empty JSON object")

// RecoverJSON extracts a JSON object from model output. The whole text is tried
// first; failing that, the span from the first "{" to the last "}". An empty
// object or a non-object value does not count.
func RecoverJSON(raw string) (map[string]any, error) {
	obj, err := decodeObject(raw)
	if err == nil {
		return obj, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		obj, err = decodeObject(raw[start : end+1])
		if err == nil {
			return obj, nil
		}
	}

	return nil, &ParseError{Raw: raw, Cause: err}
}

func decodeObject(text string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, errNotObject
	}
	return obj, nil
}
