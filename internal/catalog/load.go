// Package catalog loads the career catalog and builds the in-memory similarity index over it.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/career-advisor/internal/schemas"
	"github.com/jonathan/career-advisor/internal/types"
)

// Load reads a catalog file. JSON and YAML (.yaml, .yml) are accepted; both are
// validated against the builtin catalog schema before decoding.
func Load(path string) ([]types.CareerEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse catalog YAML %s: %w", path, err)
		}
	}

	return Parse(data)
}

// Parse validates and decodes a JSON catalog document.
func Parse(data []byte) ([]types.CareerEntry, error) {
	if err := schemas.ValidateDocument(schemas.Catalog, data); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	var entries []types.CareerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	return entries, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// Describe renders the text that is embedded for an entry:
// "{title}. {summary} Skills: {skill1, skill2}".
func Describe(e types.CareerEntry) string {
	return fmt.Sprintf("%s. %s Skills: %s", e.Title, e.Summary, strings.Join(e.Skills, ", "))
}
