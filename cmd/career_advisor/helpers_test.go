package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testCatalog = `[
  {"title": "Data Analyst", "summary": "Turns data into decisions.", "skills": ["sql", "statistics"]},
  {"title": "Registered Nurse", "summary": "Cares for patients.", "skills": ["biology", "empathy"]},
  {"title": "UX Designer", "summary": "Designs usable products.", "skills": ["figma", "research"]},
  {"title": "Electrician", "summary": "Installs electrical systems.", "skills": ["wiring", "safety"]}
]`

// offlineEnv points the pipeline at a temp catalog and the hash embedding
// backend so commands run without network access.
func offlineEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "careers.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0644))

	t.Setenv("CATALOG_PATH", catalogPath)
	t.Setenv("EMBED_PROVIDER", "hash")
	t.Setenv("EMBED_DIMENSIONS", "64")
	t.Setenv("ADVISOR_MODE", "retrieval")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("TOP_K", "2")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
