package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Catalog(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "careers.json", testCatalog)

	stdout, _, err := execute(newValidateCmd(), path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")
	assert.Contains(t, stdout, "(4 careers)")
}

func TestValidateCommand_YAMLCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "careers.yaml", "- title: Chef\n  summary: Cooks.\n  skills: [knife work]\n")

	stdout, _, err := execute(newValidateCmd(), path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(1 careers)")
}

func TestValidateCommand_InvalidCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "careers.json", `[{"summary":"no title"}]`)

	stdout, _, err := execute(newValidateCmd(), path)
	require.Error(t, err)
	assert.Contains(t, stdout, "Validation failed")
	assert.Contains(t, stdout, "title")
	assert.Contains(t, err.Error(), "schema error")
}

func TestValidateCommand_Recommendation(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"recommendations":[{"title":"Data Analyst","rank":1,"why_fit":["Likes data"],"required_skills":["sql"],"resources":[{"title":"SQL course","url":"https://example.com"}],"90_day_plan":["learn sql"]}]}`)
	bad := writeFile(t, dir, "bad.json", `{"careers":[]}`)

	stdout, _, err := execute(newValidateCmd(), "--recommendation", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")

	stdout, _, err = execute(newValidateCmd(), "--recommendation", bad)
	require.Error(t, err)
	assert.Contains(t, stdout, "Validation failed")
}

func TestValidateCommand_CustomSchema(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", `{"type":"object","required":["name"]}`)
	doc := writeFile(t, dir, "doc.json", `{"name":"x"}`)

	stdout, _, err := execute(newValidateCmd(), "--schema", schema, doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")
}

func TestValidateCommand_Usage(t *testing.T) {
	_, _, err := execute(newValidateCmd())
	assert.Error(t, err, "file argument is required")

	_, _, err = execute(newValidateCmd(), "--schema", "s.json", "--recommendation", "x.json")
	assert.Error(t, err, "flags are mutually exclusive")
}
