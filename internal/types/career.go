// Package types provides type definitions for structured data used throughout the career-advisor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CareerEntry is one career in the catalog. Summary and Skills may be empty.
type CareerEntry struct {
	Title   string   `json:"title" yaml:"title"`
	Summary string   `json:"summary" yaml:"summary"`
	Skills  []string `json:"skills" yaml:"skills"`
}
