//nolint:revive // types is a standard Go package name pattern
package types

// RankedResult is a catalog entry paired with its similarity to a profile.
type RankedResult struct {
	Entry CareerEntry `json:"entry"`
	// Index is the entry's position in the catalog.
	Index int     `json:"index"`
	Score float64 `json:"score"`
	// Rank is 1-based.
	Rank int `json:"rank"`
}

// RetrievedCareer is a ranked career rendered for retrieval-only responses.
type RetrievedCareer struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Skills  []string `json:"skills"`
	Rank    int      `json:"rank"`
	WhyFit  []string `json:"why_fit"`
}

// RetrievalResponse is the payload returned in retrieval-only mode.
type RetrievalResponse struct {
	Recommendations []RetrievedCareer `json:"recommendations"`
}
