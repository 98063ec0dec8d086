package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-advisor/internal/types"
)

// Justify explains a retrieval-only result: the score to two decimals, then the skills.
func Justify(r types.RankedResult) []string {
	return []string{
		fmt.Sprintf("Similarity score: %.2f", r.Score),
		fmt.Sprintf("Skills: %s", strings.Join(r.Entry.Skills, ", ")),
	}
}

// ToRetrieval renders ranked results as the retrieval-only payload.
func ToRetrieval(results []types.RankedResult) types.RetrievalResponse {
	recs := make([]types.RetrievedCareer, 0, len(results))
	for _, r := range results {
		skills := r.Entry.Skills
		if skills == nil {
			skills = []string{}
		}
		recs = append(recs, types.RetrievedCareer{
			Title:   r.Entry.Title,
			Summary: r.Entry.Summary,
			Skills:  skills,
			Rank:    r.Rank,
			WhyFit:  Justify(r),
		})
	}
	return types.RetrievalResponse{Recommendations: recs}
}
