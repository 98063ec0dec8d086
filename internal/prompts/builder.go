package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/career-advisor/internal/types"
)

const (
	recommendationFile = "recommendation.json"
	recommendationKey  = "career-recommendation"
)

// RenderProfile renders a profile as the text that is embedded and shown to the model.
func RenderProfile(p types.ProfileRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", p.Name)
	fmt.Fprintf(&sb, "Education: %s\n", p.Education)
	fmt.Fprintf(&sb, "Interests: %s\n", strings.Join(p.Interests, ", "))
	fmt.Fprintf(&sb, "Skills: %s\n", strings.Join(p.Skills, ", "))
	fmt.Fprintf(&sb, "Constraints: %s\n", p.Constraints)
	return sb.String()
}

// RenderContext renders the retrieved careers, best first, one block each.
func RenderContext(retrieved []types.RankedResult) string {
	var sb strings.Builder
	for _, r := range retrieved {
		fmt.Fprintf(&sb, "- %s: %s\n  Skills: %s\n", r.Entry.Title, r.Entry.Summary, strings.Join(r.Entry.Skills, ", "))
	}
	return sb.String()
}

// BuildRecommendation renders the generation prompt for a profile and its retrieved careers.
func BuildRecommendation(profileText string, retrieved []types.RankedResult) (string, error) {
	template, err := Get(recommendationFile, recommendationKey)
	if err != nil {
		return "", err
	}

	return Format(template, map[string]string{
		"Count":   strconv.Itoa(len(retrieved)),
		"Profile": profileText,
		"Context": RenderContext(retrieved),
	}), nil
}
