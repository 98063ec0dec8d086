package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-advisor/internal/types"
)

func TestRenderProfile(t *testing.T) {
	p := types.ProfileRequest{
		Name:        "Asha",
		Education:   "B.Com",
		Interests:   []string{"finance", "travel"},
		Skills:      []string{"excel"},
		Constraints: "Hindi speaking",
	}

	want := "Name: Asha\nEducation: B.Com\nInterests: finance, travel\nSkills: excel\nConstraints: Hindi speaking\n"
	assert.Equal(t, want, RenderProfile(p))
}

func TestRenderProfile_Empty(t *testing.T) {
	want := "Name: \nEducation: \nInterests: \nSkills: \nConstraints: \n"
	assert.Equal(t, want, RenderProfile(types.ProfileRequest{}))
}

func TestRenderContext(t *testing.T) {
	retrieved := []types.RankedResult{
		{Entry: types.CareerEntry{Title: "Nurse", Summary: "Cares for patients.", Skills: []string{"biology", "empathy"}}, Rank: 1},
		{Entry: types.CareerEntry{Title: "Chef"}, Rank: 2},
	}

	want := "- Nurse: Cares for patients.\n  Skills: biology, empathy\n- Chef: \n  Skills: \n"
	assert.Equal(t, want, RenderContext(retrieved))
}

func TestBuildRecommendation(t *testing.T) {
	clearCache()

	profile := RenderProfile(types.ProfileRequest{Name: "Ravi", Skills: []string{"math"}})
	retrieved := []types.RankedResult{
		{Entry: types.CareerEntry{Title: "Actuary", Summary: "Prices risk.", Skills: []string{"statistics"}}, Rank: 1},
		{Entry: types.CareerEntry{Title: "Teacher", Summary: "Teaches.", Skills: []string{"patience"}}, Rank: 2},
	}

	prompt, err := BuildRecommendation(profile, retrieved)
	require.NoError(t, err)

	assert.Contains(t, prompt, "You are an empathetic career advisor for students in India.")
	assert.Contains(t, prompt, "(up to 2 careers)")
	assert.Contains(t, prompt, "USER PROFILE:\nName: Ravi\n")
	assert.Contains(t, prompt, "- Actuary: Prices risk.\n  Skills: statistics\n")
	assert.Less(t, strings.Index(prompt, "Actuary"), strings.Index(prompt, "Teacher"), "best match first")
	assert.True(t, strings.HasSuffix(prompt, "Return ONLY valid JSON.\n"))
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildRecommendation_PlaceholderInProfile(t *testing.T) {
	clearCache()

	profile := RenderProfile(types.ProfileRequest{Name: "{{.Context}}"})
	retrieved := []types.RankedResult{
		{Entry: types.CareerEntry{Title: "Pilot"}, Rank: 1},
	}

	prompt, err := BuildRecommendation(profile, retrieved)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Name: {{.Context}}\n")
	assert.Equal(t, 1, strings.Count(prompt, "- Pilot:"))
}
