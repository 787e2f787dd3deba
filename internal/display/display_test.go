package display

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/types"
)

func sampleReview() *types.ReviewResult {
	match := 74
	return &types.ReviewResult{
		ATSScore:      81,
		JobMatchScore: &match,
		Strengths:     []string{"quantified impact", "clear structure"},
		Weaknesses:    []string{"missing summary"},
		Suggestions:   []string{"add a summary section"},
		MissingSkills: []string{"Kubernetes"},
		DetailedScores: []types.ScoreCategory{
			{
				Category: "Content",
				Criteria: []types.ScoreCriteriaItem{
					{Name: "Action verbs", Score: 8, MaxScore: 10, Status: "pass", Feedback: "strong verbs throughout"},
				},
			},
		},
	}
}

func TestRegistry_ReviewText(t *testing.T) {
	r := NewRegistry()

	out, err := r.Format(sampleReview(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "ATS Score: 81/100")
	assert.Contains(t, out, "Job Match Score: 74/100")
	assert.Contains(t, out, "- quantified impact")
	assert.Contains(t, out, "Action verbs: 8/10 [pass]")
}

func TestRegistry_ReviewMarkdown(t *testing.T) {
	r := NewRegistry()

	out, err := r.Format(sampleReview(), "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# Resume Review")
	assert.Contains(t, out, "**ATS Score:** 81/100")
	assert.Contains(t, out, "## Missing Skills")
}

func TestRegistry_AcceptsValueAndPointer(t *testing.T) {
	r := NewRegistry()

	byValue, err := r.Format(*sampleReview(), "text")
	require.NoError(t, err)
	byPointer, err := r.Format(sampleReview(), "text")
	require.NoError(t, err)
	assert.Equal(t, byValue, byPointer)
}

func TestRegistry_TailorText(t *testing.T) {
	r := NewRegistry()

	out, err := r.Format(&types.TailorResult{
		MatchScore:      67,
		MatchedKeywords: []string{"Go", "gRPC"},
		MissingKeywords: []string{"Terraform"},
		Recommendations: []string{"mention infrastructure work"},
	}, "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Match Score: 67/100")
	assert.Contains(t, out, "- Terraform")
}

func TestRegistry_BenchmarkMarkdownTable(t *testing.T) {
	r := NewRegistry()

	out, err := r.Format(&types.BenchmarkResult{
		Industry: "tech",
		Comparisons: []types.BenchmarkComparison{
			{Metric: "ATS Score", YourScore: 80, IndustryAverage: 72, Percentile: 68, Status: "above_average"},
		},
	}, "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "| ATS Score | 80 | 72 | 68 | above_average |")
}

func TestRegistry_UnknownTypeFallsBackToJSON(t *testing.T) {
	r := NewRegistry()

	result := &types.ChatResult{Message: "Lead with impact."}
	out, err := r.Format(result, "json")
	require.NoError(t, err)

	var decoded types.ChatResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Lead with impact.", decoded.Message)
}

func TestRegistry_NoFormatterForFormat(t *testing.T) {
	r := NewRegistry()

	_, err := r.Format(sampleReview(), "yaml")
	assert.Error(t, err)
}

func TestRegistry_SupportedFormats(t *testing.T) {
	r := NewRegistry()
	assert.ElementsMatch(t, []string{"json", "text", "markdown"}, r.SupportedFormats())
}
