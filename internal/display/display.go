// Package display turns AI analysis results into user-facing text. Each
// result type gets a text and a markdown formatter; everything falls back
// to pretty-printed JSON.
package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// Registry manages all available formatters
type Registry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewRegistry creates a registry with the default formatters registered
func NewRegistry() *Registry {
	registry := &Registry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.Register("json", "any", &JSONFormatter{})
	registry.Register("text", "ReviewResult", &ReviewTextFormatter{})
	registry.Register("markdown", "ReviewResult", &ReviewMarkdownFormatter{})
	registry.Register("text", "TailorResult", &TailorTextFormatter{})
	registry.Register("markdown", "TailorResult", &TailorMarkdownFormatter{})
	registry.Register("text", "CareerPathResult", &CareerPathTextFormatter{})
	registry.Register("markdown", "CareerPathResult", &CareerPathMarkdownFormatter{})
	registry.Register("text", "BenchmarkResult", &BenchmarkTextFormatter{})
	registry.Register("markdown", "BenchmarkResult", &BenchmarkMarkdownFormatter{})

	return registry
}

// Register registers a formatter for a specific format and data type
func (r *Registry) Register(format, dataType string, formatter Formatter) {
	if r.formatters[format] == nil {
		r.formatters[format] = make(map[string]Formatter)
	}
	r.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (r *Registry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := r.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// SupportedFormats returns all registered formats
func (r *Registry) SupportedFormats() []string {
	formats := make([]string, 0, len(r.formatters))
	for format := range r.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ReviewResult, *types.ReviewResult:
		return "ReviewResult"
	case types.TailorResult, *types.TailorResult:
		return "TailorResult"
	case types.CareerPathResult, *types.CareerPathResult:
		return "CareerPathResult"
	case types.BenchmarkResult, *types.BenchmarkResult:
		return "BenchmarkResult"
	default:
		return "any"
	}
}

func asReview(data any) (*types.ReviewResult, error) {
	switch v := data.(type) {
	case types.ReviewResult:
		return &v, nil
	case *types.ReviewResult:
		return v, nil
	}
	return nil, fmt.Errorf("expected ReviewResult, got %T", data)
}

func asTailor(data any) (*types.TailorResult, error) {
	switch v := data.(type) {
	case types.TailorResult:
		return &v, nil
	case *types.TailorResult:
		return v, nil
	}
	return nil, fmt.Errorf("expected TailorResult, got %T", data)
}

func asCareerPath(data any) (*types.CareerPathResult, error) {
	switch v := data.(type) {
	case types.CareerPathResult:
		return &v, nil
	case *types.CareerPathResult:
		return v, nil
	}
	return nil, fmt.Errorf("expected CareerPathResult, got %T", data)
}

func asBenchmark(data any) (*types.BenchmarkResult, error) {
	switch v := data.(type) {
	case types.BenchmarkResult:
		return &v, nil
	case *types.BenchmarkResult:
		return v, nil
	}
	return nil, fmt.Errorf("expected BenchmarkResult, got %T", data)
}

func writeList(sb *strings.Builder, items []string) {
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %s\n", item))
	}
	sb.WriteString("\n")
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ReviewTextFormatter handles text formatting for review results
type ReviewTextFormatter struct{}

func (rtf *ReviewTextFormatter) Format(data any) (string, error) {
	result, err := asReview(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== RESUME REVIEW ===\n\n")
	output.WriteString(fmt.Sprintf("ATS Score: %d/100\n", result.ATSScore))
	if result.JobMatchScore != nil {
		output.WriteString(fmt.Sprintf("Job Match Score: %d/100\n", *result.JobMatchScore))
	}
	output.WriteString("\n")

	if len(result.Strengths) > 0 {
		output.WriteString("Strengths:\n")
		writeList(&output, result.Strengths)
	}
	if len(result.Weaknesses) > 0 {
		output.WriteString("Weaknesses:\n")
		writeList(&output, result.Weaknesses)
	}
	if len(result.Suggestions) > 0 {
		output.WriteString("Suggestions:\n")
		writeList(&output, result.Suggestions)
	}
	if len(result.MissingSkills) > 0 {
		output.WriteString("Missing Skills:\n")
		writeList(&output, result.MissingSkills)
	}

	for _, category := range result.DetailedScores {
		output.WriteString(fmt.Sprintf("=== %s ===\n", strings.ToUpper(category.Category)))
		for _, item := range category.Criteria {
			output.WriteString(fmt.Sprintf("%s: %d/%d [%s]\n", item.Name, item.Score, item.MaxScore, item.Status))
			if item.Feedback != "" {
				output.WriteString(fmt.Sprintf("  %s\n", item.Feedback))
			}
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rtf *ReviewTextFormatter) SupportedType() string {
	return "ReviewResult"
}

// ReviewMarkdownFormatter handles markdown formatting for review results
type ReviewMarkdownFormatter struct{}

func (rmf *ReviewMarkdownFormatter) Format(data any) (string, error) {
	result, err := asReview(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Resume Review\n\n")
	output.WriteString(fmt.Sprintf("**ATS Score:** %d/100\n\n", result.ATSScore))
	if result.JobMatchScore != nil {
		output.WriteString(fmt.Sprintf("**Job Match Score:** %d/100\n\n", *result.JobMatchScore))
	}

	if len(result.Strengths) > 0 {
		output.WriteString("## Strengths\n\n")
		writeList(&output, result.Strengths)
	}
	if len(result.Weaknesses) > 0 {
		output.WriteString("## Weaknesses\n\n")
		writeList(&output, result.Weaknesses)
	}
	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		writeList(&output, result.Suggestions)
	}
	if len(result.MissingSkills) > 0 {
		output.WriteString("## Missing Skills\n\n")
		writeList(&output, result.MissingSkills)
	}

	for _, category := range result.DetailedScores {
		output.WriteString(fmt.Sprintf("## %s\n\n", category.Category))
		for _, item := range category.Criteria {
			output.WriteString(fmt.Sprintf("- **%s:** %d/%d (%s)", item.Name, item.Score, item.MaxScore, item.Status))
			if item.Feedback != "" {
				output.WriteString(fmt.Sprintf(" — %s", item.Feedback))
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rmf *ReviewMarkdownFormatter) SupportedType() string {
	return "ReviewResult"
}

// TailorTextFormatter handles text formatting for tailor results
type TailorTextFormatter struct{}

func (ttf *TailorTextFormatter) Format(data any) (string, error) {
	result, err := asTailor(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== JOB MATCH ===\n\n")
	output.WriteString(fmt.Sprintf("Match Score: %.0f/100\n\n", result.MatchScore))

	if len(result.MatchedKeywords) > 0 {
		output.WriteString("Matched Keywords:\n")
		writeList(&output, result.MatchedKeywords)
	}
	if len(result.MissingKeywords) > 0 {
		output.WriteString("Missing Keywords:\n")
		writeList(&output, result.MissingKeywords)
	}
	if len(result.SkillGaps) > 0 {
		output.WriteString("Skill Gaps:\n")
		writeList(&output, result.SkillGaps)
	}
	if len(result.Recommendations) > 0 {
		output.WriteString("Recommendations:\n")
		writeList(&output, result.Recommendations)
	}
	if len(result.ImprovementsMade) > 0 {
		output.WriteString("Changes Applied:\n")
		writeList(&output, result.ImprovementsMade)
	}

	return output.String(), nil
}

func (ttf *TailorTextFormatter) SupportedType() string {
	return "TailorResult"
}

// TailorMarkdownFormatter handles markdown formatting for tailor results
type TailorMarkdownFormatter struct{}

func (tmf *TailorMarkdownFormatter) Format(data any) (string, error) {
	result, err := asTailor(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Job Match\n\n")
	output.WriteString(fmt.Sprintf("**Match Score:** %.0f/100\n\n", result.MatchScore))

	if len(result.MatchedKeywords) > 0 {
		output.WriteString("## Matched Keywords\n\n")
		writeList(&output, result.MatchedKeywords)
	}
	if len(result.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		writeList(&output, result.MissingKeywords)
	}
	if len(result.SkillGaps) > 0 {
		output.WriteString("## Skill Gaps\n\n")
		writeList(&output, result.SkillGaps)
	}
	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		writeList(&output, result.Recommendations)
	}
	if len(result.ImprovementsMade) > 0 {
		output.WriteString("## Changes Applied\n\n")
		writeList(&output, result.ImprovementsMade)
	}

	return output.String(), nil
}

func (tmf *TailorMarkdownFormatter) SupportedType() string {
	return "TailorResult"
}

// CareerPathTextFormatter handles text formatting for career path results
type CareerPathTextFormatter struct{}

func (cpf *CareerPathTextFormatter) Format(data any) (string, error) {
	result, err := asCareerPath(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== CAREER PATH ===\n\n")
	output.WriteString(fmt.Sprintf("Current Level: %s\n", result.CurrentLevel))
	output.WriteString(fmt.Sprintf("Trajectory: %s\n\n", result.CareerTrajectory))

	for i, step := range result.NextSteps {
		output.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, step.RoleTitle, step.Timeline))
		if step.Description != "" {
			output.WriteString(fmt.Sprintf("   %s\n", step.Description))
		}
		if len(step.RequiredSkills) > 0 {
			output.WriteString(fmt.Sprintf("   Required: %s\n", strings.Join(step.RequiredSkills, ", ")))
		}
		if step.SalaryRange != "" {
			output.WriteString(fmt.Sprintf("   Salary: %s\n", step.SalaryRange))
		}
		output.WriteString("\n")
	}

	if len(result.SkillGaps) > 0 {
		output.WriteString("Skill Gaps:\n")
		writeList(&output, result.SkillGaps)
	}
	if len(result.RecommendedCourses) > 0 {
		output.WriteString("Recommended Courses:\n")
		writeList(&output, result.RecommendedCourses)
	}

	return output.String(), nil
}

func (cpf *CareerPathTextFormatter) SupportedType() string {
	return "CareerPathResult"
}

// CareerPathMarkdownFormatter handles markdown formatting for career path results
type CareerPathMarkdownFormatter struct{}

func (cpm *CareerPathMarkdownFormatter) Format(data any) (string, error) {
	result, err := asCareerPath(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Career Path\n\n")
	output.WriteString(fmt.Sprintf("**Current Level:** %s\n\n", result.CurrentLevel))
	output.WriteString(fmt.Sprintf("**Trajectory:** %s\n\n", result.CareerTrajectory))

	if len(result.NextSteps) > 0 {
		output.WriteString("## Next Steps\n\n")
		for i, step := range result.NextSteps {
			output.WriteString(fmt.Sprintf("### %d. %s (%s)\n\n", i+1, step.RoleTitle, step.Timeline))
			if step.Description != "" {
				output.WriteString(step.Description)
				output.WriteString("\n\n")
			}
			if len(step.RequiredSkills) > 0 {
				output.WriteString(fmt.Sprintf("**Required skills:** %s\n\n", strings.Join(step.RequiredSkills, ", ")))
			}
			if step.SalaryRange != "" {
				output.WriteString(fmt.Sprintf("**Salary range:** %s\n\n", step.SalaryRange))
			}
		}
	}

	if len(result.SkillGaps) > 0 {
		output.WriteString("## Skill Gaps\n\n")
		writeList(&output, result.SkillGaps)
	}
	if len(result.RecommendedCourses) > 0 {
		output.WriteString("## Recommended Courses\n\n")
		writeList(&output, result.RecommendedCourses)
	}

	return output.String(), nil
}

func (cpm *CareerPathMarkdownFormatter) SupportedType() string {
	return "CareerPathResult"
}

// BenchmarkTextFormatter handles text formatting for benchmark results
type BenchmarkTextFormatter struct{}

func (btf *BenchmarkTextFormatter) Format(data any) (string, error) {
	result, err := asBenchmark(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== INDUSTRY BENCHMARK ===\n\n")
	output.WriteString(fmt.Sprintf("Industry: %s\n\n", result.Industry))

	for _, cmp := range result.Comparisons {
		output.WriteString(fmt.Sprintf("%s: %d (industry avg %d, p%d) [%s]\n",
			cmp.Metric, cmp.YourScore, cmp.IndustryAverage, cmp.Percentile, cmp.Status))
	}
	output.WriteString("\n")

	if len(result.Recommendations) > 0 {
		output.WriteString("Recommendations:\n")
		writeList(&output, result.Recommendations)
	}
	if len(result.IndustryInsights) > 0 {
		output.WriteString("Industry Insights:\n")
		writeList(&output, result.IndustryInsights)
	}

	return output.String(), nil
}

func (btf *BenchmarkTextFormatter) SupportedType() string {
	return "BenchmarkResult"
}

// BenchmarkMarkdownFormatter handles markdown formatting for benchmark results
type BenchmarkMarkdownFormatter struct{}

func (bmf *BenchmarkMarkdownFormatter) Format(data any) (string, error) {
	result, err := asBenchmark(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Industry Benchmark\n\n")
	output.WriteString(fmt.Sprintf("**Industry:** %s\n\n", result.Industry))

	if len(result.Comparisons) > 0 {
		output.WriteString("| Metric | You | Industry Avg | Percentile | Status |\n")
		output.WriteString("|--------|-----|--------------|------------|--------|\n")
		for _, cmp := range result.Comparisons {
			output.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %s |\n",
				cmp.Metric, cmp.YourScore, cmp.IndustryAverage, cmp.Percentile, cmp.Status))
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		writeList(&output, result.Recommendations)
	}
	if len(result.IndustryInsights) > 0 {
		output.WriteString("## Industry Insights\n\n")
		writeList(&output, result.IndustryInsights)
	}

	return output.String(), nil
}

func (bmf *BenchmarkMarkdownFormatter) SupportedType() string {
	return "BenchmarkResult"
}
