package types

// Request and response shapes for the external AI analysis service.
// One pair per endpoint; responses are decoded at the client boundary so
// downstream code never branches on loosely-typed nested maps.

// ReviewResult is the response from the review endpoint.
type ReviewResult struct {
	ATSScore        int             `json:"ats_score"`
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
	Suggestions     []string        `json:"suggestions"`
	MissingSkills   []string        `json:"missing_skills"`
	JobMatchScore   *int            `json:"job_match_score,omitempty"`
	KeywordMatches  []string        `json:"keyword_matches,omitempty"`
	MissingKeywords []string        `json:"missing_keywords,omitempty"`
	ScoreBreakdown  *ScoreBreakdown `json:"score_breakdown,omitempty"`
	DetailedScores  []ScoreCategory `json:"detailed_scores,omitempty"`
}

// ScoreBreakdown holds per-dimension scores (0-100) from the reviewer.
type ScoreBreakdown struct {
	KeywordOptimization       int `json:"keyword_optimization"`
	FormattingQuality         int `json:"formatting_quality"`
	ContentRelevance          int `json:"content_relevance"`
	QuantifiableAchievements  int `json:"quantifiable_achievements"`
	ActionVerbs               int `json:"action_verbs"`
	LengthAppropriateness     int `json:"length_appropriateness"`
	ContactInfoCompleteness   int `json:"contact_info_completeness"`
	EducationSection          int `json:"education_section"`
	ExperienceSection         int `json:"experience_section"`
	SkillsSection             int `json:"skills_section"`
	SummaryQuality            int `json:"summary_quality"`
	ATSCompatibility          int `json:"ats_compatibility"`
	GrammarSpelling           int `json:"grammar_spelling"`
	Consistency               int `json:"consistency"`
	ProfessionalTone          int `json:"professional_tone"`
}

// ScoreCriteriaItem is one scored criterion inside a ScoreCategory.
type ScoreCriteriaItem struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	MaxScore int    `json:"max_score"`
	Feedback string `json:"feedback"`
	Status   string `json:"status"` // "pass", "warning", "fail"
}

// ScoreCategory groups criteria under a named category.
type ScoreCategory struct {
	Category string              `json:"category"`
	Criteria []ScoreCriteriaItem `json:"criteria"`
}

// ImproveRequest asks the service to apply reviewer suggestions to a resume.
type ImproveRequest struct {
	ResumeText      string   `json:"resume_text" validate:"required"`
	TargetRole      string   `json:"target_role" validate:"required"`
	Suggestions     []string `json:"suggestions"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	MissingSkills   []string `json:"missing_skills,omitempty"`
	MissingKeywords []string `json:"missing_keywords,omitempty"`
	JobDescription  string   `json:"job_description,omitempty"`
}

// ImproveResult is the response from the improve endpoint.
type ImproveResult struct {
	ImprovedResumeText   string   `json:"improved_resume_text"`
	ImprovementsMade     []string `json:"improvements_made"`
	OriginalATSScore     *int     `json:"original_ats_score,omitempty"`
	EstimatedNewATSScore *int     `json:"estimated_new_ats_score,omitempty"`
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest carries the message history plus optional resume context.
type ChatRequest struct {
	Messages   []ChatMessage   `json:"messages" validate:"required,min=1"`
	ResumeData *ResumeDocument `json:"resume_data,omitempty"`
	Context    string          `json:"context,omitempty"`
}

// ChatResult is the assistant's reply.
type ChatResult struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// CoverLetterRequest asks for a personalized cover letter.
type CoverLetterRequest struct {
	ResumeText     string `json:"resume_text" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
	CompanyName    string `json:"company_name" validate:"required"`
	ApplicantName  string `json:"applicant_name" validate:"required"`
	Position       string `json:"position" validate:"required"`
}

// CoverLetterResult is the generated cover letter.
type CoverLetterResult struct {
	CoverLetter          string            `json:"cover_letter"`
	PersonalizedSections map[string]string `json:"personalized_sections"`
}

// ResignationLetterRequest asks for a resignation letter.
type ResignationLetterRequest struct {
	EmployeeName   string `json:"employee_name" validate:"required"`
	CompanyName    string `json:"company_name" validate:"required"`
	Position       string `json:"position" validate:"required"`
	LastWorkingDay string `json:"last_working_day" validate:"required"`
	Reason         string `json:"reason,omitempty"`
	Tone           string `json:"tone,omitempty"` // professional, friendly, formal
}

// ResignationLetterResult is the generated resignation letter.
type ResignationLetterResult struct {
	ResignationLetter    string            `json:"resignation_letter"`
	PersonalizedSections map[string]string `json:"personalized_sections"`
}

// RewriteBulletRequest asks for a single improved bullet point.
type RewriteBulletRequest struct {
	OriginalBullet string `json:"original_bullet" validate:"required"`
	TargetRole     string `json:"target_role" validate:"required"`
	Context        string `json:"context,omitempty"`
}

// RewriteBulletResult is the rewritten bullet plus rationale.
type RewriteBulletResult struct {
	ImprovedBullet   string   `json:"improved_bullet"`
	ImprovementsMade []string `json:"improvements_made"`
	KeywordsAdded    []string `json:"keywords_added"`
}

// CareerPathRequest asks for a predicted career progression.
type CareerPathRequest struct {
	ResumeText        string `json:"resume_text" validate:"required"`
	CurrentRole       string `json:"current_role" validate:"required"`
	YearsOfExperience *int   `json:"years_of_experience,omitempty"`
}

// CareerPathStep is one predicted step of the progression.
type CareerPathStep struct {
	RoleTitle      string   `json:"role_title"`
	Timeline       string   `json:"timeline"` // e.g. "6-12 months"
	RequiredSkills []string `json:"required_skills"`
	Description    string   `json:"description"`
	SalaryRange    string   `json:"salary_range,omitempty"`
}

// CareerPathResult is the response from the career-path endpoint.
type CareerPathResult struct {
	CurrentLevel       string           `json:"current_level"`
	NextSteps          []CareerPathStep `json:"next_steps"`
	SkillGaps          []string         `json:"skill_gaps"`
	RecommendedCourses []string         `json:"recommended_courses"`
	CareerTrajectory   string           `json:"career_trajectory"`
}

// HeatmapRequest asks for a per-section strength map.
type HeatmapRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	TargetRole string `json:"target_role" validate:"required"`
}

// SectionScore scores one resume section for the heatmap.
type SectionScore struct {
	SectionName     string   `json:"section_name"`
	Score           int      `json:"score"`
	StrengthLevel   string   `json:"strength_level"` // "strong", "moderate", "weak"
	Feedback        string   `json:"feedback"`
	KeywordsFound   []string `json:"keywords_found"`
	KeywordsMissing []string `json:"keywords_missing"`
}

// HeatmapResult is the response from the heatmap endpoint.
type HeatmapResult struct {
	OverallScore  int                `json:"overall_score"`
	SectionScores []SectionScore     `json:"section_scores"`
	HeatMapData   map[string]float64 `json:"heat_map_data"`
}

// BenchmarkRequest asks for an industry comparison.
type BenchmarkRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	TargetRole string `json:"target_role" validate:"required"`
	Industry   string `json:"industry" validate:"required"`
}

// BenchmarkComparison compares one metric to the industry average.
type BenchmarkComparison struct {
	Metric          string `json:"metric"`
	YourScore       int    `json:"your_score"`
	IndustryAverage int    `json:"industry_average"`
	Percentile      int    `json:"percentile"`
	Status          string `json:"status"` // "above_average", "average", "below_average"
}

// BenchmarkResult is the response from the benchmark endpoint.
type BenchmarkResult struct {
	Industry         string                `json:"industry"`
	Comparisons      []BenchmarkComparison `json:"comparisons"`
	Recommendations  []string              `json:"recommendations"`
	IndustryInsights []string              `json:"industry_insights"`
}

// TranslateRequest asks for a culturally adapted translation.
type TranslateRequest struct {
	ResumeText         string `json:"resume_text" validate:"required"`
	TargetLanguage     string `json:"target_language" validate:"required"`
	PreserveFormatting bool   `json:"preserve_formatting"`
}

// TranslateResult is the response from the translate endpoint.
type TranslateResult struct {
	TranslatedResume    string   `json:"translated_resume"`
	Language            string   `json:"language"`
	ConfidenceScore     *float64 `json:"confidence_score,omitempty"`
	CulturalAdaptations []string `json:"cultural_adaptations"`
}

// AnalyticsRequest asks for resume metrics.
type AnalyticsRequest struct {
	ResumeText      string `json:"resume_text" validate:"required"`
	TargetRole      string `json:"target_role" validate:"required"`
	ApplicationDate string `json:"application_date,omitempty"`
}

// AnalyticsResult is the response from the analytics endpoint.
type AnalyticsResult struct {
	ATSScore               int                `json:"ats_score"`
	KeywordDensity         map[string]float64 `json:"keyword_density"`
	ReadabilityScore       int                `json:"readability_score"`
	WordCount              int                `json:"word_count"`
	SectionsCompleteness   map[string]bool    `json:"sections_completeness"`
	ImprovementPotential   int                `json:"improvement_potential"`
	EstimatedInterviewRate *float64           `json:"estimated_interview_rate,omitempty"`
}

// TailorRequest asks for a job-description-tailored rewrite of a structured resume.
type TailorRequest struct {
	ResumeData     ResumeDocument `json:"resume_data" validate:"required"`
	JobDescription string         `json:"job_description" validate:"required"`
	JobTitle       string         `json:"job_title,omitempty"`
	CompanyName    string         `json:"company_name,omitempty"`
}

// TailorResult is the response from the analyze-job-and-tailor endpoint.
type TailorResult struct {
	MatchScore       float64        `json:"match_score"`
	MatchedKeywords  []string       `json:"matched_keywords"`
	MissingKeywords  []string       `json:"missing_keywords"`
	SkillGaps        []string       `json:"skill_gaps"`
	Recommendations  []string       `json:"recommendations"`
	TailoredResume   ResumeDocument `json:"tailored_resume"`
	ImprovementsMade []string       `json:"improvements_made"`
}

// InterviewQuestionsRequest asks for interview prep material.
type InterviewQuestionsRequest struct {
	ResumeText     string `json:"resume_text" validate:"required"`
	TargetRole     string `json:"target_role" validate:"required"`
	JobDescription string `json:"job_description,omitempty"`
}

// InterviewQuestionsResult pairs questions with suggested answers.
type InterviewQuestionsResult struct {
	Questions  []string `json:"questions"`
	Answers    []string `json:"answers"`
	Categories []string `json:"categories"` // Technical, Behavioral, etc.
}

// MatchJobRequest asks for a resume-to-job-description match.
type MatchJobRequest struct {
	ResumeText     string `json:"resume_text" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
}

// MatchJobResult is the response from the match-job endpoint.
type MatchJobResult struct {
	MatchScore      int      `json:"match_score"`
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	Recommendations []string `json:"recommendations"`
	SkillGaps       []string `json:"skill_gaps"`
}

// CareerTrendsRequest asks for a forward-looking market analysis.
type CareerTrendsRequest struct {
	ResumeText        string   `json:"resume_text" validate:"required"`
	CurrentRole       string   `json:"current_role" validate:"required"`
	Industry          string   `json:"industry,omitempty"`
	YearsOfExperience *int     `json:"years_of_experience,omitempty"`
	TargetRoles       []string `json:"target_roles,omitempty"`
	PredictionMonths  int      `json:"prediction_months,omitempty"`
}

// SkillTrend describes demand movement for one skill.
type SkillTrend struct {
	SkillName       string `json:"skill_name"`
	CurrentDemand   string `json:"current_demand"`
	PredictedDemand string `json:"predicted_demand"`
	DemandTimeline  string `json:"demand_timeline"`
	GrowthRate      string `json:"growth_rate,omitempty"`
	Reason          string `json:"reason"`
	IndustryImpact  string `json:"industry_impact"`
}

// RoleTrend describes market movement for one role.
type RoleTrend struct {
	RoleTitle           string   `json:"role_title"`
	CurrentMarketStatus string   `json:"current_market_status"`
	PredictedStatus     string   `json:"predicted_status"`
	GrowthIndicators    []string `json:"growth_indicators"`
	SalaryTrend         string   `json:"salary_trend,omitempty"`
	SkillRequirements   []string `json:"skill_requirements"`
	Timeline            string   `json:"timeline"`
}

// CareerTrendsResult is the response from the analyze-career-trends endpoint.
type CareerTrendsResult struct {
	Industry         string       `json:"industry"`
	AnalysisDate     string       `json:"analysis_date"`
	PredictionPeriod string       `json:"prediction_period"`
	SkillTrends      []SkillTrend `json:"skill_trends"`
	RoleTrends       []RoleTrend  `json:"role_trends"`
	FutureProofScore int          `json:"future_proof_score"`
	MarketInsights   []string     `json:"market_insights"`
	EmergingSkills   []string     `json:"emerging_skills"`
	DecliningSkills  []string     `json:"declining_skills"`
	ActionPlan       []string     `json:"action_plan"`
}

// SalaryNegotiationRequest asks for a simulated negotiation session.
type SalaryNegotiationRequest struct {
	ResumeText          string `json:"resume_text" validate:"required"`
	TargetRole          string `json:"target_role" validate:"required"`
	CurrentSalary       string `json:"current_salary,omitempty"`
	YearsOfExperience   *int   `json:"years_of_experience,omitempty"`
	Location            string `json:"location,omitempty"`
	CompanyName         string `json:"company_name,omitempty"`
	JobDescription      string `json:"job_description,omitempty"`
	InitialOffer        string `json:"initial_offer,omitempty"`
	NegotiationScenario string `json:"negotiation_scenario,omitempty"`
}

// NegotiationMessage is one turn of the simulated conversation.
type NegotiationMessage struct {
	Role      string `json:"role"`
	Message   string `json:"message"`
	Strategy  string `json:"strategy,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NegotiationScript is one practice scenario with suggested responses.
type NegotiationScript struct {
	ScenarioName            string   `json:"scenario_name"`
	Difficulty              string   `json:"difficulty"`
	Description             string   `json:"description"`
	KeyPoints               []string `json:"key_points"`
	SuggestedResponses      []string `json:"suggested_responses"`
	CounterOfferSuggestions []string `json:"counter_offer_suggestions"`
}

// SalaryNegotiationResult is the response from the salary-negotiation endpoint.
type SalaryNegotiationResult struct {
	NegotiationConversation []NegotiationMessage `json:"negotiation_conversation"`
	RecommendedScripts      []NegotiationScript  `json:"recommended_scripts"`
	NegotiationTips         []string             `json:"negotiation_tips"`
	CommonMistakesToAvoid   []string             `json:"common_mistakes_to_avoid"`
	PowerPhrases            []string             `json:"power_phrases"`
	ScenariosPracticed      []string             `json:"scenarios_practiced"`
}
