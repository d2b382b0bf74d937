package models

// Match tiers
const (
	CategoryReach  = "reach"
	CategoryMatch  = "match"
	CategorySafety = "safety"
)

// MatchingCriteria holds the five per-dimension sub-scores, each in [0, 100]
type MatchingCriteria struct {
	AcademicFit     float64 `json:"academic_fit"`
	ProgramFit      float64 `json:"program_fit"`
	LocationFit     float64 `json:"location_fit"`
	FinancialFit    float64 `json:"financial_fit"`
	RequirementsFit float64 `json:"requirements_fit"`
}

// UniversityMatch is a University scored against one student.
// It is recomputed on every request and never persisted.
type UniversityMatch struct {
	University
	MatchScore       int              `json:"match_score"`
	MatchCategory    string           `json:"match_category"`
	MatchingCriteria MatchingCriteria `json:"matching_criteria"`
	MatchReasons     []string         `json:"match_reasons"`
	Concerns         []string         `json:"concerns"`
}

// MatchingRecommendations is the bundle returned to the presentation layer
type MatchingRecommendations struct {
	TopRecommendations []UniversityMatch `json:"top_recommendations"`
	ReachSchools       []UniversityMatch `json:"reach_schools"`
	MatchSchools       []UniversityMatch `json:"match_schools"`
	SafetySchools      []UniversityMatch `json:"safety_schools"`
	Insights           ProfileInsights   `json:"insights"`
	TotalEvaluated     int               `json:"total_evaluated"`
}

type ProfileInsights struct {
	StrongestAreas   []string `json:"strongest_areas"`
	ImprovementAreas []string `json:"improvement_areas"`
	Recommendations  []string `json:"recommendations"`
}
