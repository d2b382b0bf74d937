package matching

import (
	"strconv"
	"strings"

	"github.com/krshsl/admitwise/backend/models"
)

// defaultAcceptanceRate is used when a catalog entry carries no parseable rate
const defaultAcceptanceRate = 50.0

type dimensionText struct {
	reason  string
	concern string
}

// Per-dimension reason and concern strings, in evaluation order
var (
	academicText = dimensionText{
		reason:  "Strong academic profile matches university requirements",
		concern: "Academic credentials may be below typical admits",
	}
	programText = dimensionText{
		reason:  "Offers programs aligned with your study interests",
		concern: "Limited programs in your fields of interest",
	}
	locationText = dimensionText{
		reason:  "Located in one of your preferred study destinations",
		concern: "Outside your preferred study locations",
	}
	financialText = dimensionText{
		reason:  "Fits your financial requirements",
		concern: "May be challenging to fund without additional support",
	}
	requirementsText = dimensionText{
		reason:  "You meet the key admission requirements",
		concern: "Some admission requirements may not be met",
	}
)

// Score computes the five sub-scores for one university
func Score(p *models.StudentProfile, u models.University) models.MatchingCriteria {
	return models.MatchingCriteria{
		AcademicFit:     academicFit(p, u),
		ProgramFit:      programFit(p, u),
		LocationFit:     locationFit(p, u),
		FinancialFit:    financialFit(p, u),
		RequirementsFit: requirementsFit(p, u),
	}
}

// MatchUniversity scores a single university against a student profile
func MatchUniversity(p *models.StudentProfile, u models.University) models.UniversityMatch {
	if p == nil {
		p = &models.StudentProfile{}
	}

	criteria := Score(p, u)
	score := CompositeScore(criteria)
	reasons, concerns := explain(criteria)

	return models.UniversityMatch{
		University:       u,
		MatchScore:       score,
		MatchCategory:    Tier(AcceptanceRate(u.AcceptanceRate), p.StudentGPA(), u.GPARequirement, score),
		MatchingCriteria: criteria,
		MatchReasons:     reasons,
		Concerns:         concerns,
	}
}

// Tier assigns reach, safety or match; reach is checked first
func Tier(acceptanceRate, studentGPA, requiredGPA float64, score int) string {
	if acceptanceRate < 30 || studentGPA < requiredGPA-0.2 || score < 60 {
		return models.CategoryReach
	}
	if acceptanceRate > 70 && studentGPA > requiredGPA+0.3 && score > 80 {
		return models.CategorySafety
	}
	return models.CategoryMatch
}

// AcceptanceRate parses a percentage string such as "15%" or "15.5 %"
func AcceptanceRate(rate string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rate), "%")), 64)
	if err != nil {
		return defaultAcceptanceRate
	}
	return v
}

func explain(c models.MatchingCriteria) (reasons, concerns []string) {
	reasons = []string{}
	concerns = []string{}

	dims := []struct {
		score float64
		text  dimensionText
	}{
		{c.AcademicFit, academicText},
		{c.ProgramFit, programText},
		{c.LocationFit, locationText},
		{c.FinancialFit, financialText},
		{c.RequirementsFit, requirementsText},
	}
	for _, d := range dims {
		if d.score > 70 {
			reasons = append(reasons, d.text.reason)
		} else if d.score < 50 {
			concerns = append(concerns, d.text.concern)
		}
	}
	return reasons, concerns
}
