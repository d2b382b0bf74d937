package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/krshsl/admitwise/backend/models"
)

// Catalog scan and bucket limits
const (
	DefaultMaxScan = 500

	maxReach  = 10
	maxMatch  = 15
	maxSafety = 10
	maxTop    = 20

	topCountries = 3
)

// Options tunes the aggregator
type Options struct {
	// MaxScan caps how many catalog entries are evaluated; <= 0 means DefaultMaxScan
	MaxScan int
}

// Recommend scores the catalog against the profile and buckets the results by tier.
// Ties keep catalog order.
func Recommend(p *models.StudentProfile, catalog []models.University, opts Options) models.MatchingRecommendations {
	limit := opts.MaxScan
	if limit <= 0 {
		limit = DefaultMaxScan
	}
	if len(catalog) > limit {
		catalog = catalog[:limit]
	}

	matches := make([]models.UniversityMatch, 0, len(catalog))
	for _, u := range catalog {
		matches = append(matches, MatchUniversity(p, u))
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	recs := models.MatchingRecommendations{
		TopRecommendations: firstN(matches, maxTop),
		ReachSchools:       []models.UniversityMatch{},
		MatchSchools:       []models.UniversityMatch{},
		SafetySchools:      []models.UniversityMatch{},
		TotalEvaluated:     len(matches),
	}
	for _, m := range matches {
		switch m.MatchCategory {
		case models.CategoryReach:
			if len(recs.ReachSchools) < maxReach {
				recs.ReachSchools = append(recs.ReachSchools, m)
			}
		case models.CategoryMatch:
			if len(recs.MatchSchools) < maxMatch {
				recs.MatchSchools = append(recs.MatchSchools, m)
			}
		case models.CategorySafety:
			if len(recs.SafetySchools) < maxSafety {
				recs.SafetySchools = append(recs.SafetySchools, m)
			}
		}
	}

	recs.Insights = buildInsights(p, recs.TopRecommendations)
	return recs
}

func firstN(matches []models.UniversityMatch, n int) []models.UniversityMatch {
	if len(matches) < n {
		n = len(matches)
	}
	out := make([]models.UniversityMatch, n)
	copy(out, matches[:n])
	return out
}

func buildInsights(p *models.StudentProfile, top []models.UniversityMatch) models.ProfileInsights {
	if p == nil {
		p = &models.StudentProfile{}
	}
	insights := models.ProfileInsights{
		StrongestAreas:   []string{},
		ImprovementAreas: []string{},
		Recommendations:  []string{},
	}

	gpa := p.StudentGPA()
	technical := len(p.Skills.Technical)

	if gpa > 3.5 {
		insights.StrongestAreas = append(insights.StrongestAreas, "Strong Academic Performance")
	}
	if technical > 5 {
		insights.StrongestAreas = append(insights.StrongestAreas, "Diverse Technical Skills")
	}
	if len(p.Skills.Languages) > 1 {
		insights.StrongestAreas = append(insights.StrongestAreas, "Multilingual Abilities")
	}

	if gpa < 3.0 {
		insights.ImprovementAreas = append(insights.ImprovementAreas, "Academic Performance")
		insights.Recommendations = append(insights.Recommendations,
			"Consider strengthening your grades or highlighting upward trends in your transcript")
	}
	if technical < 3 {
		insights.ImprovementAreas = append(insights.ImprovementAreas, "Technical Skills")
		insights.Recommendations = append(insights.Recommendations,
			"Build technical skills through projects, online courses or certifications")
	}
	if len(p.Preferences.StudyFields) == 0 {
		insights.ImprovementAreas = append(insights.ImprovementAreas, "Study Focus")
		insights.Recommendations = append(insights.Recommendations,
			"Define your study interests to get more targeted university matches")
	}

	if countries := frequentCountries(top, topCountries); len(countries) > 0 {
		insights.Recommendations = append(insights.Recommendations,
			fmt.Sprintf("Most of your top matches are in %s", strings.Join(countries, ", ")))
	}

	switch avg := averageScore(top); {
	case avg > 80:
		insights.Recommendations = append(insights.Recommendations,
			"Your profile is competitive: apply to a mix of reach, match, and safety schools")
	case avg > 60:
		insights.Recommendations = append(insights.Recommendations,
			"Improve your profile to strengthen applications to reach schools")
	default:
		insights.Recommendations = append(insights.Recommendations,
			"Focus on building a stronger profile before applying to competitive programs")
	}
	return insights
}

// frequentCountries returns up to n countries by frequency; ties keep first appearance
func frequentCountries(top []models.UniversityMatch, n int) []string {
	counts := map[string]int{}
	var order []string
	for _, m := range top {
		if m.Country == "" {
			continue
		}
		if counts[m.Country] == 0 {
			order = append(order, m.Country)
		}
		counts[m.Country]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func averageScore(top []models.UniversityMatch) float64 {
	if len(top) == 0 {
		return 0
	}
	total := 0
	for _, m := range top {
		total += m.MatchScore
	}
	return float64(total) / float64(len(top))
}
