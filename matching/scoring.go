// Package matching scores universities against a student profile and
// aggregates the results into tiered recommendations.
package matching

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/krshsl/admitwise/backend/models"
)

// Composite weights; they sum to 1.0
const (
	academicWeight     = 0.25
	programWeight      = 0.30
	locationWeight     = 0.15
	financialWeight    = 0.15
	requirementsWeight = 0.15
)

// relatedFields expands a declared study field into neighbouring disciplines
var relatedFields = map[string][]string{
	"computer science":        {"software engineering", "data science", "artificial intelligence", "cybersecurity", "information technology"},
	"data science":            {"statistics", "computer science", "machine learning", "analytics"},
	"artificial intelligence": {"machine learning", "computer science", "robotics", "data science"},
	"engineering":             {"mechanical engineering", "electrical engineering", "civil engineering", "chemical engineering"},
	"business":                {"management", "finance", "marketing", "economics", "accounting"},
	"economics":               {"finance", "business", "public policy"},
	"medicine":                {"health sciences", "nursing", "pharmacy", "biomedical"},
	"biology":                 {"biotechnology", "biochemistry", "life sciences", "biomedical"},
	"psychology":              {"cognitive science", "neuroscience", "social work"},
	"physics":                 {"astronomy", "applied physics", "engineering"},
	"mathematics":             {"statistics", "applied mathematics", "actuarial science"},
	"law":                     {"legal studies", "international relations", "criminology"},
}

// regions groups countries for partial location credit
var regions = map[string][]string{
	"english-speaking": {"united states", "usa", "united kingdom", "uk", "canada", "australia", "new zealand", "ireland"},
	"eu":               {"germany", "france", "netherlands", "spain", "italy", "ireland", "belgium", "austria", "portugal", "sweden", "denmark", "finland"},
	"nordic":           {"sweden", "norway", "denmark", "finland", "iceland"},
	"asia-pacific":     {"singapore", "japan", "south korea", "hong kong", "china", "australia", "new zealand", "malaysia"},
}

// lowTuitionCountries charge little or no tuition at public universities
var lowTuitionCountries = []string{"germany", "norway", "finland", "iceland", "austria", "france", "czech republic"}

var lowTuitionMarkers = []string{"free", "no tuition", "$0", "€0", "£0"}

var languageRequirementPattern = regexp.MustCompile(`(?i)\b(IELTS|TOEFL)\b[^0-9\n]{0,15}(\d{1,3}(?:\.\d)?)`)

// LanguageRequirement is one (test, minimum score) pair parsed from a university requirement
type LanguageRequirement struct {
	Test     string
	MinScore float64
}

// ParseLanguageRequirements extracts structured test thresholds from a free-form requirement.
// A test named without a number yields a zero minimum.
func ParseLanguageRequirements(requirement string) []LanguageRequirement {
	var reqs []LanguageRequirement
	seen := map[string]bool{}
	for _, m := range languageRequirementPattern.FindAllStringSubmatch(requirement, -1) {
		test := strings.ToUpper(m[1])
		score, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		seen[test] = true
		reqs = append(reqs, LanguageRequirement{Test: test, MinScore: score})
	}

	upper := strings.ToUpper(requirement)
	for _, test := range []string{"IELTS", "TOEFL"} {
		if !seen[test] && strings.Contains(upper, test) {
			reqs = append(reqs, LanguageRequirement{Test: test})
		}
	}
	return reqs
}

func clamp(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}

// CompositeScore is the weighted sum of the five sub-scores, rounded
func CompositeScore(c models.MatchingCriteria) int {
	return int(math.Round(academicWeight*c.AcademicFit +
		programWeight*c.ProgramFit +
		locationWeight*c.LocationFit +
		financialWeight*c.FinancialFit +
		requirementsWeight*c.RequirementsFit))
}

func academicFit(p *models.StudentProfile, u models.University) float64 {
	score := 50.0
	gpa := p.StudentGPA()
	req := u.GPARequirement

	switch {
	case gpa >= req+0.5:
		score += 30
	case gpa >= req:
		score += 20
	case gpa >= req-0.3:
		score += 10
	default:
		score -= 20
	}

	if isNaturalProgression(p.AcademicBackground.HighestEducation, u.StudyLevels) {
		score += 15
	}
	if len(p.AcademicBackground.TestScores) > 0 {
		score += 10
	}
	return clamp(score)
}

func isNaturalProgression(highest string, levels []string) bool {
	var next []string
	switch highest {
	case models.EducationBachelors:
		next = []string{"master", "postgraduate"}
	case models.EducationMasters:
		next = []string{"doctor", "phd"}
	default:
		return false
	}
	for _, level := range levels {
		if containsAny(strings.ToLower(level), next) {
			return true
		}
	}
	return false
}

func programFit(p *models.StudentProfile, u models.University) float64 {
	score := 30.0
	fields := p.Preferences.StudyFields

	if len(fields) > 0 {
		courses := make([]string, len(u.Courses))
		for i, c := range u.Courses {
			courses[i] = strings.ToLower(c)
		}

		direct, related := 0, 0
		for _, field := range fields {
			f := strings.ToLower(strings.TrimSpace(field))
			if f == "" {
				continue
			}
			if matchesAnyCourse(f, courses) {
				direct++
				continue
			}
			for _, rel := range relatedFields[f] {
				if matchesAnyCourse(rel, courses) {
					related++
					break
				}
			}
		}
		total := float64(len(fields))
		score += 40 * float64(direct) / total
		score += 20 * float64(related) / total
	}

	if len(u.Courses) > 10 {
		score += 10
	}
	return clamp(score)
}

func matchesAnyCourse(field string, courses []string) bool {
	for _, c := range courses {
		if strings.Contains(c, field) || (c != "" && strings.Contains(field, c)) {
			return true
		}
	}
	return false
}

func locationFit(p *models.StudentProfile, u models.University) float64 {
	preferred := p.Preferences.PreferredCountries
	if len(preferred) == 0 {
		return 70
	}

	score := 50.0
	country := strings.ToLower(strings.TrimSpace(u.Country))
	for _, c := range preferred {
		if strings.EqualFold(strings.TrimSpace(c), country) {
			return clamp(score + 40)
		}
	}

	for _, members := range regions {
		if !contains(members, country) {
			continue
		}
		for _, c := range preferred {
			if contains(members, strings.ToLower(strings.TrimSpace(c))) {
				return clamp(score + 20)
			}
		}
	}
	return clamp(score - 20)
}

func financialFit(p *models.StudentProfile, u models.University) float64 {
	score := 50.0
	if p.Preferences.ScholarshipRequired {
		if u.ScholarshipAvailable {
			score += 30
		} else {
			score -= 30
		}
	}

	country := strings.ToLower(strings.TrimSpace(u.Country))
	if contains(lowTuitionCountries, country) || containsAny(strings.ToLower(u.TuitionFeeRange), lowTuitionMarkers) {
		score += 20
	}
	return clamp(score)
}

func requirementsFit(p *models.StudentProfile, u models.University) float64 {
	score := 60.0

	if reqs := ParseLanguageRequirements(u.LanguageRequirement); len(reqs) > 0 && meetsLanguageRequirement(p, reqs) {
		score += 20
	}

	if p.StudentGPA() >= u.GPARequirement {
		score += 20
	} else {
		score -= 20
	}
	return clamp(score)
}

// meetsLanguageRequirement compares the student's scores against any requirement they hold a
// comparable score for. With no comparable score on file the requirement is assumed met.
func meetsLanguageRequirement(p *models.StudentProfile, reqs []LanguageRequirement) bool {
	compared := false
	for _, req := range reqs {
		for _, ts := range p.AcademicBackground.TestScores {
			if !strings.EqualFold(strings.TrimSpace(ts.Name), req.Test) {
				continue
			}
			compared = true
			if ts.Score >= req.MinScore {
				return true
			}
		}
	}
	return !compared
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
