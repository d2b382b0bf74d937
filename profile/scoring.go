package profile

import (
	"math"

	"github.com/krshsl/admitwise/backend/models"
)

// Confidence weights for a parsed document; they sum to 100
const (
	institutionsWeight = 20
	positionsWeight    = 15
	technicalWeight    = 15
	emailWeight        = 10
	gpaWeight          = 15
	studyFieldsWeight  = 15
	rawTextWeight      = 10

	// extracted text longer than this counts as a full read
	rawTextThreshold = 500
)

const confidenceTotal = institutionsWeight + positionsWeight + technicalWeight + emailWeight +
	gpaWeight + studyFieldsWeight + rawTextWeight

// ConfidenceScore rates how much of a document was extracted, 0-100.
// Computed once at parse time; every weight always counts toward the denominator.
func ConfidenceScore(data models.ParsedData) int {
	score := 0
	if data.Education != nil && len(data.Education.Institutions) > 0 {
		score += institutionsWeight
	}
	if data.Experience != nil && len(data.Experience.Positions) > 0 {
		score += positionsWeight
	}
	if data.Skills != nil && len(data.Skills.Technical) > 0 {
		score += technicalWeight
	}
	if data.Contact != nil && data.Contact.Email != "" {
		score += emailWeight
	}
	if data.AcademicPerformance != nil && data.AcademicPerformance.GPA != nil {
		score += gpaWeight
	}
	if data.Preferences != nil && len(data.Preferences.StudyFields) > 0 {
		score += studyFieldsWeight
	}
	if len(data.RawText) > rawTextThreshold {
		score += rawTextWeight
	}
	return int(math.Round(float64(score) / float64(confidenceTotal) * 100))
}

type section struct {
	name   string
	filled func(p *models.StudentProfile) bool
}

// profileSections are the eight sections that count toward completion
var profileSections = []section{
	{"institutions", func(p *models.StudentProfile) bool { return len(p.AcademicBackground.Institutions) > 0 }},
	{"gpa", func(p *models.StudentProfile) bool { return p.AcademicBackground.GPA != nil }},
	{"technical_skills", func(p *models.StudentProfile) bool { return len(p.Skills.Technical) > 0 }},
	{"languages", func(p *models.StudentProfile) bool { return len(p.Skills.Languages) > 0 }},
	{"study_fields", func(p *models.StudentProfile) bool { return len(p.Preferences.StudyFields) > 0 }},
	{"career_goals", func(p *models.StudentProfile) bool { return len(p.Preferences.CareerGoals) > 0 }},
	{"experience", func(p *models.StudentProfile) bool { return len(p.Experience) > 0 }},
	{"email", func(p *models.StudentProfile) bool { return p.ContactInfo.Email != "" }},
}

// Completion is the share of the eight profile sections that are filled in, 0-100
func Completion(p *models.StudentProfile) int {
	if p == nil {
		return 0
	}
	filled := len(profileSections) - len(MissingSections(p))
	return int(math.Round(float64(filled) / float64(len(profileSections)) * 100))
}

// MissingSections names the sections still empty on p, in a fixed order
func MissingSections(p *models.StudentProfile) []string {
	missing := []string{}
	for _, s := range profileSections {
		if p == nil || !s.filled(p) {
			missing = append(missing, s.name)
		}
	}
	return missing
}
