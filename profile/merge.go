// Package profile merges structured document extractions into student profiles.
package profile

import (
	"strings"

	"github.com/krshsl/admitwise/backend/models"
)

// NewStudentProfile returns an empty profile for a student with no documents merged yet
func NewStudentProfile(studentID string) *models.StudentProfile {
	return &models.StudentProfile{
		StudentID: studentID,
		AcademicBackground: models.AcademicBackground{
			HighestEducation: models.EducationUnknown,
			Institutions:     []models.Institution{},
			TestScores:       []models.TestScore{},
		},
		Skills: models.Skills{
			Technical: []string{},
			Languages: []models.LanguageSkill{},
			Soft:      []string{},
		},
		Preferences: models.Preferences{
			StudyFields:        []string{},
			PreferredCountries: []string{},
			CareerGoals:        []string{},
		},
		Experience:        []models.Experience{},
		ProfileCompletion: 0,
	}
}

// Merge folds one document's extraction into the existing profile and returns the result.
// existing is never modified; nil starts from an empty profile.
//
// List sections (institutions, test scores, languages, experience) are appended as-is,
// so merging the same document twice duplicates those entries.
func Merge(existing *models.StudentProfile, studentID string, data models.ParsedData) *models.StudentProfile {
	var merged *models.StudentProfile
	if existing == nil {
		merged = NewStudentProfile(studentID)
	} else {
		merged = clone(existing)
	}

	academic := &merged.AcademicBackground
	if data.Education != nil && len(data.Education.Institutions) > 0 {
		academic.Institutions = append(academic.Institutions, data.Education.Institutions...)
		academic.HighestEducation = highestEducation(academic.Institutions, academic.HighestEducation)
	}

	if perf := data.AcademicPerformance; perf != nil {
		if perf.GPA != nil {
			gpa := *perf.GPA
			academic.GPA = &gpa
		}
		academic.TestScores = append(academic.TestScores, perf.TestScores...)
	}

	if data.Skills != nil {
		merged.Skills.Technical = union(merged.Skills.Technical, data.Skills.Technical)
		merged.Skills.Soft = union(merged.Skills.Soft, data.Skills.Soft)
		merged.Skills.Languages = append(merged.Skills.Languages, data.Skills.Languages...)
	}

	if data.Preferences != nil {
		merged.Preferences.StudyFields = union(merged.Preferences.StudyFields, data.Preferences.StudyFields)
		merged.Preferences.CareerGoals = union(merged.Preferences.CareerGoals, data.Preferences.CareerGoals)
	}

	if data.Experience != nil {
		merged.Experience = append(merged.Experience, data.Experience.Positions...)
	}

	if data.Contact != nil {
		merged.ContactInfo = mergeContact(merged.ContactInfo, *data.Contact)
	}

	merged.ProfileCompletion = Completion(merged)
	return merged
}

// highestEducation derives the level from every degree seen so far.
// PhD/Doctorate beats Master beats Bachelor; current is kept when nothing matches.
func highestEducation(institutions []models.Institution, current string) string {
	rank := 0
	for _, inst := range institutions {
		degree := strings.ToLower(inst.Degree)
		switch {
		case strings.Contains(degree, "phd"), strings.Contains(degree, "ph.d"), strings.Contains(degree, "doctor"):
			rank = max(rank, 3)
		case strings.Contains(degree, "master"):
			rank = max(rank, 2)
		case strings.Contains(degree, "bachelor"):
			rank = max(rank, 1)
		}
	}

	switch rank {
	case 3:
		return models.EducationPhD
	case 2:
		return models.EducationMasters
	case 1:
		return models.EducationBachelors
	}
	if current == "" {
		return models.EducationUnknown
	}
	return current
}

func mergeContact(current, incoming models.ContactInfo) models.ContactInfo {
	if incoming.Email != "" {
		current.Email = incoming.Email
	}
	if incoming.Phone != "" {
		current.Phone = incoming.Phone
	}
	if incoming.Address != "" {
		current.Address = incoming.Address
	}
	if incoming.LinkedIn != "" {
		current.LinkedIn = incoming.LinkedIn
	}
	return current
}

// union appends the entries of add that are not already present, keeping first-seen order.
// Comparison is case-sensitive.
func union(base, add []string) []string {
	seen := make(map[string]bool, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// clone deep-copies the slices a merge may append to
func clone(p *models.StudentProfile) *models.StudentProfile {
	c := *p
	c.AcademicBackground.Institutions = append([]models.Institution{}, p.AcademicBackground.Institutions...)
	c.AcademicBackground.TestScores = append([]models.TestScore{}, p.AcademicBackground.TestScores...)
	if p.AcademicBackground.GPA != nil {
		gpa := *p.AcademicBackground.GPA
		c.AcademicBackground.GPA = &gpa
	}
	c.Skills.Technical = append([]string{}, p.Skills.Technical...)
	c.Skills.Languages = append([]models.LanguageSkill{}, p.Skills.Languages...)
	c.Skills.Soft = append([]string{}, p.Skills.Soft...)
	c.Preferences.StudyFields = append([]string{}, p.Preferences.StudyFields...)
	c.Preferences.PreferredCountries = append([]string{}, p.Preferences.PreferredCountries...)
	c.Preferences.CareerGoals = append([]string{}, p.Preferences.CareerGoals...)
	if p.Preferences.BudgetRange != nil {
		budget := *p.Preferences.BudgetRange
		c.Preferences.BudgetRange = &budget
	}
	c.Experience = append([]models.Experience{}, p.Experience...)
	return &c
}
