package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krshsl/admitwise/backend/models"
)

func floatPtr(v float64) *float64 { return &v }

func cvData() models.ParsedData {
	return models.ParsedData{
		Education: &models.EducationData{Institutions: []models.Institution{
			{Name: "State University", Degree: "Bachelor of Science", Field: "Computer Science"},
		}},
		Experience: &models.ExperienceData{Positions: []models.Experience{
			{Title: "Intern", Company: "Acme", Duration: "3 months"},
		}},
		Skills: &models.Skills{
			Technical: []string{"Go", "SQL"},
			Languages: []models.LanguageSkill{{Language: "English", Proficiency: "Fluent"}},
			Soft:      []string{"Leadership"},
		},
		Contact: &models.ContactInfo{Email: "student@example.com"},
	}
}

func TestMerge_NewProfile(t *testing.T) {
	merged := Merge(nil, "student-1", cvData())

	require.NotNil(t, merged)
	assert.Equal(t, "student-1", merged.StudentID)
	assert.Equal(t, models.EducationBachelors, merged.AcademicBackground.HighestEducation)
	assert.Len(t, merged.AcademicBackground.Institutions, 1)
	assert.Equal(t, []string{"Go", "SQL"}, merged.Skills.Technical)
	assert.Equal(t, "student@example.com", merged.ContactInfo.Email)
	assert.Empty(t, merged.Preferences.PreferredCountries)
	// institutions, technical, languages, experience, email = 5 of 8
	assert.Equal(t, 63, merged.ProfileCompletion)
}

func TestMerge_EmptyData(t *testing.T) {
	merged := Merge(nil, "student-1", models.ParsedData{})

	assert.Equal(t, models.EducationUnknown, merged.AcademicBackground.HighestEducation)
	assert.Equal(t, 0, merged.ProfileCompletion)
	assert.NotNil(t, merged.Skills.Technical)
	assert.NotNil(t, merged.Experience)
}

func TestMerge_DoesNotMutateExisting(t *testing.T) {
	existing := Merge(nil, "student-1", cvData())
	before := len(existing.Experience)

	_ = Merge(existing, "student-1", cvData())

	assert.Len(t, existing.Experience, before)
	assert.Len(t, existing.Skills.Languages, 1)
}

func TestMerge_HighestEducationPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		degrees  []string
		expected string
	}{
		{name: "bachelor only", degrees: []string{"Bachelor of Arts"}, expected: models.EducationBachelors},
		{name: "master beats bachelor", degrees: []string{"Master of Science", "Bachelor of Arts"}, expected: models.EducationMasters},
		{name: "doctorate beats master", degrees: []string{"Master of Science", "Doctorate in Physics"}, expected: models.EducationPhD},
		{name: "phd abbreviation", degrees: []string{"PhD"}, expected: models.EducationPhD},
		{name: "unrecognised degree", degrees: []string{"Diploma"}, expected: models.EducationUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var merged *models.StudentProfile
			for _, d := range tt.degrees {
				merged = Merge(merged, "s", models.ParsedData{
					Education: &models.EducationData{Institutions: []models.Institution{{Name: "U", Degree: d}}},
				})
			}
			assert.Equal(t, tt.expected, merged.AcademicBackground.HighestEducation)
		})
	}
}

func TestMerge_HighestEducationUsesUnionOfDegrees(t *testing.T) {
	merged := Merge(nil, "s", models.ParsedData{
		Education: &models.EducationData{Institutions: []models.Institution{{Name: "U", Degree: "Master of Arts"}}},
	})
	// a later bachelor does not downgrade the level
	merged = Merge(merged, "s", models.ParsedData{
		Education: &models.EducationData{Institutions: []models.Institution{{Name: "U2", Degree: "Bachelor of Arts"}}},
	})
	assert.Equal(t, models.EducationMasters, merged.AcademicBackground.HighestEducation)
}

func TestMerge_GPALastWriteWins(t *testing.T) {
	merged := Merge(nil, "s", models.ParsedData{
		AcademicPerformance: &models.AcademicPerformanceData{GPA: floatPtr(3.9)},
	})
	merged = Merge(merged, "s", models.ParsedData{
		AcademicPerformance: &models.AcademicPerformanceData{GPA: floatPtr(3.1)},
	})
	require.NotNil(t, merged.AcademicBackground.GPA)
	assert.Equal(t, 3.1, *merged.AcademicBackground.GPA)

	// a document without a GPA leaves it alone
	merged = Merge(merged, "s", models.ParsedData{
		AcademicPerformance: &models.AcademicPerformanceData{TestScores: []models.TestScore{{Name: "IELTS", Score: 7}}},
	})
	assert.Equal(t, 3.1, *merged.AcademicBackground.GPA)
	assert.Len(t, merged.AcademicBackground.TestScores, 1)
}

func TestMerge_SetsNeverContainDuplicates(t *testing.T) {
	var merged *models.StudentProfile
	for i := 0; i < 3; i++ {
		merged = Merge(merged, "s", models.ParsedData{
			Skills: &models.Skills{
				Technical: []string{"Go", "Python", "Go"},
				Soft:      []string{"Teamwork"},
			},
			Preferences: &models.PreferencesData{
				StudyFields: []string{"Computer Science", "computer science"},
				CareerGoals: []string{"Become a researcher"},
			},
		})
	}

	assert.Equal(t, []string{"Go", "Python"}, merged.Skills.Technical)
	assert.Equal(t, []string{"Teamwork"}, merged.Skills.Soft)
	// case-sensitive equality keeps both spellings
	assert.Equal(t, []string{"Computer Science", "computer science"}, merged.Preferences.StudyFields)
	assert.Equal(t, []string{"Become a researcher"}, merged.Preferences.CareerGoals)
}

func TestMerge_RepeatedDocumentDuplicatesLists(t *testing.T) {
	doc := cvData()

	first := Merge(nil, "s", doc)
	second := Merge(first, "s", doc)
	third := Merge(second, "s", doc)

	expDelta := len(doc.Experience.Positions)
	langDelta := len(doc.Skills.Languages)

	assert.Equal(t, len(first.Experience)+expDelta, len(second.Experience))
	assert.Equal(t, len(second.Experience)+expDelta, len(third.Experience))
	assert.Equal(t, len(first.Skills.Languages)+langDelta, len(second.Skills.Languages))
	assert.Equal(t, len(second.Skills.Languages)+langDelta, len(third.Skills.Languages))
	assert.Len(t, third.AcademicBackground.Institutions, 3)
}

func TestMerge_ContactShallowMerge(t *testing.T) {
	merged := Merge(nil, "s", models.ParsedData{
		Contact: &models.ContactInfo{Email: "old@example.com", Phone: "+1 555 0100"},
	})
	merged = Merge(merged, "s", models.ParsedData{
		Contact: &models.ContactInfo{Email: "new@example.com", LinkedIn: "linkedin.com/in/student"},
	})

	assert.Equal(t, "new@example.com", merged.ContactInfo.Email)
	assert.Equal(t, "+1 555 0100", merged.ContactInfo.Phone)
	assert.Equal(t, "linkedin.com/in/student", merged.ContactInfo.LinkedIn)
}

func TestMerge_PreferredCountriesUntouched(t *testing.T) {
	existing := NewStudentProfile("s")
	existing.Preferences.PreferredCountries = []string{"Germany"}

	merged := Merge(existing, "s", models.ParsedData{
		Preferences: &models.PreferencesData{StudyFields: []string{"Physics"}},
	})
	assert.Equal(t, []string{"Germany"}, merged.Preferences.PreferredCountries)
}

func TestMerge_CompletionAlwaysRederivable(t *testing.T) {
	docs := []models.ParsedData{
		cvData(),
		{AcademicPerformance: &models.AcademicPerformanceData{GPA: floatPtr(3.4)}},
		{Preferences: &models.PreferencesData{StudyFields: []string{"Law"}, CareerGoals: []string{"Judge"}}},
		{},
	}

	var merged *models.StudentProfile
	for _, d := range docs {
		merged = Merge(merged, "s", d)
		assert.Equal(t, Completion(merged), merged.ProfileCompletion)
		assert.GreaterOrEqual(t, merged.ProfileCompletion, 0)
		assert.LessOrEqual(t, merged.ProfileCompletion, 100)
	}
	assert.Equal(t, 100, merged.ProfileCompletion)
}
