package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krshsl/admitwise/backend/models"
)

func catalogOf(n int, build func(i int) models.University) []models.University {
	out := make([]models.University, n)
	for i := range out {
		out[i] = build(i)
		out[i].ID = fmt.Sprintf("u-%03d", i)
	}
	return out
}

func TestRecommend_CapsCatalogScan(t *testing.T) {
	catalog := catalogOf(600, func(int) models.University { return canadianUniversity() })

	recs := Recommend(studentWithGPA(3.6), catalog, Options{})
	assert.Equal(t, DefaultMaxScan, recs.TotalEvaluated)

	recs = Recommend(studentWithGPA(3.6), catalog, Options{MaxScan: 25})
	assert.Equal(t, 25, recs.TotalEvaluated)
}

func TestRecommend_BucketCaps(t *testing.T) {
	// thirds of the catalog land in reach, match and safety
	catalog := catalogOf(90, func(i int) models.University {
		u := canadianUniversity()
		switch i % 3 {
		case 0:
			u.AcceptanceRate = "10%"
		case 1:
			u.AcceptanceRate = "50%"
		default:
			u.AcceptanceRate = "85%"
		}
		return u
	})

	p := studentWithGPA(3.6)
	p.AcademicBackground.HighestEducation = models.EducationBachelors
	p.AcademicBackground.TestScores = []models.TestScore{{Name: "IELTS", Score: 7.0}}
	p.Preferences.StudyFields = []string{"Computer Science"}
	p.Preferences.PreferredCountries = []string{"Canada"}

	recs := Recommend(p, catalog, Options{})

	assert.Len(t, recs.TopRecommendations, 20)
	assert.Len(t, recs.ReachSchools, 10)
	assert.Len(t, recs.MatchSchools, 15)
	assert.Len(t, recs.SafetySchools, 10)
	for _, m := range recs.ReachSchools {
		assert.Equal(t, models.CategoryReach, m.MatchCategory)
	}
	for _, m := range recs.SafetySchools {
		assert.Equal(t, models.CategorySafety, m.MatchCategory)
	}
}

func TestRecommend_StableSortKeepsCatalogOrderOnTies(t *testing.T) {
	catalog := catalogOf(30, func(i int) models.University {
		u := canadianUniversity()
		if i == 17 {
			// strictly better fit than the rest
			u.Country = "Germany"
			u.TuitionFeeRange = "No tuition"
		}
		return u
	})

	recs := Recommend(studentWithGPA(3.6), catalog, Options{})
	require.Len(t, recs.TopRecommendations, 20)

	assert.Equal(t, "u-017", recs.TopRecommendations[0].ID)
	ids := make([]string, 0, 19)
	for _, m := range recs.TopRecommendations[1:] {
		ids = append(ids, m.ID)
	}
	expected := make([]string, 0, 19)
	for i := 0; len(expected) < 19; i++ {
		if i != 17 {
			expected = append(expected, fmt.Sprintf("u-%03d", i))
		}
	}
	assert.Equal(t, expected, ids)

	for i := 1; i < len(recs.TopRecommendations); i++ {
		assert.GreaterOrEqual(t, recs.TopRecommendations[i-1].MatchScore, recs.TopRecommendations[i].MatchScore)
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	recs := Recommend(studentWithGPA(3.2), nil, Options{})

	assert.Equal(t, 0, recs.TotalEvaluated)
	assert.Empty(t, recs.TopRecommendations)
	assert.NotNil(t, recs.ReachSchools)
	assert.Equal(t, []string{
		"Technical Skills",
		"Study Focus",
	}, recs.Insights.ImprovementAreas)
	assert.Equal(t,
		"Focus on building a stronger profile before applying to competitive programs",
		recs.Insights.Recommendations[len(recs.Insights.Recommendations)-1])
}

func TestRecommend_Insights(t *testing.T) {
	p := studentWithGPA(3.8)
	p.AcademicBackground.HighestEducation = models.EducationBachelors
	p.AcademicBackground.TestScores = []models.TestScore{{Name: "IELTS", Score: 7.0}}
	p.Skills.Technical = []string{"Go", "Python", "SQL", "Docker", "AWS", "Git"}
	p.Skills.Languages = []models.LanguageSkill{{Language: "English"}, {Language: "Hindi"}}
	p.Preferences.StudyFields = []string{"Computer Science"}
	p.Preferences.PreferredCountries = []string{"Canada"}

	countries := []string{"Canada", "Canada", "Canada", "United Kingdom", "United Kingdom", "Australia", "Ireland"}
	catalog := catalogOf(len(countries), func(i int) models.University {
		u := canadianUniversity()
		u.Country = countries[i]
		return u
	})

	recs := Recommend(p, catalog, Options{})

	assert.Equal(t, []string{
		"Strong Academic Performance",
		"Diverse Technical Skills",
		"Multilingual Abilities",
	}, recs.Insights.StrongestAreas)
	assert.Empty(t, recs.Insights.ImprovementAreas)
	assert.Contains(t, recs.Insights.Recommendations,
		"Most of your top matches are in Canada, United Kingdom, Australia")
}

func TestRecommend_AverageScoreMessage(t *testing.T) {
	p := studentWithGPA(3.6)
	p.AcademicBackground.HighestEducation = models.EducationBachelors
	p.AcademicBackground.TestScores = []models.TestScore{{Name: "IELTS", Score: 7.0}}
	p.Preferences.StudyFields = []string{"Computer Science"}
	p.Preferences.PreferredCountries = []string{"Canada"}

	// every entry scores 82
	recs := Recommend(p, catalogOf(5, func(int) models.University { return canadianUniversity() }), Options{})
	assert.Contains(t, recs.Insights.Recommendations,
		"Your profile is competitive: apply to a mix of reach, match, and safety schools")

	// no study fields, far away: low average
	weak := studentWithGPA(2.0)
	weak.Preferences.PreferredCountries = []string{"Japan"}
	recs = Recommend(weak, catalogOf(5, func(int) models.University { return canadianUniversity() }), Options{})
	assert.Contains(t, recs.Insights.Recommendations,
		"Focus on building a stronger profile before applying to competitive programs")
	assert.Contains(t, recs.Insights.ImprovementAreas, "Academic Performance")
}

func TestFrequentCountries(t *testing.T) {
	top := []models.UniversityMatch{
		{University: models.University{Country: "Spain"}},
		{University: models.University{Country: "Italy"}},
		{University: models.University{Country: "Italy"}},
		{University: models.University{Country: ""}},
		{University: models.University{Country: "Spain"}},
		{University: models.University{Country: "Chile"}},
		{University: models.University{Country: "Peru"}},
	}
	assert.Equal(t, []string{"Spain", "Italy", "Chile"}, frequentCountries(top, 3))
	assert.Empty(t, frequentCountries(nil, 3))
}
