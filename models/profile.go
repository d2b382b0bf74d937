package models

import (
	"time"

	"gorm.io/gorm"
)

// Highest education levels recognised on a profile
const (
	EducationUnknown   = "Unknown"
	EducationBachelors = "Bachelors"
	EducationMasters   = "Masters"
	EducationPhD       = "PhD"
)

// StudentProfile is the per-student record the matching engine reads and the merge engine writes.
// ProfileCompletion is derived from the other sections and is never set on its own.
type StudentProfile struct {
	StudentID          string             `gorm:"type:uuid;primaryKey" json:"student_id"`
	AcademicBackground AcademicBackground `gorm:"type:jsonb;serializer:json" json:"academic_background"`
	Skills             Skills             `gorm:"type:jsonb;serializer:json" json:"skills"`
	Preferences        Preferences        `gorm:"type:jsonb;serializer:json" json:"preferences"`
	Experience         []Experience       `gorm:"type:jsonb;serializer:json" json:"experience"`
	ContactInfo        ContactInfo        `gorm:"type:jsonb;serializer:json" json:"contact_info"`
	ProfileCompletion  int                `gorm:"not null;default:0;check:profile_completion BETWEEN 0 AND 100" json:"profile_completion"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	DeletedAt          gorm.DeletedAt     `gorm:"index" json:"-"`
}

// TableName returns the table name for the StudentProfile model
func (StudentProfile) TableName() string {
	return "student_profiles"
}

type AcademicBackground struct {
	HighestEducation string        `json:"highest_education"`
	GPA              *float64      `json:"gpa,omitempty"` // 0-4 scale
	Institutions     []Institution `json:"institutions"`
	TestScores       []TestScore   `json:"test_scores"`
}

type Institution struct {
	Name           string   `json:"name"`
	Degree         string   `json:"degree"`
	Field          string   `json:"field"`
	GPA            *float64 `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=4"`
	GraduationYear *int     `json:"graduation_year,omitempty"`
}

// TestScore is a standardized test result such as IELTS, TOEFL or GRE
type TestScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Date  string  `json:"date,omitempty"`
}

type Skills struct {
	Technical []string        `json:"technical"`
	Languages []LanguageSkill `json:"languages"`
	Soft      []string        `json:"soft"`
}

type LanguageSkill struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

type Preferences struct {
	StudyFields         []string     `json:"study_fields"`
	PreferredCountries  []string     `json:"preferred_countries"`
	CareerGoals         []string     `json:"career_goals"`
	BudgetRange         *BudgetRange `json:"budget_range,omitempty"`
	ScholarshipRequired bool         `json:"scholarship_required"`
}

type BudgetRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// ContactInfo fields are optional; an empty string means "not provided"
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// StudentGPA returns the stored GPA, or 0 when none is on file
func (p *StudentProfile) StudentGPA() float64 {
	if p == nil || p.AcademicBackground.GPA == nil {
		return 0
	}
	return *p.AcademicBackground.GPA
}
