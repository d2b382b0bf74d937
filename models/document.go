package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Supported document types
const (
	DocumentCV             = "cv"
	DocumentTranscript     = "transcript"
	DocumentStatement      = "statement"
	DocumentRecommendation = "recommendation"
	DocumentCertificate    = "certificate"
	DocumentOther          = "other"
)

// DocumentTypes lists every accepted document type in display order
var DocumentTypes = []string{
	DocumentCV,
	DocumentTranscript,
	DocumentStatement,
	DocumentRecommendation,
	DocumentCertificate,
	DocumentOther,
}

// ParsedDocument stores the structured extraction of one uploaded document.
// It is written once and never updated; ConfidenceScore is fixed at parse time.
type ParsedDocument struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID       string         `gorm:"type:uuid;not null;index" json:"student_id"`
	FileName        string         `gorm:"size:255" json:"file_name"`
	DocumentType    string         `gorm:"type:varchar(50);not null;check:document_type IN ('cv', 'transcript', 'statement', 'recommendation', 'certificate', 'other')" json:"document_type"`
	ParsedData      ParsedData     `gorm:"type:jsonb;serializer:json" json:"parsed_data"`
	ConfidenceScore int            `gorm:"not null;default:0" json:"confidence_score"`
	RawExtraction   datatypes.JSON `gorm:"type:jsonb" json:"raw_extraction,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the ParsedDocument model
func (ParsedDocument) TableName() string {
	return "parsed_documents"
}

// ParsedData is a partial profile extracted from one document; any section may be absent
type ParsedData struct {
	Education           *EducationData           `json:"education,omitempty"`
	Experience          *ExperienceData          `json:"experience,omitempty"`
	Skills              *Skills                  `json:"skills,omitempty"`
	AcademicPerformance *AcademicPerformanceData `json:"academic_performance,omitempty"`
	Preferences         *PreferencesData         `json:"preferences,omitempty"`
	Contact             *ContactInfo             `json:"contact,omitempty"`
	RawText             string                   `json:"raw_text,omitempty"`
}

type EducationData struct {
	Institutions []Institution `json:"institutions" validate:"dive"`
}

type ExperienceData struct {
	Positions []Experience `json:"positions"`
}

type AcademicPerformanceData struct {
	GPA        *float64    `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=4"` // 0-4 scale
	TestScores []TestScore `json:"test_scores,omitempty"`
}

type PreferencesData struct {
	StudyFields []string `json:"study_fields,omitempty"`
	CareerGoals []string `json:"career_goals,omitempty"`
}

// IsValidDocumentType reports whether t is one of DocumentTypes
func IsValidDocumentType(t string) bool {
	for _, known := range DocumentTypes {
		if known == t {
			return true
		}
	}
	return false
}

// DocumentStats summarises a student's parsed documents
type DocumentStats struct {
	TotalDocuments    int64            `json:"total_documents"`
	ByType            map[string]int64 `json:"by_type"`
	AverageConfidence float64          `json:"average_confidence"`
	LastUpload        *time.Time       `json:"last_upload,omitempty"`
}
