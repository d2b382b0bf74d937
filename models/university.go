package models

import (
	"time"

	"github.com/lib/pq"
)

// University is one catalog entry. The catalog is read-only reference data for matching.
type University struct {
	ID                   string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name                 string         `gorm:"not null;index" json:"name"`
	Country              string         `gorm:"size:100;not null;index" json:"country"`
	State                string         `gorm:"size:100" json:"state,omitempty"`
	Courses              pq.StringArray `gorm:"type:text[]" json:"courses"`
	StudyLevels          pq.StringArray `gorm:"type:text[]" json:"study_levels"`
	GPARequirement       float64        `gorm:"type:decimal(3,2);not null;default:0" json:"gpa_requirement"`
	LanguageRequirement  string         `gorm:"size:255" json:"language_requirement"`
	AcceptanceRate       string         `gorm:"size:20" json:"acceptance_rate"` // e.g. "15%"
	ApplicationDeadline  string         `gorm:"size:20" json:"application_deadline"`
	TuitionFeeRange      string         `gorm:"size:100" json:"tuition_fee_range"`
	ApplicationFee       string         `gorm:"size:50" json:"application_fee"`
	LivingCostRange      string         `gorm:"size:100" json:"living_cost_range"`
	TotalEstimate        string         `gorm:"size:100" json:"total_estimate"`
	ScholarshipAvailable bool           `gorm:"default:false" json:"scholarship_available"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// TableName returns the table name for the University model
func (University) TableName() string {
	return "universities"
}
