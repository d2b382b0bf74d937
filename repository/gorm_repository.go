package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/krshsl/admitwise/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// universityBatchSize bounds a single INSERT when seeding the catalog
const universityBatchSize = 100

type GORMRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.StudentProfile{},
		&models.ParsedDocument{},
		&models.University{},
	)
}

// Profile operations

// GetStudentProfile returns nil, nil when the student has no profile yet
func (r *GORMRepository) GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get student profile", "error", err, "student_id", studentID)
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return &profile, nil
}

// UpsertStudentProfile inserts the profile or replaces every column of the existing row
func (r *GORMRepository) UpsertStudentProfile(ctx context.Context, profile *models.StudentProfile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns(profileUpdateColumns),
		}).
		Create(profile).Error
	if err != nil {
		slog.Error("Failed to upsert student profile", "error", err, "student_id", profile.StudentID)
		return fmt.Errorf("failed to upsert student profile: %w", err)
	}
	slog.Info("Student profile saved", "student_id", profile.StudentID, "completion", profile.ProfileCompletion)
	return nil
}

var profileUpdateColumns = []string{
	"academic_background",
	"skills",
	"preferences",
	"experience",
	"contact_info",
	"profile_completion",
	"updated_at",
}

// University operations

// ListUniversities returns up to limit catalog entries in a stable order; limit <= 0 means all
func (r *GORMRepository) ListUniversities(ctx context.Context, limit int) ([]models.University, error) {
	var universities []models.University
	query := r.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&universities).Error; err != nil {
		slog.Error("Failed to list universities", "error", err)
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	return universities, nil
}

func (r *GORMRepository) CountUniversities(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.University{}).Count(&count).Error; err != nil {
		slog.Error("Failed to count universities", "error", err)
		return 0, fmt.Errorf("failed to count universities: %w", err)
	}
	return count, nil
}

// CreateUniversities inserts catalog entries, skipping ids that already exist
func (r *GORMRepository) CreateUniversities(ctx context.Context, universities []models.University) error {
	if len(universities) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(universities, universityBatchSize).Error
	if err != nil {
		slog.Error("Failed to create universities", "error", err, "count", len(universities))
		return fmt.Errorf("failed to create universities: %w", err)
	}
	slog.Info("Universities created", "count", len(universities))
	return nil
}
