package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/krshsl/admitwise/backend/models"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

// ErrDuplicateDocument is returned when a parsed document id is saved twice
var ErrDuplicateDocument = errors.New("parsed document already exists")

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// SaveParsedDocument inserts a parsed document; documents are never updated afterwards
func (r *DocumentRepository) SaveParsedDocument(ctx context.Context, doc *models.ParsedDocument) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			slog.Warn("Parsed document already saved", "document_id", doc.ID)
			return fmt.Errorf("failed to save parsed document %s: %w", doc.ID, ErrDuplicateDocument)
		}
		slog.Error("Failed to save parsed document", "error", err, "document_id", doc.ID)
		return fmt.Errorf("failed to save parsed document: %w", err)
	}

	slog.Info("Parsed document saved", "document_id", doc.ID, "student_id", doc.StudentID, "type", doc.DocumentType)
	return nil
}

// ListParsedDocuments returns the student's documents, newest first
func (r *DocumentRepository) ListParsedDocuments(ctx context.Context, studentID string, limit int) ([]models.ParsedDocument, error) {
	var docs []models.ParsedDocument

	query := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&docs).Error; err != nil {
		slog.Error("Failed to list parsed documents", "error", err, "student_id", studentID)
		return nil, fmt.Errorf("failed to list parsed documents: %w", err)
	}
	return docs, nil
}

// GetParsedDocument returns nil, nil when the document does not exist or belongs to another student
func (r *DocumentRepository) GetParsedDocument(ctx context.Context, studentID, documentID string) (*models.ParsedDocument, error) {
	var doc models.ParsedDocument

	if err := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", documentID, studentID).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get parsed document", "error", err, "document_id", documentID)
		return nil, fmt.Errorf("failed to get parsed document: %w", err)
	}
	return &doc, nil
}

type typeCount struct {
	DocumentType string
	Count        int64
}

// GetDocumentStats summarises the student's uploads
func (r *DocumentRepository) GetDocumentStats(ctx context.Context, studentID string) (*models.DocumentStats, error) {
	stats := &models.DocumentStats{ByType: map[string]int64{}}

	var counts []typeCount
	if err := r.db.WithContext(ctx).
		Model(&models.ParsedDocument{}).
		Select("document_type, COUNT(*) AS count").
		Where("student_id = ?", studentID).
		Group("document_type").
		Scan(&counts).Error; err != nil {
		slog.Error("Failed to count documents by type", "error", err, "student_id", studentID)
		return nil, fmt.Errorf("failed to count documents by type: %w", err)
	}
	for _, c := range counts {
		stats.ByType[c.DocumentType] = c.Count
		stats.TotalDocuments += c.Count
	}
	if stats.TotalDocuments == 0 {
		return stats, nil
	}

	var avg float64
	if err := r.db.WithContext(ctx).
		Model(&models.ParsedDocument{}).
		Select("COALESCE(AVG(confidence_score), 0)").
		Where("student_id = ?", studentID).
		Scan(&avg).Error; err != nil {
		slog.Error("Failed to average document confidence", "error", err, "student_id", studentID)
		return nil, fmt.Errorf("failed to average document confidence: %w", err)
	}
	stats.AverageConfidence = avg

	var last models.ParsedDocument
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		First(&last).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("Failed to get last upload", "error", err, "student_id", studentID)
			return nil, fmt.Errorf("failed to get last upload: %w", err)
		}
	} else {
		stats.LastUpload = &last.CreatedAt
	}

	return stats, nil
}
