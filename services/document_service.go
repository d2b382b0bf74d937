package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/krshsl/admitwise/backend/models"
	"github.com/krshsl/admitwise/backend/profile"
	"gorm.io/datatypes"
)

// Notification events pushed to a student's open connections
const (
	EventProfileUpdated       = "profile_updated"
	EventRecommendationsReady = "recommendations_ready"
)

const defaultDocumentListLimit = 50

type DocumentStore interface {
	SaveParsedDocument(ctx context.Context, doc *models.ParsedDocument) error
	ListParsedDocuments(ctx context.Context, studentID string, limit int) ([]models.ParsedDocument, error)
	GetParsedDocument(ctx context.Context, studentID, documentID string) (*models.ParsedDocument, error)
	GetDocumentStats(ctx context.Context, studentID string) (*models.DocumentStats, error)
}

type ProfileStore interface {
	GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
	UpsertStudentProfile(ctx context.Context, p *models.StudentProfile) error
}

// Notifier delivers an event to whichever connections the student has open
type Notifier interface {
	Notify(studentID, event string, payload any)
}

// DocumentService stores parsed documents and folds them into the student's profile
type DocumentService struct {
	documents DocumentStore
	profiles  ProfileStore
	extractor profile.Extractor
	notifier  Notifier
}

func NewDocumentService(documents DocumentStore, profiles ProfileStore, extractor profile.Extractor, notifier Notifier) *DocumentService {
	return &DocumentService{
		documents: documents,
		profiles:  profiles,
		extractor: extractor,
		notifier:  notifier,
	}
}

// SaveParsedDocument persists one extraction for the current student, then merges it
// into their profile. A failed merge does not fail the save.
func (s *DocumentService) SaveParsedDocument(ctx context.Context, fileName, documentType string, data models.ParsedData) (*models.ParsedDocument, error) {
	studentID, ok := StudentIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if !models.IsValidDocumentType(documentType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDocumentType, documentType)
	}
	// GPA values must be on the 0-4 scale before they reach the profile
	if err := validate.Struct(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	doc := &models.ParsedDocument{
		ID:              uuid.New().String(),
		StudentID:       studentID,
		FileName:        fileName,
		DocumentType:    documentType,
		ParsedData:      data,
		ConfidenceScore: profile.ConfidenceScore(data),
		CreatedAt:       time.Now().UTC(),
	}
	return s.save(ctx, doc)
}

// ExtractAndSave runs the configured extractor over raw document text and saves the result
func (s *DocumentService) ExtractAndSave(ctx context.Context, fileName, documentType, text string) (*models.ParsedDocument, error) {
	studentID, ok := StudentIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if !models.IsValidDocumentType(documentType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDocumentType, documentType)
	}

	data, err := s.extractor.Extract(ctx, documentType, text)
	if err != nil {
		extractionFailures.WithLabelValues(extractorName(s.extractor)).Inc()
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	raw, err := json.Marshal(map[string]any{
		"extractor": extractorName(s.extractor),
		"parsed":    data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode raw extraction: %w", err)
	}

	doc := &models.ParsedDocument{
		ID:              uuid.New().String(),
		StudentID:       studentID,
		FileName:        fileName,
		DocumentType:    documentType,
		ParsedData:      *data,
		ConfidenceScore: profile.ConfidenceScore(*data),
		RawExtraction:   datatypes.JSON(raw),
		CreatedAt:       time.Now().UTC(),
	}
	return s.save(ctx, doc)
}

func (s *DocumentService) save(ctx context.Context, doc *models.ParsedDocument) (*models.ParsedDocument, error) {
	if err := s.documents.SaveParsedDocument(ctx, doc); err != nil {
		documentSaveFailures.Inc()
		slog.Error("Failed to save parsed document", "error", err, "student_id", doc.StudentID)
		return nil, fmt.Errorf("failed to save parsed document: %w", err)
	}
	documentsSaved.WithLabelValues(doc.DocumentType).Inc()
	slog.Info("Parsed document saved", "document_id", doc.ID, "student_id", doc.StudentID,
		"document_type", doc.DocumentType, "confidence", doc.ConfidenceScore)

	if _, err := s.MergeParsedDocumentIntoProfile(ctx, doc); err != nil {
		slog.Error("Failed to merge document into profile", "error", err, "document_id", doc.ID)
	}
	return doc, nil
}

// MergeParsedDocumentIntoProfile folds doc into the current student's profile and returns
// the merged result. A failed profile write is logged and counted but not returned.
func (s *DocumentService) MergeParsedDocumentIntoProfile(ctx context.Context, doc *models.ParsedDocument) (*models.StudentProfile, error) {
	studentID, ok := StudentIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if doc.StudentID != studentID {
		return nil, ErrDocumentOwnership
	}

	existing, err := s.profiles.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	merged := profile.Merge(existing, studentID, doc.ParsedData)
	if err := s.profiles.UpsertStudentProfile(ctx, merged); err != nil {
		profileWriteFailures.Inc()
		slog.Error("Failed to persist merged profile", "error", err, "student_id", studentID, "document_id", doc.ID)
		return merged, nil
	}

	profileMerges.Inc()
	s.notify(studentID, EventProfileUpdated, map[string]any{
		"document_id":        doc.ID,
		"profile_completion": merged.ProfileCompletion,
	})
	return merged, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, limit int) ([]models.ParsedDocument, error) {
	studentID, ok := StudentIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = defaultDocumentListLimit
	}
	docs, err := s.documents.ListParsedDocuments(ctx, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if docs == nil {
		docs = []models.ParsedDocument{}
	}
	return docs, nil
}

func (s *DocumentService) GetDocument(ctx context.Context, documentID string) (*models.ParsedDocument, error) {
	studentID, ok := StudentIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	doc, err := s.documents.GetParsedDocument(ctx, studentID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (s *DocumentService) DocumentStats(ctx context.Context) (*models.DocumentStats, error) {
	studentID, ok := StudentIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	stats, err := s.documents.GetDocumentStats(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document stats: %w", err)
	}
	return stats, nil
}

func (s *DocumentService) notify(studentID, event string, payload any) {
	if s.notifier != nil {
		s.notifier.Notify(studentID, event, payload)
	}
}
