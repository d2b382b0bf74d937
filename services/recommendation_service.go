package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/krshsl/admitwise/backend/matching"
	"github.com/krshsl/admitwise/backend/models"
)

// UniversityCatalog is the read side of Catalog used for matching
type UniversityCatalog interface {
	Universities(ctx context.Context) ([]models.University, error)
	Find(ctx context.Context, id string) (*models.University, error)
}

// RecommendationService scores the catalog against a student's stored profile
type RecommendationService struct {
	profiles ProfileStore
	catalog  UniversityCatalog
	notifier Notifier
	opts     matching.Options
}

func NewRecommendationService(profiles ProfileStore, catalog UniversityCatalog, notifier Notifier, maxScan int) *RecommendationService {
	return &RecommendationService{
		profiles: profiles,
		catalog:  catalog,
		notifier: notifier,
		opts:     matching.Options{MaxScan: maxScan},
	}
}

// GenerateRecommendations ranks and buckets the catalog for studentID.
// A catalog failure aborts the whole request; there are no partial results.
func (s *RecommendationService) GenerateRecommendations(ctx context.Context, studentID string) (*models.MatchingRecommendations, error) {
	start := time.Now()
	defer func() {
		recommendationDuration.Observe(time.Since(start).Seconds())
	}()

	p, err := s.loadProfile(ctx, studentID)
	if err != nil {
		recommendationsGenerated.WithLabelValues(outcomeFor(err)).Inc()
		return nil, err
	}

	universities, err := s.catalog.Universities(ctx)
	if err != nil {
		recommendationsGenerated.WithLabelValues("catalog_unavailable").Inc()
		return nil, err
	}

	recs := matching.Recommend(p, universities, s.opts)
	recommendationsGenerated.WithLabelValues("success").Inc()
	slog.Info("Recommendations generated", "student_id", studentID,
		"evaluated", recs.TotalEvaluated, "top", len(recs.TopRecommendations))

	if s.notifier != nil {
		s.notifier.Notify(studentID, EventRecommendationsReady, map[string]any{
			"total_evaluated": recs.TotalEvaluated,
			"top":             len(recs.TopRecommendations),
		})
	}
	return &recs, nil
}

// MatchUniversity scores a single catalog entry for studentID
func (s *RecommendationService) MatchUniversity(ctx context.Context, studentID, universityID string) (*models.UniversityMatch, error) {
	p, err := s.loadProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}

	u, err := s.catalog.Find(ctx, universityID)
	if err != nil {
		return nil, err
	}

	m := matching.MatchUniversity(p, *u)
	return &m, nil
}

func (s *RecommendationService) loadProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	if studentID == "" {
		return nil, ErrNotAuthenticated
	}
	p, err := s.profiles.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrProfileNotFound):
		return "profile_not_found"
	default:
		return "error"
	}
}
