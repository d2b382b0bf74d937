package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/krshsl/admitwise/backend/models"
	"github.com/krshsl/admitwise/backend/profile"
)

// ProfileService serves the student's merged profile and the preferences they set directly
type ProfileService struct {
	profiles ProfileStore
	notifier Notifier
}

// PreferencesUpdate holds the preferences a student enters by hand rather than via documents
type PreferencesUpdate struct {
	PreferredCountries  []string            `json:"preferred_countries" validate:"max=20,dive,required,max=100"`
	BudgetRange         *models.BudgetRange `json:"budget_range,omitempty"`
	ScholarshipRequired bool                `json:"scholarship_required"`
}

// CompletionReport explains a profile's completion percentage
type CompletionReport struct {
	ProfileCompletion int      `json:"profile_completion"`
	MissingSections   []string `json:"missing_sections"`
}

func NewProfileService(profiles ProfileStore, notifier Notifier) *ProfileService {
	return &ProfileService{profiles: profiles, notifier: notifier}
}

func (s *ProfileService) GetProfile(ctx context.Context) (*models.StudentProfile, error) {
	studentID, ok := StudentIDFromContext(ctx)
	if !ok {
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

// UpdatePreferences replaces the hand-entered preferences, creating the profile if needed.
// Study fields and career goals stay owned by document merges.
func (s *ProfileService) UpdatePreferences(ctx context.Context, update PreferencesUpdate) (*models.StudentProfile, error) {
	studentID, ok := StudentIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	p, err := s.profiles.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if p == nil {
		p = profile.NewStudentProfile(studentID)
	}

	p.Preferences.PreferredCountries = dedupeCountries(update.PreferredCountries)
	p.Preferences.BudgetRange = update.BudgetRange
	p.Preferences.ScholarshipRequired = update.ScholarshipRequired
	p.ProfileCompletion = profile.Completion(p)

	if err := s.profiles.UpsertStudentProfile(ctx, p); err != nil {
		profileWriteFailures.Inc()
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	slog.Info("Preferences updated", "student_id", studentID, "countries", len(p.Preferences.PreferredCountries))
	if s.notifier != nil {
		s.notifier.Notify(studentID, EventProfileUpdated, map[string]any{
			"profile_completion": p.ProfileCompletion,
		})
	}
	return p, nil
}

func (s *ProfileService) Completion(ctx context.Context) (*CompletionReport, error) {
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return &CompletionReport{
		ProfileCompletion: profile.Completion(p),
		MissingSections:   profile.MissingSections(p),
	}, nil
}

// dedupeCountries trims entries and drops case-insensitive repeats, keeping first spelling
func dedupeCountries(countries []string) []string {
	seen := make(map[string]bool, len(countries))
	out := []string{}
	for _, c := range countries {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
