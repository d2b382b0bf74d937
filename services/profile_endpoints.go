package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ProfileEndpoints struct {
	profiles *ProfileService
}

func NewProfileEndpoints(profiles *ProfileService) *ProfileEndpoints {
	return &ProfileEndpoints{
		profiles: profiles,
	}
}

func (e *ProfileEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", e.GetProfileHandler)
		r.Put("/preferences", e.UpdatePreferencesHandler)
		r.Get("/completion", e.CompletionHandler)
	})
}

func (e *ProfileEndpoints) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	p, err := e.profiles.GetProfile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (e *ProfileEndpoints) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	var req PreferencesUpdate
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if b := req.BudgetRange; b != nil && (b.Min < 0 || b.Max < b.Min) {
		writeError(w, ErrInvalidRequest)
		return
	}

	p, err := e.profiles.UpdatePreferences(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (e *ProfileEndpoints) CompletionHandler(w http.ResponseWriter, r *http.Request) {
	report, err := e.profiles.Completion(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
