package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type RecommendationEndpoints struct {
	recommendations *RecommendationService
}

func NewRecommendationEndpoints(recommendations *RecommendationService) *RecommendationEndpoints {
	return &RecommendationEndpoints{
		recommendations: recommendations,
	}
}

func (e *RecommendationEndpoints) RegisterRoutes(r chi.Router) {
	r.Get("/recommendations", e.GetRecommendationsHandler)
	r.Get("/universities/{id}/match", e.MatchUniversityHandler)
}

func (e *RecommendationEndpoints) GetRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	studentID, _ := StudentIDFromContext(r.Context())
	recs, err := e.recommendations.GenerateRecommendations(r.Context(), studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (e *RecommendationEndpoints) MatchUniversityHandler(w http.ResponseWriter, r *http.Request) {
	studentID, _ := StudentIDFromContext(r.Context())
	match, err := e.recommendations.MatchUniversity(r.Context(), studentID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}
