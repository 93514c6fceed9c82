package api

import (
	"net/http"

	service "github.com/nveerman1/team-evaluatie-app-sub000/internal/app"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/grading"
)

type criterionRequest struct {
	ID       string   `json:"id"`
	Weight   *float64 `json:"weight"`
	Category string   `json:"category"`
}

type categoriesRequest struct {
	Scale      grading.Scale      `json:"scale"`
	Criteria   []criterionRequest `json:"criteria"`
	Scores     grading.ScoreMap   `json:"scores"`
	Overrides  grading.ScoreMap   `json:"overrides"`
	MapToGrade bool               `json:"map_to_grade"`
}

// handleAggregateCategories handles POST /v1/categories/aggregate.
func (s *Server) handleAggregateCategories(w http.ResponseWriter, r *http.Request) {
	var req categoriesRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	if err := validateScale(req.Scale); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err)
		return
	}
	criteria := make([]grading.Criterion, 0, len(req.Criteria))
	for _, c := range req.Criteria {
		weight, err := s.weightOf(c.Weight)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "bad_request", err)
			return
		}
		criteria = append(criteria, grading.Criterion{ID: c.ID, Weight: weight, Category: c.Category})
	}
	res := s.engine.AggregateCategories(r.Context(), service.CategoryRequest{
		Scale:      req.Scale,
		Criteria:   criteria,
		Scores:     req.Scores,
		Overrides:  req.Overrides,
		MapToGrade: req.MapToGrade,
	})
	writeJSON(w, http.StatusOK, res)
}
