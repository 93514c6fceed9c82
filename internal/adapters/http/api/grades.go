package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/grading"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/resolver"
)

type itemRequest struct {
	CriterionID string   `json:"criterion_id"`
	Score       float64  `json:"score"`
	Weight      *float64 `json:"weight"`
}

type computeRequest struct {
	Scale grading.Scale `json:"scale"`
	Items []itemRequest `json:"items"`
}

func validateScale(s grading.Scale) error {
	if s.Min > s.Max {
		return fmt.Errorf("%w: scale min %d exceeds max %d", ErrBadRequest, s.Min, s.Max)
	}
	return nil
}

func (s *Server) weightOf(w *float64) (float64, error) {
	if w == nil {
		return s.defaultWeight, nil
	}
	if *w < 0 {
		return 0, fmt.Errorf("%w: weight must not be negative", ErrBadRequest)
	}
	return *w, nil
}

// handleComputeGrade handles POST /v1/grades/compute.
func (s *Server) handleComputeGrade(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	if err := validateScale(req.Scale); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err)
		return
	}
	items := make([]grading.Item, 0, len(req.Items))
	for _, it := range req.Items {
		weight, err := s.weightOf(it.Weight)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "bad_request", err)
			return
		}
		items = append(items, grading.Item{CriterionID: it.CriterionID, Score: it.Score, Weight: weight})
	}
	writeJSON(w, http.StatusOK, s.engine.ComputeGrade(r.Context(), req.Scale, items))
}

type resolveRequest struct {
	StudentID string `json:"student_id"`
	resolver.Candidates
}

// handleResolveGrade handles POST /v1/grades/resolve.
func (s *Server) handleResolveGrade(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Resolve(r.Context(), req.StudentID, req.Candidates))
}

type lessonBlocksResponse struct {
	Seconds int64   `json:"seconds"`
	Blocks  float64 `json:"blocks"`
}

// handleLessonBlocks handles GET /v1/attendance/blocks?seconds=N.
func (s *Server) handleLessonBlocks(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("seconds")
	if raw == "" {
		writeError(w, r, http.StatusBadRequest, "bad_request", errors.New("missing seconds"))
		return
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seconds < 0 {
		writeError(w, r, http.StatusBadRequest, "bad_request", errors.New("seconds must be a non-negative integer"))
		return
	}
	writeJSON(w, http.StatusOK, lessonBlocksResponse{Seconds: seconds, Blocks: s.engine.LessonBlocks(seconds)})
}
