package api

import (
	"fmt"
	"net/http"

	service "github.com/nveerman1/team-evaluatie-app-sub000/internal/app"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/grading"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
)

type cohortRequest struct {
	PassThreshold types.Float                 `json:"pass_threshold"`
	Students      []service.StudentCandidates `json:"students"`
}

// handleCohortReport handles POST /v1/cohorts/report.
func (s *Server) handleCohortReport(w http.ResponseWriter, r *http.Request) {
	var req cohortRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	if v, ok := req.PassThreshold.Get(); ok && (v < grading.MinGrade || v > grading.MaxGrade) {
		writeError(w, r, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: pass_threshold must be within 1-10", ErrBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Report(r.Context(), req.Students, req.PassThreshold))
}
