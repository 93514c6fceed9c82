package api

import (
	"errors"
	"net/http"
)

// StatsProvider reports service counters for GET /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

type summaryRequest struct {
	Values []float64 `json:"values"`
}

type groupsRequest struct {
	Groups map[string][]float64 `json:"groups"`
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.GetStats())
}

// handleSummary handles POST /v1/statistics/summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Summarize(r.Context(), req.Values))
}

// handleGroupSummary handles POST /v1/statistics/groups.
func (s *Server) handleGroupSummary(w http.ResponseWriter, r *http.Request) {
	var req groupsRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	if req.Groups == nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", errors.New("missing groups"))
		return
	}
	writeJSON(w, http.StatusOK, s.engine.SummarizeGroups(r.Context(), req.Groups))
}
