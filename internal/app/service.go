// Package service composes the grading engine and implements the
// dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/nveerman1/team-evaluatie-app-sub000/internal/config"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/grading"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/resolver"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/stats"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
	"github.com/nveerman1/team-evaluatie-app-sub000/pkg/logger"
	"github.com/nveerman1/team-evaluatie-app-sub000/pkg/metrics"
)

// Operation names used for metrics labels.
const (
	opComputeGrade = "compute_grade"
	opCategories   = "aggregate_categories"
	opResolve      = "resolve"
	opSummarize    = "summarize"
	opCohortReport = "cohort_report"
)

// Service runs engine computations and reports anomalies. It holds only
// immutable configuration and is safe for concurrent use.
type Service struct {
	resolver *resolver.Resolver

	// Configuration
	factorCeiling float64
	passThreshold float64
	gradeDecimals int
	lessonBlock   time.Duration

	// Counters served by GetStats.
	computations atomic.Int64
	anomalies    atomic.Int64

	logger   logger.Logger
	recorder metrics.Recorder
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithFactorCeiling sets the correction factor above which a factor is flagged.
func WithFactorCeiling(ceiling float64) Option {
	return func(s *Service) {
		if ceiling > 0 {
			s.factorCeiling = ceiling
		}
	}
}

// WithPassThreshold sets the lowest passing grade.
func WithPassThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold >= grading.MinGrade && threshold <= grading.MaxGrade {
			s.passThreshold = threshold
		}
	}
}

// WithGradeDecimals sets the display precision of grades.
func WithGradeDecimals(places int) Option {
	return func(s *Service) {
		if places >= 0 {
			s.gradeDecimals = places
		}
	}
}

// WithLessonBlock sets the lesson block duration.
func WithLessonBlock(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lessonBlock = d
		}
	}
}

// WithGrading applies the grading section of the configuration.
func WithGrading(g config.Grading) Option {
	return func(s *Service) {
		for _, opt := range []Option{
			WithFactorCeiling(g.CorrectionFactorCeiling),
			WithPassThreshold(g.PassThreshold),
			WithGradeDecimals(g.GradeDecimals),
			WithLessonBlock(g.LessonBlock()),
		} {
			opt(s)
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		factorCeiling: resolver.DefaultFactorCeiling,
		passThreshold: stats.DefaultPassThreshold,
		gradeDecimals: 1,
		lessonBlock:   grading.DefaultLessonBlock,
		logger:        logger.Nop(),
		recorder:      metrics.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = resolver.New(resolver.WithFactorCeiling(s.factorCeiling))
	return s
}

// PassThreshold returns the configured pass threshold.
func (s *Service) PassThreshold() float64 { return s.passThreshold }

// GradeResult is a computed grade for one scoring context.
type GradeResult struct {
	Aggregate types.Float `json:"aggregate"`
	Grade     types.Float `json:"grade"`
	Display   types.Float `json:"grade_display"`
}

// ComputeGrade aggregates items and maps the aggregate onto the grade curve.
func (s *Service) ComputeGrade(ctx context.Context, scale grading.Scale, items []grading.Item) GradeResult {
	defer s.observe(opComputeGrade, time.Now())

	agg := grading.Aggregate(items)
	grade := grading.GradeOf(agg, scale)
	if agg.Present() && !grade.Present() {
		s.logger.Warn(ctx, "degenerate rubric scale; grade undefined",
			logger.Int("scale_min", scale.Min), logger.Int("scale_max", scale.Max))
	}
	return GradeResult{
		Aggregate: agg,
		Grade:     grade,
		Display:   grade.Map(s.display),
	}
}

// CategoryRequest is the input of AggregateCategories.
type CategoryRequest struct {
	Scale      grading.Scale
	Criteria   []grading.Criterion
	Scores     grading.ScoreMap
	Overrides  grading.ScoreMap
	MapToGrade bool
}

// CategoryResult holds per-category and overall aggregates.
type CategoryResult struct {
	Categories   map[string]float64 `json:"categories"`
	Overall      types.Float        `json:"overall"`
	OverallGrade types.Float        `json:"overall_grade"`
}

// AggregateCategories computes per-category and overall aggregates for one
// context. Student overrides replace team scores first. With MapToGrade the
// category values are reported on the 1-10 curve instead of the raw scale.
func (s *Service) AggregateCategories(ctx context.Context, req CategoryRequest) CategoryResult {
	defer s.observe(opCategories, time.Now())

	scores := req.Scores
	if len(req.Overrides) > 0 {
		scores = grading.MergeOverrides(req.Scores, req.Overrides)
	}
	byCat := grading.AggregateByCategory(req.Criteria, scores)
	if req.MapToGrade {
		byCat = grading.CategoryGrades(byCat, req.Scale)
	}
	overall := grading.AggregateOverall(req.Criteria, scores)

	s.logger.Debug(ctx, "aggregated categories",
		logger.Int("criteria", len(req.Criteria)),
		logger.Int("scored", len(scores)),
		logger.Int("categories", len(byCat)))

	return CategoryResult{
		Categories:   byCat,
		Overall:      overall,
		OverallGrade: grading.GradeOf(overall, req.Scale).Map(s.display),
	}
}

// Resolve picks the authoritative grade for one student and reports any
// policy anomaly.
func (s *Service) Resolve(ctx context.Context, studentID string, c resolver.Candidates) resolver.Resolution {
	defer s.observe(opResolve, time.Now())
	return s.resolve(ctx, studentID, c)
}

func (s *Service) resolve(ctx context.Context, studentID string, c resolver.Candidates) resolver.Resolution {
	res := s.resolver.Resolve(c)
	s.recorder.RecordResolution(string(res.Source))
	for _, f := range res.Flags {
		s.anomalies.Add(1)
		s.recorder.RecordAnomaly(string(f))
		s.logger.Warn(ctx, "grade candidate anomaly",
			logger.String("student_id", studentID),
			logger.String("flag", string(f)),
			logger.String("source", string(res.Source)),
			logger.String("group_grade", c.GroupGrade.String()),
			logger.String("correction_factor", c.CorrectionFactor.String()),
			logger.Float64("factor_ceiling", s.factorCeiling))
	}
	return res
}

// Summarize computes cohort statistics over values.
func (s *Service) Summarize(_ context.Context, values []float64) stats.Summary {
	defer s.observe(opSummarize, time.Now())
	return stats.Summarize(values)
}

// SummarizeGroups computes statistics per named population.
func (s *Service) SummarizeGroups(_ context.Context, groups map[string][]float64) map[string]stats.Summary {
	defer s.observe(opSummarize, time.Now())
	return stats.SummarizeGroups(groups)
}

// StudentCandidates pairs a student with their stored candidates.
type StudentCandidates struct {
	StudentID  string              `json:"student_id"`
	Candidates resolver.Candidates `json:"candidates"`
}

// StudentGrade is one row of a cohort report.
type StudentGrade struct {
	StudentID string `json:"student_id"`
	resolver.Resolution
	Passed *bool `json:"passed"`
}

// CohortReport resolves every student and summarizes the resolved grades.
type CohortReport struct {
	Students      []StudentGrade `json:"students"`
	Summary       stats.Summary  `json:"summary"`
	PassRate      types.Float    `json:"pass_rate"`
	PassThreshold float64        `json:"pass_threshold"`
	Ungraded      int            `json:"ungraded"`
}

// Report resolves students in order and summarizes the present grades.
// A present threshold overrides the configured pass threshold.
func (s *Service) Report(ctx context.Context, students []StudentCandidates, threshold types.Float) CohortReport {
	defer s.observe(opCohortReport, time.Now())

	pass := threshold.Or(s.passThreshold)
	rows := make([]StudentGrade, 0, len(students))
	values := make([]float64, 0, len(students))
	ungraded := 0
	for _, st := range students {
		res := s.resolve(ctx, st.StudentID, st.Candidates)
		row := StudentGrade{StudentID: st.StudentID, Resolution: res}
		if v, ok := res.Value.Get(); ok {
			values = append(values, v)
			passed := v >= pass
			row.Passed = &passed
		} else {
			ungraded++
		}
		rows = append(rows, row)
	}

	return CohortReport{
		Students:      rows,
		Summary:       stats.Summarize(values),
		PassRate:      stats.PassRate(values, pass),
		PassThreshold: pass,
		Ungraded:      ungraded,
	}
}

// LessonBlocks converts attendance seconds into configured lesson blocks.
func (s *Service) LessonBlocks(seconds int64) float64 {
	return grading.LessonBlocks(seconds, s.lessonBlock)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"computations":    s.computations.Load(),
		"anomalies":       s.anomalies.Load(),
		"factorCeiling":   s.factorCeiling,
		"passThreshold":   s.passThreshold,
		"gradeDecimals":   s.gradeDecimals,
		"lessonBlockMins": s.lessonBlock.Minutes(),
	}
}

func (s *Service) display(v float64) float64 {
	return grading.Round(v, s.gradeDecimals)
}

func (s *Service) observe(operation string, start time.Time) {
	s.computations.Add(1)
	s.recorder.RecordComputation(operation, float64(time.Since(start).Microseconds())/1000)
}
