package service_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	service "github.com/nveerman1/team-evaluatie-app-sub000/internal/app"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/config"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/grading"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/resolver"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
	"github.com/nveerman1/team-evaluatie-app-sub000/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeRecorder struct {
	mu           sync.Mutex
	resolutions  map[string]int
	anomalies    map[string]int
	computations map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		resolutions:  map[string]int{},
		anomalies:    map[string]int{},
		computations: map[string]int{},
	}
}

func (f *fakeRecorder) RecordResolution(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolutions[source]++
}

func (f *fakeRecorder) RecordAnomaly(flag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.anomalies[flag]++
}

func (f *fakeRecorder) RecordComputation(operation string, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.computations[operation]++
}

func TestService_ComputeGrade(t *testing.T) {
	Convey("Given a service with default options", t, func() {
		svc := service.New()
		ctx := context.Background()
		scale := grading.Scale{Min: 1, Max: 5}

		Convey("When computing a grade from scored criteria", func() {
			res := svc.ComputeGrade(ctx, scale, []grading.Item{
				{CriterionID: "c1", Score: 4, Weight: 1},
				{CriterionID: "c2", Score: 3, Weight: 1},
			})

			Convey("Then the aggregate, grade and display grade should be set", func() {
				So(res.Aggregate.Or(0), ShouldEqual, 3.5)
				So(res.Grade.Or(0), ShouldAlmostEqual, 6.625, 1e-9)
				So(res.Display.Or(0), ShouldEqual, 6.6)
			})
		})

		Convey("When nothing has been scored", func() {
			res := svc.ComputeGrade(ctx, scale, nil)

			Convey("Then every value should be absent", func() {
				So(res.Aggregate.Present(), ShouldBeFalse)
				So(res.Grade.Present(), ShouldBeFalse)
				So(res.Display.Present(), ShouldBeFalse)
			})
		})

		Convey("When the scale is degenerate", func() {
			res := svc.ComputeGrade(ctx, grading.Scale{Min: 2, Max: 2}, []grading.Item{{Score: 2, Weight: 1}})

			Convey("Then only the aggregate should be present", func() {
				So(res.Aggregate.Or(0), ShouldEqual, 2.0)
				So(res.Grade.Present(), ShouldBeFalse)
			})
		})
	})
}

func TestService_AggregateCategories(t *testing.T) {
	Convey("Given OMZA criteria with a student override", t, func() {
		svc := service.New()
		req := service.CategoryRequest{
			Scale: grading.Scale{Min: 1, Max: 5},
			Criteria: []grading.Criterion{
				{ID: "o", Weight: 1, Category: "Organiseren"},
				{ID: "m", Weight: 1, Category: "Meedoen"},
				{ID: "z", Weight: 1, Category: "Zelfvertrouwen"},
				{ID: "a", Weight: 1, Category: "Autonomie"},
			},
			Scores:    grading.ScoreMap{"o": 2, "m": 3, "z": 4},
			Overrides: grading.ScoreMap{"o": 5},
		}

		Convey("When reporting on the raw scale", func() {
			res := svc.AggregateCategories(context.Background(), req)

			Convey("Then the override should replace the team score", func() {
				So(res.Categories["organiseren"], ShouldEqual, 5.0)
				So(res.Categories, ShouldHaveLength, 3)
				So(res.Overall.Or(0), ShouldEqual, 4.0)
				So(res.OverallGrade.Or(0), ShouldEqual, 7.8)
			})

			Convey("And the team scores should not be mutated", func() {
				So(req.Scores["o"], ShouldEqual, 2.0)
			})
		})

		Convey("When mapping categories onto grades", func() {
			req.MapToGrade = true
			res := svc.AggregateCategories(context.Background(), req)

			Convey("Then category values should be on the 1-10 curve", func() {
				So(res.Categories["organiseren"], ShouldEqual, 10.0)
				So(res.Categories["meedoen"], ShouldEqual, 5.5)
			})
		})
	})
}

func TestService_Resolve(t *testing.T) {
	Convey("Given a service with a logger and a recorder", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithOutput(&buf)), ShouldBeNil)
		So(logger.SetLevelString("info"), ShouldBeNil)
		rec := newFakeRecorder()
		svc := service.New(service.WithLogger(logger.Get()), service.WithRecorder(rec))
		ctx := context.Background()

		Convey("When the factor pair is invalid", func() {
			res := svc.Resolve(ctx, "s-17", resolver.Candidates{
				GroupGrade:       types.Some(7.0),
				CorrectionFactor: types.Some(-1.0),
				Suggested:        types.Some(5.5),
			})

			Convey("Then the suggested grade should be used", func() {
				So(res.Source, ShouldEqual, resolver.SourceSuggested)
				So(res.Value.Or(0), ShouldEqual, 5.5)
			})

			Convey("And the anomaly should be logged and counted", func() {
				So(buf.String(), ShouldContainSubstring, "grade candidate anomaly")
				So(buf.String(), ShouldContainSubstring, "student_id=s-17")
				So(rec.anomalies[string(resolver.FlagInvalidFactorPair)], ShouldEqual, 1)
				So(rec.resolutions[string(resolver.SourceSuggested)], ShouldEqual, 1)
				So(svc.GetStats()["anomalies"], ShouldEqual, int64(1))
			})
		})

		Convey("When candidates are clean", func() {
			res := svc.Resolve(ctx, "s-18", resolver.Candidates{Override: types.Some(6.0)})

			Convey("Then nothing should be logged", func() {
				So(res.Source, ShouldEqual, resolver.SourceOverride)
				So(buf.Len(), ShouldEqual, 0)
				So(rec.computations["resolve"], ShouldEqual, 1)
			})
		})
	})

	Convey("Given a service with a lower factor ceiling", t, func() {
		rec := newFakeRecorder()
		svc := service.New(service.WithFactorCeiling(1.5), service.WithRecorder(rec))

		Convey("Then a factor of 1.6 should be flagged but applied", func() {
			res := svc.Resolve(context.Background(), "s-1", resolver.Candidates{
				GroupGrade:       types.Some(5.0),
				CorrectionFactor: types.Some(1.6),
			})
			So(res.Value.Or(0), ShouldEqual, 8.0)
			So(rec.anomalies[string(resolver.FlagHighCorrectionFactor)], ShouldEqual, 1)
		})
	})
}

func TestService_Report(t *testing.T) {
	Convey("Given a cohort of students", t, func() {
		svc := service.New()
		students := []service.StudentCandidates{
			{StudentID: "a", Candidates: resolver.Candidates{Published: types.Some(8.0)}},
			{StudentID: "b", Candidates: resolver.Candidates{GroupGrade: types.Some(6.0), CorrectionFactor: types.Some(1.2)}},
			{StudentID: "c", Candidates: resolver.Candidates{Suggested: types.Some(4.0)}},
			{StudentID: "d"},
		}

		Convey("When reporting with the default threshold", func() {
			report := svc.Report(context.Background(), students, types.None())

			Convey("Then every student should be resolved in order", func() {
				So(report.Students, ShouldHaveLength, 4)
				So(report.Students[0].Source, ShouldEqual, resolver.SourcePublished)
				So(report.Students[1].Value.Or(0), ShouldEqual, 7.2)
				So(*report.Students[2].Passed, ShouldBeFalse)
				So(report.Students[3].Passed, ShouldBeNil)
			})

			Convey("And only present grades should be summarized", func() {
				So(report.Ungraded, ShouldEqual, 1)
				So(report.Summary.Count, ShouldEqual, 3)
				So(report.Summary.Median.Or(0), ShouldEqual, 7.2)
				So(report.PassRate.Or(0), ShouldEqual, 0.67)
				So(report.PassThreshold, ShouldEqual, 5.5)
			})
		})

		Convey("When reporting with a stricter threshold", func() {
			report := svc.Report(context.Background(), students, types.Some(7.5))

			Convey("Then the pass rate should use it", func() {
				So(report.PassRate.Or(0), ShouldEqual, 0.33)
				So(report.PassThreshold, ShouldEqual, 7.5)
			})
		})

		Convey("When the cohort is empty", func() {
			report := svc.Report(context.Background(), nil, types.None())

			Convey("Then the summary should be empty", func() {
				So(report.Summary.Count, ShouldEqual, 0)
				So(report.PassRate.Present(), ShouldBeFalse)
			})
		})
	})
}

func TestService_Concurrent(t *testing.T) {
	Convey("Given a shared service", t, func() {
		svc := service.New(service.WithRecorder(newFakeRecorder()))
		c := resolver.Candidates{GroupGrade: types.Some(6.5), CorrectionFactor: types.Some(1.1)}
		want := svc.Resolve(context.Background(), "x", c)

		Convey("Then concurrent calls should agree", func() {
			var wg sync.WaitGroup
			results := make([]resolver.Resolution, 64)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = svc.Resolve(context.Background(), "x", c)
				}(i)
			}
			wg.Wait()
			for _, r := range results {
				So(r.Value.Equal(want.Value), ShouldBeTrue)
			}
		})
	})
}

func TestService_Options(t *testing.T) {
	Convey("Given custom options", t, func() {
		svc := service.New(
			service.WithPassThreshold(6.0),
			service.WithGradeDecimals(2),
			service.WithLessonBlock(50*time.Minute),
		)

		Convey("Then they should be applied", func() {
			So(svc.PassThreshold(), ShouldEqual, 6.0)
			So(svc.LessonBlocks(6000), ShouldEqual, 2.0)
			So(svc.GetStats()["gradeDecimals"], ShouldEqual, 2)
		})

		Convey("And out-of-range options should be ignored", func() {
			d := service.New(service.WithPassThreshold(42), service.WithGradeDecimals(-3), service.WithLessonBlock(0))
			So(d.PassThreshold(), ShouldEqual, 5.5)
			So(d.LessonBlocks(4500), ShouldEqual, 1.0)
		})
	})
}

func TestService_WithGrading(t *testing.T) {
	Convey("Given a grading configuration", t, func() {
		g := config.New().Grading
		g.CorrectionFactorCeiling = 1.5
		g.PassThreshold = 6.5
		g.LessonBlockMinutes = 45
		svc := service.New(service.WithGrading(g))

		Convey("Then the service uses its values", func() {
			So(svc.PassThreshold(), ShouldEqual, 6.5)
			So(svc.LessonBlocks(2700), ShouldEqual, 1.0)
			So(svc.GetStats()["factorCeiling"], ShouldEqual, 1.5)
		})

		Convey("Then factors above the configured ceiling are flagged", func() {
			res := svc.Resolve(context.Background(), "s1", resolver.Candidates{
				GroupGrade:       types.Some(5.0),
				CorrectionFactor: types.Some(1.6),
			})
			So(res.Source, ShouldEqual, resolver.SourceGroupXFactor)
			So(res.Flagged(resolver.FlagHighCorrectionFactor), ShouldBeTrue)
		})
	})
}
