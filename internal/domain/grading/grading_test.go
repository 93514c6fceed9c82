package grading_test

import (
	"testing"
	"time"

	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/grading"
	. "github.com/smartystreets/goconvey/convey"
)

const epsilon = 1e-9

func TestToGrade(t *testing.T) {
	Convey("Given common rubric scales", t, func() {
		scales := []grading.Scale{{Min: 1, Max: 5}, {Min: 0, Max: 10}, {Min: 1, Max: 4}, {Min: -3, Max: 7}}

		Convey("Then the anchors should map onto 1, 5.5 and 10", func() {
			for _, s := range scales {
				So(grading.ToGrade(float64(s.Min), s).Or(0), ShouldAlmostEqual, 1.0, epsilon)
				So(grading.ToGrade(s.Mid(), s).Or(0), ShouldAlmostEqual, 5.5, epsilon)
				So(grading.ToGrade(float64(s.Max), s).Or(0), ShouldAlmostEqual, 10.0, epsilon)
			}
		})

		Convey("And the curve should be monotonic across the scale", func() {
			for _, s := range scales {
				prev := 0.0
				for a := float64(s.Min); a <= float64(s.Max); a += 0.05 {
					g := grading.ToGrade(a, s).Or(-1)
					So(g, ShouldBeGreaterThanOrEqualTo, prev)
					prev = g
				}
			}
		})

		Convey("And the curve should be continuous at the midpoint", func() {
			s := grading.Scale{Min: 1, Max: 5}
			below := grading.ToGrade(s.Mid()-1e-9, s).Or(0)
			above := grading.ToGrade(s.Mid()+1e-9, s).Or(0)
			So(above-below, ShouldBeLessThan, 1e-6)
		})
	})

	Convey("Given a 1-5 rubric", t, func() {
		s := grading.Scale{Min: 1, Max: 5}

		Convey("When mapping a score of 4", func() {
			g := grading.ToGrade(4, s)

			Convey("Then the upper segment should apply", func() {
				So(g.Or(0), ShouldAlmostEqual, 7.75, epsilon)
			})
		})

		Convey("When mapping a score of 2", func() {
			g := grading.ToGrade(2, s)

			Convey("Then the lower segment should apply", func() {
				So(g.Or(0), ShouldAlmostEqual, 3.25, epsilon)
			})
		})
	})

	Convey("Given a degenerate scale", t, func() {
		s := grading.Scale{Min: 3, Max: 3}

		Convey("Then the grade should be absent", func() {
			So(grading.ToGrade(3, s).Present(), ShouldBeFalse)
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given equally weighted items", t, func() {
		items := []grading.Item{
			{CriterionID: "a", Score: 2, Weight: 1},
			{CriterionID: "b", Score: 3, Weight: 1},
			{CriterionID: "c", Score: 5, Weight: 1},
		}

		Convey("Then the aggregate should be the arithmetic mean", func() {
			So(grading.Aggregate(items).Or(0), ShouldAlmostEqual, 10.0/3, epsilon)
		})
	})

	Convey("Given weighted items", t, func() {
		items := []grading.Item{
			{CriterionID: "a", Score: 4, Weight: 3},
			{CriterionID: "b", Score: 2, Weight: 1},
		}

		Convey("Then heavier criteria should dominate", func() {
			So(grading.Aggregate(items).Or(0), ShouldAlmostEqual, 3.5, epsilon)
		})
	})

	Convey("Given no items", t, func() {
		Convey("Then the aggregate should be absent", func() {
			So(grading.Aggregate(nil).Present(), ShouldBeFalse)
		})
	})

	Convey("Given items whose weights sum to zero", t, func() {
		items := []grading.Item{{CriterionID: "a", Score: 4, Weight: 0}}

		Convey("Then the aggregate should be absent", func() {
			So(grading.Aggregate(items).Present(), ShouldBeFalse)
		})
	})

	Convey("Given the same input twice", t, func() {
		items := []grading.Item{{Score: 3.3, Weight: 0.7}, {Score: 4.1, Weight: 1.9}}

		Convey("Then the results should be bit-identical", func() {
			So(grading.Aggregate(items).Equal(grading.Aggregate(items)), ShouldBeTrue)
		})
	})
}

func TestCategoryAggregation(t *testing.T) {
	criteria := []grading.Criterion{
		{ID: "o1", Weight: 1, Category: "Organiseren"},
		{ID: "o2", Weight: 2, Category: " organiseren "},
		{ID: "m1", Weight: 1, Category: "Meedoen"},
		{ID: "z1", Weight: 1, Category: "Zelfvertrouwen"},
		{ID: "x1", Weight: 1},
	}

	Convey("Given a partially scored rubric", t, func() {
		scores := grading.ScoreMap{"o1": 2, "o2": 5, "m1": 3, "x1": 4}

		Convey("When aggregating by category", func() {
			byCat := grading.AggregateByCategory(criteria, scores)

			Convey("Then labels should be grouped case-insensitively", func() {
				So(byCat, ShouldHaveLength, 2)
				So(byCat["organiseren"], ShouldAlmostEqual, 4.0, epsilon)
				So(byCat["meedoen"], ShouldAlmostEqual, 3.0, epsilon)
			})

			Convey("And fully unscored categories should be omitted", func() {
				_, ok := byCat["zelfvertrouwen"]
				So(ok, ShouldBeFalse)
			})

			Convey("And keys should sort deterministically", func() {
				So(grading.SortedCategories(byCat), ShouldResemble, []string{"meedoen", "organiseren"})
			})
		})

		Convey("When aggregating overall", func() {
			overall := grading.AggregateOverall(criteria, scores)

			Convey("Then uncategorized criteria should be included", func() {
				So(overall.Or(0), ShouldAlmostEqual, (2+10+3+4)/5.0, epsilon)
			})
		})

		Convey("When an unscored criterion is added", func() {
			extended := append(append([]grading.Criterion{}, criteria...), grading.Criterion{ID: "new", Weight: 5, Category: "meedoen"})

			Convey("Then neither aggregate should change", func() {
				So(grading.AggregateOverall(extended, scores).Equal(grading.AggregateOverall(criteria, scores)), ShouldBeTrue)
				So(grading.AggregateByCategory(extended, scores), ShouldResemble, grading.AggregateByCategory(criteria, scores))
			})
		})

		Convey("When mapping categories onto grades", func() {
			grades := grading.CategoryGrades(grading.AggregateByCategory(criteria, scores), grading.Scale{Min: 1, Max: 5})

			Convey("Then each category should be curved independently", func() {
				So(grades["meedoen"], ShouldAlmostEqual, 5.5, epsilon)
				So(grades["organiseren"], ShouldAlmostEqual, 7.75, epsilon)
			})
		})
	})

	Convey("Given nothing scored", t, func() {
		Convey("Then the map should be empty and overall absent", func() {
			So(grading.AggregateByCategory(criteria, grading.ScoreMap{}), ShouldBeEmpty)
			So(grading.AggregateOverall(criteria, nil).Present(), ShouldBeFalse)
		})
	})
}

func TestMergeOverrides(t *testing.T) {
	Convey("Given team scores and a student override", t, func() {
		team := grading.ScoreMap{"a": 3, "b": 4}
		student := grading.ScoreMap{"b": 1, "c": 5}

		merged := grading.MergeOverrides(team, student)

		Convey("Then the student score should win for that student", func() {
			So(merged, ShouldResemble, grading.ScoreMap{"a": 3, "b": 1, "c": 5})
		})

		Convey("And the team scores should be untouched", func() {
			So(team, ShouldResemble, grading.ScoreMap{"a": 3, "b": 4})
		})
	})
}

func TestRoundAndClamp(t *testing.T) {
	Convey("Given presentation helpers", t, func() {
		So(grading.Round(7.25, 1), ShouldEqual, 7.3)
		So(grading.Round(7.24, 1), ShouldEqual, 7.2)
		So(grading.Round(3.14159, 2), ShouldEqual, 3.14)
		So(grading.Round(3.7, -1), ShouldEqual, 3.7)
		So(grading.Clamp(12), ShouldEqual, 10.0)
		So(grading.Clamp(0.2), ShouldEqual, 1.0)
		So(grading.Clamp(6), ShouldEqual, 6.0)
	})
}

func TestLessonBlocks(t *testing.T) {
	Convey("Given accumulated attendance", t, func() {
		Convey("Then seconds should convert into 75 minute blocks", func() {
			So(grading.LessonBlocks(4500, grading.DefaultLessonBlock), ShouldEqual, 1.0)
			So(grading.LessonBlocks(9000+450, grading.DefaultLessonBlock), ShouldEqual, 2.1)
			So(grading.LessonBlocks(0, grading.DefaultLessonBlock), ShouldEqual, 0.0)
		})

		Convey("And a non-positive block should yield zero", func() {
			So(grading.LessonBlocks(4500, 0), ShouldEqual, 0.0)
			So(grading.LessonBlocks(4500, -time.Minute), ShouldEqual, 0.0)
		})
	})
}
