// Package grading turns per-criterion rubric scores into canonical 1-10 grades.
//
// Everything in this package is a pure function over values the caller has
// already loaded. Missing data is reported as an absent types.Float.
package grading

import (
	"math"

	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
)

// Canonical grade curve anchors.
const (
	MinGrade  = 1.0
	PassGrade = 5.5
	MaxGrade  = 10.0

	segmentSpan = PassGrade - MinGrade // both halves of the curve cover 4.5 grade points
)

// Scale is the raw score domain of a rubric.
type Scale struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Mid returns the rubric midpoint, which maps onto the pass boundary.
func (s Scale) Mid() float64 {
	return (float64(s.Min) + float64(s.Max)) / 2
}

// Degenerate reports whether the scale has no width.
func (s Scale) Degenerate() bool { return s.Min == s.Max }

// ToGrade maps an aggregate on scale onto the 1-10 grade curve.
//
// The curve has two linear segments: [min, mid] onto [1, 5.5] and
// (mid, max] onto (5.5, 10]. The result is not rounded. A degenerate scale
// yields an absent grade.
func ToGrade(aggregate float64, scale Scale) types.Float {
	if scale.Degenerate() {
		return types.None()
	}
	lo, hi, mid := float64(scale.Min), float64(scale.Max), scale.Mid()
	if aggregate <= mid {
		return types.Some(MinGrade + (aggregate-lo)/(mid-lo)*segmentSpan)
	}
	return types.Some(PassGrade + (aggregate-mid)/(hi-mid)*segmentSpan)
}

// GradeOf maps an optional aggregate; absent in, absent out.
func GradeOf(aggregate types.Float, scale Scale) types.Float {
	v, ok := aggregate.Get()
	if !ok {
		return types.None()
	}
	return ToGrade(v, scale)
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Clamp limits v to the canonical grade range.
func Clamp(v float64) float64 {
	return math.Max(MinGrade, math.Min(MaxGrade, v))
}
