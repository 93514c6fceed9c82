// Package stats computes descriptive statistics over a cohort of grades or
// category sub-scores.
package stats

import (
	"math"
	"sort"

	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/grading"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
)

// reportDecimals is the precision of every reported statistic.
const reportDecimals = 2

// DefaultPassThreshold is the lowest passing grade.
const DefaultPassThreshold = grading.PassGrade

// Summary describes one population. All fields except Count are absent for
// an empty population.
type Summary struct {
	Count  int         `json:"count"`
	Mean   types.Float `json:"mean"`
	Median types.Float `json:"median"`
	P10    types.Float `json:"p10"`
	P25    types.Float `json:"p25"`
	P75    types.Float `json:"p75"`
	P90    types.Float `json:"p90"`
	Min    types.Float `json:"min"`
	Max    types.Float `json:"max"`
	IQR    types.Float `json:"iqr"`
}

// Summarize computes the summary of values. values is not modified.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := Sorted(values)
	p25, p75 := Percentile(sorted, 25), Percentile(sorted, 75)

	report := func(v float64) types.Float { return types.Some(grading.Round(v, reportDecimals)) }
	return Summary{
		Count:  len(sorted),
		Mean:   report(mean(sorted)),
		Median: report(Median(sorted)),
		P10:    report(Percentile(sorted, 10)),
		P25:    report(p25),
		P75:    report(p75),
		P90:    report(Percentile(sorted, 90)),
		Min:    report(sorted[0]),
		Max:    report(sorted[len(sorted)-1]),
		IQR:    report(p75 - p25),
	}
}

// SummarizeGroups summarizes each named population independently.
func SummarizeGroups(groups map[string][]float64) map[string]Summary {
	out := make(map[string]Summary, len(groups))
	for name, values := range groups {
		out[name] = Summarize(values)
	}
	return out
}

// Sorted returns an ascending copy of values.
func Sorted(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// Median returns the middle of an ascending slice, averaging the two middle
// values for even lengths. sorted must be non-empty.
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile interpolates linearly between closest ranks:
// k = (n-1)*p/100, result = data[f]*(c-k) + data[c]*(k-f) with f = floor(k)
// and c = min(f+1, n-1). sorted must be ascending and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	k := float64(n-1) * p / 100
	f := int(math.Floor(k))
	c := f + 1
	if c > n-1 {
		c = n - 1
	}
	if f == c {
		return sorted[f]
	}
	return sorted[f]*(float64(c)-k) + sorted[c]*(k-float64(f))
}

// PassRate returns the share of values at or above threshold, rounded to two
// decimals. An empty population yields an absent rate.
func PassRate(values []float64, threshold float64) types.Float {
	if len(values) == 0 {
		return types.None()
	}
	passed := 0
	for _, v := range values {
		if v >= threshold {
			passed++
		}
	}
	return types.Some(grading.Round(float64(passed)/float64(len(values)), reportDecimals))
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
