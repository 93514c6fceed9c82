package grading

import "github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"

// Item is one scored criterion fed into the weighted average.
type Item struct {
	CriterionID string  `json:"criterion_id"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
}

// Aggregate returns the weighted mean of items: sum(score*weight)/sum(weight).
//
// Criteria without a recorded score must simply not appear in items; they
// count toward neither numerator nor denominator. An empty set or a zero
// total weight yields an absent result.
func Aggregate(items []Item) types.Float {
	var num, den float64
	for _, it := range items {
		num += it.Score * it.Weight
		den += it.Weight
	}
	if den == 0 {
		return types.None()
	}
	return types.Some(num / den)
}
