package grading

import (
	"sort"
	"strings"

	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
)

// Criterion is rubric metadata for one scorable dimension.
type Criterion struct {
	ID       string  `json:"id"`
	Weight   float64 `json:"weight"`
	Category string  `json:"category,omitempty"`
}

// ScoreMap holds the recorded scores of one scoring context, keyed by criterion ID.
type ScoreMap map[string]float64

// CategoryKey normalizes a category label for grouping.
func CategoryKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// MergeOverrides returns the effective scores for a student: student-level
// scores replace team-level scores for the same criterion. Neither input is
// modified.
func MergeOverrides(team, student ScoreMap) ScoreMap {
	out := make(ScoreMap, len(team)+len(student))
	for id, v := range team {
		out[id] = v
	}
	for id, v := range student {
		out[id] = v
	}
	return out
}

// Items selects the scored criteria from criteria as aggregation items,
// preserving criteria order. Unscored criteria are left out.
func Items(criteria []Criterion, scores ScoreMap) []Item {
	items := make([]Item, 0, len(criteria))
	for _, c := range criteria {
		s, ok := scores[c.ID]
		if !ok {
			continue
		}
		items = append(items, Item{CriterionID: c.ID, Score: s, Weight: c.Weight})
	}
	return items
}

// AggregateByCategory returns one weighted aggregate per normalized category.
// Criteria without a category are skipped here; categories with no scored
// criterion are omitted.
func AggregateByCategory(criteria []Criterion, scores ScoreMap) map[string]float64 {
	groups := make(map[string][]Criterion)
	for _, c := range criteria {
		key := CategoryKey(c.Category)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], c)
	}

	out := make(map[string]float64, len(groups))
	for key, group := range groups {
		if v, ok := Aggregate(Items(group, scores)).Get(); ok {
			out[key] = v
		}
	}
	return out
}

// AggregateOverall returns the weighted aggregate across every criterion,
// categorized or not.
func AggregateOverall(criteria []Criterion, scores ScoreMap) types.Float {
	return Aggregate(Items(criteria, scores))
}

// CategoryGrades maps each category aggregate onto the 1-10 curve. A
// degenerate scale yields an empty map.
func CategoryGrades(categories map[string]float64, scale Scale) map[string]float64 {
	out := make(map[string]float64, len(categories))
	for key, v := range categories {
		if g, ok := ToGrade(v, scale).Get(); ok {
			out[key] = g
		}
	}
	return out
}

// SortedCategories returns the category keys in lexical order.
func SortedCategories(categories map[string]float64) []string {
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
