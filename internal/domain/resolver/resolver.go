// Package resolver picks the one authoritative grade for an (evaluation,
// student) pair out of several independently stored candidates.
package resolver

import (
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/grading"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
)

// DefaultFactorCeiling is the largest correction factor considered usual.
// Larger factors are still applied but flagged.
const DefaultFactorCeiling = 2.0

// gradeDecimals is the precision of a group grade times correction factor.
const gradeDecimals = 1

// Source identifies the candidate that produced a resolved grade.
type Source string

// Candidate sources, in priority order.
const (
	SourcePublished    Source = "published"
	SourceOverride     Source = "override"
	SourceGroupXFactor Source = "group_x_factor"
	SourceSuggested    Source = "suggested"
	SourceNone         Source = "none"
)

// Flag marks a policy anomaly noticed while resolving. Flags never fail a
// resolution.
type Flag string

// Anomaly flags.
const (
	// FlagInvalidFactorPair: group grade or correction factor is <= 0; the pair was skipped.
	FlagInvalidFactorPair Flag = "invalid_factor_pair"
	// FlagIncompleteFactorPair: only one half of the pair is stored; the pair was skipped.
	FlagIncompleteFactorPair Flag = "incomplete_factor_pair"
	// FlagHighCorrectionFactor: factor above the ceiling; used as entered.
	FlagHighCorrectionFactor Flag = "high_correction_factor"
	// FlagClamped: the product fell outside 1-10 and was clamped.
	FlagClamped Flag = "clamped"
)

// Candidates is the stored candidate set for one (evaluation, student) pair.
// Every field is on the 1-10 scale except CorrectionFactor.
type Candidates struct {
	Published        types.Float `json:"published_grade"`
	Override         types.Float `json:"direct_override"`
	GroupGrade       types.Float `json:"group_grade"`
	CorrectionFactor types.Float `json:"correction_factor"`
	Suggested        types.Float `json:"suggested_grade"`
}

// Merge overlays a published-grades row onto a working-grades row: any field
// present in published wins.
func Merge(published, working Candidates) Candidates {
	pick := func(p, w types.Float) types.Float {
		if p.Present() {
			return p
		}
		return w
	}
	return Candidates{
		Published:        pick(published.Published, working.Published),
		Override:         pick(published.Override, working.Override),
		GroupGrade:       pick(published.GroupGrade, working.GroupGrade),
		CorrectionFactor: pick(published.CorrectionFactor, working.CorrectionFactor),
		Suggested:        pick(published.Suggested, working.Suggested),
	}
}

// Resolution is the authoritative grade and the candidate it came from.
type Resolution struct {
	Value  types.Float `json:"value"`
	Source Source      `json:"source"`
	Flags  []Flag      `json:"flags,omitempty"`
}

// Flagged reports whether f was raised during resolution.
func (r Resolution) Flagged(f Flag) bool {
	for _, got := range r.Flags {
		if got == f {
			return true
		}
	}
	return false
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithFactorCeiling sets the correction factor above which a factor is flagged.
func WithFactorCeiling(ceiling float64) Option {
	return func(r *Resolver) {
		if ceiling > 0 {
			r.factorCeiling = ceiling
		}
	}
}

// Resolver evaluates the candidate priority chain. It holds only immutable
// configuration and is safe for concurrent use.
type Resolver struct {
	factorCeiling float64
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{factorCeiling: DefaultFactorCeiling}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FactorCeiling returns the configured ceiling.
func (r *Resolver) FactorCeiling() float64 { return r.factorCeiling }

// Resolve walks the chain published > override > group x factor > suggested
// and returns the first usable candidate. No candidate yields an absent
// value with SourceNone.
func (r *Resolver) Resolve(c Candidates) Resolution {
	if v, ok := c.Published.Get(); ok {
		return Resolution{Value: types.Some(v), Source: SourcePublished}
	}
	if v, ok := c.Override.Get(); ok {
		return Resolution{Value: types.Some(v), Source: SourceOverride}
	}

	var flags []Flag
	group, hasGroup := c.GroupGrade.Get()
	factor, hasFactor := c.CorrectionFactor.Get()
	switch {
	case hasGroup && hasFactor && (group <= 0 || factor <= 0):
		flags = append(flags, FlagInvalidFactorPair)
	case hasGroup && hasFactor:
		if factor > r.factorCeiling {
			flags = append(flags, FlagHighCorrectionFactor)
		}
		v := grading.Round(group*factor, gradeDecimals)
		if clamped := grading.Clamp(v); clamped != v {
			flags = append(flags, FlagClamped)
			v = clamped
		}
		return Resolution{Value: types.Some(v), Source: SourceGroupXFactor, Flags: flags}
	case hasGroup || hasFactor:
		flags = append(flags, FlagIncompleteFactorPair)
	}

	if v, ok := c.Suggested.Get(); ok {
		return Resolution{Value: types.Some(v), Source: SourceSuggested, Flags: flags}
	}
	return Resolution{Value: types.None(), Source: SourceNone, Flags: flags}
}

// Resolve evaluates c with the default ceiling.
func Resolve(c Candidates) Resolution {
	return defaultResolver.Resolve(c)
}

var defaultResolver = New()
