// Package ranking provides pure calculation functions for credibility-adjusted
// business scores. All functions are stateless and perform no I/O.
package ranking

import "math"

// Default Bayesian parameters. PriorRating (C) is the assumed global average
// rating; DampingFactor (m) is the review count at which the upstream rating
// and the prior carry equal weight.
const (
	DefaultPriorRating   = 3.8
	DefaultDampingFactor = 150
)

// Scorer computes Bayesian-average credibility scores.
type Scorer struct {
	prior   float64
	damping float64
}

// NewScorer creates a Scorer with the given prior (C) and damping factor (m).
// A non-positive damping factor falls back to the default so the formula
// never divides by zero.
func NewScorer(prior, damping float64) *Scorer {
	if damping <= 0 {
		damping = DefaultDampingFactor
	}
	return &Scorer{prior: prior, damping: damping}
}

// Score computes the credibility-adjusted score for a rating backed by
// reviewCount reviews:
//
//	weight = v/(v+m)
//	score  = weight*R + (1-weight)*C
//
// With zero reviews the score equals the prior; as reviews grow the score
// converges to the raw rating. The result always lies between the rating and
// the prior. A high rating on a handful of reviews therefore ranks below a
// slightly lower rating backed by hundreds of reviews.
func (s *Scorer) Score(rating float64, reviewCount int) float64 {
	v := float64(reviewCount)
	if v < 0 {
		v = 0
	}
	weight := v / (v + s.damping)
	return weight*rating + (1-weight)*s.prior
}

// DisplayScore rounds a score to two decimal places for presentation.
// Sorting must use the unrounded Score to avoid false ties.
func DisplayScore(score float64) float64 {
	return math.Round(score*100) / 100
}
