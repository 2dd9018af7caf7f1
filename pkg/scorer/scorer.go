package score

import (
	"math"
)

// Highlight tiers shown as a badge on product cards.
const (
	TierFlagship        = "FLAGSHIP"
	TierHighPerformance = "HIGH PERFORMANCE"
	TierGoodValue       = "GOOD VALUE"
)

// Thresholds holds the minimum tech score for each badge tier.
type Thresholds struct {
	Flagship        float64
	HighPerformance float64
}

// DefaultThresholds returns the storefront's badge cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Flagship:        92,
		HighPerformance: 85,
	}
}

// Highlight maps a tech score to a badge using the default thresholds.
func Highlight(techScore float64) string {
	return DefaultThresholds().Tier(techScore)
}

// Tier maps a tech score to a badge. NaN falls through to the lowest tier.
func (t Thresholds) Tier(techScore float64) string {
	switch {
	case techScore >= t.Flagship:
		return TierFlagship
	case techScore >= t.HighPerformance:
		return TierHighPerformance
	default:
		return TierGoodValue
	}
}

// BeebomScore rounds a tech score to the integer shown on cards, clamped to
// 0-100.
func BeebomScore(techScore float64) int {
	if math.IsNaN(techScore) || techScore <= 0 {
		return 0
	}
	s := int(math.Round(techScore))
	if s > 100 {
		s = 100
	}
	return s
}

// OldPrice is the struck-through list price: the current price marked up by
// 10%, rounded. A zero price stays zero.
func OldPrice(price int64) int64 {
	if price <= 0 {
		return 0
	}
	return int64(math.Round(float64(price) * 1.1))
}
