package normalize

import "math"

// MaxStars is the top of the storefront rating scale.
const MaxStars = 5.0

// ToFiveStars rescales a 0-10 review score to 0-5, rounded to one decimal.
// Zero and NaN both mean "no score" and yield 0; callers that need to tell
// an unrated device from one rated zero must track that separately.
func ToFiveStars(score float64) float64 {
	if score == 0 || math.IsNaN(score) {
		return 0
	}
	return math.Round(score/2*10) / 10
}

// ClampStars bounds a rating to [0, MaxStars]. NaN becomes 0.
func ClampStars(r float64) float64 {
	switch {
	case math.IsNaN(r), r < 0:
		return 0
	case r > MaxStars:
		return MaxStars
	default:
		return r
	}
}
