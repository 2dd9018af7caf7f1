package upstream

import (
	"fmt"

	"github.com/donaldgifford/device-compare/pkg/normalize"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// FormatExpertSources maps upstream review sources onto the storefront
// shape, keeping both the 0-5 and the original 0-10 score. Order is
// preserved. The result is never nil.
func FormatExpertSources(sources []ExpertSource) []domain.ExpertSource {
	out := make([]domain.ExpertSource, 0, len(sources))
	for _, s := range sources {
		out = append(out, domain.ExpertSource{
			Name:          s.Site,
			Score:         normalize.ToFiveStars(s.Score),
			OriginalScore: s.Score,
			URL:           s.URL,
		})
	}
	return out
}

// ProcessExpertView summarizes an expert view. It returns nil when there is
// no view or upstream counted zero reviews; views use nil to decide whether
// to render the expert panel at all.
func ProcessExpertView(view *ExpertView) *domain.ExpertData {
	if view == nil || view.ReviewCount == 0 {
		return nil
	}
	return &domain.ExpertData{
		AverageScore: normalize.ToFiveStars(view.ScoreAvg),
		Count:        view.ReviewCount,
		Sources:      FormatExpertSources(view.Sources),
	}
}

// AttachExpert sets the expert panel on p and takes the rating and review
// count from it. A nil panel leaves p unchanged.
func AttachExpert(p domain.Product, data *domain.ExpertData) domain.Product {
	if data == nil {
		return p
	}
	p.ExpertData = data
	p.Rating = normalize.ClampStars(data.AverageScore)
	p.Reviews = expertReviews(data.Count)
	return p
}

func expertReviews(n int) string {
	return fmt.Sprintf("%d Expert Reviews", n)
}
