package scoring

import (
	"math"
	"sort"

	"github.com/riskstream/riskstream/internal/models"
)

// Rank orders the raw contribution map into the attribution list attached
// to a RiskEvent: descending absolute contribution, ties broken by the
// feature's position in the canonical FeatureVector field order. Pure;
// the ordering is fixed at event creation and never re-sorted.
func Rank(v models.FeatureVector, contributions map[string]float64) []models.FeatureAttribution {
	ranked := make([]models.FeatureAttribution, 0, len(contributions))
	for _, name := range models.FeatureOrder {
		c, ok := contributions[name]
		if !ok {
			continue
		}
		ranked = append(ranked, models.FeatureAttribution{
			Feature:      name,
			Value:        v.Value(name),
			Contribution: c,
		})
	}

	// Stable sort preserves canonical field order for equal magnitudes.
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Contribution) > math.Abs(ranked[j].Contribution)
	})

	return ranked
}
