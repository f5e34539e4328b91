package pipeline

import (
	"math"
	"math/rand"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
)

// NextValuation computes the next portfolio sample from the last one.
// The perturbation is a multiplicative change drawn uniformly from
// (0.98, 1.03): a bounded spread with slight upward expected drift.
// Values are rounded to whole dollars and never go negative.
func NextValuation(last contracts.PortfolioPoint, r *rand.Rand) contracts.PortfolioPoint {
	factor := 1 + (r.Float64()-0.4)/20

	value := int64(math.Round(float64(last.Value) * factor))
	if value < 0 {
		value = 0
	}

	return contracts.PortfolioPoint{
		Day:   last.Day + 1,
		Value: value,
	}
}
