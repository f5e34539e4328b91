package pipeline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
)

func TestNextValuationBounds(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	last := contracts.PortfolioPoint{Day: 7, Value: 102000}

	for i := 0; i < 1000; i++ {
		next := NextValuation(last, r)

		assert.Equal(t, last.Day+1, next.Day)
		// factor is in (0.98, 1.03)
		assert.GreaterOrEqual(t, next.Value, int64(float64(last.Value)*0.98)-1)
		assert.LessOrEqual(t, next.Value, int64(float64(last.Value)*1.03)+1)

		last = next
	}
}

func TestNextValuationDeterministicForSeed(t *testing.T) {
	last := contracts.PortfolioPoint{Day: 7, Value: 102000}

	a := NextValuation(last, rand.New(rand.NewSource(42)))
	b := NextValuation(last, rand.New(rand.NewSource(42)))

	require.Equal(t, a, b)
}

func TestNextValuationNeverNegative(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	next := NextValuation(contracts.PortfolioPoint{Day: 1, Value: 0}, r)
	assert.Equal(t, int64(0), next.Value)
	assert.Equal(t, 2, next.Day)
}
