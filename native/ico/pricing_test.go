package ico

import (
	"testing"

	"github.com/stretchr/testify/require"

	"icoledger/core/sale"
)

func tieredPhase() *sale.Phase {
	return &sale.Phase{
		Name:     "early",
		RaiseCap: 10_000,
		Tiers: []sale.PriceTier{
			{UpTo: 500, UnitPrice: 1},
			{UpTo: 0, UnitPrice: 2},
		},
	}
}

func TestPriceWithinFirstTier(t *testing.T) {
	cost, err := price(tieredPhase(), 1, 0, 400)
	require.NoError(t, err)
	require.Equal(t, uint64(400), cost)
}

func TestPriceCrossesTierBoundary(t *testing.T) {
	// 500 units at price 1, the remaining 1000 at price 2.
	cost, err := price(tieredPhase(), 1, 0, 1500)
	require.NoError(t, err)
	require.Equal(t, uint64(2500), cost)
}

func TestPriceStartsPastBoundary(t *testing.T) {
	cost, err := price(tieredPhase(), 1, 600, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(200), cost)
}

func TestPricePastLastBoundedTier(t *testing.T) {
	bounded := &sale.Phase{
		Name:     "early",
		RaiseCap: 500,
		Tiers:    []sale.PriceTier{{UpTo: 500, UnitPrice: 1}},
	}
	_, err := price(bounded, 1, 400, 200)
	require.ErrorIs(t, err, sale.ErrCapExceeded)
}

func TestPriceScaleRoundsUp(t *testing.T) {
	phase := &sale.Phase{
		Name:     "early",
		RaiseCap: 10_000,
		Tiers:    []sale.PriceTier{{UpTo: 0, UnitPrice: 3}},
	}
	// 3 * 3 / 2 = 4.5 rounds up to 5.
	cost, err := price(phase, 2, 0, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(5), cost)
}

func TestPriceZeroAmount(t *testing.T) {
	_, err := price(tieredPhase(), 1, 0, 0)
	require.ErrorIs(t, err, sale.ErrZeroAmount)
}

func TestMulDivRounding(t *testing.T) {
	down, err := mulDivFloor(10, 1, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(3), down)

	up, err := mulDivCeil(10, 1, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(4), up)

	_, err = mulDivFloor(1, 1, 0)
	require.ErrorIs(t, err, sale.ErrArithmeticOverflow)
}
