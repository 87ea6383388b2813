package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProjectEmissionsProRataShare(t *testing.T) {
	// 1% of the pool over 30 days of 5000 tokens/day
	got := ProjectEmissions(10000, 1_000_000, 5000, 30)
	require.InDelta(t, 1500.0, got, 1e-9)
}

func TestProjectEmissionsExactlyLinear(t *testing.T) {
	base := ProjectEmissions(1000, 1_000_000, 5000, 15)

	require.Equal(t, 2*base, ProjectEmissions(2000, 1_000_000, 5000, 15))
	require.Equal(t, 2*base, ProjectEmissions(1000, 1_000_000, 5000, 30))
	require.Equal(t, 4*base, ProjectEmissions(2000, 1_000_000, 5000, 30))
}

func TestProjectEmissionsDegenerateInputs(t *testing.T) {
	require.Zero(t, ProjectEmissions(1000, 0, 5000, 30))
	require.Zero(t, ProjectEmissions(1000, -1, 5000, 30))
	require.Zero(t, ProjectEmissions(0, 1_000_000, 5000, 30))
	require.Zero(t, ProjectEmissions(1000, 1_000_000, 0, 30))
	require.Zero(t, ProjectEmissions(1000, 1_000_000, 5000, 0))
	require.Zero(t, ProjectEmissions(1000, 1_000_000, math.NaN(), 30))
}

func TestCalculateEmissionAPR(t *testing.T) {
	// 5000 tokens/day at $2 against $1M TVL: 3650000/1000000 = 3.65
	require.InDelta(t, 3.65, CalculateEmissionAPR(5000, 2, 1_000_000), 1e-9)
	require.Zero(t, CalculateEmissionAPR(5000, 2, 0))
	require.Zero(t, CalculateEmissionAPR(0, 2, 1_000_000))
	require.Zero(t, CalculateEmissionAPR(5000, 0, 1_000_000))
}

func TestCalculateStrategyValueEvenSplit(t *testing.T) {
	sv := CalculateStrategyValue(1000, 0.5, 0.5)

	require.Equal(t, 500.0, sv.LockAmount)
	require.Equal(t, 500.0, sv.RedeemAmount)
	require.Equal(t, 250.0, sv.LockValue)
	require.Equal(t, 125.0, sv.RedeemValue)
	require.Equal(t, 375.0, sv.TotalValue)
	require.Equal(t, 1.5, sv.ValueMultiplier)
}

func TestCalculateStrategyValueMultiplierEndpoints(t *testing.T) {
	lockAll := CalculateStrategyValue(1000, 2, 1)
	require.Equal(t, 2.0, lockAll.ValueMultiplier)
	require.Equal(t, 2000.0, lockAll.TotalValue)

	redeemAll := CalculateStrategyValue(1000, 2, 0)
	require.Equal(t, 1.0, redeemAll.ValueMultiplier)
	require.Equal(t, 1000.0, redeemAll.TotalValue)
}

func TestCalculateStrategyValueClampsFraction(t *testing.T) {
	require.Equal(t, CalculateStrategyValue(1000, 2, 1), CalculateStrategyValue(1000, 2, 1.7))
	require.Equal(t, CalculateStrategyValue(1000, 2, 0), CalculateStrategyValue(1000, 2, -0.3))
}

func TestCalculateStrategyValueDegenerateInputs(t *testing.T) {
	require.Equal(t, StrategyValue{}, CalculateStrategyValue(0, 2, 0.5))
	require.Equal(t, StrategyValue{}, CalculateStrategyValue(1000, 0, 0.5))
	require.Equal(t, StrategyValue{}, CalculateStrategyValue(-5, 2, 0.5))
	require.Equal(t, StrategyValue{}, CalculateStrategyValue(math.NaN(), 2, 0.5))
	require.Equal(t, StrategyValue{}, CalculateStrategyValue(1000, 2, math.NaN()))
}

func TestCompareStrategies(t *testing.T) {
	lockHeavy := CalculateStrategyValue(1000, 2, 0.8)   // 1800
	redeemHeavy := CalculateStrategyValue(1000, 2, 0.2) // 1200

	cmp := CompareStrategies(lockHeavy, redeemHeavy)
	require.Equal(t, 600.0, cmp.ValueDiff)
	require.Equal(t, 50.0, cmp.PercentDiff)
	require.Equal(t, 1, cmp.Winner)

	flipped := CompareStrategies(redeemHeavy, lockHeavy)
	require.Equal(t, -600.0, flipped.ValueDiff)
	require.Equal(t, 2, flipped.Winner)
}

func TestCompareStrategiesTieRequiresExactZero(t *testing.T) {
	a := CalculateStrategyValue(1000, 2, 0.5)
	tie := CompareStrategies(a, a)
	require.Equal(t, 0, tie.Winner)
	require.Zero(t, tie.ValueDiff)

	// even a vanishing difference picks a winner
	b := a
	b.TotalValue = a.TotalValue + 1e-12
	require.Equal(t, 2, CompareStrategies(a, b).Winner)
}

func TestCompareStrategiesZeroBaseline(t *testing.T) {
	a := CalculateStrategyValue(1000, 2, 0.5)
	cmp := CompareStrategies(a, StrategyValue{})
	require.Zero(t, cmp.PercentDiff)
	require.Equal(t, 1, cmp.Winner)
}
