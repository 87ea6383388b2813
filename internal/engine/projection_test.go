package engine

import (
	"math"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/rangelab/rangecast/internal/types"
)

func testScenario() types.Scenario {
	return types.Scenario{
		Slot:           1,
		PoolID:         "osmo-usdc",
		DepositUSD:     10_000,
		PriceLow:       0.9,
		PriceHigh:      1.1,
		TimelineDays:   30,
		RewardSplitPct: 0.5,
	}
}

func TestBuildProjectionInRange(t *testing.T) {
	pool := testPool(1.0)
	pool.ReportedAprPct = 200
	pool.HasGauge = true
	sc := testScenario()

	proj, err := BuildProjection(sc, pool, 0)
	require.NoError(t, err)

	require.Equal(t, sc.Slot, proj.Slot)
	require.Equal(t, pool.ID, proj.PoolID)
	require.True(t, proj.InRange)
	require.InDelta(t, 10.0, proj.Leverage, 0.05)
	// 200% reported / baseline 20 = 10% base, amplified ~10x by the range
	require.InDelta(t, 100.0, proj.EstimatedAprPct, 1.0)
	require.InDelta(t, sc.DepositUSD*proj.EstimatedAprPct/100*30/365, proj.FeeYieldUSD, 1e-9)
	require.Zero(t, proj.ILUSD) // no exit price means no move
	require.Equal(t, proj.FeeYieldUSD+proj.EmissionYieldUSD+proj.ExternalRewardYieldUSD-proj.ILUSD, proj.NetYieldUSD)
}

func TestBuildProjectionOutOfRange(t *testing.T) {
	pool := testPool(1.5)
	pool.ReportedAprPct = 200
	pool.HasGauge = true
	pool.EmissionPerDay = sdkmath.NewInt(5_000_000_000)
	pool.RewardTokenDecimals = 6
	sc := testScenario()

	proj, err := BuildProjection(sc, pool, 2.0)
	require.NoError(t, err)

	require.False(t, proj.InRange)
	require.Zero(t, proj.FeeYieldUSD)
	require.Zero(t, proj.EmissionYieldUSD)
	require.Zero(t, proj.ExternalRewardYieldUSD)
}

func TestBuildProjectionExitPriceRealizesIL(t *testing.T) {
	pool := testPool(1.0)
	pool.HasGauge = true
	sc := testScenario()
	exit := 1.08
	sc.ExitPrice = &exit

	proj, err := BuildProjection(sc, pool, 0)
	require.NoError(t, err)

	wantIL := CalculateILDollarValue(sc.DepositUSD, CalculateConcentratedIL(1.0, exit, sc.PriceLow, sc.PriceHigh))
	require.Greater(t, proj.ILUSD, 0.0)
	require.InDelta(t, wantIL, proj.ILUSD, 1e-9)
}

func TestBuildProjectionAprOverrideBypassesPipeline(t *testing.T) {
	pool := testPool(1.0)
	pool.ReportedAprPct = 200
	pool.HasGauge = true
	sc := testScenario()
	override := 42.0
	sc.AprOverride = &override

	proj, err := BuildProjection(sc, pool, 0)
	require.NoError(t, err)
	require.Equal(t, 42.0, proj.EstimatedAprPct)
}

func TestBuildProjectionFeeAprFallbackWithoutGauge(t *testing.T) {
	pool := testPool(1.0)
	pool.Fees24hUSD = 1000 // 36.5% fee APR against $1M TVL
	sc := testScenario()
	sc.PriceLow = 0.95
	sc.PriceHigh = 1.05

	proj, err := BuildProjection(sc, pool, 0)
	require.NoError(t, err)

	// fee-derived 36.5% rebased through the baseline and re-amplified ~20x
	require.InDelta(t, 36.5, proj.EstimatedAprPct, 2.0)
}

func TestBuildProjectionEmissionYield(t *testing.T) {
	pool := testPool(1.0)
	pool.ReportedAprPct = 100
	pool.HasGauge = true
	pool.EmissionPerDay = sdkmath.NewInt(5_000_000_000) // 5000 tokens at 6 decimals
	pool.RewardTokenDecimals = 6
	sc := testScenario()

	proj, err := BuildProjection(sc, pool, 2.0)
	require.NoError(t, err)

	// 1% pool share * 5000/day * 30d = 1500 tokens, half locked at $2,
	// half redeemed at the fixed discount
	want := CalculateStrategyValue(1500, 2.0, 0.5).TotalValue
	require.InDelta(t, want, proj.EmissionYieldUSD, 1e-6)
}

func TestBuildProjectionExternalRewardStreams(t *testing.T) {
	pool := testPool(1.0)
	pool.HasGauge = true
	pool.RewardList = []types.RewardStream{
		{EmissionsPerDay: 100, TokenPriceUSD: 3},
		{AprPct: 36.5},
	}
	sc := testScenario()

	proj, err := BuildProjection(sc, pool, 0)
	require.NoError(t, err)

	// pro-rata stream: 1% * 100/day * 30d * $3 = 90; APR stream: 10000 * 36.5% * 30/365 = 300
	require.InDelta(t, 390.0, proj.ExternalRewardYieldUSD, 1e-6)
}

func TestBuildProjectionStructuralErrors(t *testing.T) {
	pool := testPool(1.0)

	sc := testScenario()
	sc.PriceLow, sc.PriceHigh = sc.PriceHigh, sc.PriceLow
	_, err := BuildProjection(sc, pool, 0)
	require.ErrorIs(t, err, ErrInvalidRange)

	sc = testScenario()
	sc.DepositUSD = 0
	_, err = BuildProjection(sc, pool, 0)
	require.ErrorIs(t, err, ErrInvalidScenario)

	sc = testScenario()
	sc.DepositUSD = math.NaN()
	_, err = BuildProjection(sc, pool, 0)
	require.ErrorIs(t, err, ErrInvalidScenario)

	sc = testScenario()
	sc.TimelineDays = 0
	_, err = BuildProjection(sc, pool, 0)
	require.ErrorIs(t, err, ErrInvalidScenario)
}
