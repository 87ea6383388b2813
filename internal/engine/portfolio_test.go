package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rangelab/rangecast/internal/types"
)

func TestAggregateTotalsAndWeightedRates(t *testing.T) {
	projections := []types.Projection{
		{EstimatedAprPct: 50, Leverage: 5, FeeYieldUSD: 30, ILUSD: 20, NetYieldUSD: 10},
		{EstimatedAprPct: 100, Leverage: 10, FeeYieldUSD: 60, EmissionYieldUSD: 10, ILUSD: 30, NetYieldUSD: 40},
		{EstimatedAprPct: 20, Leverage: 2, FeeYieldUSD: 100, ExternalRewardYieldUSD: 5, ILUSD: 15, NetYieldUSD: 90},
	}
	deposits := []float64{1000, 2000, 3000}

	summary := Aggregate(projections, deposits)

	require.Equal(t, 3, summary.ScenarioCount)
	require.Equal(t, 6000.0, summary.TotalDepositUSD)
	require.Equal(t, 190.0, summary.TotalFeeYieldUSD)
	require.Equal(t, 10.0, summary.TotalEmissionYieldUSD)
	require.Equal(t, 5.0, summary.TotalExternalRewardUSD)
	require.Equal(t, 65.0, summary.TotalILUSD)
	require.Equal(t, 140.0, summary.TotalNetYieldUSD)

	// (50*1000 + 100*2000 + 20*3000) / 6000
	require.InDelta(t, 51.6667, summary.AvgAprPct, 1e-3)
	// (5*1000 + 10*2000 + 2*3000) / 6000
	require.InDelta(t, 5.1667, summary.AvgLeverage, 1e-3)
	// 140 / 6000 * 100
	require.InDelta(t, 2.3333, summary.AvgNetRatePct, 1e-3)
}

func TestAggregateEmptySlotsStillCount(t *testing.T) {
	projections := []types.Projection{
		{EstimatedAprPct: 50, Leverage: 5, NetYieldUSD: 10},
		{}, // unresolved comparison slot
	}
	summary := Aggregate(projections, []float64{1000, 2000})

	require.Equal(t, 2, summary.ScenarioCount)
	require.Equal(t, 3000.0, summary.TotalDepositUSD)
	// the empty slot drags the weighted averages down
	require.InDelta(t, 50.0*1000/3000, summary.AvgAprPct, 1e-9)
}

func TestAggregateZeroDepositsZeroRates(t *testing.T) {
	projections := []types.Projection{{EstimatedAprPct: 50, NetYieldUSD: 10}}
	summary := Aggregate(projections, []float64{0})

	require.Equal(t, 1, summary.ScenarioCount)
	require.Zero(t, summary.AvgAprPct)
	require.Zero(t, summary.AvgNetRatePct)
	require.Zero(t, summary.AvgLeverage)
	require.Equal(t, 10.0, summary.TotalNetYieldUSD)
}

func TestAggregateNegativeDepositTreatedAsZero(t *testing.T) {
	projections := []types.Projection{
		{EstimatedAprPct: 50, NetYieldUSD: 10},
		{EstimatedAprPct: 100, NetYieldUSD: 20},
	}
	summary := Aggregate(projections, []float64{-500, 1000})

	require.Equal(t, 1000.0, summary.TotalDepositUSD)
	require.InDelta(t, 100.0, summary.AvgAprPct, 1e-9)
}

func TestAggregateTruncatesMismatchedSlices(t *testing.T) {
	projections := []types.Projection{
		{NetYieldUSD: 10},
		{NetYieldUSD: 20},
		{NetYieldUSD: 30},
	}
	summary := Aggregate(projections, []float64{1000, 2000})

	require.Equal(t, 2, summary.ScenarioCount)
	require.Equal(t, 30.0, summary.TotalNetYieldUSD)
	require.Equal(t, 3000.0, summary.TotalDepositUSD)

	// more deposits than projections truncates the other way
	summary = Aggregate(projections[:1], []float64{1000, 2000})
	require.Equal(t, 1, summary.ScenarioCount)
	require.Equal(t, 1000.0, summary.TotalDepositUSD)
}

func TestAggregateEmptyInput(t *testing.T) {
	summary := Aggregate(nil, nil)
	require.Zero(t, summary.ScenarioCount)
	require.Zero(t, summary.TotalDepositUSD)
	require.Zero(t, summary.AvgAprPct)
}
