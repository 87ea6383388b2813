/*

This file folds the per-scenario projections into portfolio-level totals and
deposit-weighted average rates.

*/

package engine

import (
	"github.com/rangelab/rangecast/internal/logger"
	"github.com/rangelab/rangecast/internal/types"
)

var portfolioLogger = logger.GetForComponent("portfolio_aggregator")

// MaxScenarios is the number of concurrent comparison slots the caller may
// aggregate.
const MaxScenarios = 3

// Aggregate combines projections with their scenario deposits into a
// portfolio summary. Component totals are plain sums; average rates are
// deposit-weighted and defined as 0 when the total deposit is zero.
//
// A zero-valued projection (e.g. a comparison slot with no resolved pool)
// still counts toward ScenarioCount and contributes its deposit weight;
// empty slots are part of the comparison, not an error. Mismatched slice
// lengths are a caller bug: aggregation truncates to the shorter slice and
// logs a warning rather than failing.
func Aggregate(projections []types.Projection, deposits []float64) types.PortfolioSummary {
	n := len(projections)
	if len(deposits) != n {
		portfolioLogger.Warn().
			Int("projections", n).
			Int("deposits", len(deposits)).
			Msg("Projection and deposit counts differ, truncating to the shorter")
		if len(deposits) < n {
			n = len(deposits)
		}
	}

	summary := types.PortfolioSummary{ScenarioCount: n}

	var weightedApr, weightedLeverage float64
	for i := 0; i < n; i++ {
		p := projections[i]
		deposit := deposits[i]
		if deposit < 0 {
			deposit = 0
		}

		summary.TotalDepositUSD += deposit
		summary.TotalFeeYieldUSD += p.FeeYieldUSD
		summary.TotalEmissionYieldUSD += p.EmissionYieldUSD
		summary.TotalExternalRewardUSD += p.ExternalRewardYieldUSD
		summary.TotalILUSD += p.ILUSD
		summary.TotalNetYieldUSD += p.NetYieldUSD

		weightedApr += p.EstimatedAprPct * deposit
		weightedLeverage += p.Leverage * deposit
	}

	if summary.TotalDepositUSD > 0 {
		summary.AvgAprPct = weightedApr / summary.TotalDepositUSD
		summary.AvgLeverage = weightedLeverage / summary.TotalDepositUSD
		summary.AvgNetRatePct = summary.TotalNetYieldUSD / summary.TotalDepositUSD * 100
	}

	portfolioLogger.Debug().
		Int("scenarioCount", summary.ScenarioCount).
		Float64("totalDepositUsd", summary.TotalDepositUSD).
		Float64("totalNetYieldUsd", summary.TotalNetYieldUSD).
		Float64("avgAprPct", summary.AvgAprPct).
		Msg("Portfolio aggregated")

	return summary
}
