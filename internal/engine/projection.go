/*

This file contains the main function for projecting a scenario against a pool
snapshot. It orchestrates the converter, liquidity estimator, leverage engine,
impermanent loss engine, and emission projector into a single Projection.

*/

package engine

import (
	"errors"
	"math"

	"github.com/rangelab/rangecast/internal/logger"
	"github.com/rangelab/rangecast/internal/types"
	"github.com/rangelab/rangecast/internal/utils"
)

var (
	ErrInvalidScenario = errors.New("invalid scenario")
	ErrEmissionAmount  = errors.New("emission amount conversion failed")
)

var projectionLogger = logger.GetForComponent("projection_builder")

const daysPerYear = 365.0

// BuildProjection computes the full yield and risk projection for one
// scenario against one pool snapshot. rewardTokenPriceUsd is the spot USD
// price of the pool's emission token, supplied by the price collaborator.
//
// Degenerate numeric inputs resolve to documented zero components; structural
// problems (an invalid tick range after rounding, a broken emission amount)
// propagate as errors because they indicate a caller bug. A current price
// outside the scenario's bounds is a normal outcome reported through
// Projection.InRange with all yield components forced to zero.
func BuildProjection(sc types.Scenario, pool types.PoolSnapshot, rewardTokenPriceUsd float64) (types.Projection, error) {
	if sc.DepositUSD <= 0 || math.IsNaN(sc.DepositUSD) || math.IsInf(sc.DepositUSD, 0) {
		return types.Projection{}, errors.Join(ErrInvalidScenario, errors.New("deposit must be positive"))
	}
	if sc.TimelineDays <= 0 {
		return types.Projection{}, errors.Join(ErrInvalidScenario, errors.New("timeline must be positive"))
	}

	// The tick conversion is the structural gate: swapped or collapsed
	// bounds surface here instead of silently zeroing the projection.
	lowerTick, upperTick, err := TickRange(sc.PriceLow, sc.PriceHigh, pool.TokenA.Decimals, pool.TokenB.Decimals, pool.TickSpacing, pool.QuoteIsStable)
	if err != nil {
		return types.Projection{}, err
	}

	estimate := EstimateLiquidity(sc.DepositUSD, sc.PriceLow, sc.PriceHigh, pool)
	leverage := Leverage(pool.CurrentPrice, sc.PriceLow, sc.PriceHigh)

	projection := types.Projection{
		Slot:     sc.Slot,
		PoolID:   pool.ID,
		Leverage: leverage,
		InRange:  estimate.InRange,
	}

	// Yield rate: the override bypasses the computed pipeline entirely;
	// otherwise the reported range rate (or, without a gauge, the fee APR
	// derived from 24h fees) is rebased through the baseline leverage.
	if sc.AprOverride != nil {
		projection.EstimatedAprPct = *sc.AprOverride
	} else {
		reported := pool.ReportedAprPct
		if reported == 0 && !pool.HasGauge && pool.TvlUSD > 0 {
			reported = pool.Fees24hUSD * daysPerYear / pool.TvlUSD * 100
		}
		projection.EstimatedAprPct = EstimateRate(reported, pool.CurrentPrice, sc.PriceLow, sc.PriceHigh)
	}

	timeline := float64(sc.TimelineDays) / daysPerYear

	if estimate.InRange {
		projection.FeeYieldUSD = sc.DepositUSD * projection.EstimatedAprPct / 100 * timeline

		// Emission share, scaled out of its raw integer representation and
		// routed through the caller's lock/redeem split.
		if !pool.EmissionPerDay.IsNil() && pool.EmissionPerDay.IsPositive() {
			dailyEmission, err := utils.ScaleRawAmount(pool.EmissionPerDay, pool.RewardTokenDecimals)
			if err != nil {
				return types.Projection{}, errors.Join(ErrEmissionAmount, err)
			}
			rewardTokens := ProjectEmissions(sc.DepositUSD, pool.TvlUSD, dailyEmission, sc.TimelineDays)
			strategy := CalculateStrategyValue(rewardTokens, rewardTokenPriceUsd, sc.RewardSplitPct)
			projection.EmissionYieldUSD = strategy.TotalValue
		}

		projection.ExternalRewardYieldUSD = externalRewardYield(sc, pool, timeline)
	}

	// IL uses the exit price when the scenario pins one, otherwise the
	// current price (which prices the move at zero).
	p1 := pool.CurrentPrice
	if sc.ExitPrice != nil {
		p1 = *sc.ExitPrice
	}
	ilPct := CalculateConcentratedIL(pool.CurrentPrice, p1, sc.PriceLow, sc.PriceHigh)
	projection.ILUSD = CalculateILDollarValue(sc.DepositUSD, ilPct)

	projection.NetYieldUSD = projection.FeeYieldUSD + projection.EmissionYieldUSD + projection.ExternalRewardYieldUSD - projection.ILUSD

	if math.IsNaN(projection.NetYieldUSD) || math.IsInf(projection.NetYieldUSD, 0) {
		return types.Projection{}, errors.New("net yield calculation resulted in NaN or Inf")
	}

	projectionLogger.Debug().
		Int("slot", sc.Slot).
		Str("pool", string(pool.ID)).
		Int("lowerTick", lowerTick).
		Int("upperTick", upperTick).
		Bool("inRange", projection.InRange).
		Float64("leverage", projection.Leverage).
		Float64("estimatedAprPct", projection.EstimatedAprPct).
		Float64("feeYieldUsd", projection.FeeYieldUSD).
		Float64("emissionYieldUsd", projection.EmissionYieldUSD).
		Float64("externalRewardYieldUsd", projection.ExternalRewardYieldUSD).
		Float64("ilUsd", projection.ILUSD).
		Float64("netYieldUsd", projection.NetYieldUSD).
		Msg("Projection computed")

	return projection, nil
}

// externalRewardYield values the pool's external incentive streams over the
// timeline. Streams with a concrete emission schedule are valued pro-rata
// against TVL; streams that only report an APR fall back to the deposit's
// share of that rate.
func externalRewardYield(sc types.Scenario, pool types.PoolSnapshot, timeline float64) float64 {
	var total float64
	for _, stream := range pool.RewardList {
		if stream.EmissionsPerDay > 0 && stream.TokenPriceUSD > 0 && pool.TvlUSD > 0 {
			tokens := (sc.DepositUSD / pool.TvlUSD) * stream.EmissionsPerDay * float64(sc.TimelineDays)
			total += tokens * stream.TokenPriceUSD
			continue
		}
		if stream.AprPct > 0 {
			total += sc.DepositUSD * stream.AprPct / 100 * timeline
		}
	}
	return total
}
