/*

This file projects a deposit's pro-rata share of periodic reward emissions
and values the two ways of realizing an emitted reward token: locking at full
price versus redeeming immediately at a fixed discount.

*/

package engine

import "math"

// RedeemDiscountFactor is the fixed payout multiplier of the immediate-redeem
// path: redeemed tokens realize half their market value. Locking realizes
// full value, so "lock all" values exactly twice the 100%-redeem baseline.
const RedeemDiscountFactor = 0.5

// ProjectEmissions computes the deposit's pro-rata share of daily emissions
// over the timeline:
//
//	share = (depositUsd / poolTvlUsd) * dailyEmissionAmount * timelineDays
//
// The result is exactly linear in both deposit size and timeline. Returns 0
// when the pool TVL or the deposit is non-positive; a degenerate share is
// never extrapolated.
func ProjectEmissions(depositUsd, poolTvlUsd, dailyEmissionAmount float64, timelineDays int) float64 {
	if poolTvlUsd <= 0 || depositUsd <= 0 || timelineDays <= 0 {
		return 0
	}
	if dailyEmissionAmount <= 0 || math.IsNaN(dailyEmissionAmount) || math.IsInf(dailyEmissionAmount, 0) {
		return 0
	}
	return (depositUsd / poolTvlUsd) * dailyEmissionAmount * float64(timelineDays)
}

// CalculateEmissionAPR annualizes the USD value of daily emissions against
// pool TVL, as a decimal rate (multiply by 100 for percent). Returns 0 when
// the pool has no TVL.
func CalculateEmissionAPR(dailyEmissionAmount, tokenUsdPrice, poolTvlUsd float64) float64 {
	if poolTvlUsd <= 0 || dailyEmissionAmount <= 0 || tokenUsdPrice <= 0 {
		return 0
	}
	return (dailyEmissionAmount * tokenUsdPrice * 365) / poolTvlUsd
}

// StrategyValue is the realized value of splitting a reward amount between
// the lock and redeem strategies.
type StrategyValue struct {
	LockAmount   float64 `json:"lock_amount"`
	LockValue    float64 `json:"lock_value"`
	RedeemAmount float64 `json:"redeem_amount"`
	RedeemValue  float64 `json:"redeem_value"`
	TotalValue   float64 `json:"total_value"`

	// ValueMultiplier normalizes TotalValue against the 100%-redeem
	// baseline: lock-all yields 2, redeem-all yields 1.
	ValueMultiplier float64 `json:"value_multiplier"`
}

// CalculateStrategyValue values routing lockFraction of rewardAmount through
// the lock strategy (full price) and the remainder through the redeem
// strategy (discounted). lockFraction is clamped to [0, 1]; non-positive
// reward or price returns the zero value.
func CalculateStrategyValue(rewardAmount, tokenUsdPrice, lockFraction float64) StrategyValue {
	if rewardAmount <= 0 || tokenUsdPrice <= 0 || math.IsNaN(rewardAmount) || math.IsNaN(tokenUsdPrice) {
		return StrategyValue{}
	}
	if math.IsNaN(lockFraction) {
		return StrategyValue{}
	}
	if lockFraction < 0 {
		lockFraction = 0
	}
	if lockFraction > 1 {
		lockFraction = 1
	}

	sv := StrategyValue{
		LockAmount:   rewardAmount * lockFraction,
		RedeemAmount: rewardAmount * (1 - lockFraction),
	}
	sv.LockValue = sv.LockAmount * tokenUsdPrice
	sv.RedeemValue = sv.RedeemAmount * tokenUsdPrice * RedeemDiscountFactor
	sv.TotalValue = sv.LockValue + sv.RedeemValue

	baseline := rewardAmount * tokenUsdPrice * RedeemDiscountFactor
	if baseline > 0 {
		sv.ValueMultiplier = sv.TotalValue / baseline
	}
	return sv
}

// StrategyComparison reports how two strategy splits compare. Winner is 1
// when a is strictly more valuable, 2 when b is, and 0 only on an exact tie.
type StrategyComparison struct {
	ValueDiff   float64 `json:"value_diff"`
	PercentDiff float64 `json:"percent_diff"`
	Winner      int     `json:"winner"`
}

// CompareStrategies compares two strategy valuations. PercentDiff is
// expressed relative to b's total value and defined as 0 when b has no
// value. The winner tie requires an exact zero difference; no epsilon is
// applied.
func CompareStrategies(a, b StrategyValue) StrategyComparison {
	cmp := StrategyComparison{ValueDiff: a.TotalValue - b.TotalValue}
	if b.TotalValue != 0 {
		cmp.PercentDiff = cmp.ValueDiff / b.TotalValue * 100
	}
	switch {
	case cmp.ValueDiff > 0:
		cmp.Winner = 1
	case cmp.ValueDiff < 0:
		cmp.Winner = 2
	default:
		cmp.Winner = 0
	}
	return cmp
}
