/*

This file computes the concentration leverage of a bounded range and derives
an unleveraged base yield rate from externally reported range-specific rates.
Leverage spans roughly 1x to 1000x over realistic ranges, so getting these
formulas wrong misprices yield by orders of magnitude.

*/

package engine

import "math"

// BaselineLeverage is the fixed concentration assumed to be baked into
// externally reported range rates (roughly a +-5% range).
const BaselineLeverage = 20.0

// Leverage computes the concentration multiplier of [priceLow, priceHigh] at
// currentPrice:
//
//	leverage = 1 / (sqrt(priceHigh/currentPrice) - sqrt(priceLow/currentPrice))
//
// floored at 1. When the current price is outside the range, the
// range-width-only form 1/(sqrt(priceHigh/priceLow)-1) is used instead:
// leverage still reflects concentration even though the position currently
// earns nothing. Degenerate inputs (non-positive prices, inverted or
// zero-width range) return exactly 1; that is policy, not an error signal.
func Leverage(currentPrice, priceLow, priceHigh float64) float64 {
	if currentPrice <= 0 || priceLow <= 0 || priceHigh <= 0 || priceLow >= priceHigh {
		return 1
	}
	if math.IsNaN(currentPrice) || math.IsNaN(priceLow) || math.IsNaN(priceHigh) {
		return 1
	}

	var denom float64
	if currentPrice < priceLow || currentPrice > priceHigh {
		denom = math.Sqrt(priceHigh/priceLow) - 1
	} else {
		denom = math.Sqrt(priceHigh/currentPrice) - math.Sqrt(priceLow/currentPrice)
	}
	if denom <= 0 || math.IsInf(denom, 0) {
		return 1
	}

	leverage := 1 / denom
	if leverage < 1 || math.IsNaN(leverage) || math.IsInf(leverage, 0) {
		return 1
	}
	return leverage
}

// DeriveBaseRate strips the baseline concentration out of a reported
// range-specific rate, yielding the rate a full-range position of equal
// deposit would earn.
func DeriveBaseRate(reportedRatePct float64) float64 {
	if math.IsNaN(reportedRatePct) || math.IsInf(reportedRatePct, 0) {
		return 0
	}
	return reportedRatePct / BaselineLeverage
}

// EstimateRate rescales a reported range rate to the caller's chosen range:
// base rate times the range's own leverage.
func EstimateRate(reportedRatePct, currentPrice, priceLow, priceHigh float64) float64 {
	return DeriveBaseRate(reportedRatePct) * Leverage(currentPrice, priceLow, priceHigh)
}
