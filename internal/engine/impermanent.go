/*

This file computes impermanent loss: the value shortfall of a liquidity
position versus simply holding the deposited tokens. Two algorithms are
provided, selected by whether a bounded range is supplied, plus a
volatility-driven outlook and a dollar-value helper.

*/

package engine

import "math"

// CalculateIL computes unbounded (full-range) impermanent loss for a move
// from entry price p0 to exit price p1:
//
//	il = 2*sqrt(p1/p0)/(1+p1/p0) - 1
//
// The result is <= 0 and symmetric under price inversion:
// CalculateIL(p0, p1) == CalculateIL(p0, p0*p0/p1). Returns 0 when either
// price is non-positive or the price did not move.
func CalculateIL(p0, p1 float64) float64 {
	if p0 <= 0 || p1 <= 0 || math.IsNaN(p0) || math.IsNaN(p1) {
		return 0
	}
	if p0 == p1 {
		return 0
	}
	ratio := p1 / p0
	if math.IsInf(ratio, 0) {
		return 0
	}
	return 2*math.Sqrt(ratio)/(1+ratio) - 1
}

// CalculateConcentratedIL computes impermanent loss for a bounded position
// entered at p0 within [pa, pb] and exited at p1. Token amounts are
// normalized to L = 1:
//
//	entry: x0 = 1/sqrt(p0) - 1/sqrt(pb), y0 = sqrt(p0) - sqrt(pa)
//	exit:  all token A below pa, all token B above pb, mixed in between
//
// and il = LP_value/HODL_value - 1, where HODL marks the entry amounts to
// p1 unchanged. Narrower ranges produce larger-magnitude IL for the same
// move, and very wide ranges converge to the unbounded formula.
//
// When p0 is outside [pa, pb] the unbounded formula is used as a documented
// approximation; the true single-token entry is not modeled. Invalid inputs
// return 0.
func CalculateConcentratedIL(p0, p1, pa, pb float64) float64 {
	if p0 <= 0 || p1 <= 0 || pa <= 0 || pb <= 0 || pa >= pb {
		return 0
	}
	if math.IsNaN(p0) || math.IsNaN(p1) || math.IsNaN(pa) || math.IsNaN(pb) {
		return 0
	}
	if p0 < pa || p0 > pb {
		return CalculateIL(p0, p1)
	}

	sqrtPa := math.Sqrt(pa)
	sqrtPb := math.Sqrt(pb)

	// entry amounts at L = 1
	x0 := 1/math.Sqrt(p0) - 1/sqrtPb
	y0 := math.Sqrt(p0) - sqrtPa

	v0 := x0*p0 + y0
	if v0 <= 0 {
		return 0
	}

	// exit amounts at L = 1
	var x1, y1 float64
	switch {
	case p1 <= pa:
		x1 = 1/sqrtPa - 1/sqrtPb
	case p1 >= pb:
		y1 = sqrtPb - sqrtPa
	default:
		x1 = 1/math.Sqrt(p1) - 1/sqrtPb
		y1 = math.Sqrt(p1) - sqrtPa
	}

	lpValue := x1*p1 + y1
	hodlValue := x0*p1 + y0
	if hodlValue <= 0 {
		return 0
	}
	return lpValue/hodlValue - 1
}

// ILOutlook holds volatility-implied IL magnitudes over a timeline. The
// pessimistic case always carries a larger IL magnitude than the expected
// case, which exceeds the optimistic case.
type ILOutlook struct {
	Optimistic   float64   `json:"optimistic"`
	Expected     float64   `json:"expected"`
	Pessimistic  float64   `json:"pessimistic"`
	PriceChanges []float64 `json:"price_changes"` // fractional moves backing each case
}

// sigma multiples backing the optimistic/expected/pessimistic cases
var outlookSigmas = []float64{0.5, 1, 2}

// EstimateILFromVolatility scales an annualized volatility to the timeline
// (sqrt of time), generates price-ratio scenarios at 0.5, 1, and 2 standard
// deviations, and maps each through the unbounded IL formula. Non-positive
// volatility or timeline returns the zero outlook.
func EstimateILFromVolatility(annualizedVol float64, timelineDays int) ILOutlook {
	if annualizedVol <= 0 || timelineDays <= 0 || math.IsNaN(annualizedVol) || math.IsInf(annualizedVol, 0) {
		return ILOutlook{}
	}

	scaled := annualizedVol * math.Sqrt(float64(timelineDays)/365)

	outlook := ILOutlook{PriceChanges: make([]float64, 0, len(outlookSigmas))}
	ils := make([]float64, 0, len(outlookSigmas))
	for _, sigma := range outlookSigmas {
		// log-normal move: ratio = e^(k*sigma), always positive
		ratio := math.Exp(sigma * scaled)
		outlook.PriceChanges = append(outlook.PriceChanges, ratio-1)
		ils = append(ils, CalculateIL(1, ratio))
	}
	outlook.Optimistic = ils[0]
	outlook.Expected = ils[1]
	outlook.Pessimistic = ils[2]
	return outlook
}

// CalculateILDollarValue converts an IL percentage into a non-negative USD
// magnitude against the deposit.
func CalculateILDollarValue(depositUsd, ilPct float64) float64 {
	if depositUsd <= 0 || math.IsNaN(depositUsd) || math.IsNaN(ilPct) {
		return 0
	}
	return math.Abs(ilPct) * depositUsd
}
