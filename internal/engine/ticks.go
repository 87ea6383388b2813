/*

This file contains the bidirectional mapping between user-facing prices and
the AMM's tick-indexed price grid. Every other engine component goes through
these conversions, so the decimal adjustment and stable-quote inversion live
here and nowhere else.

*/

package engine

import (
	"errors"
	"fmt"
	"math"
)

// Tick bounds of the price grid. Prices are only representable between
// 1.0001^MinTick and 1.0001^MaxTick.
const (
	MinTick = -887272
	MaxTick = 887272
)

var (
	ErrInvalidPrice       = errors.New("price must be positive and finite")
	ErrInvalidRange       = errors.New("lower tick must be strictly below upper tick")
	ErrInvalidTickSpacing = errors.New("tick spacing must be positive")
)

// the grid base: each tick is a 0.01% price step
var logTickBase = math.Log(1.0001)

// PriceToTick converts a user-facing price to the nearest initializable tick
// index. The price is first adjusted for the decimal difference between the
// two tokens (rawPrice = price / 10^(decimalsA-decimalsB)). roundUp selects
// the rounding direction at the spacing boundary: lower bounds round down and
// upper bounds round up, so the realized range is never narrower than
// requested.
func PriceToTick(price float64, decimalsA, decimalsB uint, tickSpacing int, roundUp bool) (int, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidPrice, price)
	}
	if tickSpacing <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTickSpacing, tickSpacing)
	}

	raw := price / math.Pow(10, float64(decimalsA)-float64(decimalsB))
	if raw <= 0 || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%w: decimal-adjusted price %v", ErrInvalidPrice, raw)
	}

	exact := math.Log(raw) / logTickBase

	spacing := float64(tickSpacing)
	var tick int
	if roundUp {
		tick = int(math.Ceil(exact/spacing)) * tickSpacing
	} else {
		tick = int(math.Floor(exact/spacing)) * tickSpacing
	}

	// clamp to the innermost initializable tick at each end of the grid
	if tick < MinTick {
		tick = MinTick - MinTick%tickSpacing
	}
	if tick > MaxTick {
		tick = MaxTick - MaxTick%tickSpacing
	}
	return tick, nil
}

// TickToPrice is the inverse of PriceToTick: it maps a tick index back to the
// user-facing price, re-applying the decimal adjustment on the way out.
func TickToPrice(tick int, decimalsA, decimalsB uint) float64 {
	raw := math.Pow(1.0001, float64(tick))
	return raw * math.Pow(10, float64(decimalsA)-float64(decimalsB))
}

// CurrentTick derives the active tick from the pool's sqrt-price
// representation, rounding toward negative infinity as the grid does.
func CurrentTick(sqrtPrice float64) (int, error) {
	if math.IsNaN(sqrtPrice) || math.IsInf(sqrtPrice, 0) || sqrtPrice <= 0 {
		return 0, fmt.Errorf("%w: sqrt price %v", ErrInvalidPrice, sqrtPrice)
	}
	tick := int(math.Floor(2 * math.Log(sqrtPrice) / logTickBase))
	if tick < MinTick {
		tick = MinTick
	}
	if tick > MaxTick {
		tick = MaxTick
	}
	return tick, nil
}

// TickRange converts a user-facing price range to an initializable tick
// range. When the quote side of the pair is the stable token, user prices are
// inverted before entering the tick domain and the bounds swap order
// (effectiveLow = 1/high, effectiveHigh = 1/low); this must be applied
// consistently everywhere a user price meets the grid, which is why the
// inversion lives here. Returns ErrInvalidRange when the rounded ticks
// collapse or invert.
func TickRange(priceLow, priceHigh float64, decimalsA, decimalsB uint, tickSpacing int, quoteIsStable bool) (int, int, error) {
	if math.IsNaN(priceLow) || math.IsInf(priceLow, 0) || priceLow <= 0 {
		return 0, 0, fmt.Errorf("%w: lower bound %v", ErrInvalidPrice, priceLow)
	}
	if math.IsNaN(priceHigh) || math.IsInf(priceHigh, 0) || priceHigh <= 0 {
		return 0, 0, fmt.Errorf("%w: upper bound %v", ErrInvalidPrice, priceHigh)
	}
	if priceLow >= priceHigh {
		return 0, 0, fmt.Errorf("%w: %v >= %v", ErrInvalidRange, priceLow, priceHigh)
	}

	effLow, effHigh := priceLow, priceHigh
	if quoteIsStable {
		effLow = 1 / priceHigh
		effHigh = 1 / priceLow
	}

	lower, err := PriceToTick(effLow, decimalsA, decimalsB, tickSpacing, false)
	if err != nil {
		return 0, 0, err
	}
	upper, err := PriceToTick(effHigh, decimalsA, decimalsB, tickSpacing, true)
	if err != nil {
		return 0, 0, err
	}
	if lower >= upper {
		return 0, 0, fmt.Errorf("%w: ticks %d >= %d", ErrInvalidRange, lower, upper)
	}
	return lower, upper, nil
}
