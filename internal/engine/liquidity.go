/*

This file estimates the achievable position liquidity and token composition
for a USD-denominated deposit into a bounded price range. The deposit is
modeled as a one-sided token A budget, matching how a user funds a position
from a stated USD amount rather than pre-owned token quantities.

*/

package engine

import (
	"math"

	"github.com/rangelab/rangecast/internal/logger"
	"github.com/rangelab/rangecast/internal/types"
)

var liquidityLogger = logger.GetForComponent("liquidity_estimator")

// LiquidityEstimate is the result of sizing a position for a USD deposit.
// InRange is false when the current price sits outside the chosen bounds;
// callers must treat that as "yield = 0", not as an error.
type LiquidityEstimate struct {
	Liquidity float64 `json:"liquidity"`
	AmountA   float64 `json:"amount_a"`
	AmountB   float64 `json:"amount_b"`
	InRange   bool    `json:"in_range"`
}

// EstimateLiquidity sizes a position for depositUsd inside [priceLow,
// priceHigh] at the pool's current price. Half the deposit is converted to a
// notional token A amount at the pool's token A USD price, and liquidity is
// the L consistent with depositing that amount within the range.
//
// Three placements are handled:
//   - current price below the range: the position is 100% token A
//   - current price within the range: mixed composition
//   - current price at or above the range: 100% token B (AmountA forced to 0)
//
// Degenerate inputs (non-positive deposit, prices, or inverted range) return
// the zero estimate.
func EstimateLiquidity(depositUsd, priceLow, priceHigh float64, pool types.PoolSnapshot) LiquidityEstimate {
	if depositUsd <= 0 || math.IsNaN(depositUsd) || math.IsInf(depositUsd, 0) {
		return LiquidityEstimate{}
	}
	if priceLow <= 0 || priceHigh <= 0 || priceLow >= priceHigh {
		return LiquidityEstimate{}
	}
	current := pool.CurrentPrice
	if current <= 0 || math.IsNaN(current) || math.IsInf(current, 0) {
		return LiquidityEstimate{}
	}
	if pool.TokenA.PriceUSD <= 0 {
		liquidityLogger.Warn().
			Str("pool", string(pool.ID)).
			Float64("tokenAPriceUsd", pool.TokenA.PriceUSD).
			Msg("Token A has no USD price, cannot size position")
		return LiquidityEstimate{}
	}

	sqrtP := math.Sqrt(current)
	sqrtPa := math.Sqrt(priceLow)
	sqrtPb := math.Sqrt(priceHigh)

	// 50/50 USD split; the token A half is the single-sided input
	amountA := (depositUsd / 2) / pool.TokenA.PriceUSD

	switch {
	case current < priceLow:
		// Position holds only token A until price enters the range.
		// L = amountA * (sqrtPa*sqrtPb) / (sqrtPb - sqrtPa)
		liquidity := amountA * (sqrtPa * sqrtPb) / (sqrtPb - sqrtPa)
		return LiquidityEstimate{
			Liquidity: liquidity,
			AmountA:   amountA,
			InRange:   false,
		}

	case current >= priceHigh:
		// Position holds only token B; all value is attributed to token B.
		var amountB float64
		if pool.TokenB.PriceUSD > 0 {
			amountB = depositUsd / pool.TokenB.PriceUSD
		}
		return LiquidityEstimate{
			Liquidity: amountB / (sqrtPb - sqrtPa),
			AmountB:   amountB,
			InRange:   false,
		}

	default:
		// Mixed: L from the token A side at the current price, then the
		// implied token B amount down to the lower bound.
		// L = amountA * (sqrtP*sqrtPb) / (sqrtPb - sqrtP)
		liquidity := amountA * (sqrtP * sqrtPb) / (sqrtPb - sqrtP)
		amountB := liquidity * (sqrtP - sqrtPa)
		return LiquidityEstimate{
			Liquidity: liquidity,
			AmountA:   amountA,
			AmountB:   amountB,
			InRange:   true,
		}
	}
}
