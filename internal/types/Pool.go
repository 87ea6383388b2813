/*

This is a custom type for concentrated-liquidity pool snapshots which contains
all the state the projection engine needs for a single pool at a point in time.

*/

package types

import (
	"errors"
	"math"
	"time"

	sdkmath "cosmossdk.io/math"
)

type PoolID string

// TokenInfo describes one side of the pool pair.
type TokenInfo struct {
	Symbol   string  `json:"symbol"`    // e.g., "osmo"
	Decimals uint    `json:"decimals"`  // e.g., 6 (10^6 base units = 1 token)
	PriceUSD float64 `json:"price_usd"` // e.g., 1.0
}

// RewardStream is one external incentive stream attached to a pool.
type RewardStream struct {
	AprPct          float64 `json:"apr_pct"`           // reported APR for the stream, percent
	EmissionsPerDay float64 `json:"emissions_per_day"` // whole tokens distributed per day
	TokenPriceUSD   float64 `json:"token_price_usd"`
	TokenDecimals   uint    `json:"token_decimals"`
}

// PoolSnapshot is the read-only pool state supplied by the data collaborator,
// one instance per pool per request. CurrentPrice is always expressed as units
// of quote token per base token from the user's perspective; QuoteIsStable is
// resolved once by the collaborator so the engine never inspects symbols.
type PoolSnapshot struct {
	ID            PoolID    `json:"id"`
	TokenA        TokenInfo `json:"token_a"`
	TokenB        TokenInfo `json:"token_b"`
	CurrentPrice  float64   `json:"current_price"`
	TickSpacing   int       `json:"tick_spacing"`
	QuoteIsStable bool      `json:"quote_is_stable"`

	TvlUSD       float64 `json:"tvl_usd"`
	Volume24hUSD float64 `json:"volume_24h_usd"`
	Fees24hUSD   float64 `json:"fees_24h_usd"`

	// ReportedAprPct is the range-specific yield rate external sources report
	// for this pool, calibrated to the baseline range.
	ReportedAprPct float64 `json:"reported_apr_pct"`

	// EmissionPerDay is the raw (pre-decimal-scaling) amount of reward token
	// distributed per day. May be zero. The reward token's spot USD price is
	// supplied separately by the price collaborator.
	EmissionPerDay      sdkmath.Int `json:"emission_per_day"`
	RewardTokenSymbol   string      `json:"reward_token_symbol"`
	RewardTokenDecimals uint        `json:"reward_token_decimals"`

	RewardList []RewardStream `json:"reward_list"`

	// HasGauge means trading fees are distributed through a separate gauge
	// mechanism and must be excluded from fee-yield computation.
	HasGauge bool `json:"has_gauge"`

	Timestamp time.Time `json:"timestamp"`
}

// PricePoint holds one historical price sample for volatility estimation.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

var ErrInvalidSnapshot = errors.New("invalid pool snapshot")

// Validate checks that a snapshot satisfies the invariants the engine relies
// on. Collaborators must call this before handing a snapshot to the engine.
func (p PoolSnapshot) Validate() error {
	if p.ID == "" {
		return errors.Join(ErrInvalidSnapshot, errors.New("pool ID cannot be empty"))
	}
	if p.TokenA.Decimals > 18 || p.TokenB.Decimals > 18 {
		return errors.Join(ErrInvalidSnapshot, errors.New("token decimals must be between 0 and 18"))
	}
	if p.TickSpacing <= 0 {
		return errors.Join(ErrInvalidSnapshot, errors.New("tick spacing must be positive"))
	}
	for _, v := range []float64{p.CurrentPrice, p.TvlUSD, p.Volume24hUSD, p.Fees24hUSD, p.ReportedAprPct, p.TokenA.PriceUSD, p.TokenB.PriceUSD} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Join(ErrInvalidSnapshot, errors.New("snapshot contains non-finite value"))
		}
	}
	if p.TvlUSD < 0 || p.Volume24hUSD < 0 || p.Fees24hUSD < 0 {
		return errors.Join(ErrInvalidSnapshot, errors.New("USD aggregates cannot be negative"))
	}
	if p.TvlUSD > 0 && p.CurrentPrice <= 0 {
		return errors.Join(ErrInvalidSnapshot, errors.New("current price must be positive when pool has TVL"))
	}
	if !p.EmissionPerDay.IsNil() && p.EmissionPerDay.IsNegative() {
		return errors.Join(ErrInvalidSnapshot, errors.New("emission per day cannot be negative"))
	}
	for _, r := range p.RewardList {
		if r.AprPct < 0 || r.EmissionsPerDay < 0 || r.TokenPriceUSD < 0 {
			return errors.Join(ErrInvalidSnapshot, errors.New("reward stream fields cannot be negative"))
		}
		if r.TokenDecimals > 18 {
			return errors.Join(ErrInvalidSnapshot, errors.New("reward token decimals must be between 0 and 18"))
		}
	}
	return nil
}
