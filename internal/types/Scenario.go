/*

This file contains the user-facing scenario type: one comparison slot holding
the inputs a projection is computed from. Scenarios are mutated field-by-field
by the caller and recomputed on every change.

*/

package types

// Default scenario inputs applied when a pool is first chosen. The range
// preset is deliberately wide; leverage and APR are pool-relative, so the
// range is reset whenever the referenced pool changes.
const (
	DefaultDepositUSD     = 1000.0
	DefaultTimelineDays   = 30
	DefaultRewardSplitPct = 0.5
	DefaultRangeWidthPct  = 0.5 // +-50% around the current price
)

// Scenario is one what-if comparison slot. Slot is a caller-supplied
// identifier; the engine never generates ids.
type Scenario struct {
	Slot           int     `json:"slot"`
	PoolID         PoolID  `json:"pool_id"`
	DepositUSD     float64 `json:"deposit_usd"`
	PriceLow       float64 `json:"price_low"`
	PriceHigh      float64 `json:"price_high"`
	TimelineDays   int     `json:"timeline_days"`
	RewardSplitPct float64 `json:"reward_split_pct"` // fraction of emissions routed to the lock strategy

	// AprOverride, when present, bypasses the computed yield rate entirely.
	AprOverride *float64 `json:"apr_override,omitempty"`
	// ExitPrice, when present, replaces the current price as P1 for IL.
	ExitPrice *float64 `json:"exit_price,omitempty"`
}

// NewScenario creates a scenario with defaults for the given pool.
func NewScenario(slot int, pool PoolSnapshot) Scenario {
	s := Scenario{
		Slot:           slot,
		PoolID:         pool.ID,
		DepositUSD:     DefaultDepositUSD,
		TimelineDays:   DefaultTimelineDays,
		RewardSplitPct: DefaultRewardSplitPct,
	}
	s.ResetRange(pool)
	return s
}

// ResetRange restores the default wide range preset around the pool's current
// price. Must be called whenever the referenced pool changes.
func (s *Scenario) ResetRange(pool PoolSnapshot) {
	s.PoolID = pool.ID
	s.PriceLow = pool.CurrentPrice * (1 - DefaultRangeWidthPct)
	s.PriceHigh = pool.CurrentPrice * (1 + DefaultRangeWidthPct)
}
