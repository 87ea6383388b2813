/*

This file contains the derived output types: the per-scenario projection and
the aggregated portfolio summary.

*/

package types

// Projection is the immutable result of running one scenario against one pool
// snapshot. Invariant: NetYieldUSD = FeeYieldUSD + EmissionYieldUSD +
// ExternalRewardYieldUSD - ILUSD (IL is stored as a non-negative magnitude).
type Projection struct {
	Slot   int    `json:"slot"`
	PoolID PoolID `json:"pool_id"`

	Leverage        float64 `json:"leverage"` // >= 1
	InRange         bool    `json:"in_range"`
	EstimatedAprPct float64 `json:"estimated_apr_pct"`

	FeeYieldUSD            float64 `json:"fee_yield_usd"`
	EmissionYieldUSD       float64 `json:"emission_yield_usd"`
	ExternalRewardYieldUSD float64 `json:"external_reward_yield_usd"`
	ILUSD                  float64 `json:"il_usd"`
	NetYieldUSD            float64 `json:"net_yield_usd"`
}

// PortfolioSummary aggregates up to three scenario projections. Average rates
// are deposit-weighted; a scenario with no resolved pool contributes zero to
// every total but still counts toward ScenarioCount.
type PortfolioSummary struct {
	ScenarioCount int `json:"scenario_count"`

	TotalDepositUSD        float64 `json:"total_deposit_usd"`
	TotalFeeYieldUSD       float64 `json:"total_fee_yield_usd"`
	TotalEmissionYieldUSD  float64 `json:"total_emission_yield_usd"`
	TotalExternalRewardUSD float64 `json:"total_external_reward_usd"`
	TotalILUSD             float64 `json:"total_il_usd"`
	TotalNetYieldUSD       float64 `json:"total_net_yield_usd"`

	AvgAprPct     float64 `json:"avg_apr_pct"`      // deposit-weighted average of EstimatedAprPct
	AvgNetRatePct float64 `json:"avg_net_rate_pct"` // deposit-weighted net yield rate over the timeline
	AvgLeverage   float64 `json:"avg_leverage"`     // deposit-weighted
}
