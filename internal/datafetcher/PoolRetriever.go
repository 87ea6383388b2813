/*

This file fetches concentrated-liquidity pool listings from the external
market-data service and turns them into validated PoolSnapshots. All boundary
resolution happens here: decimal bounds, stable-quote detection, and the tick
spacing default. The engine never sees a partially-populated snapshot.

*/

package datafetcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rangelab/rangecast/internal/config"
	"github.com/rangelab/rangecast/internal/logger"
	"github.com/rangelab/rangecast/internal/types"
	"github.com/rangelab/rangecast/internal/utils"
)

var poolLogger = logger.GetForComponent("pool_retriever")

var (
	ErrInvalidPoolData        = errors.New("invalid pool data")
	ErrMissingCriticalData    = errors.New("missing critical pool data for financial calculations")
	ErrPoolNotFound           = errors.New("pool not found")
	ErrPoolServiceUnreachable = errors.New("pool service unreachable")
)

const poolRequestTimeout = 15 * time.Second

// poolListing mirrors the market-data service's pool document. EmissionPerDay
// arrives as a decimal string because the raw amount can exceed int64.
type poolListing struct {
	ID           string  `json:"id"`
	CurrentPrice float64 `json:"current_price"`
	TickSpacing  int     `json:"tick_spacing"`
	TvlUSD       float64 `json:"tvl_usd"`
	Volume24hUSD float64 `json:"volume_24h_usd"`
	Fees24hUSD   float64 `json:"fees_24h_usd"`
	AprPct       float64 `json:"apr_pct"`
	HasGauge     bool    `json:"has_gauge"`

	TokenA struct {
		Symbol   string  `json:"symbol"`
		Decimals uint    `json:"decimals"`
		PriceUSD float64 `json:"price_usd"`
	} `json:"token_a"`
	TokenB struct {
		Symbol   string  `json:"symbol"`
		Decimals uint    `json:"decimals"`
		PriceUSD float64 `json:"price_usd"`
	} `json:"token_b"`

	EmissionPerDay      string `json:"emission_per_day"`
	RewardTokenSymbol   string `json:"reward_token_symbol"`
	RewardTokenDecimals uint   `json:"reward_token_decimals"`

	Rewards []struct {
		AprPct          float64 `json:"apr_pct"`
		EmissionsPerDay float64 `json:"emissions_per_day"`
		TokenPriceUSD   float64 `json:"token_price_usd"`
		TokenDecimals   uint    `json:"token_decimals"`
	} `json:"rewards"`
}

// GetPoolSnapshots fetches and validates all pool listings from the
// market-data service. Listings that fail validation are rejected, not
// patched: partial data must never reach a financial calculation.
func GetPoolSnapshots() ([]types.PoolSnapshot, error) {
	url := config.PoolAPIURL + "/v1/pools"
	client := &http.Client{Timeout: poolRequestTimeout}

	poolLogger.Info().Str("url", url).Msg("Fetching pool listings")

	resp, err := client.Get(url)
	if err != nil {
		poolLogger.Error().Err(err).Str("url", url).Msg("Pool listing request failed")
		return nil, fmt.Errorf("%w: %w", ErrPoolServiceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		poolLogger.Error().Int("statusCode", resp.StatusCode).Msg("Pool service returned non-200 status")
		return nil, fmt.Errorf("%w: status %d", ErrPoolServiceUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool listing response: %w", err)
	}

	var listings []poolListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("%w: malformed listing payload: %w", ErrInvalidPoolData, err)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("%w: service returned no pools", ErrMissingCriticalData)
	}

	snapshots := make([]types.PoolSnapshot, 0, len(listings))
	for _, listing := range listings {
		snapshot, err := buildSnapshot(listing)
		if err != nil {
			poolLogger.Error().
				Err(err).
				Str("poolID", listing.ID).
				Msg("Pool listing failed validation, rejecting")
			return nil, fmt.Errorf("pool %s: %w", listing.ID, err)
		}
		snapshots = append(snapshots, snapshot)
	}

	poolLogger.Info().Int("poolCount", len(snapshots)).Msg("Pool snapshots built and validated")
	return snapshots, nil
}

// GetPoolSnapshot fetches a single pool by id.
func GetPoolSnapshot(id types.PoolID) (types.PoolSnapshot, error) {
	snapshots, err := GetPoolSnapshots()
	if err != nil {
		return types.PoolSnapshot{}, err
	}
	for _, snapshot := range snapshots {
		if snapshot.ID == id {
			return snapshot, nil
		}
	}
	return types.PoolSnapshot{}, fmt.Errorf("%w: %s", ErrPoolNotFound, id)
}

// buildSnapshot converts one listing into a validated PoolSnapshot, resolving
// the stable quote side and the tick spacing default at this boundary.
func buildSnapshot(listing poolListing) (types.PoolSnapshot, error) {
	if listing.ID == "" {
		return types.PoolSnapshot{}, fmt.Errorf("%w: empty pool id", ErrMissingCriticalData)
	}
	if listing.TokenA.Symbol == "" || listing.TokenB.Symbol == "" {
		return types.PoolSnapshot{}, fmt.Errorf("%w: token symbols required", ErrMissingCriticalData)
	}
	for _, v := range []float64{listing.CurrentPrice, listing.TvlUSD, listing.Volume24hUSD, listing.Fees24hUSD, listing.AprPct} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return types.PoolSnapshot{}, fmt.Errorf("%w: non-finite numeric field", ErrInvalidPoolData)
		}
	}

	tickSpacing := listing.TickSpacing
	if tickSpacing == 0 {
		// The only place a tick spacing default is ever applied.
		tickSpacing = config.DefaultTickSpacing
		poolLogger.Debug().
			Str("poolID", listing.ID).
			Int("tickSpacing", tickSpacing).
			Msg("Listing omitted tick spacing, applying default")
	}

	emission, err := utils.ParseRawAmount(listing.EmissionPerDay)
	if err != nil {
		return types.PoolSnapshot{}, fmt.Errorf("%w: emission_per_day: %w", ErrInvalidPoolData, err)
	}

	snapshot := types.PoolSnapshot{
		ID: types.PoolID(listing.ID),
		TokenA: types.TokenInfo{
			Symbol:   listing.TokenA.Symbol,
			Decimals: listing.TokenA.Decimals,
			PriceUSD: listing.TokenA.PriceUSD,
		},
		TokenB: types.TokenInfo{
			Symbol:   listing.TokenB.Symbol,
			Decimals: listing.TokenB.Decimals,
			PriceUSD: listing.TokenB.PriceUSD,
		},
		CurrentPrice:        listing.CurrentPrice,
		TickSpacing:         tickSpacing,
		QuoteIsStable:       config.IsStableSymbol(listing.TokenB.Symbol),
		TvlUSD:              listing.TvlUSD,
		Volume24hUSD:        listing.Volume24hUSD,
		Fees24hUSD:          listing.Fees24hUSD,
		ReportedAprPct:      listing.AprPct,
		EmissionPerDay:      emission,
		RewardTokenSymbol:   listing.RewardTokenSymbol,
		RewardTokenDecimals: listing.RewardTokenDecimals,
		HasGauge:            listing.HasGauge,
		Timestamp:           time.Now().UTC(),
	}

	for _, reward := range listing.Rewards {
		snapshot.RewardList = append(snapshot.RewardList, types.RewardStream{
			AprPct:          reward.AprPct,
			EmissionsPerDay: reward.EmissionsPerDay,
			TokenPriceUSD:   reward.TokenPriceUSD,
			TokenDecimals:   reward.TokenDecimals,
		})
	}

	if err := snapshot.Validate(); err != nil {
		return types.PoolSnapshot{}, err
	}
	return snapshot, nil
}
