package types

import (
	"math"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func validSnapshot() PoolSnapshot {
	return PoolSnapshot{
		ID:           "osmo-usdc",
		TokenA:       TokenInfo{Symbol: "osmo", Decimals: 6, PriceUSD: 0.5},
		TokenB:       TokenInfo{Symbol: "usdc", Decimals: 6, PriceUSD: 1.0},
		CurrentPrice: 0.5,
		TickSpacing:  60,
		TvlUSD:       1_000_000,
	}
}

func TestPoolSnapshotValidate(t *testing.T) {
	require.NoError(t, validSnapshot().Validate())

	p := validSnapshot()
	p.ID = ""
	require.ErrorIs(t, p.Validate(), ErrInvalidSnapshot)

	p = validSnapshot()
	p.TokenA.Decimals = 19
	require.ErrorIs(t, p.Validate(), ErrInvalidSnapshot)

	p = validSnapshot()
	p.TickSpacing = 0
	require.ErrorIs(t, p.Validate(), ErrInvalidSnapshot)

	p = validSnapshot()
	p.CurrentPrice = math.NaN()
	require.ErrorIs(t, p.Validate(), ErrInvalidSnapshot)

	p = validSnapshot()
	p.TvlUSD = -1
	require.ErrorIs(t, p.Validate(), ErrInvalidSnapshot)

	p = validSnapshot()
	p.CurrentPrice = 0
	require.ErrorIs(t, p.Validate(), ErrInvalidSnapshot)

	p = validSnapshot()
	p.EmissionPerDay = sdkmath.NewInt(-5)
	require.ErrorIs(t, p.Validate(), ErrInvalidSnapshot)

	p = validSnapshot()
	p.RewardList = []RewardStream{{AprPct: -1}}
	require.ErrorIs(t, p.Validate(), ErrInvalidSnapshot)
}

func TestNewScenarioDefaults(t *testing.T) {
	sc := NewScenario(2, validSnapshot())

	require.Equal(t, 2, sc.Slot)
	require.Equal(t, PoolID("osmo-usdc"), sc.PoolID)
	require.Equal(t, DefaultDepositUSD, sc.DepositUSD)
	require.Equal(t, DefaultTimelineDays, sc.TimelineDays)
	require.Equal(t, DefaultRewardSplitPct, sc.RewardSplitPct)
	require.InDelta(t, 0.25, sc.PriceLow, 1e-12)
	require.InDelta(t, 0.75, sc.PriceHigh, 1e-12)
	require.Nil(t, sc.AprOverride)
	require.Nil(t, sc.ExitPrice)
}

func TestScenarioResetRangeFollowsPool(t *testing.T) {
	sc := NewScenario(1, validSnapshot())

	other := validSnapshot()
	other.ID = "atom-usdc"
	other.CurrentPrice = 8.0
	sc.ResetRange(other)

	require.Equal(t, PoolID("atom-usdc"), sc.PoolID)
	require.InDelta(t, 4.0, sc.PriceLow, 1e-12)
	require.InDelta(t, 12.0, sc.PriceHigh, 1e-12)
}
