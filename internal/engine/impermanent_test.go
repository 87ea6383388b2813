package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateILKnownValues(t *testing.T) {
	tests := []struct {
		name string
		p0   float64
		p1   float64
		want float64
	}{
		{"double", 100, 200, -0.0572},
		{"5x", 100, 500, -0.2546},
		{"10x", 100, 1000, -0.4257},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, CalculateIL(tc.p0, tc.p1), 0.003)
		})
	}
}

func TestCalculateILNeverPositive(t *testing.T) {
	for _, p1 := range []float64{1, 10, 50, 99, 100, 101, 250, 1000, 10000} {
		require.LessOrEqual(t, CalculateIL(100, p1), 0.0, "p1=%v", p1)
	}
}

func TestCalculateILNoMoveIsZero(t *testing.T) {
	require.Zero(t, CalculateIL(100, 100))
	require.Zero(t, CalculateIL(0.0037, 0.0037))
}

func TestCalculateILReciprocalSymmetry(t *testing.T) {
	// a move to p1 and the reciprocal move to p0^2/p1 lose the same amount
	p0 := 100.0
	for _, p1 := range []float64{150, 200, 400, 1000} {
		mirror := p0 * p0 / p1
		require.InDelta(t, CalculateIL(p0, p1), CalculateIL(p0, mirror), 1e-12)
	}
}

func TestCalculateILDegenerateInputs(t *testing.T) {
	require.Zero(t, CalculateIL(0, 100))
	require.Zero(t, CalculateIL(100, 0))
	require.Zero(t, CalculateIL(-5, 100))
	require.Zero(t, CalculateIL(math.NaN(), 100))
	require.Zero(t, CalculateIL(100, math.NaN()))
}

func TestCalculateConcentratedILWideRangeConverges(t *testing.T) {
	unbounded := CalculateIL(100, 200)
	wide := CalculateConcentratedIL(100, 200, 1, 10000)
	require.InDelta(t, unbounded, wide, 0.05)
}

func TestCalculateConcentratedILNarrowerRangeLosesMore(t *testing.T) {
	narrow := CalculateConcentratedIL(100, 120, 90, 110)
	wide := CalculateConcentratedIL(100, 120, 50, 200)
	require.Less(t, narrow, wide)
	require.Greater(t, math.Abs(narrow), math.Abs(wide))
}

func TestCalculateConcentratedILNoMoveIsZero(t *testing.T) {
	require.Zero(t, CalculateConcentratedIL(100, 100, 90, 110))
}

func TestCalculateConcentratedILEntryOutsideRangeFallsBack(t *testing.T) {
	// entry below and above the range both degrade to the unbounded formula
	require.Equal(t, CalculateIL(80, 120), CalculateConcentratedIL(80, 120, 90, 110))
	require.Equal(t, CalculateIL(130, 95), CalculateConcentratedIL(130, 95, 90, 110))
}

func TestCalculateConcentratedILDegenerateInputs(t *testing.T) {
	require.Zero(t, CalculateConcentratedIL(0, 100, 90, 110))
	require.Zero(t, CalculateConcentratedIL(100, -1, 90, 110))
	require.Zero(t, CalculateConcentratedIL(100, 120, 110, 90)) // inverted bounds
	require.Zero(t, CalculateConcentratedIL(100, 120, 90, 90))  // collapsed range
	require.Zero(t, CalculateConcentratedIL(math.NaN(), 120, 90, 110))
}

func TestEstimateILFromVolatilityOrdering(t *testing.T) {
	outlook := EstimateILFromVolatility(0.8, 30)

	require.Negative(t, outlook.Optimistic)
	require.Negative(t, outlook.Expected)
	require.Negative(t, outlook.Pessimistic)
	require.Greater(t, math.Abs(outlook.Pessimistic), math.Abs(outlook.Expected))
	require.Greater(t, math.Abs(outlook.Expected), math.Abs(outlook.Optimistic))
	require.Len(t, outlook.PriceChanges, 3)
	for _, change := range outlook.PriceChanges {
		require.Greater(t, change, 0.0)
	}
}

func TestEstimateILFromVolatilityLongerTimelineLosesMore(t *testing.T) {
	short := EstimateILFromVolatility(0.8, 7)
	long := EstimateILFromVolatility(0.8, 90)
	require.Greater(t, math.Abs(long.Expected), math.Abs(short.Expected))
}

func TestEstimateILFromVolatilityDegenerateInputs(t *testing.T) {
	require.Equal(t, ILOutlook{}, EstimateILFromVolatility(0, 30))
	require.Equal(t, ILOutlook{}, EstimateILFromVolatility(-0.5, 30))
	require.Equal(t, ILOutlook{}, EstimateILFromVolatility(0.8, 0))
	require.Equal(t, ILOutlook{}, EstimateILFromVolatility(math.NaN(), 30))
}

func TestCalculateILDollarValue(t *testing.T) {
	require.InDelta(t, 57.2, CalculateILDollarValue(1000, -0.0572), 1e-9)
	require.InDelta(t, 57.2, CalculateILDollarValue(1000, 0.0572), 1e-9)
	require.Zero(t, CalculateILDollarValue(0, -0.0572))
	require.Zero(t, CalculateILDollarValue(-100, -0.0572))
}
