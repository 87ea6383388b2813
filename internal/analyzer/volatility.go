package analyzer

import (
	"errors"
	"math"
	"sort"

	"github.com/rangelab/rangecast/internal/types"
)

// ErrInsufficientData indicates that not enough data points were provided
// to calculate volatility (need at least 2 points for 1 return).
var ErrInsufficientData = errors.New("insufficient data points to calculate volatility")

// Annualization factors for common sampling frequencies.
const (
	HoursPerYear = 8760.0
	DaysPerYear  = 365.0
)

// CalculateVolatility calculates the annualized historical volatility from a
// series of price samples using logarithmic returns and their standard
// deviation. The series is sorted chronologically if it is not already. The
// annualizationFactor must match the sampling frequency (HoursPerYear for
// hourly data, DaysPerYear for daily).
//
// The result feeds the impermanent-loss outlook, which maps volatility-scaled
// price moves through the IL formula.
func CalculateVolatility(prices []types.PricePoint, annualizationFactor float64) (float64, error) {
	n := len(prices)
	if n < 2 {
		return 0, ErrInsufficientData
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Timestamp.Before(prices[j].Timestamp)
	})

	logReturns := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		current := prices[i].Price
		previous := prices[i-1].Price

		// Non-positive prices would break math.Log; skip the pair.
		if previous <= 0 || current <= 0 {
			continue
		}
		logReturns = append(logReturns, math.Log(current/previous))
	}

	numReturns := len(logReturns)
	if numReturns == 0 {
		return 0, ErrInsufficientData
	}

	var sum float64
	for _, r := range logReturns {
		sum += r
	}
	mean := sum / float64(numReturns)

	var sumSqDiff float64
	for _, r := range logReturns {
		sumSqDiff += math.Pow(r-mean, 2)
	}

	// population standard deviation (N, not N-1)
	stdDev := math.Sqrt(sumSqDiff / float64(numReturns))

	return stdDev * math.Sqrt(annualizationFactor), nil
}
