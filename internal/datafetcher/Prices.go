/*
This file fetches spot and historical USD prices from the CryptoCompare API.

The impermanent-loss outlook needs 30 days (720 hours) of valid hourly price
data to estimate volatility; the emission valuation needs a spot USD price for
the reward token. Both complete before the engine runs — the engine itself
never fetches.
*/

package datafetcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rangelab/rangecast/internal/config"
	"github.com/rangelab/rangecast/internal/logger"
	"github.com/rangelab/rangecast/internal/types"
)

var priceLogger = logger.GetForComponent("price_retriever")

var (
	ErrInvalidPriceData = errors.New("invalid price data received")
	ErrInsufficientData = errors.New("insufficient price data for volatility calculation")
)

const (
	RequiredHours = 720 // 30 days of hourly data for volatility
	histohourURL  = "https://min-api.cryptocompare.com/data/v2/histohour"
	spotPriceURL  = "https://min-api.cryptocompare.com/data/price"
	maxRetries    = 3
	priceTimeout  = 30 * time.Second
)

type histohourResponse struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
	Data     struct {
		Data []struct {
			Time  int64   `json:"time"`
			Close float64 `json:"close"`
		} `json:"Data"`
	} `json:"Data"`
}

// GetSpotPrice fetches the current USD price for a token symbol. Callers fall
// back to a cached price on failure; the engine never retries on its own.
func GetSpotPrice(symbol string) (float64, error) {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if symbol == "" {
		return 0, fmt.Errorf("%w: empty symbol", ErrInvalidPriceData)
	}

	url := fmt.Sprintf("%s?fsym=%s&tsyms=USD", spotPriceURL, symbol)
	if config.PriceAPIKey != "" {
		url += "&api_key=" + config.PriceAPIKey
	}

	client := &http.Client{Timeout: priceTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return 0, fmt.Errorf("spot price request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("spot price API returned status %d for %s", resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read spot price response for %s: %w", symbol, err)
	}

	var quote map[string]float64
	if err := json.Unmarshal(body, &quote); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPriceData, err)
	}

	price, ok := quote["USD"]
	if !ok {
		return 0, fmt.Errorf("%w: no USD quote for %s", ErrInvalidPriceData, symbol)
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: USD quote %f for %s", ErrInvalidPriceData, price, symbol)
	}

	priceLogger.Debug().Str("symbol", symbol).Float64("priceUsd", price).Msg("Spot price fetched")
	return price, nil
}

// GetHourlyPrices fetches hourly USD price history for volatility estimation,
// retrying transient failures with linear backoff.
func GetHourlyPrices(symbol string, hours int) ([]types.PricePoint, error) {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidPriceData)
	}
	if hours <= 0 {
		hours = RequiredHours
	}

	url := fmt.Sprintf("%s?fsym=%s&tsym=USD&limit=%d", histohourURL, symbol, hours)
	if config.PriceAPIKey != "" {
		url += "&api_key=" + config.PriceAPIKey
	}

	client := &http.Client{Timeout: priceTimeout}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		priceLogger.Debug().
			Str("symbol", symbol).
			Int("attempt", attempt).
			Int("maxRetries", maxRetries).
			Msg("Requesting hourly price history")

		resp, err := client.Get(url)
		if err != nil {
			lastErr = fmt.Errorf("hourly price request failed on attempt %d: %w", attempt, err)
			if attempt < maxRetries {
				time.Sleep(time.Duration(attempt) * time.Second)
				continue
			}
			break
		}

		points, err := parseHistohour(resp, symbol)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				priceLogger.Warn().
					Err(err).
					Str("symbol", symbol).
					Int("attempt", attempt).
					Msg("Hourly price response rejected, retrying")
				time.Sleep(time.Duration(attempt) * time.Second)
				continue
			}
			break
		}
		return points, nil
	}

	priceLogger.Error().
		Err(lastErr).
		Str("symbol", symbol).
		Int("maxRetries", maxRetries).
		Msg("All hourly price attempts failed")
	return nil, fmt.Errorf("failed to fetch hourly prices for %s after %d attempts: %w", symbol, maxRetries, lastErr)
}

// parseHistohour validates the API payload and converts it to price points.
// Every sample must carry a finite positive close; bad samples reject the
// whole series rather than silently thinning it.
func parseHistohour(resp *http.Response, symbol string) ([]types.PricePoint, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price API returned status %d for %s", resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read price response for %s: %w", symbol, err)
	}

	var parsed histohourResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPriceData, err)
	}
	if parsed.Response == "Error" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPriceData, parsed.Message)
	}
	if len(parsed.Data.Data) < 2 {
		return nil, fmt.Errorf("%w: %d samples for %s", ErrInsufficientData, len(parsed.Data.Data), symbol)
	}

	points := make([]types.PricePoint, 0, len(parsed.Data.Data))
	for _, sample := range parsed.Data.Data {
		if sample.Time <= 0 {
			return nil, fmt.Errorf("%w: invalid timestamp %d for %s", ErrInvalidPriceData, sample.Time, symbol)
		}
		if sample.Close <= 0 || math.IsNaN(sample.Close) || math.IsInf(sample.Close, 0) {
			return nil, fmt.Errorf("%w: close price %f for %s", ErrInvalidPriceData, sample.Close, symbol)
		}
		points = append(points, types.PricePoint{
			Timestamp: time.Unix(sample.Time, 0).UTC(),
			Price:     sample.Close,
		})
	}

	priceLogger.Info().
		Str("symbol", symbol).
		Int("samples", len(points)).
		Msg("Hourly price history fetched and validated")
	return points, nil
}
