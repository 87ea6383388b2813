/*
This file contains helpers for converting raw on-ledger integer amounts into
float64 token quantities with explicit precision handling.
*/

package utils

import (
	"errors"
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"
)

var (
	ErrInvalidPrecision = errors.New("precision is invalid")
	ErrAmountNil        = errors.New("amount is nil")
	ErrAmountNegative   = errors.New("amount is negative")
	ErrNotFinite        = errors.New("value is not finite")
	ErrConversionFailed = errors.New("conversion failed")
)

// ScaleRawAmount converts a raw (pre-decimal-scaling) integer amount into a
// whole-token float64 quantity. decimals is the token's decimal precision and
// must be between 0 and 18.
func ScaleRawAmount(raw sdkmath.Int, decimals uint) (float64, error) {
	if decimals > 18 {
		return 0, fmt.Errorf("%w: %d (must be between 0 and 18)", ErrInvalidPrecision, decimals)
	}
	if raw.IsNil() {
		return 0, ErrAmountNil
	}
	if raw.IsNegative() {
		return 0, ErrAmountNegative
	}

	decAmount := sdkmath.LegacyNewDecFromInt(raw)
	factor := sdkmath.LegacyNewDec(1)
	for i := uint(0); i < decimals; i++ {
		factor = factor.Mul(sdkmath.LegacyNewDec(10))
	}

	scaled, err := decAmount.Quo(factor).Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) {
		return 0, fmt.Errorf("%w: result is %f", ErrNotFinite, scaled)
	}
	return scaled, nil
}

// ParseRawAmount parses a raw integer amount from its decimal string form, as
// delivered by JSON APIs that cannot represent large integers natively.
func ParseRawAmount(s string) (sdkmath.Int, error) {
	if s == "" {
		return sdkmath.ZeroInt(), nil
	}
	raw, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %q is not an integer", ErrConversionFailed, s)
	}
	if raw.IsNegative() {
		return sdkmath.ZeroInt(), ErrAmountNegative
	}
	return raw, nil
}
