/*

This file contains the boundary defaults applied when the external market-data
service omits optional pool fields. They exist only at the collaborator
boundary; the engine itself never defaults anything.

*/

package config

import "strings"

// DefaultTickSpacing is applied when the pool listing omits a tick spacing.
// It matches the most common fee tier's grid.
const DefaultTickSpacing = 60

// StableSymbols is the known stable-token set used to resolve which side of
// a pair is the quote. The engine receives the resolution as a boolean flag
// and never inspects symbols itself.
var StableSymbols = map[string]bool{
	"usdc":   true,
	"usdt":   true,
	"dai":    true,
	"usdc.e": true,
	"usdt.e": true,
	"frax":   true,
	"lusd":   true,
	"usdb":   true,
}

// IsStableSymbol reports whether a token symbol belongs to the stable set.
// Matching is case-insensitive.
func IsStableSymbol(symbol string) bool {
	return StableSymbols[strings.ToLower(symbol)]
}
