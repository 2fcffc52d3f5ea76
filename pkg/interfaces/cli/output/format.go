package output

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is shown for unknown or infinite values
const Placeholder = "-"

// RawResourceLabel replaces the recipe column for raw resource rows
const RawResourceLabel = "(Raw Resource)"

// Number rounds v to places decimals, or returns Placeholder when v is not finite
func Number(v float64, places int32) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Placeholder
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Amount formats costs, power and machine counts
func Amount(v float64) string {
	return Number(v, 2)
}

// Rate formats per-minute rates
func Rate(v float64) string {
	return Number(v, 4)
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func rule(widths ...int) []any {
	dashes := make([]any, len(widths))
	for i, w := range widths {
		dashes[i] = strings.Repeat("-", w)
	}
	return dashes
}
