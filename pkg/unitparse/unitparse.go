// Package unitparse converts package-size descriptors like "50kg" or "25 kg" into a
// kilogram multiplier for normalizing stock request quantities.
package unitparse

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultKgPerPackage is used when the descriptor cannot be parsed.
var DefaultKgPerPackage = decimal.NewFromInt(50)

// KilogramsPerPackage parses a trailing "kg" descriptor into a numeric multiplier.
// "50kg" -> 50, "25 kg" -> 25. Unparsable or non-positive input falls back to the
// 50kg default package.
func KilogramsPerPackage(packageSize string) decimal.Decimal {
	s := strings.ToLower(strings.TrimSpace(packageSize))
	s = strings.TrimSuffix(s, "kg")
	s = strings.TrimSpace(s)

	v, err := decimal.NewFromString(s)
	if err != nil || v.LessThanOrEqual(decimal.Zero) {
		return DefaultKgPerPackage
	}
	return v
}
