// Package units converts raw telemetry values into report units.
// Each conversion rounds to the precision of the field it feeds, so a
// value must pass through exactly one of these functions.
package units

import "github.com/shopspring/decimal"

const (
	bytesPerMB = 1024.0 * 1024.0
	bytesPerGB = 1024.0 * 1024.0 * 1024.0
)

// Report field precisions
const (
	PercentPlaces int32 = 2
	MBPlaces      int32 = 2
	GBPlaces      int32 = 3
	CostPlaces    int32 = 4
)

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Percent rounds a percentage.
func Percent(v float64) float64 {
	return Round(v, PercentPlaces)
}

// BytesToMB converts bytes to megabytes (1024²).
func BytesToMB(bytes float64) float64 {
	return Round(bytes/bytesPerMB, MBPlaces)
}

// BytesToGB converts bytes to gigabytes (1024³).
func BytesToGB(bytes float64) float64 {
	return Round(bytes/bytesPerGB, GBPlaces)
}

// Count truncates a count metric toward zero.
func Count(v float64) int64 {
	return int64(v)
}
