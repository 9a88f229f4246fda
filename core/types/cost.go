// Package types - Cost accounting types
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Granularity is the cost backend bucket width
type Granularity string

const (
	GranularityDaily Granularity = "DAILY"
)

// CostQuery describes one cost backend request. End is exclusive.
type CostQuery struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Granularity Granularity `json:"granularity"`

	// Metric is the cost metric, e.g. "UnblendedCost"
	Metric string `json:"metric"`

	// DimensionKey and DimensionValues filter the query, e.g. SERVICE
	DimensionKey    string   `json:"dimension_key"`
	DimensionValues []string `json:"dimension_values"`
}

// DailyCost is one day reported by the cost backend. Amount is nil when
// the backend reported no amount for the day.
type DailyCost struct {
	Date     string           `json:"date"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Currency Currency         `json:"currency,omitempty"`
}

// CostTotal is the summed cost over a trailing window, rounded to four
// decimals.
type CostTotal struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   Currency        `json:"currency"`
	WindowDays int             `json:"window_days"`
	Service    string          `json:"service"`
	Start      string          `json:"start"`
	End        string          `json:"end"`
}
