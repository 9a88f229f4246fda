// Package cost sums daily service cost over a trailing window.
package cost

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"usage-report/core/backend"
	"usage-report/core/types"
	"usage-report/core/units"
	"usage-report/internal/errors"
	"usage-report/internal/logging"
)

const (
	// DefaultWindowDays is the trailing window when none is configured
	DefaultWindowDays = 7

	// DefaultService is the compute service filter
	DefaultService = "Amazon Elastic Compute Cloud - Compute"

	// MetricUnblendedCost is the summed cost metric
	MetricUnblendedCost = "UnblendedCost"

	// DimensionService is the filter dimension key
	DimensionService = "SERVICE"

	dateLayout = "2006-01-02"
)

// Aggregator produces CostTotals from a cost backend
type Aggregator struct {
	backend backend.CostBackend
	now     func() time.Time
	logger  *zap.Logger
}

// NewAggregator creates an aggregator over b
func NewAggregator(b backend.CostBackend, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		backend: b,
		now:     time.Now,
		logger:  logging.OrNop(logger),
	}
}

// WithClock returns a copy of the aggregator using now as its reference time
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	c := *a
	c.now = now
	return &c
}

// Query returns the cost query for the trailing days ending today (UTC,
// exclusive).
func (a *Aggregator) Query(days int, service string) types.CostQuery {
	end := truncateDay(a.now().UTC())
	return types.CostQuery{
		Start:           end.AddDate(0, 0, -days),
		End:             end,
		Granularity:     types.GranularityDaily,
		Metric:          MetricUnblendedCost,
		DimensionKey:    DimensionService,
		DimensionValues: []string{service},
	}
}

// Total queries the backend and sums every reported day. Days without an
// amount count as zero. The sum is rounded once, to four decimals.
func (a *Aggregator) Total(ctx context.Context, days int, service string) (types.CostTotal, error) {
	if days <= 0 {
		return types.CostTotal{}, errors.Newf(errors.TypeInput, "cost window must be positive, got %d days", days)
	}
	if service == "" {
		service = DefaultService
	}

	q := a.Query(days, service)
	a.logger.Debug("issuing cost query",
		zap.String("service", service),
		zap.String("start", q.Start.Format(dateLayout)),
		zap.String("end", q.End.Format(dateLayout)),
	)

	daily, err := a.backend.QueryCost(ctx, q)
	if err != nil {
		return types.CostTotal{}, errors.Backend("cost", "daily-cost", err)
	}

	missing := lo.CountBy(daily, func(d types.DailyCost) bool { return d.Amount == nil })
	if missing > 0 {
		a.logger.Debug("days without reported cost counted as zero", zap.Int("days", missing))
	}

	total := types.CostTotal{
		Amount:     Sum(daily).Round(units.CostPlaces),
		Currency:   currencyOf(daily),
		WindowDays: days,
		Service:    service,
		Start:      q.Start.Format(dateLayout),
		End:        q.End.Format(dateLayout),
	}
	a.logger.Debug("cost total",
		zap.String("amount", total.Amount.StringFixed(units.CostPlaces)),
		zap.Int("days_reported", len(daily)),
	)
	return total, nil
}

// Sum adds the reported amounts; nil amounts contribute zero.
func Sum(daily []types.DailyCost) decimal.Decimal {
	return lo.Reduce(daily, func(acc decimal.Decimal, d types.DailyCost, _ int) decimal.Decimal {
		if d.Amount == nil {
			return acc
		}
		return acc.Add(*d.Amount)
	}, decimal.Zero)
}

func currencyOf(daily []types.DailyCost) types.Currency {
	if d, ok := lo.Find(daily, func(d types.DailyCost) bool { return d.Currency != "" }); ok {
		return d.Currency
	}
	return types.CurrencyUSD
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
