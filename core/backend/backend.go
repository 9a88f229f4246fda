// Package backend defines the telemetry and cost capabilities the report
// core consumes. Concrete clients live under adapters/.
package backend

import (
	"context"
	"time"

	"usage-report/core/types"
)

// MetricsBackend returns named time series for a set of query specs.
// Result keys are spec IDs; specs with Wanted=false may be omitted.
type MetricsBackend interface {
	QueryMetrics(ctx context.Context, specs []types.MetricQuerySpec, start, end time.Time, order types.ScanOrder) (types.SeriesSet, error)
}

// CostBackend returns per-period cost amounts in chronological order.
type CostBackend interface {
	QueryCost(ctx context.Context, query types.CostQuery) ([]types.DailyCost, error)
}

// MetricsBackendFunc adapts a function to MetricsBackend
type MetricsBackendFunc func(ctx context.Context, specs []types.MetricQuerySpec, start, end time.Time, order types.ScanOrder) (types.SeriesSet, error)

// QueryMetrics implements MetricsBackend
func (f MetricsBackendFunc) QueryMetrics(ctx context.Context, specs []types.MetricQuerySpec, start, end time.Time, order types.ScanOrder) (types.SeriesSet, error) {
	return f(ctx, specs, start, end, order)
}

// CostBackendFunc adapts a function to CostBackend
type CostBackendFunc func(ctx context.Context, query types.CostQuery) ([]types.DailyCost, error)

// QueryCost implements CostBackend
func (f CostBackendFunc) QueryCost(ctx context.Context, query types.CostQuery) ([]types.DailyCost, error) {
	return f(ctx, query)
}
