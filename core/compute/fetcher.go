// Package compute fetches and normalizes instance utilization.
package compute

import (
	"context"
	"time"

	"go.uber.org/zap"

	"usage-report/core/backend"
	"usage-report/core/series"
	"usage-report/core/types"
	"usage-report/core/units"
	"usage-report/internal/logging"
)

// Series identifiers of the compute batch
const (
	SeriesCPU    = "cpu"
	SeriesNetIn  = "net_in"
	SeriesNetOut = "net_out"
)

const (
	namespace = "AWS/EC2"

	// Lookback is the compute query window
	Lookback = time.Hour

	// Period is the compute sampling period
	Period = 5 * time.Minute
)

// Fetcher produces ComputeSnapshots from a telemetry backend
type Fetcher struct {
	backend backend.MetricsBackend
	now     func() time.Time
	logger  *zap.Logger
}

// NewFetcher creates a compute fetcher over b
func NewFetcher(b backend.MetricsBackend, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		backend: b,
		now:     time.Now,
		logger:  logging.OrNop(logger),
	}
}

// WithClock returns a copy of the fetcher using now as its reference time
func (f *Fetcher) WithClock(now func() time.Time) *Fetcher {
	c := *f
	c.now = now
	return &c
}

// Batch returns the three-series query for instanceID
func (f *Fetcher) Batch(instanceID string) types.QueryBatch {
	dims := map[string]string{"InstanceId": instanceID}
	spec := func(id, metric string, stat types.Statistic) types.MetricQuerySpec {
		return types.MetricQuerySpec{
			ID:         id,
			Namespace:  namespace,
			MetricName: metric,
			Dimensions: dims,
			Stat:       stat,
			Period:     Period,
			Wanted:     true,
		}
	}
	return types.QueryBatch{
		Name:   "compute",
		Window: Lookback,
		Order:  types.OrderDescending,
		Specs: []types.MetricQuerySpec{
			spec(SeriesCPU, "CPUUtilization", types.StatAverage),
			spec(SeriesNetIn, "NetworkIn", types.StatSum),
			spec(SeriesNetOut, "NetworkOut", types.StatSum),
		},
	}
}

// Fetch queries the backend once and reduces the result to a snapshot.
// Empty or absent series resolve to zero; a backend failure is returned
// without a snapshot.
func (f *Fetcher) Fetch(ctx context.Context, instanceID string) (types.ComputeSnapshot, error) {
	set, err := backend.Execute(ctx, f.backend, f.Batch(instanceID), f.now().UTC(), f.logger)
	if err != nil {
		return types.ComputeSnapshot{}, err
	}

	snap := Reduce(set)
	f.logger.Debug("compute snapshot",
		zap.String("instance_id", instanceID),
		zap.Float64("cpu_percent", snap.CPUPercent),
		zap.Float64("net_in_mb", snap.NetInMB),
		zap.Float64("net_out_mb", snap.NetOutMB),
	)
	return snap, nil
}

// Reduce selects and normalizes the compute series
func Reduce(set types.SeriesSet) types.ComputeSnapshot {
	return types.ComputeSnapshot{
		CPUPercent: units.Percent(series.Latest(set, SeriesCPU, 0)),
		NetInMB:    units.BytesToMB(series.Latest(set, SeriesNetIn, 0)),
		NetOutMB:   units.BytesToMB(series.Latest(set, SeriesNetOut, 0)),
	}
}
