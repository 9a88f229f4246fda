// Package storage fetches and normalizes bucket utilization.
//
// Bucket size and object count are published at most daily and may lag,
// so they are read from a two-day window at one-day period. Request counts
// are read from a separate one-hour window at five-minute period. The two
// reads are always issued as separate batches because a batch shares one
// time range and period across its series.
package storage

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

// Series identifiers
const (
	SeriesBucketSize  = "bucket_size"
	SeriesObjectCount = "obj_count"
	SeriesAllRequests = "all_requests"
)

const (
	namespace = "AWS/S3"

	// DailyWindow and DailyPeriod time the storage batch
	DailyWindow = 48 * time.Hour
	DailyPeriod = 24 * time.Hour

	// RequestWindow and RequestPeriod time the request batch
	RequestWindow = time.Hour
	RequestPeriod = 5 * time.Minute
)

// Target identifies the bucket and the dimension values used to read it
type Target struct {
	BucketName string

	// SizeStorageType is the StorageType dimension of BucketSizeBytes
	SizeStorageType string

	// CountStorageType is the StorageType dimension of NumberOfObjects
	CountStorageType string

	// RequestFilterID is the request metrics filter; request metrics must
	// be enabled for it or the series comes back empty.
	RequestFilterID string
}

// NewTarget returns a target with the stock dimension values
func NewTarget(bucket string) Target {
	return Target{
		BucketName:       bucket,
		SizeStorageType:  "StandardStorage",
		CountStorageType: "AllStorageTypes",
		RequestFilterID:  "EntireBucket",
	}
}

// Fetcher produces StorageSnapshots from a telemetry backend
type Fetcher struct {
	backend backend.MetricsBackend
	now     func() time.Time
	logger  *zap.Logger
}

// NewFetcher creates a storage fetcher over b
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

// DailyBatch returns the bucket size and object count query
func (f *Fetcher) DailyBatch(t Target) types.QueryBatch {
	return types.QueryBatch{
		Name:   "storage-daily",
		Window: DailyWindow,
		Order:  types.OrderDescending,
		Specs: []types.MetricQuerySpec{
			{
				ID:         SeriesBucketSize,
				Namespace:  namespace,
				MetricName: "BucketSizeBytes",
				Dimensions: map[string]string{"BucketName": t.BucketName, "StorageType": t.SizeStorageType},
				Stat:       types.StatAverage,
				Period:     DailyPeriod,
				Wanted:     true,
			},
			{
				ID:         SeriesObjectCount,
				Namespace:  namespace,
				MetricName: "NumberOfObjects",
				Dimensions: map[string]string{"BucketName": t.BucketName, "StorageType": t.CountStorageType},
				Stat:       types.StatAverage,
				Period:     DailyPeriod,
				Wanted:     true,
			},
		},
	}
}

// RequestBatch returns the recent request count query
func (f *Fetcher) RequestBatch(t Target) types.QueryBatch {
	return types.QueryBatch{
		Name:   "storage-requests",
		Window: RequestWindow,
		Order:  types.OrderDescending,
		Specs: []types.MetricQuerySpec{
			{
				ID:         SeriesAllRequests,
				Namespace:  namespace,
				MetricName: "AllRequests",
				Dimensions: map[string]string{"BucketName": t.BucketName, "FilterId": t.RequestFilterID},
				Stat:       types.StatSum,
				Period:     RequestPeriod,
				Wanted:     true,
			},
		},
	}
}

// Fetch issues the daily and request batches and reduces them to a
// snapshot. If either batch fails no snapshot is returned.
func (f *Fetcher) Fetch(ctx context.Context, t Target) (types.StorageSnapshot, error) {
	now := f.now().UTC()

	daily, err := backend.Execute(ctx, f.backend, f.DailyBatch(t), now, f.logger)
	if err != nil {
		return types.StorageSnapshot{}, err
	}

	requests, err := backend.Execute(ctx, f.backend, f.RequestBatch(t), now, f.logger)
	if err != nil {
		return types.StorageSnapshot{}, err
	}
	if !series.Present(requests, SeriesAllRequests) {
		f.logger.Debug("no request samples; request metrics may be disabled for the filter",
			zap.String("bucket", t.BucketName),
			zap.String("filter_id", t.RequestFilterID),
		)
	}

	snap := Reduce(daily, requests)
	f.logger.Debug("storage snapshot",
		zap.String("bucket", t.BucketName),
		zap.Float64("size_gb", snap.SizeGB),
		zap.Int64("object_count", snap.ObjectCount),
		zap.Int64("recent_request_count", snap.RecentRequestCount),
	)
	return snap, nil
}

// Reduce selects and normalizes the storage series. daily and requests
// are the results of the two batches and are never merged.
func Reduce(daily, requests types.SeriesSet) types.StorageSnapshot {
	return types.StorageSnapshot{
		SizeGB:             units.BytesToGB(series.Latest(daily, SeriesBucketSize, 0)),
		ObjectCount:        units.Count(series.Latest(daily, SeriesObjectCount, 0)),
		RecentRequestCount: units.Count(series.Latest(requests, SeriesAllRequests, 0)),
	}
}
