// Package types - Telemetry query and series types
package types

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

// Statistic is the aggregation applied inside each period bucket
type Statistic string

const (
	StatAverage Statistic = "Average"
	StatSum     Statistic = "Sum"
)

// ScanOrder is the sample order requested from the telemetry backend
type ScanOrder string

const (
	OrderDescending ScanOrder = "desc"
	OrderAscending  ScanOrder = "asc"
)

// Sample is a single timestamped observation
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// TimeSeries is a named sequence of samples as delivered by the backend.
// Samples keep the backend's order and are not modified afterwards.
type TimeSeries struct {
	// ID matches the MetricQuerySpec.ID that produced it
	ID string `json:"id"`

	// Label is the backend's display label, if any
	Label string `json:"label,omitempty"`

	Samples []Sample `json:"samples"`
}

// Empty reports whether the series carries no samples
func (s TimeSeries) Empty() bool {
	return len(s.Samples) == 0
}

// SeriesSet maps series identifiers to their series
type SeriesSet map[string]TimeSeries

// Unrecognized returns the identifiers in the set that are not in known,
// sorted for stable logging.
func (s SeriesSet) Unrecognized(known ...string) []string {
	ids := lo.Without(lo.Keys(s), known...)
	slices.Sort(ids)
	return ids
}

// MetricQuerySpec describes one named series to request
type MetricQuerySpec struct {
	// ID names the series in the result; unique within a batch
	ID string `json:"id"`

	// Namespace is the metric namespace (e.g. "AWS/EC2")
	Namespace string `json:"namespace"`

	// MetricName is the source metric (e.g. "CPUUtilization")
	MetricName string `json:"metric_name"`

	// Dimensions filters the metric (e.g. InstanceId -> i-123)
	Dimensions map[string]string `json:"dimensions"`

	// Stat is the per-period aggregation
	Stat Statistic `json:"stat"`

	// Period is the pre-aggregation bucket width
	Period time.Duration `json:"period"`

	// Wanted marks series the caller expects back
	Wanted bool `json:"wanted"`
}

// QueryBatch is a set of specs issued in one backend call. Every spec
// in a batch shares the batch's lookback window and a single period;
// metrics with different timing belong in separate batches.
type QueryBatch struct {
	// Name identifies the batch in logs and errors
	Name string `json:"name"`

	// Window is the lookback from the run's reference time
	Window time.Duration `json:"window"`

	// Order is the requested sample order
	Order ScanOrder `json:"order"`

	Specs []MetricQuerySpec `json:"specs"`
}

// Range returns the [start, end) time range of the batch relative to now
func (b QueryBatch) Range(now time.Time) (time.Time, time.Time) {
	return now.Add(-b.Window), now
}

// Period returns the shared period of the batch specs
func (b QueryBatch) Period() time.Duration {
	if len(b.Specs) == 0 {
		return 0
	}
	return b.Specs[0].Period
}

// IDs returns the spec identifiers in declaration order
func (b QueryBatch) IDs() []string {
	return lo.Map(b.Specs, func(s MetricQuerySpec, _ int) string { return s.ID })
}

// Validate checks the batch invariants
func (b QueryBatch) Validate() error {
	if len(b.Specs) == 0 {
		return fmt.Errorf("batch %q has no specs", b.Name)
	}
	if b.Window <= 0 {
		return fmt.Errorf("batch %q has non-positive window %s", b.Name, b.Window)
	}
	period := b.Period()
	seen := make(map[string]bool, len(b.Specs))
	for _, s := range b.Specs {
		if s.ID == "" {
			return fmt.Errorf("batch %q has a spec without id", b.Name)
		}
		if seen[s.ID] {
			return fmt.Errorf("batch %q has duplicate spec id %q", b.Name, s.ID)
		}
		seen[s.ID] = true
		if s.Period <= 0 {
			return fmt.Errorf("spec %q has non-positive period", s.ID)
		}
		if s.Period != period {
			return fmt.Errorf("batch %q mixes periods %s and %s", b.Name, period, s.Period)
		}
	}
	return nil
}
