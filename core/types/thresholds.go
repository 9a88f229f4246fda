// Package types - Classification thresholds
package types

// Thresholds are the classification limits for a run. A resource is
// underutilized only when every measured value is strictly below its limit.
type Thresholds struct {
	// CPUPercent bounds average CPU utilization
	CPUPercent float64 `json:"cpu_percent" yaml:"cpu_percent"`

	// NetworkMB bounds both network in and network out
	NetworkMB float64 `json:"network_mb" yaml:"network_mb"`

	MinBucketGB     float64 `json:"min_bucket_gb" yaml:"min_bucket_gb"`
	MinObjectCount  int64   `json:"min_object_count" yaml:"min_object_count"`
	MinRequestCount int64   `json:"min_request_count" yaml:"min_request_count"`
}

// DefaultThresholds returns the stock limits
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUPercent:      10.0,
		NetworkMB:       10.0,
		MinBucketGB:     1.0,
		MinObjectCount:  50,
		MinRequestCount: 20,
	}
}
