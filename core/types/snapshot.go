// Package types - Normalized resource snapshots
package types

// ComputeSnapshot is the normalized utilization of one instance over the
// compute lookback window. Values are rounded to two decimals.
type ComputeSnapshot struct {
	CPUPercent float64 `json:"cpu_percent"`
	NetInMB    float64 `json:"net_in_mb"`
	NetOutMB   float64 `json:"net_out_mb"`
}

// StorageSnapshot is the normalized utilization of one bucket.
// SizeGB and ObjectCount come from the daily storage window,
// RecentRequestCount from the short request window.
type StorageSnapshot struct {
	SizeGB             float64 `json:"size_gb"`
	ObjectCount        int64   `json:"object_count"`
	RecentRequestCount int64   `json:"recent_request_count"`
}

// Verdict is the utilization classification of a resource
type Verdict string

const (
	VerdictUnderutilized Verdict = "UNDERUTILIZED"
	VerdictNormal        Verdict = "NORMAL"
)

// String returns the string representation
func (v Verdict) String() string {
	return string(v)
}

// Underutilized reports whether the verdict flags the resource
func (v Verdict) Underutilized() bool {
	return v == VerdictUnderutilized
}
