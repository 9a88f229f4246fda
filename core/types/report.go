// Package types - Report record
package types

import "time"

// Target identifies the resources a run inspects
type Target struct {
	InstanceID string `json:"instance_id"`
	BucketName string `json:"bucket_name"`
	Region     string `json:"region"`
}

// Report is the assembled outcome of one successful run. A failed run
// produces no Report.
type Report struct {
	// ID uniquely identifies the run
	ID string `json:"id"`

	Target Target `json:"target"`

	Compute ComputeSnapshot `json:"compute"`
	Storage StorageSnapshot `json:"storage"`
	Cost    CostTotal       `json:"cost"`

	ComputeVerdict Verdict `json:"compute_verdict"`
	StorageVerdict Verdict `json:"storage_verdict"`

	Thresholds Thresholds `json:"thresholds"`

	Metadata ReportMetadata `json:"metadata"`
}

// ReportMetadata contains execution context
type ReportMetadata struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Duration    time.Duration `json:"duration"`
	Version     string        `json:"version,omitempty"`
}
