// Package classify applies utilization thresholds to snapshots.
// Both predicates are pure; comparisons are strict, so a value equal to
// its threshold classifies as normal.
package classify

import "usage-report/core/types"

// Compute is underutilized iff CPU, network in and network out are all
// strictly below their thresholds.
func Compute(s types.ComputeSnapshot, t types.Thresholds) types.Verdict {
	if s.CPUPercent < t.CPUPercent && s.NetInMB < t.NetworkMB && s.NetOutMB < t.NetworkMB {
		return types.VerdictUnderutilized
	}
	return types.VerdictNormal
}

// Storage is underutilized iff size, object count and recent requests are
// all strictly below their thresholds.
func Storage(s types.StorageSnapshot, t types.Thresholds) types.Verdict {
	if s.SizeGB < t.MinBucketGB && s.ObjectCount < t.MinObjectCount && s.RecentRequestCount < t.MinRequestCount {
		return types.VerdictUnderutilized
	}
	return types.VerdictNormal
}
