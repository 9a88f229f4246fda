package classify

import (
	"testing"

	"usage-report/core/types"
)

func TestCompute(t *testing.T) {
	th := types.Thresholds{CPUPercent: 10.0, NetworkMB: 10.0}

	tests := []struct {
		name string
		snap types.ComputeSnapshot
		want types.Verdict
	}{
		{name: "idle instance", snap: types.ComputeSnapshot{CPUPercent: 2.5, NetInMB: 1, NetOutMB: 0.5}, want: types.VerdictUnderutilized},
		{name: "all zero", snap: types.ComputeSnapshot{}, want: types.VerdictUnderutilized},
		{name: "cpu equal to threshold", snap: types.ComputeSnapshot{CPUPercent: 10.0, NetInMB: 1, NetOutMB: 1}, want: types.VerdictNormal},
		{name: "net in equal to threshold", snap: types.ComputeSnapshot{CPUPercent: 1, NetInMB: 10.0, NetOutMB: 1}, want: types.VerdictNormal},
		{name: "net out equal to threshold", snap: types.ComputeSnapshot{CPUPercent: 1, NetInMB: 1, NetOutMB: 10.0}, want: types.VerdictNormal},
		{name: "busy cpu only", snap: types.ComputeSnapshot{CPUPercent: 80, NetInMB: 0, NetOutMB: 0}, want: types.VerdictNormal},
		{name: "busy network only", snap: types.ComputeSnapshot{CPUPercent: 0, NetInMB: 500, NetOutMB: 0}, want: types.VerdictNormal},
		{name: "just below", snap: types.ComputeSnapshot{CPUPercent: 9.99, NetInMB: 9.99, NetOutMB: 9.99}, want: types.VerdictUnderutilized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.snap, th); got != tt.want {
				t.Errorf("Compute(%+v) = %s, want %s", tt.snap, got, tt.want)
			}
		})
	}
}

func TestStorage(t *testing.T) {
	th := types.Thresholds{MinBucketGB: 1, MinObjectCount: 50, MinRequestCount: 20}

	tests := []struct {
		name string
		snap types.StorageSnapshot
		want types.Verdict
	}{
		{name: "idle bucket", snap: types.StorageSnapshot{SizeGB: 0.05, ObjectCount: 3, RecentRequestCount: 2}, want: types.VerdictUnderutilized},
		{name: "size equal to threshold", snap: types.StorageSnapshot{SizeGB: 1, ObjectCount: 3, RecentRequestCount: 2}, want: types.VerdictNormal},
		{name: "objects equal to threshold", snap: types.StorageSnapshot{SizeGB: 0.05, ObjectCount: 50, RecentRequestCount: 2}, want: types.VerdictNormal},
		{name: "requests equal to threshold", snap: types.StorageSnapshot{SizeGB: 0.05, ObjectCount: 3, RecentRequestCount: 20}, want: types.VerdictNormal},
		{name: "large bucket no traffic", snap: types.StorageSnapshot{SizeGB: 500, ObjectCount: 0, RecentRequestCount: 0}, want: types.VerdictNormal},
		{name: "empty bucket", snap: types.StorageSnapshot{}, want: types.VerdictUnderutilized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Storage(tt.snap, th); got != tt.want {
				t.Errorf("Storage(%+v) = %s, want %s", tt.snap, got, tt.want)
			}
		})
	}
}

func TestClassificationIsDeterministic(t *testing.T) {
	th := types.DefaultThresholds()
	cs := types.ComputeSnapshot{CPUPercent: 4.2, NetInMB: 3.3, NetOutMB: 12}
	ss := types.StorageSnapshot{SizeGB: 0.2, ObjectCount: 10, RecentRequestCount: 5}

	first, second := Compute(cs, th), Compute(cs, th)
	if first != second {
		t.Errorf("compute verdict changed between calls: %s vs %s", first, second)
	}
	if Storage(ss, th) != Storage(ss, th) {
		t.Error("storage verdict changed between calls")
	}
}
