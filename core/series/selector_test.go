package series

import (
	"testing"
	"time"

	"usage-report/core/types"
)

func TestLatest(t *testing.T) {
	t1 := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(5 * time.Minute)
	t3 := t2.Add(5 * time.Minute)

	tests := []struct {
		name string
		set  types.SeriesSet
		id   string
		want float64
	}{
		{
			name: "most recent first returns first sample",
			set: types.SeriesSet{"cpu": {ID: "cpu", Samples: []types.Sample{
				{Timestamp: t3, Value: 3.5}, {Timestamp: t2, Value: 2.5}, {Timestamp: t1, Value: 1.5},
			}}},
			id:   "cpu",
			want: 3.5,
		},
		{
			name: "single sample",
			set:  types.SeriesSet{"cpu": {ID: "cpu", Samples: []types.Sample{{Timestamp: t1, Value: 7}}}},
			id:   "cpu",
			want: 7,
		},
		{
			name: "ascending order still yields freshest",
			set: types.SeriesSet{"cpu": {ID: "cpu", Samples: []types.Sample{
				{Timestamp: t1, Value: 1}, {Timestamp: t2, Value: 2}, {Timestamp: t3, Value: 3},
			}}},
			id:   "cpu",
			want: 3,
		},
		{
			name: "equal timestamps keep backend order",
			set: types.SeriesSet{"cpu": {ID: "cpu", Samples: []types.Sample{
				{Timestamp: t2, Value: 9}, {Timestamp: t2, Value: 4},
			}}},
			id:   "cpu",
			want: 9,
		},
		{
			name: "missing timestamps use first sample",
			set: types.SeriesSet{"cpu": {ID: "cpu", Samples: []types.Sample{
				{Value: 11}, {Value: 12},
			}}},
			id:   "cpu",
			want: 11,
		},
		{
			name: "empty series yields default",
			set:  types.SeriesSet{"net_in": {ID: "net_in"}},
			id:   "net_in",
			want: 0,
		},
		{
			name: "absent series yields default",
			set:  types.SeriesSet{"cpu": {ID: "cpu", Samples: []types.Sample{{Value: 1}}}},
			id:   "net_out",
			want: 0,
		},
		{
			name: "nil set yields default",
			set:  nil,
			id:   "cpu",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Latest(tt.set, tt.id, 0); got != tt.want {
				t.Errorf("Latest(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestLatestUsesCallerDefault(t *testing.T) {
	if got := Latest(types.SeriesSet{}, "cpu", -1); got != -1 {
		t.Errorf("expected caller default -1, got %v", got)
	}
}

func TestPresent(t *testing.T) {
	set := types.SeriesSet{
		"cpu":    {ID: "cpu", Samples: []types.Sample{{Value: 1}}},
		"net_in": {ID: "net_in"},
	}
	if !Present(set, "cpu") {
		t.Error("expected cpu to be present")
	}
	if Present(set, "net_in") {
		t.Error("empty series should not count as present")
	}
	if Present(set, "net_out") {
		t.Error("absent series should not count as present")
	}
}
