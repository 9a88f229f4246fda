// Package series picks the representative value of a telemetry series.
//
// The telemetry backend is queried for most-recent-first samples, so the
// first sample is normally the freshest. Latest does not trust that order
// blindly: a later sample only wins when its timestamp is strictly newer,
// which leaves backend order as the tie-break.
package series

import "usage-report/core/types"

// Latest returns the value of the freshest sample of series id, or def
// when the series is absent or has no samples. No averaging or
// interpolation is applied across samples.
func Latest(set types.SeriesSet, id string, def float64) float64 {
	s, ok := set[id]
	if !ok || s.Empty() {
		return def
	}
	best := s.Samples[0]
	for _, sample := range s.Samples[1:] {
		if sample.Timestamp.After(best.Timestamp) {
			best = sample
		}
	}
	return best.Value
}

// Present reports whether series id exists and has at least one sample.
func Present(set types.SeriesSet, id string) bool {
	s, ok := set[id]
	return ok && !s.Empty()
}
