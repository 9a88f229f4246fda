package backend

import (
	"context"
	"time"

	"go.uber.org/zap"

	"usage-report/core/types"
	"usage-report/internal/errors"
)

// Execute validates batch, issues it as a single backend call over the
// batch window ending at now, and drops series the batch did not ask for.
// Any backend failure is returned as a BACKEND_ERROR and no series are
// returned with it.
func Execute(ctx context.Context, b MetricsBackend, batch types.QueryBatch, now time.Time, logger *zap.Logger) (types.SeriesSet, error) {
	if err := batch.Validate(); err != nil {
		return nil, errors.Internal("invalid query batch", err)
	}

	start, end := batch.Range(now)
	logger.Debug("issuing query batch",
		zap.String("batch", batch.Name),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Duration("period", batch.Period()),
		zap.Strings("series", batch.IDs()),
	)

	set, err := b.QueryMetrics(ctx, batch.Specs, start, end, batch.Order)
	if err != nil {
		return nil, errors.Backend("telemetry", batch.Name, err)
	}

	known := batch.IDs()
	for _, id := range set.Unrecognized(known...) {
		logger.Warn("ignoring unrecognized series",
			zap.String("batch", batch.Name),
			zap.String("series", id),
		)
	}

	out := make(types.SeriesSet, len(known))
	for _, id := range known {
		if s, ok := set[id]; ok {
			out[id] = s
		}
	}
	logger.Debug("query batch complete",
		zap.String("batch", batch.Name),
		zap.Int("series_returned", len(out)),
	)
	return out, nil
}
