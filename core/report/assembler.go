// Package report runs the fetchers and the cost aggregator for one target
// and assembles the classified report.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"usage-report/core/classify"
	"usage-report/core/compute"
	"usage-report/core/cost"
	"usage-report/core/storage"
	"usage-report/core/types"
	"usage-report/internal/errors"
	"usage-report/internal/logging"
)

// Request is the run-level input of one report
type Request struct {
	InstanceID string
	Bucket     storage.Target
	Region     string

	Thresholds types.Thresholds

	CostDays    int
	CostService string
}

// Validate checks the request identifiers
func (r Request) Validate() error {
	if r.InstanceID == "" {
		return errors.Input("instance id is required")
	}
	if r.Bucket.BucketName == "" {
		return errors.Input("bucket name is required")
	}
	if r.CostDays <= 0 {
		return errors.Newf(errors.TypeInput, "cost lookback must be positive, got %d", r.CostDays)
	}
	return nil
}

// Assembler composes the compute, storage and cost components
type Assembler struct {
	compute *compute.Fetcher
	storage *storage.Fetcher
	cost    *cost.Aggregator

	version string
	now     func() time.Time
	logger  *zap.Logger
}

// NewAssembler creates an assembler from its components
func NewAssembler(c *compute.Fetcher, s *storage.Fetcher, a *cost.Aggregator, logger *zap.Logger) *Assembler {
	return &Assembler{
		compute: c,
		storage: s,
		cost:    a,
		now:     time.Now,
		logger:  logging.OrNop(logger),
	}
}

// WithVersion sets the version stamped into report metadata
func (a *Assembler) WithVersion(v string) *Assembler {
	a.version = v
	return a
}

// Run fetches compute, storage and cost concurrently and classifies the
// snapshots. The first failure cancels the remaining fetches and Run
// returns that error with no report.
func (a *Assembler) Run(ctx context.Context, req Request) (*types.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := a.now()
	runID := uuid.NewString()
	log := a.logger.With(zap.String("run_id", runID))
	log.Info("starting report",
		zap.String("instance_id", req.InstanceID),
		zap.String("bucket", req.Bucket.BucketName),
		zap.String("region", req.Region),
	)

	var (
		cs types.ComputeSnapshot
		ss types.StorageSnapshot
		ct types.CostTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cs, err = a.compute.Fetch(gctx, req.InstanceID)
		return err
	})
	g.Go(func() error {
		var err error
		ss, err = a.storage.Fetch(gctx, req.Bucket)
		return err
	})
	g.Go(func() error {
		var err error
		ct, err = a.cost.Total(gctx, req.CostDays, req.CostService)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("report failed", zap.Error(err))
		return nil, err
	}

	r := &types.Report{
		ID: runID,
		Target: types.Target{
			InstanceID: req.InstanceID,
			BucketName: req.Bucket.BucketName,
			Region:     req.Region,
		},
		Compute:        cs,
		Storage:        ss,
		Cost:           ct,
		ComputeVerdict: classify.Compute(cs, req.Thresholds),
		StorageVerdict: classify.Storage(ss, req.Thresholds),
		Thresholds:     req.Thresholds,
		Metadata: types.ReportMetadata{
			GeneratedAt: start.UTC(),
			Duration:    time.Since(start),
			Version:     a.version,
		},
	}

	log.Info("report complete",
		zap.String("compute_verdict", r.ComputeVerdict.String()),
		zap.String("storage_verdict", r.StorageVerdict.String()),
		zap.Duration("duration", r.Metadata.Duration),
	)
	return r, nil
}
