// Package engine provides the API-primary report engine.
// CLI and HTTP server are thin wrappers around this engine.
package engine

import (
	"context"

	"go.uber.org/zap"

	"usage-report/adapters/cloudwatch"
	"usage-report/adapters/costexplorer"
	"usage-report/clouds/aws"
	"usage-report/core/backend"
	"usage-report/core/compute"
	"usage-report/core/cost"
	"usage-report/core/report"
	"usage-report/core/storage"
	"usage-report/core/types"
	"usage-report/internal/config"
	"usage-report/internal/logging"
)

// Engine runs reports for one configured target
type Engine struct {
	assembler *report.Assembler
	request   report.Request
	logger    *zap.Logger
}

// New builds an engine backed by CloudWatch and Cost Explorer. The AWS
// session is resolved once from cfg and shared by both backends.
func New(ctx context.Context, cfg *config.Config, version string, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	session, err := aws.NewSession(ctx, cfg.AWS.Region, cfg.AWS.Profile)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeouts.Call()
	metrics := cloudwatch.New(session.Config(), timeout, logger.Named("cloudwatch"))
	costs := costexplorer.New(session.Config(), timeout, logger.Named("costexplorer"))

	return NewWithBackends(cfg, metrics, costs, version, logger), nil
}

// NewWithBackends builds an engine over explicit backends
func NewWithBackends(cfg *config.Config, metrics backend.MetricsBackend, costs backend.CostBackend, version string, logger *zap.Logger) *Engine {
	logger = logging.OrNop(logger)

	assembler := report.NewAssembler(
		compute.NewFetcher(metrics, logger.Named("compute")),
		storage.NewFetcher(metrics, logger.Named("storage")),
		cost.NewAggregator(costs, logger.Named("cost")),
		logger.Named("report"),
	).WithVersion(version)

	return &Engine{
		assembler: assembler,
		request:   RequestFromConfig(cfg),
		logger:    logger,
	}
}

// Request returns the report request the engine runs
func (e *Engine) Request() report.Request {
	return e.request
}

// Run produces one report. A backend failure yields no report.
func (e *Engine) Run(ctx context.Context) (*types.Report, error) {
	return e.assembler.Run(ctx, e.request)
}

// RequestFromConfig maps the run configuration onto a report request
func RequestFromConfig(cfg *config.Config) report.Request {
	bucket := storage.NewTarget(cfg.Target.BucketName)
	if cfg.Target.SizeStorageType != "" {
		bucket.SizeStorageType = cfg.Target.SizeStorageType
	}
	if cfg.Target.CountStorageType != "" {
		bucket.CountStorageType = cfg.Target.CountStorageType
	}
	if cfg.Target.RequestFilterID != "" {
		bucket.RequestFilterID = cfg.Target.RequestFilterID
	}

	return report.Request{
		InstanceID:  cfg.Target.InstanceID,
		Bucket:      bucket,
		Region:      cfg.AWS.Region,
		Thresholds:  cfg.Thresholds,
		CostDays:    cfg.Cost.LookbackDays,
		CostService: cfg.Cost.Service,
	}
}
