// Package costexplorer implements the cost backend over AWS Cost Explorer
// GetCostAndUsage.
package costexplorer

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"usage-report/core/types"
	"usage-report/internal/logging"
)

const (
	// DefaultTimeout bounds each GetCostAndUsage page request
	DefaultTimeout = 30 * time.Second

	// Region is where the Cost Explorer endpoint lives regardless of the
	// region of the inspected resources.
	Region = "us-east-1"

	dateLayout = "2006-01-02"
)

// API is the subset of the Cost Explorer client used by the adapter
type API interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// Adapter answers cost queries from Cost Explorer
type Adapter struct {
	api     API
	timeout time.Duration
	logger  *zap.Logger
}

// New creates an adapter from an AWS configuration
func New(cfg aws.Config, timeout time.Duration, logger *zap.Logger) *Adapter {
	client := costexplorer.NewFromConfig(cfg, func(o *costexplorer.Options) {
		o.Region = Region
	})
	return NewWithAPI(client, timeout, logger)
}

// NewWithAPI creates an adapter over an existing client
func NewWithAPI(api API, timeout time.Duration, logger *zap.Logger) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{
		api:     api,
		timeout: timeout,
		logger:  logging.OrNop(logger),
	}
}

// QueryCost returns one entry per result period, following
// NextPageToken pages. A period without the metric has a nil amount.
func (a *Adapter) QueryCost(ctx context.Context, q types.CostQuery) ([]types.DailyCost, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: aws.String(q.Start.Format(dateLayout)),
			End:   aws.String(q.End.Format(dateLayout)),
		},
		Granularity: cetypes.Granularity(q.Granularity),
		Metrics:     []string{q.Metric},
	}
	if q.DimensionKey != "" {
		input.Filter = &cetypes.Expression{
			Dimensions: &cetypes.DimensionValues{
				Key:    cetypes.Dimension(q.DimensionKey),
				Values: q.DimensionValues,
			},
		}
	}

	var days []types.DailyCost
	for {
		out, err := a.getPage(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, r := range out.ResultsByTime {
			d, err := toDaily(r, q.Metric)
			if err != nil {
				return nil, err
			}
			days = append(days, d)
		}
		if aws.ToString(out.NextPageToken) == "" {
			a.logger.Debug("get cost and usage complete", zap.Int("periods", len(days)))
			return days, nil
		}
		input.NextPageToken = out.NextPageToken
	}
}

func (a *Adapter) getPage(ctx context.Context, input *costexplorer.GetCostAndUsageInput) (*costexplorer.GetCostAndUsageOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.api.GetCostAndUsage(ctx, input)
}

func toDaily(r cetypes.ResultByTime, metric string) (types.DailyCost, error) {
	d := types.DailyCost{}
	if r.TimePeriod != nil {
		d.Date = aws.ToString(r.TimePeriod.Start)
	}

	mv, ok := r.Total[metric]
	raw := aws.ToString(mv.Amount)
	if !ok || raw == "" {
		return d, nil
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return d, fmt.Errorf("malformed %s amount %q for %s: %w", metric, raw, d.Date, err)
	}
	d.Amount = &amount
	d.Currency = types.Currency(aws.ToString(mv.Unit))
	return d, nil
}
