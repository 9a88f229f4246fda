// Package cloudwatch implements the telemetry backend over Amazon
// CloudWatch GetMetricData.
package cloudwatch

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"usage-report/core/types"
	"usage-report/internal/logging"
)

// DefaultTimeout bounds each GetMetricData page request
const DefaultTimeout = 30 * time.Second

// API is the subset of the CloudWatch client used by the adapter
type API interface {
	GetMetricData(ctx context.Context, params *cloudwatch.GetMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error)
}

// Adapter answers metric queries from CloudWatch
type Adapter struct {
	api     API
	timeout time.Duration
	logger  *zap.Logger
}

// New creates an adapter from an AWS configuration
func New(cfg aws.Config, timeout time.Duration, logger *zap.Logger) *Adapter {
	return NewWithAPI(cloudwatch.NewFromConfig(cfg), timeout, logger)
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

// QueryMetrics issues one GetMetricData request (following NextToken
// pages) for all specs over [start, end).
func (a *Adapter) QueryMetrics(ctx context.Context, specs []types.MetricQuerySpec, start, end time.Time, order types.ScanOrder) (types.SeriesSet, error) {
	input := &cloudwatch.GetMetricDataInput{
		MetricDataQueries: lo.Map(specs, func(s types.MetricQuerySpec, _ int) cwtypes.MetricDataQuery {
			return toQuery(s)
		}),
		StartTime: aws.Time(start),
		EndTime:   aws.Time(end),
		ScanBy:    scanBy(order),
	}

	set := make(types.SeriesSet, len(specs))
	for page := 1; ; page++ {
		out, err := a.getPage(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, r := range out.MetricDataResults {
			if err := merge(set, r); err != nil {
				return nil, err
			}
		}
		for _, m := range out.Messages {
			a.logger.Warn("cloudwatch message",
				zap.String("code", aws.ToString(m.Code)),
				zap.String("value", aws.ToString(m.Value)),
			)
		}
		if aws.ToString(out.NextToken) == "" {
			a.logger.Debug("get metric data complete", zap.Int("pages", page), zap.Int("series", len(set)))
			return set, nil
		}
		input.NextToken = out.NextToken
	}
}

func (a *Adapter) getPage(ctx context.Context, input *cloudwatch.GetMetricDataInput) (*cloudwatch.GetMetricDataOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.api.GetMetricData(ctx, input)
}

func toQuery(s types.MetricQuerySpec) cwtypes.MetricDataQuery {
	keys := lo.Keys(s.Dimensions)
	slices.Sort(keys)
	dims := lo.Map(keys, func(k string, _ int) cwtypes.Dimension {
		return cwtypes.Dimension{Name: aws.String(k), Value: aws.String(s.Dimensions[k])}
	})

	return cwtypes.MetricDataQuery{
		Id: aws.String(s.ID),
		MetricStat: &cwtypes.MetricStat{
			Metric: &cwtypes.Metric{
				Namespace:  aws.String(s.Namespace),
				MetricName: aws.String(s.MetricName),
				Dimensions: dims,
			},
			Period: aws.Int32(int32(s.Period / time.Second)),
			Stat:   aws.String(string(s.Stat)),
		},
		ReturnData: aws.Bool(s.Wanted),
	}
}

func scanBy(order types.ScanOrder) cwtypes.ScanBy {
	if order == types.OrderAscending {
		return cwtypes.ScanByTimestampAscending
	}
	return cwtypes.ScanByTimestampDescending
}

// merge appends one result page to its series. Later pages continue the
// same scan order, so appending preserves it.
func merge(set types.SeriesSet, r cwtypes.MetricDataResult) error {
	id := aws.ToString(r.Id)
	if len(r.Timestamps) != len(r.Values) {
		return fmt.Errorf("series %q has %d timestamps but %d values", id, len(r.Timestamps), len(r.Values))
	}

	s := set[id]
	s.ID = id
	if s.Label == "" {
		s.Label = aws.ToString(r.Label)
	}
	for i, v := range r.Values {
		s.Samples = append(s.Samples, types.Sample{Timestamp: r.Timestamps[i], Value: v})
	}
	set[id] = s
	return nil
}
