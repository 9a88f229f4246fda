// Package metrics exposes the most recent report as Prometheus gauges.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"usage-report/core/types"
)

const namespace = "usage_report"

// Outcome labels for the runs counter
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Exporter holds the gauges of the last successful report. Gauges are
// replaced on each Observe, so a target that changes between runs does
// not leave stale series behind.
type Exporter struct {
	registry *prometheus.Registry

	cpu           *prometheus.GaugeVec
	netIn         *prometheus.GaugeVec
	netOut        *prometheus.GaugeVec
	bucketSize    *prometheus.GaugeVec
	objects       *prometheus.GaugeVec
	requests      *prometheus.GaugeVec
	cost          *prometheus.GaugeVec
	underutilized *prometheus.GaugeVec

	runs     *prometheus.CounterVec
	duration prometheus.Gauge
}

// NewExporter creates an exporter with its own registry
func NewExporter() *Exporter {
	instanceLabels := []string{"instance_id", "region"}
	bucketLabels := []string{"bucket", "region"}

	gauge := func(name, help string, labels []string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	}

	e := &Exporter{
		registry:      prometheus.NewRegistry(),
		cpu:           gauge("ec2_cpu_percent", "Average CPU utilization over the compute window.", instanceLabels),
		netIn:         gauge("ec2_network_in_megabytes", "Network in over the compute window.", instanceLabels),
		netOut:        gauge("ec2_network_out_megabytes", "Network out over the compute window.", instanceLabels),
		bucketSize:    gauge("s3_bucket_size_gigabytes", "Standard storage size of the bucket.", bucketLabels),
		objects:       gauge("s3_object_count", "Approximate number of objects in the bucket.", bucketLabels),
		requests:      gauge("s3_recent_requests", "Requests over the request window.", bucketLabels),
		cost:          gauge("ec2_cost", "Summed cost over the cost window.", []string{"service", "currency", "window_days"}),
		underutilized: gauge("underutilized", "1 when the resource is classified underutilized.", []string{"resource", "id"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Report runs by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last successful report run.",
		}),
	}

	e.registry.MustRegister(
		e.cpu, e.netIn, e.netOut,
		e.bucketSize, e.objects, e.requests,
		e.cost, e.underutilized,
		e.runs, e.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return e
}

// Registry returns the exporter's registry
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Observe replaces the gauges with the values of r
func (e *Exporter) Observe(r *types.Report) {
	if r == nil {
		return
	}
	for _, v := range []*prometheus.GaugeVec{e.cpu, e.netIn, e.netOut, e.bucketSize, e.objects, e.requests, e.cost, e.underutilized} {
		v.Reset()
	}

	inst := prometheus.Labels{"instance_id": r.Target.InstanceID, "region": r.Target.Region}
	e.cpu.With(inst).Set(r.Compute.CPUPercent)
	e.netIn.With(inst).Set(r.Compute.NetInMB)
	e.netOut.With(inst).Set(r.Compute.NetOutMB)

	bucket := prometheus.Labels{"bucket": r.Target.BucketName, "region": r.Target.Region}
	e.bucketSize.With(bucket).Set(r.Storage.SizeGB)
	e.objects.With(bucket).Set(float64(r.Storage.ObjectCount))
	e.requests.With(bucket).Set(float64(r.Storage.RecentRequestCount))

	e.cost.WithLabelValues(r.Cost.Service, r.Cost.Currency.String(), strconv.Itoa(r.Cost.WindowDays)).
		Set(r.Cost.Amount.InexactFloat64())

	e.underutilized.WithLabelValues("ec2", r.Target.InstanceID).Set(flag(r.ComputeVerdict.Underutilized()))
	e.underutilized.WithLabelValues("s3", r.Target.BucketName).Set(flag(r.StorageVerdict.Underutilized()))

	e.duration.Set(r.Metadata.Duration.Seconds())
	e.runs.WithLabelValues(OutcomeSuccess).Inc()
}

// RecordFailure counts a failed run. Gauges keep the last good report.
func (e *Exporter) RecordFailure() {
	e.runs.WithLabelValues(OutcomeFailure).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
