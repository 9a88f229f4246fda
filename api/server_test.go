package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"usage-report/core/metrics"
	"usage-report/core/types"
	"usage-report/internal/errors"
)

// stubRunner returns the queued results in order
type stubRunner struct {
	reports []*types.Report
	errs    []error
	calls   int
}

func (s *stubRunner) Run(ctx context.Context) (*types.Report, error) {
	i := s.calls
	s.calls++
	return s.reports[i], s.errs[i]
}

func sampleReport() *types.Report {
	return &types.Report{
		ID:             "run-1",
		Target:         types.Target{InstanceID: "i-1", BucketName: "logs", Region: "ap-south-1"},
		Compute:        types.ComputeSnapshot{CPUPercent: 55},
		Cost:           types.CostTotal{Amount: decimal.RequireFromString("3.25"), Currency: types.CurrencyUSD, WindowDays: 7},
		ComputeVerdict: types.VerdictNormal,
		StorageVerdict: types.VerdictUnderutilized,
		Metadata:       types.ReportMetadata{GeneratedAt: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandleReport(t *testing.T) {
	runner := &stubRunner{reports: []*types.Report{sampleReport()}, errs: []error{nil}}
	s := NewServer(runner, nil, "1.2.3", nil)

	rec := get(t, s, "/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Status string `json:"status"`
		Report struct {
			ComputeVerdict string `json:"compute_verdict"`
		} `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "success" || resp.Report.ComputeVerdict != "NORMAL" {
		t.Errorf("unexpected response %+v", resp)
	}

	latest := get(t, s, "/report/latest")
	if latest.Code != http.StatusOK {
		t.Errorf("expected cached report, got %d", latest.Code)
	}
}

func TestHandleReportBackendFailure(t *testing.T) {
	fail := errors.Backend("telemetry", "compute", stderrors.New("throttled"))
	runner := &stubRunner{reports: []*types.Report{nil}, errs: []error{fail}}
	s := NewServer(runner, metrics.NewExporter(), "1.2.3", nil)

	rec := get(t, s, "/report")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error.Code != "BACKEND_ERROR" || resp.Error.Context["batch"] != "compute" {
		t.Errorf("unexpected error body %+v", resp.Error)
	}

	if latest := get(t, s, "/report/latest"); latest.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a successful report, got %d", latest.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	runner := &stubRunner{
		reports: []*types.Report{sampleReport(), nil},
		errs:    []error{nil, stderrors.New("boom")},
	}
	s := NewServer(runner, nil, "1.2.3", nil)

	get(t, s, "/report")
	if rec := get(t, s, "/report"); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for untyped failure, got %d", rec.Code)
	}

	rec := get(t, s, "/metrics")
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`usage_report_ec2_cpu_percent{instance_id="i-1",region="ap-south-1"} 55`,
		`usage_report_underutilized{id="logs",resource="s3"} 1`,
		`usage_report_runs_total{outcome="failure"} 1`,
		`usage_report_runs_total{outcome="success"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("missing %q in metrics output", want)
		}
	}
}

func TestHealthAndVersion(t *testing.T) {
	s := NewServer(&stubRunner{}, nil, "1.2.3", nil)

	rec := get(t, s, "/health")
	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if health.Status != "healthy" || health.Version != "1.2.3" || health.LastReport != "" {
		t.Errorf("unexpected health %+v", health)
	}

	if rec := get(t, s, "/version"); !strings.Contains(rec.Body.String(), `"version":"1.2.3"`) {
		t.Errorf("unexpected version body %s", rec.Body)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.Backend("cost", "daily-cost", stderrors.New("x")), http.StatusServiceUnavailable},
		{errors.Input("bad"), http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{stderrors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
