// Package api - HTTP handler for report runs
// This handler wraps the engine - it contains NO report logic.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"usage-report/core/metrics"
	"usage-report/core/types"
	"usage-report/internal/errors"
	"usage-report/internal/logging"
)

// Runner produces one report per call
type Runner interface {
	Run(ctx context.Context) (*types.Report, error)
}

// Handler runs reports and records their outcome
type Handler struct {
	runner   Runner
	exporter *metrics.Exporter
	logger   *zap.Logger

	mu   sync.Mutex
	last *types.Report
}

// NewHandler creates a new handler. exporter may be nil.
func NewHandler(runner Runner, exporter *metrics.Exporter, logger *zap.Logger) *Handler {
	return &Handler{
		runner:   runner,
		exporter: exporter,
		logger:   logging.OrNop(logger),
	}
}

// execute runs one report. Gauges and the cached report only change on
// success.
func (h *Handler) execute(ctx context.Context, requestID string) (*types.Report, error) {
	r, err := h.runner.Run(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		if h.exporter != nil {
			h.exporter.RecordFailure()
		}
		h.logger.Error("report run failed", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	h.last = r
	if h.exporter != nil {
		h.exporter.Observe(r)
	}
	return r, nil
}

// Last returns the most recent successful report, if any
func (h *Handler) Last() *types.Report {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// statusFor maps an error to an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.IsType(err, errors.TypeBackend):
		return http.StatusServiceUnavailable
	case errors.IsType(err, errors.TypeInput):
		return http.StatusBadRequest
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorBody converts err into an ErrorBody
func errorBody(err error) ErrorBody {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return ErrorBody{Code: string(e.Type), Message: e.Error(), Context: e.Context}
	}
	return ErrorBody{Code: string(errors.TypeInternal), Message: err.Error()}
}

func generateRequestID() string {
	return "req-" + uuid.NewString()
}
