// Package api - Thin API layer
// The API is ONLY responsible for: engine invocation, metrics exposure, output serialization.
// The API NEVER performs report logic.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"usage-report/core/metrics"
	"usage-report/internal/logging"
)

// Server is the API server
type Server struct {
	handler  *Handler
	exporter *metrics.Exporter
	mux      *http.ServeMux
	root     http.Handler
	version  string
	logger   *zap.Logger
}

// NewServer creates a new API server
func NewServer(runner Runner, exporter *metrics.Exporter, version string, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)
	if exporter == nil {
		exporter = metrics.NewExporter()
	}

	s := &Server{
		handler:  NewHandler(runner, exporter, logger),
		exporter: exporter,
		mux:      http.NewServeMux(),
		version:  version,
		logger:   logger,
	}

	s.registerRoutes()
	s.root = s.recoveryMiddleware(s.loggingMiddleware(s.mux))
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("GET /report", s.handleReport)
	s.mux.HandleFunc("GET /report/latest", s.handleLatest)
	s.mux.Handle("GET /metrics", s.exporter.Handler())

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// handleReport handles GET /report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := generateRequestID()

	report, err := s.handler.execute(r.Context(), requestID)
	if err != nil {
		s.writeError(w, requestID, err)
		return
	}

	s.writeJSON(w, ReportResponse{
		RequestID:  requestID,
		Status:     "success",
		Report:     report,
		DurationMs: time.Since(start).Milliseconds(),
	}, http.StatusOK)
}

// handleLatest handles GET /report/latest
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	report := s.handler.Last()
	if report == nil {
		s.writeJSON(w, ErrorResponse{Error: ErrorBody{Code: "NOT_FOUND", Message: "no report has been produced yet"}}, http.StatusNotFound)
		return
	}
	s.writeJSON(w, ReportResponse{RequestID: report.ID, Status: "success", Report: report}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	if last := s.handler.Last(); last != nil {
		resp.LastReport = last.Metadata.GeneratedAt.Format(time.RFC3339)
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "usage-report",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, requestID string, err error) {
	s.writeJSON(w, ErrorResponse{RequestID: requestID, Error: errorBody(err)}, statusFor(err))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.root.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Middleware

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error("panic in handler", zap.Any("panic", v), zap.String("path", r.URL.Path))
				s.writeJSON(w, ErrorResponse{Error: ErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"}}, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
