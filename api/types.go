// Package api - API types for the report endpoints
package api

import (
	"usage-report/core/types"
)

// ReportResponse is the output of GET /report
type ReportResponse struct {
	// RequestID identifies the HTTP request
	RequestID string `json:"request_id"`

	// Status is "success" for a produced report
	Status string `json:"status"`

	// Report is the assembled report
	Report *types.Report `json:"report"`

	// DurationMs is the handling time in milliseconds
	DurationMs int64 `json:"duration_ms"`
}

// ErrorResponse is returned for failed requests
type ErrorResponse struct {
	RequestID string    `json:"request_id,omitempty"`
	Error     ErrorBody `json:"error"`
}

// ErrorBody describes a failure
type ErrorBody struct {
	// Code is the error type, e.g. BACKEND_ERROR
	Code string `json:"code"`

	Message string `json:"message"`

	Context map[string]interface{} `json:"context,omitempty"`
}

// HealthResponse is the output of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`

	// LastReport is the generation time of the last successful report
	LastReport string `json:"last_report,omitempty"`
}
