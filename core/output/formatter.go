// Package output provides report formatting.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/samber/lo"

	"usage-report/core/compute"
	"usage-report/core/storage"
	"usage-report/core/types"
	"usage-report/core/ui"
	"usage-report/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable report
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *types.Report) error
}

// Options tune the formatters
type Options struct {
	NoColor bool
}

// Registry manages the available formatters
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry returns a registry holding the built-in formatters
func NewRegistry(opts Options) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(&CLIFormatter{NoColor: opts.NoColor})
	r.Register(&JSONFormatter{Indent: "  "})
	return r
}

// Register adds a formatter, replacing any formatter of the same format
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Format()] = f
}

// Get returns the formatter for format
func (r *Registry) Get(format Format) (Formatter, error) {
	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.Newf(errors.TypeInput, "unknown output format %q", format).
			WithContext("available", r.Formats())
	}
	return f, nil
}

// Formats lists the registered formats in sorted order
func (r *Registry) Formats() []Format {
	formats := lo.Keys(r.formatters)
	slices.Sort(formats)
	return formats
}

// CLIFormatter renders the terminal report
type CLIFormatter struct {
	NoColor bool
}

// Format implements Formatter
func (f *CLIFormatter) Format() Format { return FormatCLI }

// Render implements Formatter
func (f *CLIFormatter) Render(out io.Writer, r *types.Report) error {
	if r == nil {
		return errors.New(errors.TypeInternal, "nil report")
	}
	w := ui.NewWriter(out, f.NoColor)
	computeWindow := hours(compute.Lookback)
	requestWindow := hours(storage.RequestWindow)

	w.Header("EC2 + S3 Monitoring Report")

	w.Field("Instance", r.Target.InstanceID)
	w.Field(fmt.Sprintf("CPU (avg last %s)", computeWindow), number(r.Compute.CPUPercent)+"%")
	w.Field(fmt.Sprintf("Network In (MB last %s)", computeWindow), number(r.Compute.NetInMB))
	w.Field(fmt.Sprintf("Network Out (MB last %s)", computeWindow), number(r.Compute.NetOutMB))
	w.Blank()

	w.Field("Bucket", r.Target.BucketName)
	w.Field("Bucket Size (GB)", number(r.Storage.SizeGB))
	w.Field("Object Count (approx)", r.Storage.ObjectCount)
	w.Field(fmt.Sprintf("Total Requests (last %s)", requestWindow), r.Storage.RecentRequestCount)
	w.Blank()

	w.Field(fmt.Sprintf("EC2 Cost (last %d days)", r.Cost.WindowDays), "$"+r.Cost.Amount.String())
	w.Blank()

	if r.ComputeVerdict.Underutilized() {
		w.Warning("Status: EC2 appears underutilized, consider resizing or stopping.")
	} else {
		w.Success("Status: EC2 utilization looks normal.")
	}
	if r.StorageVerdict.Underutilized() {
		w.Warning("Status: S3 bucket appears underutilized.")
	} else {
		w.Success("Status: S3 bucket usage looks normal.")
	}
	return nil
}

// JSONFormatter renders the report as JSON
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (f *JSONFormatter) Render(out io.Writer, r *types.Report) error {
	if r == nil {
		return errors.New(errors.TypeInternal, "nil report")
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", f.Indent)
	return enc.Encode(r)
}

// number prints the shortest representation, 3.5 rather than 3.50
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hours(d time.Duration) string {
	return fmt.Sprintf("%d hr", int(d.Hours()))
}
