// Package cmd - report command
package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"usage-report/core/engine"
	"usage-report/core/output"
	"usage-report/core/ui"
	"usage-report/internal/config"
	"usage-report/internal/logging"
)

var reportFlags struct {
	instance  string
	bucket    string
	region    string
	profile   string
	costDays  int
	format    string
	noColor   bool
	cpu       float64
	network   float64
	bucketGB  float64
	objects   int64
	requests  int64
	timeout   int
	noSpinner bool
}

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Produce a utilization and cost report",
	Long: `Query CloudWatch for the instance and bucket metrics and Cost Explorer
for the trailing EC2 cost, then classify both resources.

A failed backend call aborts the run: nothing is printed on stdout and
the command exits with status 2.

Examples:
  usage-report report --instance i-0abc123 --bucket my-bucket
  usage-report report --instance i-0abc123 --bucket my-bucket --region eu-west-1 --cost-days 30
  usage-report report --format json`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportFlags.instance, "instance", "i", "", "EC2 instance id")
	f.StringVarP(&reportFlags.bucket, "bucket", "b", "", "S3 bucket name")
	f.StringVarP(&reportFlags.region, "region", "r", "", "AWS region of the instance and bucket")
	f.StringVar(&reportFlags.profile, "profile", "", "AWS shared config profile")
	f.IntVar(&reportFlags.costDays, "cost-days", 0, "trailing cost window in days")
	f.StringVarP(&reportFlags.format, "format", "f", "", "output format (cli, json)")
	f.BoolVar(&reportFlags.noColor, "no-color", false, "disable colored output")
	f.Float64Var(&reportFlags.cpu, "cpu-threshold", 0, "CPU percent below which the instance is idle")
	f.Float64Var(&reportFlags.network, "network-threshold", 0, "network MB below which the instance is idle")
	f.Float64Var(&reportFlags.bucketGB, "min-bucket-gb", 0, "bucket size in GB below which the bucket is idle")
	f.Int64Var(&reportFlags.objects, "min-objects", 0, "object count below which the bucket is idle")
	f.Int64Var(&reportFlags.requests, "min-requests", 0, "request count below which the bucket is idle")
	f.IntVar(&reportFlags.timeout, "timeout", 0, "per-call backend timeout in seconds")
	f.BoolVar(&reportFlags.noSpinner, "no-spinner", false, "disable the progress spinner")
}

// applyReportFlags overlays explicitly set flags onto cfg
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("instance") {
		cfg.Target.InstanceID = reportFlags.instance
	}
	if changed("bucket") {
		cfg.Target.BucketName = reportFlags.bucket
	}
	if changed("region") {
		cfg.AWS.Region = reportFlags.region
	}
	if changed("profile") {
		cfg.AWS.Profile = reportFlags.profile
	}
	if changed("cost-days") {
		cfg.Cost.LookbackDays = reportFlags.costDays
	}
	if changed("format") {
		cfg.Output.DefaultFormat = reportFlags.format
	}
	if changed("no-color") {
		cfg.Output.NoColor = reportFlags.noColor
	}
	if changed("cpu-threshold") {
		cfg.Thresholds.CPUPercent = reportFlags.cpu
	}
	if changed("network-threshold") {
		cfg.Thresholds.NetworkMB = reportFlags.network
	}
	if changed("min-bucket-gb") {
		cfg.Thresholds.MinBucketGB = reportFlags.bucketGB
	}
	if changed("min-objects") {
		cfg.Thresholds.MinObjectCount = reportFlags.objects
	}
	if changed("min-requests") {
		cfg.Thresholds.MinRequestCount = reportFlags.requests
	}
	if changed("timeout") {
		cfg.Timeouts.CallSeconds = reportFlags.timeout
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg := *config.Get()
	applyReportFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	formatter, err := output.NewRegistry(output.Options{NoColor: cfg.Output.NoColor}).
		Get(output.Format(cfg.Output.DefaultFormat))
	if err != nil {
		return err
	}

	logger := logging.Named("cli")
	eng, err := engine.New(ctx, &cfg, Version, logger)
	if err != nil {
		return err
	}

	var spinner *ui.Spinner
	if formatter.Format() == output.FormatCLI && !reportFlags.noSpinner && isTerminal(os.Stderr) {
		spinner = ui.NewWriter(os.Stderr, cfg.Output.NoColor).NewSpinner("Querying CloudWatch and Cost Explorer...")
		spinner.Start()
	}

	report, err := eng.Run(ctx)
	if spinner != nil {
		spinner.Stop(err == nil)
	}
	if err != nil {
		return &RunFailure{Err: err}
	}

	return formatter.Render(cmd.OutOrStdout(), report)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
