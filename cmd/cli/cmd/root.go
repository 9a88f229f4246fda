// Package cmd provides the CLI commands for usage-report.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"usage-report/internal/config"
	"usage-report/internal/logging"
)

// Version is the CLI version, overridden at build time with -ldflags
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// RunFailure marks an error raised while producing a report, as opposed
// to a usage or configuration error.
type RunFailure struct {
	Err error
}

func (f *RunFailure) Error() string { return f.Err.Error() }

func (f *RunFailure) Unwrap() error { return f.Err }

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "usage-report",
	Short: "Report EC2 and S3 utilization and recent EC2 cost",
	Long: `usage-report inspects one EC2 instance and one S3 bucket, reports their
recent utilization and the EC2 cost over a trailing window, and flags
either resource as underutilized when it sits below every threshold.

Examples:
  usage-report report --instance i-0abc123 --bucket my-bucket
  usage-report report --config usage-report.yaml --format json
  usage-report config init usage-report.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.json, .yaml or .hcl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configShowCmd.Flags().StringVarP(&configFormat, "format", "f", "json", "output format (json, yaml)")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	// Add subcommands
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	cfg.ApplyEnv(os.Getenv)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "usage-report version %s\n", Version)
	},
}

var (
	configFormat string
	configForce  bool
)

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()
		switch configFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		case "yaml":
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(cfg)
		default:
			return fmt.Errorf("unsupported format %q (json, yaml)", configFormat)
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "usage-report.json"
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}
