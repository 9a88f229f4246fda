// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"usage-report/core/types"
	"usage-report/internal/errors"
	"usage-report/internal/logging"
)

// Environment variables consulted by ApplyEnv
const (
	EnvInstanceID = "USAGE_REPORT_INSTANCE_ID"
	EnvBucket     = "USAGE_REPORT_BUCKET"
	EnvRegion     = "AWS_REGION"
	EnvProfile    = "AWS_PROFILE"
)

// Config is the run-level configuration. It is read once and not
// modified while a report runs.
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Target names the instance and bucket to inspect
	Target TargetConfig `json:"target" yaml:"target"`

	// AWS contains session settings
	AWS AWSConfig `json:"aws" yaml:"aws"`

	// Thresholds are the classification limits
	Thresholds types.Thresholds `json:"thresholds" yaml:"thresholds"`

	// Cost contains cost window settings
	Cost CostConfig `json:"cost" yaml:"cost"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`

	// Timeouts bounds outbound calls
	Timeouts TimeoutConfig `json:"timeouts" yaml:"timeouts"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server" yaml:"server"`
}

// TargetConfig identifies the inspected resources
type TargetConfig struct {
	InstanceID string `json:"instance_id" yaml:"instance_id"`
	BucketName string `json:"bucket_name" yaml:"bucket_name"`

	// SizeStorageType is the StorageType dimension for bucket size
	SizeStorageType string `json:"size_storage_type" yaml:"size_storage_type"`

	// CountStorageType is the StorageType dimension for object count
	CountStorageType string `json:"count_storage_type" yaml:"count_storage_type"`

	// RequestFilterID is the request metrics filter of the bucket
	RequestFilterID string `json:"request_filter_id" yaml:"request_filter_id"`
}

// AWSConfig contains AWS-specific settings
type AWSConfig struct {
	// Region is the region of the inspected resources
	Region string `json:"region" yaml:"region"`

	// Profile is the shared config profile to use
	Profile string `json:"profile,omitempty" yaml:"profile,omitempty"`
}

// CostConfig contains cost window settings
type CostConfig struct {
	// LookbackDays is the trailing cost window
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`

	// Service is the cost service filter
	Service string `json:"service" yaml:"service"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (cli, json)
	DefaultFormat string `json:"default_format" yaml:"default_format"`

	// NoColor disables terminal colors
	NoColor bool `json:"no_color" yaml:"no_color"`
}

// TimeoutConfig bounds outbound calls
type TimeoutConfig struct {
	// CallSeconds bounds each backend request
	CallSeconds int `json:"call_seconds" yaml:"call_seconds"`
}

// Call returns the per-call timeout
func (t TimeoutConfig) Call() time.Duration {
	return time.Duration(t.CallSeconds) * time.Second
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Target: TargetConfig{
			SizeStorageType:  "StandardStorage",
			CountStorageType: "AllStorageTypes",
			RequestFilterID:  "EntireBucket",
		},
		AWS: AWSConfig{
			Region: "ap-south-1",
		},
		Thresholds: types.DefaultThresholds(),
		Cost: CostConfig{
			LookbackDays: 7,
			Service:      "Amazon Elastic Compute Cloud - Compute",
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
		},
		Logging: logging.DefaultConfig(),
		Timeouts: TimeoutConfig{
			CallSeconds: 30,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load loads configuration from a file. The decoder is chosen by
// extension: .json, .yaml/.yml or .hcl. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config", err).WithContext("path", path)
	}

	config := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".hcl":
		err = decodeHCL(path, data, config)
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported config format %q", ext).WithContext("path", path)
	}
	if err != nil {
		return nil, errors.Config("failed to parse config", err).WithContext("path", path)
	}

	return config, nil
}

// Save saves configuration to a file as JSON
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays non-empty environment values onto c
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvInstanceID); v != "" {
		c.Target.InstanceID = v
	}
	if v := getenv(EnvBucket); v != "" {
		c.Target.BucketName = v
	}
	if v := getenv(EnvRegion); v != "" {
		c.AWS.Region = v
	}
	if v := getenv(EnvProfile); v != "" {
		c.AWS.Profile = v
	}
}

// Validate checks that the configuration can drive a report
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Target.InstanceID) == "":
		return errors.Input("target instance id is required")
	case strings.TrimSpace(c.Target.BucketName) == "":
		return errors.Input("target bucket name is required")
	case c.Cost.LookbackDays <= 0:
		return errors.Newf(errors.TypeConfig, "cost lookback must be positive, got %d", c.Cost.LookbackDays)
	case c.Timeouts.CallSeconds <= 0:
		return errors.Newf(errors.TypeConfig, "call timeout must be positive, got %d", c.Timeouts.CallSeconds)
	}

	t := c.Thresholds
	if t.CPUPercent < 0 || t.NetworkMB < 0 || t.MinBucketGB < 0 || t.MinObjectCount < 0 || t.MinRequestCount < 0 {
		return errors.New(errors.TypeConfig, "thresholds must not be negative")
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
