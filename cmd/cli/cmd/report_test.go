package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"usage-report/internal/config"
)

func TestApplyReportFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "report"}
	cmd.Flags().AddFlagSet(reportCmd.Flags())

	if err := cmd.Flags().Parse([]string{"--instance", "i-9", "--cost-days", "30", "--min-requests", "5"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg := config.Default()
	cfg.Target.BucketName = "from-config"
	applyReportFlags(cmd, cfg)

	if cfg.Target.InstanceID != "i-9" {
		t.Errorf("expected flag instance, got %q", cfg.Target.InstanceID)
	}
	if cfg.Target.BucketName != "from-config" {
		t.Errorf("unset flag must not override config, got %q", cfg.Target.BucketName)
	}
	if cfg.Cost.LookbackDays != 30 || cfg.Thresholds.MinRequestCount != 5 {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
	if cfg.Thresholds.CPUPercent != 10 {
		t.Errorf("expected default cpu threshold, got %v", cfg.Thresholds.CPUPercent)
	}
}

func TestRunFailureUnwraps(t *testing.T) {
	cause := errors.New("throttled")
	var err error = &RunFailure{Err: cause}

	var failure *RunFailure
	if !errors.As(err, &failure) || !errors.Is(err, cause) {
		t.Errorf("expected RunFailure to wrap its cause")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage-report.json")

	var out bytes.Buffer
	configInitCmd.SetOut(&out)
	configForce = false
	if err := configInitCmd.RunE(configInitCmd, []string{path}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
	if err := configInitCmd.RunE(configInitCmd, []string{path}); err == nil {
		t.Error("expected refusal to overwrite without --force")
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cost.LookbackDays != 7 {
		t.Errorf("expected default lookback, got %d", cfg.Cost.LookbackDays)
	}
}
