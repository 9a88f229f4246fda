// Package main - Entry point for the usage-report HTTP server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"usage-report/api"
	"usage-report/core/engine"
	"usage-report/core/metrics"
	"usage-report/internal/config"
	"usage-report/internal/logging"
)

var version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file (.json, .yaml or .hcl)")
	addr := flag.String("addr", "", "server address (overrides config)")
	flag.Parse()

	if err := run(*cfgPath, *addr); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		logging.Sync()
		os.Exit(1)
	}
}

func run(cfgPath, addr string) error {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)
	if addr != "" {
		cfg.Server.Addr = addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()
	logger := logging.Named("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := engine.New(ctx, cfg, version, logging.Logger)
	if err != nil {
		return err
	}

	server := api.NewServer(eng, metrics.NewExporter(), version, logger)
	logger.Info("usage-report server starting",
		zap.String("version", version),
		zap.String("instance_id", cfg.Target.InstanceID),
		zap.String("bucket", cfg.Target.BucketName),
		zap.String("region", cfg.AWS.Region),
	)
	return server.ListenAndServe(ctx, cfg.Server.Addr)
}
