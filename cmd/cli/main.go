// Package main is the entry point for the usage-report CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"usage-report/cmd/cli/cmd"
	"usage-report/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err == nil {
		return
	}

	var failure *cmd.RunFailure
	if errors.As(err, &failure) {
		fmt.Fprintln(os.Stderr, "ERROR:", failure.Err)
		os.Exit(2)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
