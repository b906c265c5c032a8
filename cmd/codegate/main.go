// Package main provides the codegate binary entry point.
// Codegate is a static-analysis quality gate that evaluates
// machine-generated Python source against two-tier constraint
// profiles before it enters a pipeline.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "codegate"
)

// exit codes: 0 = gate passed, 1 = gate rejected, 2 = failure
// (parse, config, or internal error)
const (
	exitRejected = 1
	exitFailure  = 2
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(exitFailure)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		if err == errGateRejected {
			os.Exit(exitRejected)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Constraint evaluation gate for generated Python code",
		Long: `Codegate audits machine-generated Python source against a
configurable quality gate before the code is accepted into a pipeline.

It provides:
- Two-tier constraint evaluation (blocking primary, advisory secondary)
- Metric analyzers (complexity, size, nesting) and pattern detectors
- Profile resolution with per-function overrides
- Continuous re-evaluation in watch mode`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(checkCmd())
	cmd.AddCommand(watchCmd())
	cmd.AddCommand(profilesCmd())
	cmd.AddCommand(initCmd())

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
