package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/c360studio/codegate/analyzer/watch"
	"github.com/c360studio/codegate/config"
	"github.com/c360studio/codegate/constraint"
	"github.com/c360studio/codegate/engine"
	"github.com/c360studio/codegate/gatepub"
	"github.com/c360studio/codegate/observe"
	"github.com/c360studio/codegate/profile"
)

func watchCmd() *cobra.Command {
	var (
		profileName  string
		profilesPath string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-evaluate Python files as they change",
		Long: `Watch monitors the repository for Python file changes and runs the
constraint gate on every changed file. Results are logged, counted in
the Prometheus registry, and published to NATS when configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(slog.Default()).Load()
			if err != nil {
				return err
			}
			if profilesPath != "" {
				cfg.Profiles.Path = profilesPath
			}
			if profileName == "" {
				profileName = cfg.Profiles.Default
			}

			table, err := profile.Load(cfg.Profiles.Path)
			if err != nil {
				return err
			}
			prof, ok := table.Profiles[profileName]
			if !ok {
				return &profile.UnknownProfileError{Name: profileName}
			}
			set, err := profile.Resolve(table, profileName, "")
			if err != nil {
				return err
			}

			nc, err := gatepub.Connect(cfg.NATS.URL)
			if err != nil {
				return err
			}
			if nc != nil {
				defer nc.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Metrics.Addr != "" {
				go serveMetrics(ctx, cfg.Metrics.Addr)
			}

			watcher, err := watch.New(watch.Config{
				Root:          cfg.Repo.Path,
				DebounceDelay: cfg.Watch.Debounce,
				Logger:        slog.Default(),
			})
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer watcher.Stop()

			slog.Info("Watching for changes",
				"root", cfg.Repo.Path,
				"profile", profileName)

			for {
				select {
				case <-ctx.Done():
					slog.Info("Watch mode stopped")
					return nil
				case event, ok := <-watcher.Events():
					if !ok {
						return nil
					}
					if event.Operation == watch.OpDelete {
						slog.Info("File removed", "path", event.Path)
						continue
					}
					if !prof.Matches(event.Path) {
						slog.Debug("File outside profile targets", "path", event.Path)
						continue
					}
					evaluateChange(nc, cfg, profileName, event, set)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "Constraint profile name (default from config)")
	cmd.Flags().StringVar(&profilesPath, "profiles", "", "Constraint profiles YAML path")

	return cmd
}

func evaluateChange(nc *nats.Conn, cfg *config.Config, profileName string, event watch.Event, set constraint.Set) {
	report, err := engine.Evaluate(event.Source, set)
	if err != nil {
		observe.ParseFailures.Inc()
		slog.Warn("Evaluation failed", "path", event.Path, "error", err)
		return
	}

	observe.RecordEvaluation(report.PrimaryPassed,
		len(report.PrimaryViolations), len(report.SecondaryViolations))

	if report.PrimaryPassed {
		slog.Info("Gate passed",
			"path", event.Path,
			"advisory_violations", len(report.SecondaryViolations))
	} else {
		slog.Warn("Gate rejected",
			"path", event.Path,
			"primary_violations", len(report.PrimaryViolations))
		for _, v := range report.PrimaryViolations {
			slog.Warn("Violation",
				"path", event.Path,
				"constraint", v.Constraint,
				"line", v.Line,
				"message", v.Message)
		}
	}

	if cfg.NATS.URL != "" {
		if err := gatepub.PublishReport(nc, cfg.NATS.Subject, event.Path, profileName, "", report); err != nil {
			slog.Warn("Failed to publish report", "path", event.Path, "error", err)
		}
	}
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observe.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("Metrics endpoint listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Metrics server failed", "error", err)
	}
}
