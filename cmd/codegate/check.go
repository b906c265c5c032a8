package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/codegate/config"
	"github.com/c360studio/codegate/constraint"
	"github.com/c360studio/codegate/engine"
	"github.com/c360studio/codegate/gatepub"
	"github.com/c360studio/codegate/observe"
	"github.com/c360studio/codegate/profile"
)

// errGateRejected signals a structurally valid evaluation whose primary
// gate failed. It maps to its own exit code so callers can tell a
// rejection apart from a parse or configuration failure.
var errGateRejected = errors.New("primary gate rejected")

func checkCmd() *cobra.Command {
	var (
		profileName  string
		functionName string
		profilesPath string
		format       string
		publish      bool
	)

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Evaluate Python files against a constraint profile",
		Long: `Check evaluates each file against the resolved constraint set and
prints a report. Without file arguments it walks the repository for
Python files selected by the profile's target patterns.

Exit status is 0 when every file passes the primary gate, 1 when any
file is rejected, and 2 for parse or configuration failures.`,
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

			files, err := selectFiles(cfg, table, profileName, args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no Python files to check")
			}

			set, err := profile.Resolve(table, profileName, functionName)
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

			rejected := false
			for _, path := range files {
				report, err := checkFile(path, set)
				if err != nil {
					observe.ParseFailures.Inc()
					return err
				}

				observe.RecordEvaluation(report.PrimaryPassed,
					len(report.PrimaryViolations), len(report.SecondaryViolations))

				if err := printReport(cmd, path, report, format); err != nil {
					return err
				}
				if publish || cfg.NATS.URL != "" {
					if err := gatepub.PublishReport(nc, cfg.NATS.Subject, path, profileName, functionName, report); err != nil {
						slog.Warn("Failed to publish report", "path", path, "error", err)
					}
				}
				if !report.PrimaryPassed {
					rejected = true
				}
			}

			if rejected {
				return errGateRejected
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "Constraint profile name (default from config)")
	cmd.Flags().StringVar(&functionName, "function", "", "Function name for override resolution")
	cmd.Flags().StringVar(&profilesPath, "profiles", "", "Constraint profiles YAML path")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish reports to NATS")

	return cmd
}

func checkFile(path string, set constraint.Set) (*engine.Report, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	report, err := engine.Evaluate(source, set)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

// selectFiles returns the files to evaluate: explicit arguments as
// given, otherwise every .py file under the repo root selected by the
// profile's target patterns.
func selectFiles(cfg *config.Config, table *profile.Table, profileName string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	prof, ok := table.Profiles[profileName]
	if !ok {
		return nil, &profile.UnknownProfileError{Name: profileName}
	}

	var files []string
	root := cfg.Repo.Path
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(base, ".") || base == "__pycache__" || base == "venv") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(base, ".py") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if prof.Matches(filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func printReport(cmd *cobra.Command, path string, report *engine.Report, format string) error {
	out := cmd.OutOrStdout()

	if format == "json" {
		data, err := report.Encode()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	status := "PASS"
	if !report.PrimaryPassed {
		status = "REJECT"
	}
	fmt.Fprintf(out, "%s  %s\n", status, path)

	for _, v := range report.PrimaryViolations {
		fmt.Fprintf(out, "  [primary]   %s: %s\n", v.Constraint, v.Message)
	}
	if report.SecondaryEvaluated {
		for _, v := range report.SecondaryViolations {
			fmt.Fprintf(out, "  [advisory]  %s: %s\n", v.Constraint, v.Message)
		}
	} else {
		fmt.Fprintln(out, "  secondary tier not evaluated")
	}
	for _, g := range report.Guidance {
		fmt.Fprintf(out, "  guidance: %s\n", g)
	}
	return nil
}
