package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/codegate/config"
	"github.com/c360studio/codegate/profile"
)

func profilesCmd() *cobra.Command {
	var profilesPath string

	cmd := &cobra.Command{
		Use:   "profiles [name]",
		Short: "List constraint profiles",
		Long: `Profiles lists the profiles defined in the constraints file. With a
profile name it prints the fully resolved constraint set, after
function overrides have been folded in, in catalog order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(slog.Default()).Load()
			if err != nil {
				return err
			}
			if profilesPath != "" {
				cfg.Profiles.Path = profilesPath
			}

			table, err := profile.Load(cfg.Profiles.Path)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return printResolved(cmd, table, args[0])
			}
			return printTable(cmd, table, cfg.Profiles.Default)
		},
	}

	cmd.Flags().StringVar(&profilesPath, "profiles", "", "Constraint profiles YAML path")

	return cmd
}

func printTable(cmd *cobra.Command, table *profile.Table, defaultName string) error {
	out := cmd.OutOrStdout()

	names := make([]string, 0, len(table.Profiles))
	for name := range table.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prof := table.Profiles[name]
		marker := " "
		if name == defaultName {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-16s primary=%d secondary=%d guidance=%d",
			marker, name, len(prof.Primary), len(prof.Secondary), len(prof.Guidance))
		if len(prof.Targets) > 0 {
			fmt.Fprintf(out, " targets=%s", strings.Join(prof.Targets, ","))
		}
		fmt.Fprintln(out)
	}

	if len(table.Functions) > 0 {
		fns := make([]string, 0, len(table.Functions))
		for name := range table.Functions {
			fns = append(fns, name)
		}
		sort.Strings(fns)
		fmt.Fprintf(out, "\nFunction overrides: %s\n", strings.Join(fns, ", "))
	}
	return nil
}

func printResolved(cmd *cobra.Command, table *profile.Table, name string) error {
	out := cmd.OutOrStdout()

	set, err := profile.Resolve(table, name, "")
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Profile %s\n\n", name)

	fmt.Fprintln(out, "Primary (blocking):")
	for _, spec := range set.Primary {
		fmt.Fprintf(out, "  %-36s %s\n", spec.Name, spec.Describe())
	}

	fmt.Fprintln(out, "\nSecondary (advisory):")
	for _, spec := range set.Secondary {
		fmt.Fprintf(out, "  %-36s %s\n", spec.Name, spec.Describe())
	}

	if len(set.Guidance) > 0 {
		fmt.Fprintln(out, "\nGuidance:")
		for _, g := range set.Guidance {
			fmt.Fprintf(out, "  - %s\n", g)
		}
	}
	return nil
}
