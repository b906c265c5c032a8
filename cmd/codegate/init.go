package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/codegate/config"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the user configuration file with defaults",
		Long: `Init writes a default configuration to
~/.config/codegate/config.yaml. An existing file is left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.NewLoader(slog.Default()).EnsureUserConfig()
		},
	}
}
