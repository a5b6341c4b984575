// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/wp2astro/internal/config"
	"github.com/olegiv/wp2astro/internal/logging"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	verbose bool
	quiet   bool
}

// logger builds the process logger from the flags and config level.
func (f *rootFlags) logger(cfg *config.Config) *slog.Logger {
	level := logging.ParseLevel(cfg.LogLevel)
	if f.verbose {
		level = slog.LevelDebug
	}
	if f.quiet {
		level = slog.LevelError
	}
	return logging.Setup(os.Stderr, level)
}

// loadConfig reads .env and the environment. Missing .env is fine.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	return config.Load()
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "wp2astro",
		Short:         "WordPress export to Astro content converter",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "Only log errors")

	rootCmd.AddCommand(newConvertCommand(flags))
	rootCmd.AddCommand(newValidateCommand(flags))
	rootCmd.AddCommand(newListCommand(flags))
	rootCmd.AddCommand(newCacheCommand(flags))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
