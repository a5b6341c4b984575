// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/wp2astro/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Info{
				Version:   appVersion,
				GitCommit: appGitCommit,
				BuildTime: appBuildTime,
			}
			fmt.Fprintln(cmd.OutOrStdout(), info)
			return nil
		},
	}
}
