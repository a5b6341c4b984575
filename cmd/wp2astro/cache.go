// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/wp2astro/internal/mediacache"
	"github.com/olegiv/wp2astro/internal/report"
)

func newCacheCommand(flags *rootFlags) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the media analysis cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(flags))
	return cacheCmd
}

func newCacheStatsCommand(flags *rootFlags) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts, credits and common patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.CachePath
			}

			cache := mediacache.New(path, flags.logger(cfg))
			fmt.Fprintln(cmd.OutOrStdout(), report.CacheStats(cache))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Cache file (default from configuration)")
	return cmd
}
