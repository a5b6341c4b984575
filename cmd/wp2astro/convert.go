// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/wp2astro/internal/pipeline"
	"github.com/olegiv/wp2astro/internal/report"
)

func newConvertCommand(flags *rootFlags) *cobra.Command {
	var (
		input          string
		output         string
		dryRun         bool
		includeDrafts  bool
		dateFrom       string
		dateTo         string
		batchSize      int
		conflictPolicy string
		generateTOC    bool
		noDownload     bool
		aiEnabled      bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a WordPress export to Astro content",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// CLI flags override the environment.
			if cmd.Flags().Changed("input") {
				cfg.InputFile = input
			}
			if cmd.Flags().Changed("output") {
				cfg.OutputDir = output
			}
			if cmd.Flags().Changed("dry-run") {
				cfg.DryRun = dryRun
			}
			if cmd.Flags().Changed("include-drafts") {
				cfg.SkipDrafts = !includeDrafts
			}
			if cmd.Flags().Changed("date-from") {
				cfg.DateFrom = dateFrom
			}
			if cmd.Flags().Changed("date-to") {
				cfg.DateTo = dateTo
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.BatchSize = batchSize
			}
			if cmd.Flags().Changed("conflict") {
				cfg.ConflictPolicy = conflictPolicy
			}
			if cmd.Flags().Changed("toc") {
				cfg.GenerateTOC = generateTOC
			}
			if cmd.Flags().Changed("no-download") {
				cfg.DownloadImages = !noDownload
			}
			if cmd.Flags().Changed("ai") {
				cfg.AIEnabled = aiEnabled
			}

			if cfg.InputFile == "" {
				return fmt.Errorf("no input file: pass --input or set WP2ASTRO_INPUT")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := flags.logger(cfg)
			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}

			result, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.RunSummary(result))
			if errs := report.Errors(result); errs != "" {
				fmt.Fprintln(out, errs)
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}

			if !result.Success {
				return fmt.Errorf("conversion finished with %d error(s)", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "WordPress export XML file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output content directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Simulate the run without writing anything")
	cmd.Flags().BoolVar(&includeDrafts, "include-drafts", false, "Convert draft posts too")
	cmd.Flags().StringVar(&dateFrom, "date-from", "", "Only posts published on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dateTo, "date-to", "", "Only posts published on or before this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Posts processed concurrently per batch")
	cmd.Flags().StringVar(&conflictPolicy, "conflict", "", "Existing-folder policy: skip, backup or overwrite")
	cmd.Flags().BoolVar(&generateTOC, "toc", false, "Prepend a table of contents to each post")
	cmd.Flags().BoolVar(&noDownload, "no-download", false, "Skip image downloads")
	cmd.Flags().BoolVar(&aiEnabled, "ai", false, "Enable AI media analysis")

	return cmd
}
