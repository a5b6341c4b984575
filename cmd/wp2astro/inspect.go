// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/wp2astro/internal/report"
	"github.com/olegiv/wp2astro/internal/wxr"
)

// parseExport resolves the input path from flag or config and parses it.
func parseExport(input string) (*wxr.Export, error) {
	if input == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		input = cfg.InputFile
	}
	if input == "" {
		return nil, fmt.Errorf("no input file: pass --input or set WP2ASTRO_INPUT")
	}
	return wxr.ParseFile(input)
}

func newValidateCommand(flags *rootFlags) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse an export and report its contents without converting",
		RunE: func(cmd *cobra.Command, args []string) error {
			export, err := parseExport(input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.ExportSummary(export))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "WordPress export XML file")
	return cmd
}

func newListCommand(flags *rootFlags) *cobra.Command {
	var (
		input         string
		includeDrafts bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the posts in an export",
		RunE: func(cmd *cobra.Command, args []string) error {
			export, err := parseExport(input)
			if err != nil {
				return err
			}
			posts := wxr.FilterPosts(export.Posts, wxr.FilterOptions{SkipDrafts: !includeDrafts})
			fmt.Fprintln(cmd.OutOrStdout(), report.PostList(posts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "WordPress export XML file")
	cmd.Flags().BoolVar(&includeDrafts, "include-drafts", false, "Include draft posts")
	return cmd
}
