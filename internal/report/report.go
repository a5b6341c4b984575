// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package report renders run summaries and cache statistics as
// terminal tables.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/olegiv/wp2astro/internal/mediacache"
	"github.com/olegiv/wp2astro/internal/model"
	"github.com/olegiv/wp2astro/internal/wxr"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// RunSummary renders the end-of-run table for a conversion result.
func RunSummary(result model.ConversionResult) string {
	status := "ok"
	if !result.Success {
		status = "failed"
	}

	rows := [][]string{
		{"Run", result.RunID},
		{"Status", status},
		{"Posts converted", strconv.Itoa(result.PostsConverted)},
		{"Posts skipped", strconv.Itoa(result.PostsSkipped)},
		{"Images downloaded", strconv.Itoa(result.ImagesDownloaded)},
		{"Analysis credits", strconv.Itoa(result.CreditsUsed)},
		{"Errors", strconv.Itoa(len(result.Errors))},
		{"Warnings", strconv.Itoa(len(result.Warnings))},
		{"Duration", result.Duration().Round(10 * time.Millisecond).String()},
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

// Errors renders the recorded per-post errors, one row each.
func Errors(result model.ConversionResult) string {
	if len(result.Errors) == 0 {
		return ""
	}

	rows := make([][]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		post := ""
		if e.PostID != 0 {
			post = fmt.Sprintf("%d %s", e.PostID, e.PostTitle)
		}
		rows = append(rows, []string{e.Type, post, e.Message})
	}
	return renderTable([]string{"Type", "Post", "Message"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft})
}

// ExportSummary renders the validate-subcommand overview of a parsed
// export: site metadata, item type counts and per-author post counts.
func ExportSummary(export *wxr.Export) string {
	var sb strings.Builder
	sb.WriteString(renderTable(
		[]string{"Field", "Value"},
		[][]string{
			{"Site", export.Site.Title},
			{"Link", export.Site.Link},
			{"Language", export.Site.Language},
			{"Posts", strconv.Itoa(len(export.Posts))},
			{"Attachments", strconv.Itoa(len(export.Attachments))},
		},
		[]columnAlignment{alignLeft, alignLeft},
	))

	types := make([]string, 0, len(export.TypeCounts))
	for t := range export.TypeCounts {
		types = append(types, t)
	}
	sort.Strings(types)
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{t, strconv.Itoa(export.TypeCounts[t])})
	}
	sb.WriteString("\n")
	sb.WriteString(renderTable([]string{"Item type", "Count"}, rows,
		[]columnAlignment{alignLeft, alignRight}))

	authors := make(map[string]int)
	for _, p := range export.Posts {
		authors[p.Author]++
	}
	names := make([]string, 0, len(authors))
	for a := range authors {
		names = append(names, a)
	}
	sort.Strings(names)
	rows = rows[:0]
	for _, a := range names {
		rows = append(rows, []string{a, strconv.Itoa(authors[a])})
	}
	sb.WriteString("\n")
	sb.WriteString(renderTable([]string{"Author", "Posts"}, rows,
		[]columnAlignment{alignLeft, alignRight}))

	return sb.String()
}

// PostList renders one row per post for the list subcommand.
func PostList(posts []model.Post) string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Status,
			p.PubDate.Format("2006-01-02"),
			p.Title,
		})
	}
	return renderTable([]string{"ID", "Status", "Date", "Title"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft})
}

// CacheStats renders the analysis-cache overview: totals, the most
// common source filename patterns and the most recent entries.
func CacheStats(cache *mediacache.Cache) string {
	stats := cache.GetStats()

	var sb strings.Builder
	sb.WriteString(renderTable(
		[]string{"Field", "Value"},
		[][]string{
			{"Entries", strconv.Itoa(stats.Entries)},
			{"Total credits", strconv.Itoa(stats.TotalCredits)},
		},
		[]columnAlignment{alignLeft, alignRight},
	))

	if patterns := cache.TopPatterns(5); len(patterns) > 0 {
		rows := make([][]string, 0, len(patterns))
		for _, p := range patterns {
			rows = append(rows, []string{p.Pattern, strconv.Itoa(p.Count)})
		}
		sb.WriteString("\n")
		sb.WriteString(renderTable([]string{"Pattern", "Count"}, rows,
			[]columnAlignment{alignLeft, alignRight}))
	}

	if recent := cache.Recent(5); len(recent) > 0 {
		rows := make([][]string, 0, len(recent))
		for _, r := range recent {
			rows = append(rows, []string{
				r.Entry.Timestamp.Format("2006-01-02 15:04"),
				r.URL,
				r.Entry.GeneratedFilename,
			})
		}
		sb.WriteString("\n")
		sb.WriteString(renderTable([]string{"When", "Source", "Generated"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft}))
	}

	return sb.String()
}
