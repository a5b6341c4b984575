// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers: quiet loggers and a
// WordPress export fixture builder.
package testutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// FixturePost describes one post item for the WXR fixture builder.
// Zero-valued fields fall back to publish-ready defaults.
type FixturePost struct {
	ID          int
	Title       string
	Slug        string
	Status      string // default "publish"
	Content     string
	Excerpt     string
	Creator     string
	PubDate     string // RFC1123Z, default a fixed 2023 date
	ThumbnailID int
	Categories  []string
	Tags        []string
}

// FixtureAttachment describes one attachment item.
type FixtureAttachment struct {
	ID       int
	ParentID int
	URL      string
	Title    string
	Width    int
	Height   int
}

// WriteWXR renders a minimal but namespace-correct WXR 1.2 document to
// a temp file and returns its path.
func WriteWXR(t *testing.T, posts []FixturePost, attachments []FixtureAttachment) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:excerpt="http://wordpress.org/export/1.2/excerpt/"
	xmlns:dc="http://purl.org/dc/elements/1.1/"
	xmlns:wp="http://wordpress.org/export/1.2/">
<channel>
	<title>Gesundes Leben</title>
	<link>https://example.com</link>
	<description>Test export</description>
	<language>de-DE</language>
`)

	for _, p := range posts {
		if p.Status == "" {
			p.Status = "publish"
		}
		if p.PubDate == "" {
			p.PubDate = "Tue, 14 Mar 2023 09:30:00 +0000"
		}
		sb.WriteString("\t<item>\n")
		fmt.Fprintf(&sb, "\t\t<title>%s</title>\n", p.Title)
		fmt.Fprintf(&sb, "\t\t<pubDate>%s</pubDate>\n", p.PubDate)
		fmt.Fprintf(&sb, "\t\t<dc:creator><![CDATA[%s]]></dc:creator>\n", p.Creator)
		fmt.Fprintf(&sb, "\t\t<content:encoded><![CDATA[%s]]></content:encoded>\n", p.Content)
		fmt.Fprintf(&sb, "\t\t<excerpt:encoded><![CDATA[%s]]></excerpt:encoded>\n", p.Excerpt)
		fmt.Fprintf(&sb, "\t\t<wp:post_id>%d</wp:post_id>\n", p.ID)
		fmt.Fprintf(&sb, "\t\t<wp:post_name><![CDATA[%s]]></wp:post_name>\n", p.Slug)
		fmt.Fprintf(&sb, "\t\t<wp:status><![CDATA[%s]]></wp:status>\n", p.Status)
		sb.WriteString("\t\t<wp:post_type><![CDATA[post]]></wp:post_type>\n")
		for _, c := range p.Categories {
			fmt.Fprintf(&sb, "\t\t<category domain=\"category\" nicename=%q><![CDATA[%s]]></category>\n", c, c)
		}
		for _, tag := range p.Tags {
			fmt.Fprintf(&sb, "\t\t<category domain=\"post_tag\" nicename=%q><![CDATA[%s]]></category>\n", tag, tag)
		}
		if p.ThumbnailID != 0 {
			sb.WriteString("\t\t<wp:postmeta>\n")
			sb.WriteString("\t\t\t<wp:meta_key><![CDATA[_thumbnail_id]]></wp:meta_key>\n")
			fmt.Fprintf(&sb, "\t\t\t<wp:meta_value><![CDATA[%d]]></wp:meta_value>\n", p.ThumbnailID)
			sb.WriteString("\t\t</wp:postmeta>\n")
		}
		sb.WriteString("\t</item>\n")
	}

	for _, a := range attachments {
		sb.WriteString("\t<item>\n")
		fmt.Fprintf(&sb, "\t\t<title>%s</title>\n", a.Title)
		fmt.Fprintf(&sb, "\t\t<wp:post_id>%d</wp:post_id>\n", a.ID)
		fmt.Fprintf(&sb, "\t\t<wp:post_parent>%d</wp:post_parent>\n", a.ParentID)
		sb.WriteString("\t\t<wp:status><![CDATA[inherit]]></wp:status>\n")
		sb.WriteString("\t\t<wp:post_type><![CDATA[attachment]]></wp:post_type>\n")
		fmt.Fprintf(&sb, "\t\t<wp:attachment_url><![CDATA[%s]]></wp:attachment_url>\n", a.URL)
		if a.Width > 0 {
			sb.WriteString("\t\t<wp:postmeta>\n")
			sb.WriteString("\t\t\t<wp:meta_key><![CDATA[_wp_attachment_metadata]]></wp:meta_key>\n")
			fmt.Fprintf(&sb,
				"\t\t\t<wp:meta_value><![CDATA[a:2:{s:5:\"width\";i:%d;s:6:\"height\";i:%d;}]]></wp:meta_value>\n",
				a.Width, a.Height)
			sb.WriteString("\t\t</wp:postmeta>\n")
		}
		sb.WriteString("\t</item>\n")
	}

	sb.WriteString("</channel>\n</rss>\n")

	path := filepath.Join(t.TempDir(), "export.xml")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("writing WXR fixture: %v", err)
	}
	return path
}
