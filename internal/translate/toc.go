// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/olegiv/wp2astro/internal/util"
)

// tocHeading titles the generated table of contents.
const tocHeading = "Inhaltsverzeichnis"

// TOCEntry is one table-of-contents line.
type TOCEntry struct {
	Level  int // 2 or 3
	Title  string
	Anchor string
}

// BuildTOC parses the produced markdown and collects its h2/h3
// headings with slug anchors.
func BuildTOC(markdown string) []TOCEntry {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(source))

	var entries []TOCEntry
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level < 2 || h.Level > 3 {
			return ast.WalkContinue, nil
		}

		title := nodeText(h, source)
		if title == "" || title == tocHeading {
			return ast.WalkSkipChildren, nil
		}
		entries = append(entries, TOCEntry{
			Level:  h.Level,
			Title:  title,
			Anchor: util.Slugify(title),
		})
		return ast.WalkSkipChildren, nil
	})
	return entries
}

// nodeText concatenates the literal text under a node.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(nodeText(c, source))
		}
	}
	return strings.TrimSpace(sb.String())
}

// RenderTOC renders entries as a markdown list under the TOC heading.
// Empty input renders nothing.
func RenderTOC(entries []TOCEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", tocHeading)
	for _, e := range entries {
		indent := ""
		if e.Level == 3 {
			indent = "  "
		}
		fmt.Fprintf(&sb, "%s- [%s](#%s)\n", indent, e.Title, e.Anchor)
	}
	return sb.String()
}
