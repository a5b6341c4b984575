// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validate runs non-fatal quality checks on mapped posts.
// Every check returns warnings; none of them ever blocks writing.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/olegiv/wp2astro/internal/model"
)

// groups is the closed set of valid frontmatter groups.
var groups = map[string]bool{"pro": true, "kontra": true, "fragezeiten": true}

// maxDescriptionLen mirrors the mapper's description bound.
const maxDescriptionLen = 160

// dirPattern is the expected output folder shape.
var dirPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-[a-z0-9-]+$`)

// CheckPost verifies the frontmatter carries every required field in a
// usable form.
func CheckPost(mp model.MappedPost) []string {
	var warnings []string
	fm := mp.Frontmatter

	if fm.ID == "" {
		warnings = append(warnings, "missing frontmatter id")
	}
	if strings.TrimSpace(fm.Title) == "" {
		warnings = append(warnings, "missing title")
	}
	if fm.Author == "" {
		warnings = append(warnings, "missing author")
	}
	if fm.PubDatetime == "" {
		warnings = append(warnings, "missing pubDatetime")
	} else if _, err := time.Parse(model.TimestampLayout, fm.PubDatetime); err != nil {
		warnings = append(warnings, fmt.Sprintf("unparseable pubDatetime %q", fm.PubDatetime))
	}
	if fm.Description == "" {
		warnings = append(warnings, "missing description")
	} else if n := len([]rune(fm.Description)); n > maxDescriptionLen {
		warnings = append(warnings, fmt.Sprintf("description too long: %d runes", n))
	}
	if !groups[fm.Group] {
		warnings = append(warnings, fmt.Sprintf("unknown group %q", fm.Group))
	}
	if len(fm.Categories) == 0 {
		warnings = append(warnings, "no categories")
	}

	return warnings
}

// componentTag matches opening and closing JSX-style component tags in
// the body (self-closing tags are excluded by the closing filter below).
var componentTag = regexp.MustCompile(`<(/?)([A-Z][A-Za-z0-9]*)([^>]*?)(/?)>`)

// CheckMarkup parses the body and flags structural problems: empty
// content, no headings, unbalanced code fences, unclosed component tags.
func CheckMarkup(body string) []string {
	var warnings []string

	if strings.TrimSpace(body) == "" {
		return []string{"empty body"}
	}

	source := []byte(body)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(source))

	headings := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if _, ok := n.(*ast.Heading); ok {
				headings++
			}
		}
		return ast.WalkContinue, nil
	})
	if headings == 0 {
		warnings = append(warnings, "no headings in body")
	}

	if strings.Count(body, "```")%2 != 0 {
		warnings = append(warnings, "unbalanced code fence")
	}

	warnings = append(warnings, unclosedComponents(body)...)
	return warnings
}

// unclosedComponents balances component tags per name.
func unclosedComponents(body string) []string {
	open := make(map[string]int)
	for _, m := range componentTag.FindAllStringSubmatch(body, -1) {
		name := m[2]
		switch {
		case m[4] == "/": // self-closing
		case m[1] == "/":
			open[name]--
		default:
			open[name]++
		}
	}

	var warnings []string
	for name, n := range open {
		if n != 0 {
			warnings = append(warnings, fmt.Sprintf("unclosed component tag <%s>", name))
		}
	}
	return warnings
}

// markdownImagePath matches local image paths referenced in the body.
var markdownImagePath = regexp.MustCompile(`!\[[^\]]*\]\(\./images/([^)\s]+)\)`)

// CheckLayout verifies the output-folder conventions: directory name
// shape and that every referenced image file is in the image list.
func CheckLayout(mp model.MappedPost) []string {
	var warnings []string

	if !dirPattern.MatchString(mp.Dir) {
		warnings = append(warnings, fmt.Sprintf("output dir %q does not match YYYY-MM-DD-slug", mp.Dir))
	}

	have := make(map[string]bool, len(mp.Images))
	for _, img := range mp.Images {
		have[img] = true
	}

	for _, m := range markdownImagePath.FindAllStringSubmatch(mp.Body, -1) {
		if !have[m[1]] {
			warnings = append(warnings, fmt.Sprintf("body references image %q not in image list", m[1]))
		}
	}

	if hero := mp.Frontmatter.HeroImage; hero != nil {
		name := strings.TrimPrefix(hero.Src, "./images/")
		if !have[name] {
			warnings = append(warnings, fmt.Sprintf("hero image %q not in image list", name))
		}
	}

	return warnings
}

// All runs every check and returns the combined warnings, prefixed
// with the post directory for log context.
func All(mp model.MappedPost) []string {
	out := CheckPost(mp)
	out = append(out, CheckMarkup(mp.Body)...)
	out = append(out, CheckLayout(mp)...)

	for i, w := range out {
		out[i] = fmt.Sprintf("%s: %s", mp.Dir, w)
	}
	return out
}
