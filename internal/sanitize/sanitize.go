// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sanitize scrubs untrusted export content before it enters
// the pipeline: raw HTML bodies, attachment filenames and WordPress
// shortcode wrappers.
package sanitize

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// htmlPolicy is a UGC policy widened just enough to keep the layout
// information the translator needs: figure/figcaption wrappers, image
// dimensions and alignment classes. Scripts, event handlers and
// iframes never survive it.
var htmlPolicy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption", "div", "span")
	p.AllowAttrs("class").OnElements("figure", "img", "div", "span", "blockquote")
	p.AllowAttrs("width", "height").OnElements("img")
	return p
}

var (
	// shortcodeRegex matches opening and closing WordPress shortcodes
	// like [caption id="x" width="300"] and [/caption].
	shortcodeRegex = regexp.MustCompile(`\[/?[a-zA-Z][a-zA-Z0-9_-]*(?:\s[^\[\]]*)?\]`)

	// unsafeFilenameChars covers path separators and shell metacharacters.
	unsafeFilenameChars = regexp.MustCompile(`[/\\:*?"<>|\x00-\x1f]+`)

	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// CleanHTML strips unsafe markup from a raw post body while keeping
// the structural elements the converter relies on.
func CleanHTML(s string) string {
	return htmlPolicy.Sanitize(s)
}

// StripShortcodes removes WordPress shortcode wrappers, keeping their
// inner text. [caption]...[/caption] therefore keeps the caption text
// but loses the attribute soup.
func StripShortcodes(s string) string {
	return shortcodeRegex.ReplaceAllString(s, "")
}

// Filename reduces an untrusted name to a safe base filename: any
// directory components are dropped and unsafe characters replaced with
// hyphens. Returns an error when nothing usable remains.
func Filename(name string) (string, error) {
	safe := filepath.Base(strings.TrimSpace(name))
	if safe == "." || safe == ".." || safe == "" || safe == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename: %q", name)
	}

	safe = unsafeFilenameChars.ReplaceAllString(safe, "-")
	safe = multiHyphen.ReplaceAllString(safe, "-")
	safe = strings.Trim(safe, "-. ")
	if safe == "" {
		return "", fmt.Errorf("invalid filename: %q", name)
	}
	return safe, nil
}
