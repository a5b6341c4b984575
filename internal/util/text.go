// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"regexp"
	"strings"
)

// dimensionSuffix matches a WordPress size-variant suffix such as
// "-300x200" directly before the file extension.
var dimensionSuffix = regexp.MustCompile(`-\d+x\d+(\.[A-Za-z0-9]+)$`)

// StripDimensionSuffix removes WordPress size-variant suffixes from a
// filename so that "photo-300x200.jpg" and "photo-768x512.jpg" both
// collapse to "photo.jpg". It strips repeatedly, which makes the
// operation idempotent even on stacked suffixes.
func StripDimensionSuffix(name string) string {
	for {
		stripped := dimensionSuffix.ReplaceAllString(name, "$1")
		if stripped == name {
			return stripped
		}
		name = stripped
	}
}

// TruncateAtWord shortens s to at most max runes, cutting at the last
// word boundary that fits. Strings already within the limit are
// returned unchanged.
func TruncateAtWord(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}

	cut := string(r[:max])
	// When the cut lands mid-word, back up to the previous word end.
	if r[max] != ' ' {
		if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
			cut = cut[:idx]
		}
	}
	return strings.TrimRight(cut, " ,;:-")
}

// NormalizeSpace collapses all whitespace runs into single spaces and
// trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
