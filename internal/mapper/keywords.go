// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mapper

import (
	"sort"
	"strings"
)

// maxKeywords caps the extracted keyword list when a post has no tags.
const maxKeywords = 10

// stopWords are common German words excluded from keyword extraction.
var stopWords = map[string]bool{
	"der": true, "die": true, "das": true, "und": true, "ist": true,
	"in": true, "zu": true, "den": true, "von": true, "mit": true,
	"ein": true, "eine": true, "für": true, "auf": true, "des": true,
	"sich": true, "werden": true, "dem": true, "nicht": true, "hat": true,
	"im": true, "am": true, "an": true, "als": true, "auch": true,
	"oder": true, "aber": true, "bei": true, "kann": true, "sind": true,
}

// extractKeywords returns the most frequent content words, longest
// runs first, ties broken alphabetically so the result is stable.
func extractKeywords(text string, max int) []string {
	counts := make(map[string]int)
	for _, word := range strings.Fields(text) {
		word = strings.ToLower(strings.Trim(word, ".,!?;:()[]{}\"'„“”–—"))
		if len([]rune(word)) > 3 && !stopWords[word] {
			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > max {
		words = words[:max]
	}
	return words
}
