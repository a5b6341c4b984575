// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package vision

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/olegiv/wp2astro/internal/util"
)

// domainKeywords is the curated health-domain vocabulary matched
// against analysis output when building filenames. Declaration order is
// the tie-break: earlier keywords win a slot when more match than fit.
var domainKeywords = []string{
	// Ernährung
	"gemüse", "obst", "kräuter", "heilkräuter", "tee", "salat",
	"smoothie", "vollkorn", "nüsse", "samen", "honig", "ingwer",
	"kurkuma", "knoblauch", "kamille", "lebensmittel", "ernährung",
	// Körper & Medizin
	"herz", "darm", "haut", "rücken", "gelenke", "muskeln", "blut",
	"immunsystem", "vitamine", "mineralstoffe", "medikamente",
	"therapie", "massage", "akupunktur",
	// Bewegung & Entspannung
	"yoga", "meditation", "sport", "bewegung", "entspannung",
	"schlaf", "atmung", "wandern",
	// Natur
	"natur", "garten", "pflanzen", "blüten", "wald", "wasser",
}

// maxKeywordSlots bounds how many matched keywords enter a filename.
const maxKeywordSlots = 3

// maxDescriptiveWords bounds the extra words appended after keywords.
const maxDescriptiveWords = 2

// fillerWords are skipped when picking descriptive words from the
// description text.
var fillerWords = map[string]bool{
	"eine": true, "einer": true, "einem": true, "einen": true, "eines": true,
	"der": true, "die": true, "das": true, "und": true, "oder": true,
	"mit": true, "ohne": true, "auf": true, "über": true, "unter": true,
	"zeigt": true, "bild": true, "foto": true, "sich": true, "sind": true,
	"wird": true, "werden": true, "sowie": true, "neben": true, "dabei": true,
	"this": true, "image": true, "photo": true, "shows": true, "with": true,
	"and": true, "the": true, "from": true, "some": true, "several": true,
}

// DeriveFilename builds a descriptive filename from an analysis
// verdict. Keywords from the domain list that appear in the description
// or tags come first, in list order, followed by up to two descriptive
// words; diacritics are preserved and the original extension kept. With
// no keyword match the original filename stands.
func DeriveFilename(d Description, originalFilename string) string {
	haystack := strings.ToLower(d.Text + " " + strings.Join(d.Tags, " "))

	var matched []string
	for _, kw := range domainKeywords {
		if len(matched) == maxKeywordSlots {
			break
		}
		if strings.Contains(haystack, kw) {
			matched = append(matched, kw)
		}
	}
	if len(matched) == 0 {
		return originalFilename
	}

	used := make(map[string]bool, len(matched))
	for _, kw := range matched {
		used[kw] = true
	}

	words := matched
	for _, w := range strings.Fields(strings.ToLower(d.Text)) {
		if len(words) >= maxKeywordSlots+maxDescriptiveWords {
			break
		}
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(w)) < 4 || fillerWords[w] || used[w] {
			continue
		}
		used[w] = true
		words = append(words, w)
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	if ext == "" {
		ext = ".jpg"
	}
	return hyphenate(words) + ext
}

// hyphenate joins words with hyphens, dropping anything that is not a
// letter or digit. Unlike util.Slugify it keeps diacritics intact.
func hyphenate(words []string) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		var sb strings.Builder
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				sb.WriteRune(unicode.ToLower(r))
			}
		}
		if sb.Len() > 0 {
			parts = append(parts, sb.String())
		}
	}
	return strings.Join(parts, "-")
}

// DeriveAltText turns a description into frontmatter alt text: single
// spaced, truncated at a word boundary to maxLen runes and always
// terminated with a period. An empty description yields empty alt text.
func DeriveAltText(description string, maxLen int) string {
	s := util.NormalizeSpace(description)
	if s == "" {
		return ""
	}

	s = strings.TrimRight(s, ". ")
	s = util.TruncateAtWord(s, maxLen-1)
	if s == "" {
		return ""
	}
	return s + "."
}
