// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mapper

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olegiv/wp2astro/internal/convert"
)

// defaultAuthors maps WordPress login names to site author slugs.
// Unknown creators fall back to a slugified form of the login.
var defaultAuthors = map[string]string{
	"KRenner":   "kai-renner",
	"Kai":       "kai-renner",
	"Sandra":    "sandra-pfeiffer",
	"SPfeiffer": "sandra-pfeiffer",
	"admin":     "healthy-life-author",
}

// fallbackAuthor is used when the export carries no creator at all.
const fallbackAuthor = "healthy-life-author"

// defaultCategories maps normalized WordPress category names to the
// site's German category set. German names pass through unchanged.
var defaultCategories = map[string]string{
	"nutrition":        "Ernährung",
	"health":           "Gesundheit",
	"wellness":         "Wellness",
	"mental health":    "Lifestyle & Psyche",
	"fitness":          "Lifestyle & Psyche",
	"immune system":    "Immunsystem",
	"prevention":       "Wissenswertes",
	"natural remedies": "Wissenswertes",
	"micronutrients":   "Mikronährstoffe",
	"organs":           "Organsysteme",
	"scientific":       "Wissenschaftliches",
	"interesting":      "Lesenswertes",

	"ernährung":          "Ernährung",
	"gesundheit":         "Gesundheit",
	"immunsystem":        "Immunsystem",
	"lesenswertes":       "Lesenswertes",
	"lifestyle & psyche": "Lifestyle & Psyche",
	"mikronährstoffe":    "Mikronährstoffe",
	"organsysteme":       "Organsysteme",
	"wissenschaftliches": "Wissenschaftliches",
	"wissenswertes":      "Wissenswertes",
}

// defaultCategory is assigned when no term maps to a known category.
const defaultCategory = "Wissenswertes"

// groupTerms is the closed namespace of content groups. Terms outside
// it never influence group resolution.
var groupTerms = map[string]bool{
	"pro":         true,
	"kontra":      true,
	"fragezeiten": true,
}

// defaultGroup is assigned when no category term names a group.
const defaultGroup = "pro"

// loadMapFile reads a JSON string→string mapping and overlays it onto
// base. An empty filename keeps the defaults untouched.
func loadMapFile(filename string, base map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(base))
	for k, v := range base {
		merged[k] = v
	}
	if filename == "" {
		return merged, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: reading mapping file %s: %v", convert.ErrConfig, filename, err)
	}
	var overlay map[string]string
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("%w: parsing mapping file %s: %v", convert.ErrConfig, filename, err)
	}

	for k, v := range overlay {
		merged[k] = v
	}
	return merged, nil
}
