// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package vision

import (
	"fmt"

	"github.com/olegiv/wp2astro/internal/config"
)

// promptFormat is the reply contract shared by every prompt type.
const promptFormat = `Reply with a JSON object only: {"description": "...", "tags": ["...", "..."]}. ` +
	`The description is one or two factual sentences in %s. ` +
	`Tags are 3-8 single lowercase nouns naming what is visible.`

// prompts maps the configured prompt type to the instruction sent with
// each image. %s is replaced with the output language name.
var prompts = map[string]string{
	"general": "Describe this image for a blog article. " + promptFormat,

	"medical": "Describe this image from a health blog. Name any visible " +
		"anatomy, symptoms, treatments or medical equipment precisely and " +
		"neutrally, without diagnosing. " + promptFormat,

	"nutrition": "Describe this image from a nutrition article. Name the " +
		"visible foods, ingredients, dishes or preparation steps. " + promptFormat,

	"wellness": "Describe this image from a wellness article. Name the " +
		"visible activity, setting or therapeutic practice. " + promptFormat,

	"scientific": "Describe this image from a popular-science article. Name " +
		"visible organisms, substances, apparatus or diagram content " +
		"precisely. " + promptFormat,
}

// languageNames spells out the configured output language code for the
// prompt; unknown codes are passed through verbatim.
var languageNames = map[string]string{
	"de": "German",
	"en": "English",
	"fr": "French",
	"es": "Spanish",
	"it": "Italian",
}

// buildPrompt resolves the instruction for a run. A configured full
// override wins over the prompt-type catalogue.
func buildPrompt(cfg *config.Config) string {
	if cfg.AIPromptOverride != "" {
		return cfg.AIPromptOverride
	}

	lang := cfg.OutputLanguage
	if name, ok := languageNames[lang]; ok {
		lang = name
	}

	tpl, ok := prompts[cfg.AIPromptType]
	if !ok {
		tpl = prompts["general"]
	}
	return fmt.Sprintf(tpl, lang)
}
