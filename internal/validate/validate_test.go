// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olegiv/wp2astro/internal/model"
)

func validPost() model.MappedPost {
	return model.MappedPost{
		Dir:    "2021-03-14-kamillentee",
		Body:   "## Wirkung\n\nText mit ![Bild](./images/kamille.jpg).",
		Images: []string{"kamille.jpg"},
		Frontmatter: model.Frontmatter{
			ID:          "8e7f0a22-1111-4222-8333-444455556666",
			Title:       "Kamillentee",
			Author:      "kai-renner",
			PubDatetime: "2021-03-14T09:30:00.000Z",
			ModDatetime: "2021-03-14T09:30:00.000Z",
			Description: "Über die Wirkung von Kamillentee.",
			Categories:  []string{"Ernährung"},
			Group:       "pro",
		},
	}
}

func TestCheckPostValid(t *testing.T) {
	assert.Empty(t, CheckPost(validPost()))
}

func TestCheckPostProblems(t *testing.T) {
	mp := validPost()
	mp.Frontmatter.Title = " "
	mp.Frontmatter.PubDatetime = "14.03.2021"
	mp.Frontmatter.Group = "neutral"
	mp.Frontmatter.Description = strings.Repeat("x", 200)
	mp.Frontmatter.Categories = nil

	warnings := CheckPost(mp)
	assert.Len(t, warnings, 5)
	assert.Contains(t, strings.Join(warnings, "\n"), "unknown group")
	assert.Contains(t, strings.Join(warnings, "\n"), "unparseable pubDatetime")
	assert.Contains(t, strings.Join(warnings, "\n"), "description too long")
}

func TestCheckMarkup(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"valid", "## Titel\n\nText.", nil},
		{"empty", "   ", []string{"empty body"}},
		{"no headings", "nur Text", []string{"no headings in body"}},
		{"unbalanced fence", "## T\n\n```go\ncode", []string{"unbalanced code fence"}},
		{"unclosed component", "## T\n\n<Blockquote>\nZitat", []string{"unclosed component tag <Blockquote>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckMarkup(tt.body))
		})
	}
}

func TestCheckMarkupBalancedComponents(t *testing.T) {
	body := "## T\n\n<Blockquote>\nZitat\n</Blockquote>\n\n<Image src={x} alt=\"a\" />"
	assert.Empty(t, CheckMarkup(body))
}

func TestCheckLayout(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, CheckLayout(validPost()))
	})

	t.Run("bad dir", func(t *testing.T) {
		mp := validPost()
		mp.Dir = "kamillentee"
		warnings := CheckLayout(mp)
		assert.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "does not match")
	})

	t.Run("missing image", func(t *testing.T) {
		mp := validPost()
		mp.Images = nil
		warnings := CheckLayout(mp)
		assert.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], `"kamille.jpg"`)
	})

	t.Run("hero not in list", func(t *testing.T) {
		mp := validPost()
		mp.Frontmatter.HeroImage = &model.HeroImage{Src: "./images/hero.jpg", Alt: "Hero"}
		warnings := CheckLayout(mp)
		assert.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], `hero image "hero.jpg"`)
	})
}

func TestAllPrefixesDir(t *testing.T) {
	mp := validPost()
	mp.Frontmatter.Author = ""
	warnings := All(mp)
	assert.Len(t, warnings, 1)
	assert.Equal(t, "2021-03-14-kamillentee: missing author", warnings[0])
}
