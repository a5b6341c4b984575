// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mapper assembles the output record for a post: frontmatter,
// taxonomy mapping, group resolution and the relative output folder.
package mapper

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/wp2astro/internal/config"
	"github.com/olegiv/wp2astro/internal/download"
	"github.com/olegiv/wp2astro/internal/model"
	"github.com/olegiv/wp2astro/internal/util"
)

// maxDescriptionLen bounds the frontmatter description in runes.
const maxDescriptionLen = 160

// Mapper maps parsed posts onto the output content schema. It is
// stateless after construction and safe for concurrent use.
type Mapper struct {
	authors    map[string]string
	categories map[string]string
	logger     *slog.Logger
}

// textPolicy strips every tag, leaving text content only.
var textPolicy = bluemonday.StrictPolicy()

// New builds a Mapper, overlaying the configured mapping files onto the
// built-in author and category tables.
func New(cfg *config.Config, logger *slog.Logger) (*Mapper, error) {
	authors, err := loadMapFile(cfg.AuthorMapFile, defaultAuthors)
	if err != nil {
		return nil, err
	}
	categories, err := loadMapFile(cfg.CategoryMapFile, defaultCategories)
	if err != nil {
		return nil, err
	}

	return &Mapper{
		authors:    authors,
		categories: categories,
		logger:     logger.With(slog.String("component", "mapper")),
	}, nil
}

// Dir computes the relative output folder for a post, YYYY-MM-DD-slug.
// It is exported so the orchestrator can run its conflict check before
// spending any translation or analysis work on the post.
func Dir(post model.Post) (string, error) {
	slug := post.Slug
	if !util.IsValidSlug(slug) {
		// Decoded WXR slugs may carry umlauts, case or stray hyphens.
		slug = util.Slugify(slug)
	}
	if slug == "" {
		slug = util.Slugify(post.Title)
	}
	if slug == "" {
		return "", fmt.Errorf("post %d %q: no usable slug", post.ID, post.Title)
	}
	return post.PubDate.Format("2006-01-02") + "-" + slug, nil
}

// MapPost assembles the MappedPost for one post from its translated
// body and resolved image references.
func (m *Mapper) MapPost(post model.Post, body string, refs []model.ImageRef) (model.MappedPost, error) {
	dir, err := Dir(post)
	if err != nil {
		return model.MappedPost{}, err
	}

	timestamp := post.PubDate.Format(model.TimestampLayout)

	mp := model.MappedPost{
		PostID: post.ID,
		Body:   body,
		Refs:   refs,
		Dir:    dir,
		Frontmatter: model.Frontmatter{
			ID:          uuid.NewString(),
			Title:       post.Title,
			Author:      m.mapAuthor(post.Author),
			PubDatetime: timestamp,
			ModDatetime: timestamp,
			Description: m.description(post),
			Categories:  m.mapCategories(post.Categories),
			Group:       resolveGroup(post.Categories),
			Tags:        termNames(post.Tags),
			Draft:       post.IsDraft(),
			Featured:    post.Sticky,
		},
	}

	if len(post.Tags) > 0 {
		mp.Frontmatter.Keywords = termNames(post.Tags)
	} else {
		mp.Frontmatter.Keywords = extractKeywords(stripHTML(post.Content), maxKeywords)
	}

	for _, ref := range refs {
		mp.AddImage(ref.LocalFile)
	}

	if hero := m.heroImage(post, refs); hero != nil {
		mp.Frontmatter.HeroImage = hero
		mp.AddImage(strings.TrimPrefix(hero.Src, "./images/"))
	}

	return mp, nil
}

// mapAuthor resolves the output author slug: explicit table entry,
// else a slugified form of the creator login.
func (m *Mapper) mapAuthor(creator string) string {
	if creator == "" {
		return fallbackAuthor
	}
	if mapped, ok := m.authors[creator]; ok {
		return mapped
	}
	if slug := util.Slugify(creator); slug != "" {
		return slug
	}
	return fallbackAuthor
}

// mapCategories translates category terms to the site's category set,
// deduplicated in input order. Group terms are taxonomy plumbing, not
// categories, and are skipped.
func (m *Mapper) mapCategories(terms []model.Term) []string {
	var out []string
	seen := make(map[string]bool)

	for _, term := range terms {
		normalized := strings.ToLower(strings.TrimSpace(term.Name))
		if groupTerms[normalized] {
			continue
		}

		mapped, ok := m.categories[normalized]
		if !ok {
			mapped = term.Name
		}
		if !seen[mapped] {
			out = append(out, mapped)
			seen[mapped] = true
		}
	}

	if len(out) == 0 {
		out = append(out, defaultCategory)
	}
	return out
}

// resolveGroup picks the content group from the post's category terms.
// The first term inside the group namespace wins; name and nicename
// both count.
func resolveGroup(terms []model.Term) string {
	for _, term := range terms {
		for _, candidate := range []string{term.Name, term.Nicename} {
			normalized := strings.ToLower(strings.TrimSpace(candidate))
			if groupTerms[normalized] {
				return normalized
			}
		}
	}
	return defaultGroup
}

// description builds the frontmatter description from the excerpt,
// falling back to the post body, truncated at the rune limit.
func (m *Mapper) description(post model.Post) string {
	source := post.Excerpt
	if strings.TrimSpace(stripHTML(source)) == "" {
		source = post.Content
	}

	desc := util.NormalizeSpace(stripHTML(source))
	runes := []rune(desc)
	if len(runes) > maxDescriptionLen {
		return string(runes[:maxDescriptionLen-3]) + "..."
	}
	return desc
}

// heroImage resolves the featured image to a local path. A body
// reference to the same source supplies the filename and alt text the
// analyzer picked; otherwise the name derives from the URL.
func (m *Mapper) heroImage(post model.Post, refs []model.ImageRef) *model.HeroImage {
	if post.FeaturedImage == "" {
		return nil
	}

	featured := util.StripDimensionSuffix(post.FeaturedImage)
	for _, ref := range refs {
		if util.StripDimensionSuffix(ref.URL) == featured && ref.LocalFile != "" {
			return &model.HeroImage{Src: "./images/" + ref.LocalFile, Alt: ref.Alt}
		}
	}

	local, err := download.LocalFilename(post.FeaturedImage)
	if err != nil {
		m.logger.Warn("unusable featured image URL, hero omitted",
			slog.Int("post_id", post.ID), slog.String("url", post.FeaturedImage))
		return nil
	}
	return &model.HeroImage{Src: "./images/" + local, Alt: post.Title}
}

// termNames flattens taxonomy terms to their display names.
func termNames(terms []model.Term) []string {
	if len(terms) == 0 {
		return nil
	}
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Name
	}
	return out
}

// stripHTML reduces markup to plain text with entities decoded.
func stripHTML(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}
