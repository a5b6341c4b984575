// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mapper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/wp2astro/internal/config"
	"github.com/olegiv/wp2astro/internal/convert"
	"github.com/olegiv/wp2astro/internal/model"
	"github.com/olegiv/wp2astro/internal/testutil"
)

func newMapper(t *testing.T) *Mapper {
	t.Helper()
	m, err := New(&config.Config{}, testutil.TestLoggerSilent())
	require.NoError(t, err)
	return m
}

func samplePost() model.Post {
	return model.Post{
		ID:      42,
		Title:   "Kamillentee richtig zubereiten",
		Slug:    "kamillentee-richtig-zubereiten",
		Author:  "KRenner",
		Excerpt: "<p>Kamille beruhigt &amp; entspannt.</p>",
		Content: "<p>Langtext über Kamille.</p>",
		Status:  model.StatusPublish,
		PubDate: time.Date(2021, 3, 14, 9, 30, 0, 0, time.UTC),
		Categories: []model.Term{
			{Name: "Pro", Nicename: "pro"},
			{Name: "Ernährung", Nicename: "ernaehrung"},
		},
		Tags: []model.Term{{Name: "Kamille"}, {Name: "Tee"}},
	}
}

func TestMapPost(t *testing.T) {
	m := newMapper(t)

	refs := []model.ImageRef{
		{URL: "https://example.com/kamille-300x200.jpg", LocalFile: "kamille.jpg", Alt: "Kamille"},
		{URL: "https://example.com/tasse.jpg", LocalFile: "tasse.jpg", Alt: "Tasse"},
	}

	mp, err := m.MapPost(samplePost(), "## Wirkung\n\nText.", refs)
	require.NoError(t, err)

	assert.Equal(t, "2021-03-14-kamillentee-richtig-zubereiten", mp.Dir)
	assert.Equal(t, 42, mp.PostID)

	fm := mp.Frontmatter
	_, err = uuid.Parse(fm.ID)
	assert.NoError(t, err, "frontmatter ID is a uuid")
	assert.Equal(t, "kai-renner", fm.Author)
	assert.Equal(t, "2021-03-14T09:30:00.000Z", fm.PubDatetime)
	assert.Equal(t, fm.PubDatetime, fm.ModDatetime)
	assert.Equal(t, "Kamille beruhigt & entspannt.", fm.Description)
	assert.Equal(t, "pro", fm.Group)
	assert.Equal(t, []string{"Ernährung"}, fm.Categories, "group terms are not categories")
	assert.Equal(t, []string{"Kamille", "Tee"}, fm.Tags)
	assert.Equal(t, []string{"Kamille", "Tee"}, fm.Keywords, "tags double as keywords")
	assert.False(t, fm.Draft)
	assert.False(t, fm.Featured)

	assert.Equal(t, []string{"kamille.jpg", "tasse.jpg"}, mp.Images)
}

func TestMapPostSlugFromTitle(t *testing.T) {
	m := newMapper(t)

	post := samplePost()
	post.Slug = ""
	post.Title = "Grüner Tee & Wohlbefinden"

	mp, err := m.MapPost(post, "body", nil)
	require.NoError(t, err)
	assert.Equal(t, "2021-03-14-gruener-tee-wohlbefinden", mp.Dir)
}

func TestMapPostInvalidSlugReslugified(t *testing.T) {
	m := newMapper(t)

	post := samplePost()
	post.Slug = "Grüner Tee"
	post.Title = "Fallback"

	mp, err := m.MapPost(post, "body", nil)
	require.NoError(t, err)
	assert.Equal(t, "2021-03-14-gruener-tee", mp.Dir, "non-conforming export slugs are normalized")
}

func TestMapPostNoSlug(t *testing.T) {
	m := newMapper(t)

	post := samplePost()
	post.Slug = ""
	post.Title = "???"

	_, err := m.MapPost(post, "body", nil)
	assert.Error(t, err)
}

func TestResolveGroup(t *testing.T) {
	tests := []struct {
		name  string
		terms []model.Term
		want  string
	}{
		{"first match wins", []model.Term{{Name: "Kontra"}, {Name: "pro"}}, "kontra"},
		{"nicename counts", []model.Term{{Name: "Frage-Zeiten", Nicename: "fragezeiten"}}, "fragezeiten"},
		{"case folded", []model.Term{{Name: "PRO"}}, "pro"},
		{"no match defaults", []model.Term{{Name: "Ernährung"}}, "pro"},
		{"empty defaults", nil, "pro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveGroup(tt.terms))
		})
	}
}

func TestMapCategories(t *testing.T) {
	m := newMapper(t)

	terms := []model.Term{
		{Name: "nutrition"},
		{Name: "Ernährung"},
		{Name: "prevention"},
		{Name: "Selbstgemachtes"},
	}
	got := m.mapCategories(terms)
	assert.Equal(t, []string{"Ernährung", "Wissenswertes", "Selbstgemachtes"}, got,
		"mapped duplicates collapse, unknown terms pass through")

	assert.Equal(t, []string{"Wissenswertes"}, m.mapCategories(nil))
	assert.Equal(t, []string{"Wissenswertes"}, m.mapCategories([]model.Term{{Name: "pro"}}),
		"group-only taxonomy falls back to the default category")
}

func TestMapAuthor(t *testing.T) {
	m := newMapper(t)

	assert.Equal(t, "kai-renner", m.mapAuthor("KRenner"))
	assert.Equal(t, "healthy-life-author", m.mapAuthor("admin"))
	assert.Equal(t, "healthy-life-author", m.mapAuthor(""))
	assert.Equal(t, "jane-doe", m.mapAuthor("Jane Doe"), "unknown creators are slugified")
}

func TestAuthorMapFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authors.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"KRenner": "dr-renner"}`), 0o644))

	m, err := New(&config.Config{AuthorMapFile: path}, testutil.TestLoggerSilent())
	require.NoError(t, err)

	assert.Equal(t, "dr-renner", m.mapAuthor("KRenner"), "file overlay wins over defaults")
	assert.Equal(t, "sandra-pfeiffer", m.mapAuthor("Sandra"), "defaults survive the overlay")
}

func TestMapFileErrors(t *testing.T) {
	_, err := New(&config.Config{AuthorMapFile: "/nonexistent/authors.json"}, testutil.TestLoggerSilent())
	assert.ErrorIs(t, err, convert.ErrConfig)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = New(&config.Config{CategoryMapFile: path}, testutil.TestLoggerSilent())
	assert.ErrorIs(t, err, convert.ErrConfig)
}

func TestDescription(t *testing.T) {
	m := newMapper(t)

	t.Run("excerpt preferred", func(t *testing.T) {
		post := samplePost()
		assert.Equal(t, "Kamille beruhigt & entspannt.", m.description(post))
	})

	t.Run("content fallback", func(t *testing.T) {
		post := samplePost()
		post.Excerpt = "  "
		assert.Equal(t, "Langtext über Kamille.", m.description(post))
	})

	t.Run("truncated at rune limit", func(t *testing.T) {
		post := samplePost()
		post.Excerpt = "<p>" + strings.Repeat("ä", 200) + "</p>"
		got := m.description(post)
		assert.Equal(t, 160, len([]rune(got)))
		assert.True(t, strings.HasSuffix(got, "..."))
	})
}

func TestHeroImage(t *testing.T) {
	m := newMapper(t)

	t.Run("matches body reference", func(t *testing.T) {
		post := samplePost()
		post.FeaturedImage = "https://example.com/kamille-1024x768.jpg"
		refs := []model.ImageRef{
			{URL: "https://example.com/kamille-300x200.jpg", LocalFile: "kamillenbluete.jpg", Alt: "Blüte"},
		}
		hero := m.heroImage(post, refs)
		require.NotNil(t, hero)
		assert.Equal(t, "./images/kamillenbluete.jpg", hero.Src)
		assert.Equal(t, "Blüte", hero.Alt)
	})

	t.Run("derived from URL when not in body", func(t *testing.T) {
		post := samplePost()
		post.FeaturedImage = "https://example.com/titelbild-768x432.png"
		hero := m.heroImage(post, nil)
		require.NotNil(t, hero)
		assert.Equal(t, "./images/titelbild.png", hero.Src)
		assert.Equal(t, post.Title, hero.Alt)
	})

	t.Run("absent without featured image", func(t *testing.T) {
		assert.Nil(t, m.heroImage(samplePost(), nil))
	})
}

func TestExtractKeywords(t *testing.T) {
	text := "Kamille Kamille Kamille wirkt beruhigend, beruhigend und der die das"
	got := extractKeywords(text, 3)
	assert.Equal(t, []string{"kamille", "beruhigend", "wirkt"}, got,
		"frequency order, stop words dropped")

	assert.Empty(t, extractKeywords("der die das und", 5))
}
