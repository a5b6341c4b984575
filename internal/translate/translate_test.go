// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/wp2astro/internal/config"
	"github.com/olegiv/wp2astro/internal/convert"
	"github.com/olegiv/wp2astro/internal/mediacache"
	"github.com/olegiv/wp2astro/internal/model"
	"github.com/olegiv/wp2astro/internal/testutil"
	"github.com/olegiv/wp2astro/internal/vision"
)

func translateConfig() *config.Config {
	return &config.Config{
		RewriteImages:     true,
		SmallWidthMax:     400,
		PortraitRatioMax:  0.8,
		LandscapeRatioMin: 1.6,
		SquareTolerance:   0.1,
		MaxAltTextLength:  125,
		HTTPTimeout:       5 * time.Second,
	}
}

func newTranslator(cfg *config.Config) (*Translator, *convert.Collector) {
	collector := convert.NewCollector()
	return New(cfg, nil, collector, testutil.TestLoggerSilent()), collector
}

func TestTranslateBasic(t *testing.T) {
	tr, collector := newTranslator(translateConfig())

	post := model.Post{
		ID:    1,
		Title: "Test",
		Content: `<h2>Wirkung</h2>
<p>Ein Absatz über <strong>Kamille</strong>.</p>
<figure class="alignleft"><img src="https://example.com/kamille-1200x675.jpg" alt="Kamille" width="1200" height="675"/>
<figcaption>Blühende Kamille</figcaption></figure>`,
	}

	res, err := tr.Translate(context.Background(), post, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, collector.Len())

	assert.Contains(t, res.Markdown, "## Wirkung")
	assert.Contains(t, res.Markdown, "**Kamille**")
	assert.Contains(t, res.Markdown, "src={kamille}")
	assert.Contains(t, res.Markdown, `position="landscape"`)
	assert.Contains(t, res.Markdown, `class="full-width"`)
	assert.Contains(t, res.Markdown, "*Blühende Kamille*")

	require.Len(t, res.Images, 1)
	img := res.Images[0]
	assert.Equal(t, "kamille.jpg", img.LocalFile, "dimension suffix is stripped")
	assert.Equal(t, "kamille", img.Variable)
	assert.Equal(t, PositionLandscape, img.Position)
}

func TestTranslateScriptStripped(t *testing.T) {
	tr, _ := newTranslator(translateConfig())

	post := model.Post{
		ID:      2,
		Content: `<p>Text</p><script>alert("xss")</script><p onclick="evil()">Mehr</p>`,
	}

	res, err := tr.Translate(context.Background(), post, nil)
	require.NoError(t, err)
	assert.NotContains(t, res.Markdown, "alert")
	assert.NotContains(t, res.Markdown, "onclick")
}

func TestTranslateShortcodesStripped(t *testing.T) {
	tr, _ := newTranslator(translateConfig())

	post := model.Post{
		ID:      3,
		Content: `<p>[caption id="a" width="300"]Die Bildunterschrift[/caption] und [gallery ids="1,2"]</p>`,
	}

	res, err := tr.Translate(context.Background(), post, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Markdown, "Die Bildunterschrift")
	assert.NotContains(t, res.Markdown, "[caption")
	assert.NotContains(t, res.Markdown, "[gallery")
}

func TestTranslateBlockquoteComponent(t *testing.T) {
	tr, _ := newTranslator(translateConfig())

	post := model.Post{
		ID:      4,
		Content: `<blockquote><p>Therapeuten Tipp: viel trinken.</p></blockquote>`,
	}

	res, err := tr.Translate(context.Background(), post, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Markdown, "<Blockquote>")
	assert.Contains(t, res.Markdown, "</Blockquote>")
	assert.Contains(t, res.Markdown, "Therapeuten Tipp")
}

func TestTranslateTOC(t *testing.T) {
	cfg := translateConfig()
	cfg.GenerateTOC = true
	tr, _ := newTranslator(cfg)

	post := model.Post{
		ID: 5,
		Content: `<h2>Erster Abschnitt</h2><p>a</p>
<h3>Unterpunkt</h3><p>b</p>
<h2>Zweiter Abschnitt</h2><p>c</p>`,
	}

	res, err := tr.Translate(context.Background(), post, nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Markdown, "## Inhaltsverzeichnis"))
	assert.Contains(t, res.Markdown, "- [Erster Abschnitt](#erster-abschnitt)")
	assert.Contains(t, res.Markdown, "  - [Unterpunkt](#unterpunkt)")
	assert.Contains(t, res.Markdown, "- [Zweiter Abschnitt](#zweiter-abschnitt)")
}

func TestTranslateRewriteDisabled(t *testing.T) {
	cfg := translateConfig()
	cfg.RewriteImages = false
	tr, _ := newTranslator(cfg)

	post := model.Post{
		ID:      6,
		Content: `<figure><img src="https://example.com/foto.jpg" alt="Foto"/></figure>`,
	}

	res, err := tr.Translate(context.Background(), post, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Markdown, "![Foto](https://example.com/foto.jpg)")
	assert.NotContains(t, res.Markdown, "<Image")

	// References are still collected for the download step.
	require.Len(t, res.Images, 1)
	assert.Equal(t, "foto.jpg", res.Images[0].LocalFile)
}

func TestTranslateDimensionsFromAttachment(t *testing.T) {
	tr, _ := newTranslator(translateConfig())

	post := model.Post{
		ID:      7,
		Content: `<figure><img src="https://example.com/uploads/garten-300x200.jpg" alt=""/></figure>`,
	}
	attachments := []model.Attachment{
		{ID: 9, URL: "https://example.com/uploads/garten.jpg", Width: 2000, Height: 1000},
	}

	res, err := tr.Translate(context.Background(), post, attachments)
	require.NoError(t, err)
	require.Len(t, res.Images, 1)
	// The URL suffix wins over attachment metadata.
	assert.Equal(t, 300, res.Images[0].Width)

	// Without a suffix the attachment record supplies the dimensions.
	post.Content = `<figure><img src="https://example.com/uploads/garten.jpg" alt=""/></figure>`
	res, err = tr.Translate(context.Background(), post, attachments)
	require.NoError(t, err)
	require.Len(t, res.Images, 1)
	assert.Equal(t, 2000, res.Images[0].Width)
	assert.Equal(t, PositionLandscape, res.Images[0].Position)
}

func TestTranslateAnalyzerFailureFallsBack(t *testing.T) {
	cfg := translateConfig()
	cfg.AIEnabled = true
	cfg.AIRateLimit = 1000

	cache := mediacache.New(filepath.Join(t.TempDir(), "cache.json"), testutil.TestLoggerSilent())
	analyzer := vision.NewWithProvider(cfg, cache, failingProvider{}, testutil.TestLoggerSilent())

	collector := convert.NewCollector()
	tr := New(cfg, analyzer, collector, testutil.TestLoggerSilent())

	post := model.Post{
		ID:      8,
		Title:   "Fallback",
		Content: `<figure><img src="https://example.com/bild-300x200.jpg" alt="Original Alt"/></figure>`,
	}

	res, err := tr.Translate(context.Background(), post, nil)
	require.NoError(t, err, "analyzer failure must not abort the post")

	require.Len(t, res.Images, 1)
	assert.Equal(t, "bild.jpg", res.Images[0].LocalFile, "falls back to the stripped original name")
	assert.Equal(t, "Original Alt", res.Images[0].Alt)
	assert.NotEmpty(t, collector.Warnings())
}

type failingProvider struct{}

func (failingProvider) ID() string { return "failing" }

func (failingProvider) Describe(context.Context, string, string) (vision.Description, error) {
	return vision.Description{}, assert.AnError
}

func TestSetPosition(t *testing.T) {
	ref := model.ImageRef{
		URL:      "https://example.com/ohne-masse.jpg",
		Variable: "ohneMasse",
	}

	component := "Text\n<Image\n  src={ohneMasse}\n  alt=\"Ein \\\"Bild\\\"\"\n  position=\"default\"\n  class=\"centered\"\n/>\nMehr"
	got := SetPosition(component, ref, PositionSmall)
	assert.Contains(t, got, `position="small"`)
	assert.Contains(t, got, `class="float"`, "class follows the new position")
	assert.NotContains(t, got, `position="default"`)

	markdown := "![Alt](https://example.com/ohne-masse.jpg){position=default}"
	got = SetPosition(markdown, ref, PositionLandscape)
	assert.Equal(t, "![Alt](https://example.com/ohne-masse.jpg){position=landscape}", got)

	// Other images are left alone.
	other := "<Image\n  src={anderes}\n  alt=\"x\"\n  position=\"default\"\n  class=\"centered\"\n/>"
	assert.Equal(t, other, SetPosition(other, ref, PositionSmall))
}

func TestImageVariable(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"kamille.jpg", "kamille"},
		{"kamille-tee-tasse.jpg", "kamilleTeeTasse"},
		{"IMG_0123.jpg", "img0123"},
		{"2021-garten.jpg", "img2021Garten"},
		{"", "image"},
	}

	for _, tt := range tests {
		if got := imageVariable(tt.input); got != tt.want {
			t.Errorf("imageVariable(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
