// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package translate converts sanitized WordPress HTML into the target
// markup: markdown with Astro Image components, smart image
// positioning and an optional table of contents.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/olegiv/wp2astro/internal/config"
	"github.com/olegiv/wp2astro/internal/convert"
	"github.com/olegiv/wp2astro/internal/download"
	"github.com/olegiv/wp2astro/internal/model"
	"github.com/olegiv/wp2astro/internal/sanitize"
	"github.com/olegiv/wp2astro/internal/util"
	"github.com/olegiv/wp2astro/internal/vision"
)

// Translator turns raw post HTML into target markup. One Translator is
// shared by all concurrent posts; per-post state lives in locals so the
// methods are safe for concurrent use.
type Translator struct {
	cfg        *config.Config
	analyzer   *vision.Analyzer
	collector  *convert.Collector
	thresholds Thresholds
	logger     *slog.Logger
}

// Result is the translation outcome for one post.
type Result struct {
	Markdown string
	Images   []model.ImageRef
}

// New creates a Translator. Soft failures (analysis fallbacks) are
// recorded on the collector, never returned as errors.
func New(cfg *config.Config, analyzer *vision.Analyzer, collector *convert.Collector, logger *slog.Logger) *Translator {
	return &Translator{
		cfg:        cfg,
		analyzer:   analyzer,
		collector:  collector,
		thresholds: ThresholdsFromConfig(cfg),
		logger:     logger.With(slog.String("component", "translate")),
	}
}

// Translate converts one post body. Attachment metadata fills in image
// dimensions the markup does not carry.
func (t *Translator) Translate(ctx context.Context, post model.Post, attachments []model.Attachment) (Result, error) {
	content := sanitize.StripShortcodes(sanitize.CleanHTML(post.Content))

	refs := t.extractImages(content, attachments)
	t.resolveImages(ctx, post, refs)

	markdown, err := t.toMarkdown(content, refs)
	if err != nil {
		return Result{}, fmt.Errorf("converting post %d: %w", post.ID, err)
	}

	if t.cfg.RewriteImages {
		markdown = emitImageComponents(markdown, refs)
	}

	if t.cfg.GenerateTOC {
		if toc := RenderTOC(BuildTOC(markdown)); toc != "" {
			markdown = toc + "\n" + markdown
		}
	}

	out := Result{Markdown: markdown}
	for _, ref := range refs {
		out.Images = append(out.Images, *ref)
	}
	return out, nil
}

// urlDimensions matches a -WxH size suffix in an image URL.
var urlDimensions = regexp.MustCompile(`-(\d+)x(\d+)\.[A-Za-z0-9]+(?:\?.*)?$`)

// extractImages collects every distinct image reference in document
// order, with dimensions from attributes, the URL suffix or attachment
// metadata, in that priority.
func (t *Translator) extractImages(content string, attachments []model.Attachment) []*model.ImageRef {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	// Attachment dimensions are keyed by the suffix-stripped URL so
	// any size variant matches its source record.
	attDims := make(map[string]*model.Attachment, len(attachments))
	for i := range attachments {
		attDims[util.StripDimensionSuffix(attachments[i].URL)] = &attachments[i]
	}

	var refs []*model.ImageRef
	seen := make(map[string]bool)

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" || seen[src] {
			return
		}
		seen[src] = true

		ref := &model.ImageRef{URL: src}
		ref.Alt, _ = s.Attr("alt")

		if w, err := strconv.Atoi(s.AttrOr("width", "")); err == nil {
			ref.Width = w
		}
		if h, err := strconv.Atoi(s.AttrOr("height", "")); err == nil {
			ref.Height = h
		}
		if ref.Width == 0 {
			if m := urlDimensions.FindStringSubmatch(src); m != nil {
				ref.Width, _ = strconv.Atoi(m[1])
				ref.Height, _ = strconv.Atoi(m[2])
			}
		}
		if ref.Width == 0 {
			if att, ok := attDims[util.StripDimensionSuffix(src)]; ok {
				ref.Width, ref.Height = att.Width, att.Height
			}
		}

		ref.Position = ClassifyPosition(ref.Width, ref.Height, t.thresholds)
		refs = append(refs, ref)
	})

	return refs
}

// resolveImages fills LocalFile, Variable and the final alt text for
// each reference, routing through the analyzer when enabled. Analyzer
// failure falls back to the stripped original filename and the markup
// alt text, recorded as a warning.
func (t *Translator) resolveImages(ctx context.Context, post model.Post, refs []*model.ImageRef) {
	for _, ref := range refs {
		local, err := download.LocalFilename(ref.URL)
		if err != nil {
			t.collector.Warnf("post %d %q: %v", post.ID, post.Title, err)
			continue
		}

		if t.analyzer != nil {
			analysis, err := t.analyzer.AnalyzeImage(ctx, ref.URL, local)
			if err != nil {
				t.collector.Warnf("post %d %q: image analysis failed for %s, using original name: %v",
					post.ID, post.Title, ref.URL, err)
			} else {
				local = analysis.GeneratedFilename
				if analysis.GeneratedAltText != "" {
					ref.Alt = analysis.GeneratedAltText
				}
			}
		}

		ref.LocalFile = local
		ref.Variable = imageVariable(local)
	}
}

// toMarkdown runs the html-to-markdown conversion with the WordPress
// rules. The converter is built per call because its rules close over
// per-post image state.
func (t *Translator) toMarkdown(content string, refs []*model.ImageRef) (string, error) {
	positions := make(map[string]string, len(refs))
	for _, ref := range refs {
		positions[ref.URL] = ref.Position
	}

	conv := md.NewConverter("", true, nil)
	addWordPressRules(conv, positions)

	markdown, err := conv.ConvertString(content)
	if err != nil {
		return "", err
	}
	return postProcess(markdown), nil
}

// addWordPressRules teaches the converter the WordPress idioms: figure
// wrappers become positioned markdown images with an italic caption,
// wp-block divs unwrap, blockquotes become the Blockquote component.
func addWordPressRules(conv *md.Converter, positions map[string]string) {
	conv.AddRules(
		md.Rule{
			Filter: []string{"figure"},
			Replacement: func(content string, selec *goquery.Selection, _ *md.Options) *string {
				img := selec.Find("img")
				src, ok := img.Attr("src")
				if !ok {
					return &content
				}
				alt, _ := img.Attr("alt")

				position := positions[src]
				if position == "" {
					position = PositionDefault
				}

				result := fmt.Sprintf("![%s](%s){position=%s}", alt, src, position)
				if caption := strings.TrimSpace(selec.Find("figcaption").Text()); caption != "" {
					result += fmt.Sprintf("\n*%s*", caption)
				}
				return &result
			},
		},
		md.Rule{
			Filter: []string{"div"},
			Replacement: func(content string, _ *goquery.Selection, _ *md.Options) *string {
				// wp-block wrappers carry no meaning in markdown.
				return &content
			},
		},
		md.Rule{
			Filter: []string{"blockquote"},
			Replacement: func(content string, _ *goquery.Selection, _ *md.Options) *string {
				result := fmt.Sprintf("\n<Blockquote>\n%s\n</Blockquote>\n", strings.TrimSpace(content))
				return &result
			},
		},
	)
}

var (
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
	htmlComments     = regexp.MustCompile(`(?s)<!--.*?-->`)
	markdownImage    = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)(?:\{position=([a-z-]+)\})?`)
)

// postProcess tidies converter output: editor comments dropped, blank
// lines collapsed, headings padded.
func postProcess(markdown string) string {
	markdown = htmlComments.ReplaceAllString(markdown, "")
	markdown = padHeadings(markdown)
	markdown = excessBlankLines.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}

// padHeadings guarantees a blank line before every heading.
func padHeadings(markdown string) string {
	lines := strings.Split(markdown, "\n")
	var out []string
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") && len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// emitImageComponents replaces markdown image references with Astro
// Image components wired to the import variables. References without a
// resolved local file keep their markdown form.
func emitImageComponents(markdown string, refs []*model.ImageRef) string {
	byURL := make(map[string]*model.ImageRef, len(refs))
	for _, ref := range refs {
		if ref.Variable != "" {
			byURL[ref.URL] = ref
		}
	}

	return markdownImage.ReplaceAllStringFunc(markdown, func(match string) string {
		m := markdownImage.FindStringSubmatch(match)
		ref, ok := byURL[m[2]]
		if !ok {
			return match
		}

		alt := ref.Alt
		if alt == "" {
			alt = m[1]
		}
		position := m[3]
		if position == "" {
			position = ref.Position
		}

		return fmt.Sprintf("\n<Image\n  src={%s}\n  alt=%q\n  position=%q\n  class=%q\n/>\n",
			ref.Variable, alt, position, LayoutTreatment(position))
	})
}

// SetPosition rewrites the position annotation of one image in
// generated markup, component and markdown form alike, keeping the
// derived class in step. Used when dimensions become known only after
// the file is on disk.
func SetPosition(markdown string, ref model.ImageRef, position string) string {
	if ref.Variable != "" {
		re := regexp.MustCompile(`(src={` + regexp.QuoteMeta(ref.Variable) +
			`}\n  alt="(?:[^"\\]|\\.)*"\n  position=")[a-z-]+("\n  class=")[a-z-]+(")`)
		markdown = re.ReplaceAllString(markdown,
			"${1}"+position+"${2}"+LayoutTreatment(position)+"${3}")
	}
	re := regexp.MustCompile(`(!\[[^\]]*\]\(` + regexp.QuoteMeta(ref.URL) + `\)\{position=)[a-z-]+(\})`)
	return re.ReplaceAllString(markdown, "${1}"+position+"${2}")
}

// imageVariable converts a local filename into the camelCase
// identifier used in the generated import block.
func imageVariable(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		filename = filename[:idx]
	}

	words := strings.FieldsFunc(filename, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
	if len(words) == 0 {
		return "image"
	}

	var sb strings.Builder
	sb.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		r := []rune(strings.ToLower(w))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		sb.WriteString(string(r))
	}

	// Identifiers cannot start with a digit.
	if r := sb.String(); r[0] >= '0' && r[0] <= '9' {
		return "img" + strings.ToUpper(r[:1]) + r[1:]
	}
	return sb.String()
}
