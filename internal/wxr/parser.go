// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wxr

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/olegiv/wp2astro/internal/convert"
	"github.com/olegiv/wp2astro/internal/model"
)

// thumbnailMetaKey is the postmeta key WordPress uses to link a post to
// its featured-image attachment.
const thumbnailMetaKey = "_thumbnail_id"

// Export is the normalized parse result.
type Export struct {
	Posts       []model.Post
	Attachments []model.Attachment
	Site        SiteMeta

	// TypeCounts tallies every item type seen in the export,
	// including the ones not normalized into Posts.
	TypeCounts map[string]int
}

// SiteMeta describes the exporting site.
type SiteMeta struct {
	Title       string
	Link        string
	Description string
	Language    string
}

// dateLayouts are tried in order against WordPress date strings, which
// vary between hosts and export plugin versions.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"Mon, 02 Jan 2006 15:04:05 -0700",
}

var (
	// phpDimensions pulls width/height out of the serialized PHP blob
	// in _wp_attachment_metadata without a full PHP deserializer.
	phpWidth  = regexp.MustCompile(`s:5:"width";i:(\d+)`)
	phpHeight = regexp.MustCompile(`s:6:"height";i:(\d+)`)

	// urlDimensions matches a -WxH suffix in an attachment URL.
	urlDimensions = regexp.MustCompile(`-(\d+)x(\d+)\.[A-Za-z0-9]+$`)
)

// ParseFile reads and normalizes a WordPress export. Unreadable or
// malformed input fails with an error wrapping convert.ErrParse.
func ParseFile(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading export file: %v", convert.ErrParse, err)
	}

	var doc export
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding export XML: %v", convert.ErrParse, err)
	}

	out := &Export{
		Site: SiteMeta{
			Title:       doc.Channel.Title,
			Link:        doc.Channel.Link,
			Description: doc.Channel.Description,
			Language:    doc.Channel.Language,
		},
		TypeCounts: make(map[string]int),
	}

	for i := range doc.Channel.Items {
		it := &doc.Channel.Items[i]
		out.TypeCounts[it.PostType]++

		switch it.PostType {
		case "post":
			out.Posts = append(out.Posts, normalizePost(it))
		case "attachment":
			out.Attachments = append(out.Attachments, normalizeAttachment(it))
		}
	}

	return out, nil
}

func normalizePost(it *item) model.Post {
	p := model.Post{
		ID:      it.PostID,
		Title:   it.Title,
		Slug:    it.PostName,
		Author:  it.Creator,
		Content: it.Content,
		Excerpt: it.Excerpt,
		Status:  it.Status,
		Type:    it.PostType,
		Sticky:  it.IsSticky == 1,
		PubDate: parseDate(it.PubDate, it.PostDate),
	}

	for _, cat := range it.Categories {
		term := model.Term{
			Name:     decodeTerm(cat.Value),
			Nicename: decodeTerm(cat.Nicename),
		}
		switch cat.Domain {
		case "category":
			p.Categories = append(p.Categories, term)
		case "post_tag":
			p.Tags = append(p.Tags, term)
		}
	}

	if raw := it.meta(thumbnailMetaKey); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			p.FeaturedImageID = id
		}
	}

	return p
}

func normalizeAttachment(it *item) model.Attachment {
	a := model.Attachment{
		ID:       it.PostID,
		ParentID: it.PostParent,
		Title:    it.Title,
		URL:      it.AttachURL,
	}
	if a.URL == "" {
		a.URL = it.GUID
	}

	if meta := it.meta("_wp_attachment_metadata"); meta != "" {
		if m := phpWidth.FindStringSubmatch(meta); m != nil {
			a.Width, _ = strconv.Atoi(m[1])
		}
		if m := phpHeight.FindStringSubmatch(meta); m != nil {
			a.Height, _ = strconv.Atoi(m[1])
		}
	}
	if a.Width == 0 {
		if m := urlDimensions.FindStringSubmatch(a.URL); m != nil {
			a.Width, _ = strconv.Atoi(m[1])
			a.Height, _ = strconv.Atoi(m[2])
		}
	}

	return a
}

// decodeTerm percent-decodes a taxonomy term name, keeping the raw
// value when it is not valid percent-encoding.
func decodeTerm(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// parseDate tries the pubDate first, then the GMT post date, then every
// known layout. Items with no parseable date keep the zero time; the
// mapper substitutes the run time there.
func parseDate(candidates ...string) time.Time {
	for _, s := range candidates {
		if s == "" || s == "0000-00-00 00:00:00" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// ResolveFeaturedImages cross-links posts to their featured-image
// attachments in place. Posts whose declared attachment ID has no match
// are left unchanged.
func ResolveFeaturedImages(posts []model.Post, attachments []model.Attachment) {
	byID := make(map[int]*model.Attachment, len(attachments))
	for i := range attachments {
		byID[attachments[i].ID] = &attachments[i]
	}

	for i := range posts {
		if posts[i].FeaturedImageID == 0 {
			continue
		}
		if att, ok := byID[posts[i].FeaturedImageID]; ok {
			posts[i].FeaturedImage = att.URL
		}
	}
}

// FilterOptions selects which posts survive filtering.
type FilterOptions struct {
	SkipDrafts bool
	From       time.Time // zero = open bound
	To         time.Time // zero = open bound
}

// FilterPosts applies the draft and date-range predicates. Trashed
// posts are always dropped. Filtering never fails.
func FilterPosts(posts []model.Post, opts FilterOptions) []model.Post {
	var out []model.Post
	for _, p := range posts {
		if p.Status == model.StatusTrash {
			continue
		}
		if opts.SkipDrafts && p.IsDraft() {
			continue
		}
		if !opts.From.IsZero() && p.PubDate.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && p.PubDate.After(opts.To) {
			continue
		}
		out = append(out, p)
	}
	return out
}
