// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records that flow through the
// conversion pipeline: parsed WordPress posts and attachments on the
// input side, mapped Astro content entries on the output side.
package model

import "time"

// Post statuses as found in a WordPress export.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
	StatusTrash   = "trash"
)

// Term is a single taxonomy term attached to a post. Name and Nicename
// are percent-decoded at parse time.
type Term struct {
	Name     string `json:"name"`
	Nicename string `json:"nicename"`
}

// Post is one post record from the export. It is built once by the
// parser and, apart from featured-image resolution, never mutated.
type Post struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Author          string    `json:"author"`
	Content         string    `json:"content"`
	Excerpt         string    `json:"excerpt"`
	Status          string    `json:"status"`
	Type            string    `json:"type"`
	PubDate         time.Time `json:"pub_date"`
	Sticky          bool      `json:"sticky"`
	Categories      []Term    `json:"categories,omitempty"`
	Tags            []Term    `json:"tags,omitempty"`
	FeaturedImageID int       `json:"featured_image_id,omitempty"` // 0 = none declared
	FeaturedImage   string    `json:"featured_image,omitempty"`    // URL, set by ResolveFeaturedImages
	AttachmentIDs   []int     `json:"attachment_ids,omitempty"`
}

// IsDraft reports whether the post is a draft.
func (p Post) IsDraft() bool { return p.Status == StatusDraft }

// Attachment is a media record from the export. ParentID links it to the
// post it was uploaded for; 0 means detached. Width and Height are 0
// when the export carries no dimension metadata.
type Attachment struct {
	ID       int    `json:"id"`
	URL      string `json:"url"`
	ParentID int    `json:"parent_id,omitempty"`
	Title    string `json:"title,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// ImageRef is one image reference discovered in a post body or resolved
// from the featured image. LocalFile is the downloaded (or simulated)
// filename; Variable is the camelCase identifier used in the generated
// import block.
type ImageRef struct {
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	LocalFile string `json:"local_file,omitempty"`
	Variable  string `json:"variable,omitempty"`
	Position  string `json:"position,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// MediaAnalysis is the analyzer verdict for a single image.
type MediaAnalysis struct {
	OriginalFilename  string `json:"original_filename"`
	GeneratedFilename string `json:"generated_filename"`
	GeneratedAltText  string `json:"generated_alt_text"`
	FromCache         bool   `json:"from_cache"`
	CreditsUsed       int    `json:"credits_used"`
}
