// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package wxr reads WordPress eXtended RSS export files and normalizes
// their loosely structured items into the pipeline's Post and
// Attachment records.
package wxr

import "encoding/xml"

// export mirrors the WXR 1.2 document structure. Only the fields the
// pipeline consumes are declared; everything else is skipped by the
// XML decoder.
type export struct {
	XMLName xml.Name `xml:"rss"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Language    string `xml:"language"`
	Items       []item `xml:"item"`
}

type item struct {
	Title      string     `xml:"title"`
	Link       string     `xml:"link"`
	PubDate    string     `xml:"pubDate"`
	Creator    string     `xml:"http://purl.org/dc/elements/1.1/ creator"`
	GUID       string     `xml:"guid"`
	Content    string     `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	Excerpt    string     `xml:"http://wordpress.org/export/1.2/excerpt/ encoded"`
	PostID     int        `xml:"http://wordpress.org/export/1.2/ post_id"`
	PostName   string     `xml:"http://wordpress.org/export/1.2/ post_name"`
	PostType   string     `xml:"http://wordpress.org/export/1.2/ post_type"`
	PostDate   string     `xml:"http://wordpress.org/export/1.2/ post_date_gmt"`
	Status     string     `xml:"http://wordpress.org/export/1.2/ status"`
	PostParent int        `xml:"http://wordpress.org/export/1.2/ post_parent"`
	IsSticky   int        `xml:"http://wordpress.org/export/1.2/ is_sticky"`
	AttachURL  string     `xml:"http://wordpress.org/export/1.2/ attachment_url"`
	Categories []category `xml:"category"`
	PostMeta   []postMeta `xml:"http://wordpress.org/export/1.2/ postmeta"`
}

type category struct {
	Domain   string `xml:"domain,attr"`
	Nicename string `xml:"nicename,attr"`
	Value    string `xml:",chardata"`
}

type postMeta struct {
	Key   string `xml:"http://wordpress.org/export/1.2/ meta_key"`
	Value string `xml:"http://wordpress.org/export/1.2/ meta_value"`
}

// meta retrieves a postmeta value by key, empty when absent.
func (it *item) meta(key string) string {
	for _, m := range it.PostMeta {
		if m.Key == key {
			return m.Value
		}
	}
	return ""
}
