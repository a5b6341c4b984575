// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// TimestampLayout is the frontmatter datetime format, millisecond
// precision with a numeric zone offset.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// HeroImage is the frontmatter hero entry. Src is a local relative
// path, never a remote URL.
type HeroImage struct {
	Src string `yaml:"src"`
	Alt string `yaml:"alt"`
}

// Frontmatter is the typed Astro frontmatter block written at the top
// of every generated content file. Field order here is the order in the
// output.
type Frontmatter struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Author      string     `yaml:"author"`
	PubDatetime string     `yaml:"pubDatetime"`
	ModDatetime string     `yaml:"modDatetime"`
	Description string     `yaml:"description"`
	Keywords    []string   `yaml:"keywords,omitempty"`
	Categories  []string   `yaml:"categories,omitempty"`
	Group       string     `yaml:"group"`
	Tags        []string   `yaml:"tags,omitempty"`
	HeroImage   *HeroImage `yaml:"heroImage,omitempty"`
	Draft       bool       `yaml:"draft"`
	Featured    bool       `yaml:"featured"`
}

// MappedPost is the fully assembled output record for one post. Images
// holds deduplicated local filenames only, never URLs. The writer
// rewrites in-body paths once before persisting; after that the record
// is terminal.
type MappedPost struct {
	Frontmatter Frontmatter
	Body        string
	Images      []string
	Refs        []ImageRef
	Dir         string // relative output folder, YYYY-MM-DD-slug
	PostID      int
}

// AddImage appends a local filename, keeping the list deduplicated.
func (m *MappedPost) AddImage(name string) {
	if name == "" {
		return
	}
	for _, have := range m.Images {
		if have == name {
			return
		}
	}
	m.Images = append(m.Images, name)
}
