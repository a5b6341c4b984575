// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package writer persists mapped posts to the output tree: one folder
// per post holding index.mdx and its images/ directory, with
// configurable conflict handling for folders that already exist.
package writer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/wp2astro/internal/config"
	"github.com/olegiv/wp2astro/internal/model"
	"github.com/olegiv/wp2astro/internal/util"
)

// backupTimeLayout stamps backup folder names.
const backupTimeLayout = "20060102-150405"

// Writer persists posts under a base output directory.
type Writer struct {
	baseDir string
	policy  string
	dryRun  bool
	logger  *slog.Logger
}

// New builds a Writer from the run configuration.
func New(cfg *config.Config, logger *slog.Logger) *Writer {
	return &Writer{
		baseDir: cfg.OutputDir,
		policy:  cfg.ConflictPolicy,
		dryRun:  cfg.DryRun,
		logger:  logger.With(slog.String("component", "writer")),
	}
}

// CheckExisting reports whether the post's output folder already
// exists.
func (w *Writer) CheckExisting(mp model.MappedPost) bool {
	return util.DirExists(filepath.Join(w.baseDir, mp.Dir))
}

// Resolve applies the conflict policy to an existing folder. It
// returns true when the post should be written, false when it must be
// skipped. The backup policy renames the old folder aside first.
func (w *Writer) Resolve(mp model.MappedPost) (bool, error) {
	if !w.CheckExisting(mp) {
		return true, nil
	}

	switch w.policy {
	case config.ConflictSkip:
		w.logger.Info("output folder exists, skipping", slog.String("dir", mp.Dir))
		return false, nil
	case config.ConflictOverwrite:
		w.logger.Info("output folder exists, overwriting", slog.String("dir", mp.Dir))
		return true, nil
	default: // backup
		if w.dryRun {
			w.logger.Info("dry run: would back up existing folder", slog.String("dir", mp.Dir))
			return true, nil
		}
		backup, err := w.Backup(mp.Dir)
		if err != nil {
			return false, err
		}
		w.logger.Info("backed up existing folder",
			slog.String("dir", mp.Dir), slog.String("backup", backup))
		return true, nil
	}
}

// Backup moves an existing post folder aside and returns the backup
// name.
func (w *Writer) Backup(dir string) (string, error) {
	backup := fmt.Sprintf("%s.bak-%s", dir, time.Now().Format(backupTimeLayout))
	src := filepath.Join(w.baseDir, dir)
	dst := filepath.Join(w.baseDir, backup)
	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("backing up %s: %w", dir, err)
	}
	return backup, nil
}

// ImagesDir returns the images directory for a post, creating it
// unless running dry.
func (w *Writer) ImagesDir(mp model.MappedPost) (string, error) {
	dir := filepath.Join(w.baseDir, mp.Dir, "images")
	if w.dryRun {
		return dir, nil
	}
	if err := util.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// WritePost persists index.mdx for the post: frontmatter, the image
// import block and the body. In dry-run mode it logs and touches
// nothing.
func (w *Writer) WritePost(mp model.MappedPost) error {
	content, err := renderPost(mp)
	if err != nil {
		return err
	}

	if w.dryRun {
		w.logger.Info("dry run: would write post",
			slog.String("dir", mp.Dir), slog.Int("bytes", len(content)))
		return nil
	}

	dir := filepath.Join(w.baseDir, mp.Dir)
	if err := util.EnsureDir(dir); err != nil {
		return err
	}

	path := filepath.Join(dir, "index.mdx")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	w.logger.Debug("wrote post", slog.String("path", path))
	return nil
}

// renderPost assembles the full index.mdx content.
func renderPost(mp model.MappedPost) (string, error) {
	fm, err := yaml.Marshal(mp.Frontmatter)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter for post %d: %w", mp.PostID, err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fm)
	sb.WriteString("---\n")

	if imports := importBlock(mp.Refs); imports != "" {
		sb.WriteString("\n")
		sb.WriteString(imports)
	}

	sb.WriteString("\n")
	sb.WriteString(strings.TrimSpace(mp.Body))
	sb.WriteString("\n")
	return sb.String(), nil
}

// importBlock emits the Astro import lines for every image variable
// used in the body, plus the component imports.
func importBlock(refs []model.ImageRef) string {
	var sb strings.Builder
	seen := make(map[string]bool)

	hasImages := false
	for _, ref := range refs {
		if ref.Variable == "" || ref.LocalFile == "" || seen[ref.Variable] {
			continue
		}
		seen[ref.Variable] = true
		fmt.Fprintf(&sb, "import %s from \"./images/%s\";\n", ref.Variable, ref.LocalFile)
		hasImages = true
	}

	if hasImages {
		sb.WriteString("import { Image } from \"astro:assets\";\n")
	}
	return sb.String()
}

// RewriteImagePaths replaces remote image URLs in the body with the
// local relative paths chosen upstream. Applied once per post, before
// WritePost.
func RewriteImagePaths(body string, refs []model.ImageRef) string {
	for _, ref := range refs {
		if ref.LocalFile == "" {
			continue
		}
		body = strings.ReplaceAll(body, "("+ref.URL+")", "(./images/"+ref.LocalFile+")")
	}
	return body
}
