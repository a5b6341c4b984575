// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package download fetches referenced post images into the output tree.
// One contract, two implementations: an HTTP downloader for real runs
// and a mock that simulates a dry run without I/O.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/olegiv/wp2astro/internal/sanitize"
	"github.com/olegiv/wp2astro/internal/util"
)

// Result describes one fetch outcome. Width and Height are probed
// from the stored file and stay zero when the format cannot be decoded
// or nothing was written (mock).
type Result struct {
	Filename string // local filename, dimension suffix stripped
	Path     string // absolute destination path ("" for the mock)
	Bytes    int64
	Width    int
	Height   int
	Skipped  bool // destination already existed (variant collapse)
}

// Stats aggregates fetch counters across all concurrent posts.
type Stats struct {
	Downloaded int
	Skipped    int
	Failed     int
	TotalBytes int64
}

// Downloader is the image-fetch contract shared by the real and mock
// implementations. filename names the destination file; empty means
// derive it from the URL via LocalFilename.
type Downloader interface {
	Fetch(ctx context.Context, url, destDir, filename string) (Result, error)
	Stats() Stats
}

// validExtensions whitelists image extensions accepted verbatim;
// anything else gets a .jpg fallback.
var validExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".webp": true, ".svg": true,
}

// LocalFilename derives the deduplicated local filename for an image
// URL: query string dropped, unsafe characters scrubbed, WordPress
// size-variant suffix stripped so every variant of one source image
// lands on the same file.
func LocalFilename(url string) (string, error) {
	base := path.Base(strings.SplitN(url, "?", 2)[0])
	name, err := sanitize.Filename(base)
	if err != nil {
		return "", fmt.Errorf("unusable image URL %q: %w", url, err)
	}

	name = util.StripDimensionSuffix(name)
	if !validExtensions[strings.ToLower(filepath.Ext(name))] {
		name += ".jpg"
	}
	return name, nil
}

// normalizeURL upgrades protocol-relative references.
func normalizeURL(url string) string {
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	return url
}

// HTTPDownloader fetches images over HTTP with a shared client. Safe
// for concurrent use.
type HTTPDownloader struct {
	client   *http.Client
	logger   *slog.Logger
	maxWidth int // 0 disables downscaling

	mu    sync.Mutex
	stats Stats
}

// NewHTTP creates an HTTP downloader. maxWidth > 0 downscales fetched
// images wider than that limit.
func NewHTTP(client *http.Client, maxWidth int, logger *slog.Logger) *HTTPDownloader {
	return &HTTPDownloader{
		client:   client,
		maxWidth: maxWidth,
		logger:   logger.With(slog.String("component", "download")),
	}
}

// Fetch downloads one image into destDir. A destination file that
// already exists is a skip, not an error: size variants of one source
// image collapse onto the first download.
func (d *HTTPDownloader) Fetch(ctx context.Context, url, destDir, filename string) (Result, error) {
	if filename == "" {
		var err error
		filename, err = LocalFilename(url)
		if err != nil {
			d.recordFailure()
			return Result{}, err
		}
	}

	destPath := filepath.Join(destDir, filename)
	res := Result{Filename: filename, Path: destPath}

	if util.FileExists(destPath) {
		res.Skipped = true
		res.Width, res.Height = probeQuiet(destPath)
		d.mu.Lock()
		d.stats.Skipped++
		d.mu.Unlock()
		return res, nil
	}

	if err := util.EnsureDir(destDir); err != nil {
		d.recordFailure()
		return Result{}, err
	}

	n, err := d.download(ctx, normalizeURL(url), destPath)
	if err != nil {
		d.recordFailure()
		return Result{}, fmt.Errorf("downloading %s: %w", url, err)
	}
	res.Bytes = n

	if d.maxWidth > 0 {
		if err := downscale(destPath, d.maxWidth); err != nil {
			// Keep the original bytes when downscaling fails.
			d.logger.Warn("downscale failed, keeping original",
				slog.String("path", destPath),
				slog.String("error", err.Error()))
		}
	}
	res.Width, res.Height = probeQuiet(destPath)

	d.mu.Lock()
	d.stats.Downloaded++
	d.stats.TotalBytes += n
	d.mu.Unlock()

	d.logger.Debug("downloaded image",
		slog.String("url", url),
		slog.String("file", filename),
		slog.Int64("bytes", n))
	return res, nil
}

// download writes the response body atomically via a temp file.
func (d *HTTPDownloader) download(ctx context.Context, url, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	tmpPath := destPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}
	return n, nil
}

// Stats returns a snapshot of the fetch counters.
func (d *HTTPDownloader) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func (d *HTTPDownloader) recordFailure() {
	d.mu.Lock()
	d.stats.Failed++
	d.mu.Unlock()
}

// MockDownloader simulates fetches for dry runs: no network, no
// filesystem writes, deterministic paths. Every discovered reference
// counts as downloaded so the summary matches a real run.
type MockDownloader struct {
	mu    sync.Mutex
	stats Stats
	seen  map[string]bool
}

// NewMock creates a dry-run downloader.
func NewMock() *MockDownloader {
	return &MockDownloader{seen: make(map[string]bool)}
}

// Fetch resolves the deterministic local filename without any I/O.
// Repeated URLs count as skips, mirroring the real variant collapse.
func (m *MockDownloader) Fetch(_ context.Context, url, destDir, filename string) (Result, error) {
	if filename == "" {
		var err error
		filename, err = LocalFilename(url)
		if err != nil {
			m.mu.Lock()
			m.stats.Failed++
			m.mu.Unlock()
			return Result{}, err
		}
	}

	res := Result{Filename: filename, Path: filepath.Join(destDir, filename)}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[res.Path] {
		res.Skipped = true
		m.stats.Skipped++
	} else {
		m.seen[res.Path] = true
		m.stats.Downloaded++
	}
	return res, nil
}

// Stats returns a snapshot of the simulated counters.
func (m *MockDownloader) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
