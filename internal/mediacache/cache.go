// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mediacache persists image analysis results across runs so a
// URL already analyzed never costs vision-API credits again. The store
// is a single JSON file keyed by the literal source URL.
package mediacache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry is one cached analysis verdict. Entries are created on cache
// misses and never auto-deleted.
type Entry struct {
	GeneratedFilename string    `json:"generated_filename"`
	GeneratedAltText  string    `json:"generated_alt_text"`
	CreditsUsed       int       `json:"credits_used"`
	Timestamp         time.Time `json:"timestamp"`
}

// Cache provides thread-safe access to the analysis cache. An empty
// path disables persistence: lookups miss and stores are dropped.
type Cache struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
	byURL  map[string]Entry
}

// Stats summarizes the cache for reporting.
type Stats struct {
	Entries      int
	TotalCredits int
}

// Pattern is one normalized filename group for the stats report.
type Pattern struct {
	Pattern string
	Count   int
}

// New creates a cache bound to path and loads any existing file. A
// load failure starts the cache empty rather than failing the run.
func New(path string, logger *slog.Logger) *Cache {
	c := &Cache{
		path:   path,
		logger: logger.With(slog.String("component", "mediacache")),
		byURL:  make(map[string]Entry),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		c.logger.Warn("failed to load analysis cache, starting empty",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}

	return c
}

// Lookup returns the entry for a source URL. Keys are the literal URL;
// dimension-suffix variants of one image are distinct keys.
func (c *Cache) Lookup(url string) (Entry, bool) {
	url = strings.TrimSpace(url)
	if url == "" || c.path == "" {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, found := c.byURL[url]
	return entry, found
}

// Store adds or replaces the entry for a URL and persists the cache.
// Concurrent stores to the same key resolve last-write-wins, which is
// safe because an entry is a deterministic function of its URL.
func (c *Cache) Store(url string, entry Entry) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("cache key URL cannot be empty")
	}
	if c.path == "" {
		return nil
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.byURL[url] = entry
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached analysis result",
		slog.String("url", url),
		slog.String("filename", entry.GeneratedFilename))
	return nil
}

// GetStats returns entry count and total credits consumed.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{Entries: len(c.byURL)}
	for _, e := range c.byURL {
		s.TotalCredits += e.CreditsUsed
	}
	return s
}

// patternNumbers matches digit runs so serial photos such as
// "IMG_0123.jpg" and "IMG_0456.jpg" group under one pattern.
var patternNumbers = regexp.MustCompile(`\d+`)

// TopPatterns groups generated filenames by their normalized pattern
// (digits collapsed, extension dropped) and returns the n most common,
// largest first. Ties break alphabetically so output is deterministic.
func (c *Cache) TopPatterns(n int) []Pattern {
	c.mu.RLock()
	counts := make(map[string]int)
	for _, e := range c.byURL {
		name := e.GeneratedFilename
		if idx := strings.LastIndex(name, "."); idx > 0 {
			name = name[:idx]
		}
		pattern := patternNumbers.ReplaceAllString(name, "N")
		counts[pattern]++
	}
	c.mu.RUnlock()

	patterns := make([]Pattern, 0, len(counts))
	for p, cnt := range counts {
		patterns = append(patterns, Pattern{Pattern: p, Count: cnt})
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Pattern < patterns[j].Pattern
	})

	if n > 0 && len(patterns) > n {
		patterns = patterns[:n]
	}
	return patterns
}

// RecentEntry pairs a URL with its entry for the stats report.
type RecentEntry struct {
	URL string
	Entry
}

// Recent returns the n most recently cached entries, newest first.
func (c *Cache) Recent(n int) []RecentEntry {
	c.mu.RLock()
	entries := make([]RecentEntry, 0, len(c.byURL))
	for url, e := range c.byURL {
		entries = append(entries, RecentEntry{URL: url, Entry: e})
	}
	c.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].URL < entries[j].URL
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// load reads the cache file into memory. A missing file is a fresh
// start, not an error.
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	byURL := make(map[string]Entry)
	if err := json.Unmarshal(data, &byURL); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	for url := range byURL {
		if strings.TrimSpace(url) == "" {
			delete(byURL, url)
		}
	}
	c.byURL = byURL

	c.logger.Debug("loaded analysis cache",
		slog.Int("entries", len(c.byURL)),
		slog.String("path", c.path))
	return nil
}

// save writes the cache atomically via a temp file. Callers hold the
// write lock.
func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.byURL, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
