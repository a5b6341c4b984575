// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package vision

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/olegiv/wp2astro/internal/config"
	"github.com/olegiv/wp2astro/internal/convert"
	"github.com/olegiv/wp2astro/internal/mediacache"
	"github.com/olegiv/wp2astro/internal/model"
)

// Analyzer produces descriptive filenames and alt text for images. All
// pipeline workers in a batch share one Analyzer; its cache and limiter
// are safe for concurrent use.
type Analyzer struct {
	cfg      *config.Config
	cache    *mediacache.Cache
	provider Provider
	limiter  *rate.Limiter
	logger   *slog.Logger

	// inflight serializes analysis per URL so concurrent posts
	// referencing the same image trigger exactly one API call.
	inflightMu sync.Mutex
	inflight   map[string]*sync.Mutex

	// credits counts billable API calls made during this run.
	credits atomic.Int64
}

// New creates an Analyzer. The provider is built during Init so a
// disabled analyzer never touches backend construction.
func New(cfg *config.Config, cache *mediacache.Cache, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		cache:    cache,
		limiter:  rate.NewLimiter(rate.Limit(cfg.AIRateLimit), 1),
		logger:   logger.With(slog.String("component", "vision")),
		inflight: make(map[string]*sync.Mutex),
	}
}

// NewWithProvider creates an Analyzer with an injected provider,
// bypassing backend selection. Used by tests.
func NewWithProvider(cfg *config.Config, cache *mediacache.Cache, provider Provider, logger *slog.Logger) *Analyzer {
	a := New(cfg, cache, logger)
	a.provider = provider
	return a
}

// Init validates credentials and builds the backend provider. Analysis
// enabled without an API key is a fatal configuration error, raised
// before any post is processed.
func (a *Analyzer) Init() error {
	if !a.cfg.AIEnabled {
		return nil
	}

	if NeedsAPIKey(a.cfg.AIBackend) && a.cfg.AIAPIKey == "" {
		return fmt.Errorf("%w: analysis enabled but no API key configured for backend %q",
			convert.ErrConfig, a.cfg.AIBackend)
	}

	if a.provider == nil {
		provider, err := NewProvider(a.cfg)
		if err != nil {
			return fmt.Errorf("%w: %v", convert.ErrConfig, err)
		}
		a.provider = provider
	}

	a.logger.Info("media analysis enabled",
		slog.String("backend", a.cfg.AIBackend),
		slog.String("model", a.cfg.AIModel),
		slog.String("prompt_type", a.cfg.AIPromptType))
	return nil
}

// AnalyzeImage resolves filename and alt text for one image. Disabled
// analysis returns the original filename immediately; otherwise the
// cache is consulted by exact URL, and only a miss reaches the backend.
func (a *Analyzer) AnalyzeImage(ctx context.Context, url, originalFilename string) (model.MediaAnalysis, error) {
	if originalFilename == "" {
		originalFilename = path.Base(strings.SplitN(url, "?", 2)[0])
	}

	result := model.MediaAnalysis{
		OriginalFilename:  originalFilename,
		GeneratedFilename: originalFilename,
	}

	if !a.cfg.AIEnabled {
		return result, nil
	}

	if entry, found := a.cache.Lookup(url); found {
		result.GeneratedFilename = entry.GeneratedFilename
		result.GeneratedAltText = entry.GeneratedAltText
		result.FromCache = true
		return result, nil
	}

	// One analysis per URL at a time; the loser of the race hits the
	// cache entry the winner stored.
	unlock := a.lockURL(url)
	defer unlock()

	if entry, found := a.cache.Lookup(url); found {
		result.GeneratedFilename = entry.GeneratedFilename
		result.GeneratedAltText = entry.GeneratedAltText
		result.FromCache = true
		return result, nil
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return result, fmt.Errorf("rate limiter: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.HTTPTimeout)
	defer cancel()

	desc, err := a.provider.Describe(callCtx, url, buildPrompt(a.cfg))
	if err != nil {
		return result, fmt.Errorf("analyzing %s: %w", url, err)
	}

	result.GeneratedFilename = DeriveFilename(desc, originalFilename)
	result.GeneratedAltText = DeriveAltText(desc.Text, a.cfg.MaxAltTextLength)
	result.CreditsUsed = 1
	a.credits.Add(1)

	if err := a.cache.Store(url, mediacache.Entry{
		GeneratedFilename: result.GeneratedFilename,
		GeneratedAltText:  result.GeneratedAltText,
		CreditsUsed:       1,
	}); err != nil {
		// A cache write failure costs money on the next run but must
		// not fail this post.
		a.logger.Warn("failed to persist analysis result",
			slog.String("url", url),
			slog.String("error", err.Error()))
	}

	a.logger.Debug("analyzed image",
		slog.String("url", url),
		slog.String("filename", result.GeneratedFilename))
	return result, nil
}

// Credits returns the number of billable API calls made so far in
// this run. Cache hits cost nothing.
func (a *Analyzer) Credits() int {
	return int(a.credits.Load())
}

func (a *Analyzer) lockURL(url string) func() {
	a.inflightMu.Lock()
	mu, ok := a.inflight[url]
	if !ok {
		mu = &sync.Mutex{}
		a.inflight[url] = mu
	}
	a.inflightMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
