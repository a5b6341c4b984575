// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pipeline orchestrates a conversion run: parse, filter, batch
// the posts through the per-post steps, then aggregate every collector
// into the final result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/olegiv/wp2astro/internal/config"
	"github.com/olegiv/wp2astro/internal/convert"
	"github.com/olegiv/wp2astro/internal/download"
	"github.com/olegiv/wp2astro/internal/logging"
	"github.com/olegiv/wp2astro/internal/mapper"
	"github.com/olegiv/wp2astro/internal/mediacache"
	"github.com/olegiv/wp2astro/internal/model"
	"github.com/olegiv/wp2astro/internal/translate"
	"github.com/olegiv/wp2astro/internal/validate"
	"github.com/olegiv/wp2astro/internal/vision"
	"github.com/olegiv/wp2astro/internal/writer"
	"github.com/olegiv/wp2astro/internal/wxr"
)

// State is the orchestrator phase. Transitions are one-directional;
// Failed is terminal.
type State int

// Pipeline states in transition order.
const (
	StateIdle State = iota
	StateParsing
	StateFiltering
	StateBatching
	StateAggregating
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:        "idle",
	StateParsing:     "parsing",
	StateFiltering:   "filtering",
	StateBatching:    "batching",
	StateAggregating: "aggregating",
	StateDone:        "done",
	StateFailed:      "failed",
}

func (s State) String() string { return stateNames[s] }

// Pipeline wires every component of one conversion run. Build it with
// New, run it once with Run.
type Pipeline struct {
	cfg        *config.Config
	cache      *mediacache.Cache
	analyzer   *vision.Analyzer
	translator *translate.Translator
	mapper     *mapper.Mapper
	writer     *writer.Writer
	downloader download.Downloader
	collector  *convert.Collector
	thresholds translate.Thresholds
	logger     *slog.Logger
	direct     *slog.Logger // unwrapped: records already carried by an outcome

	mu    sync.Mutex
	state State
}

// New assembles a Pipeline from the configuration. Analyzer
// credentials are validated here, before any post is touched.
func New(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	collector := convert.NewCollector()

	// Anything a component logs at WARN or above also lands in the
	// run summary. The unwrapped logger stays around for records whose
	// error is already reported through another channel.
	direct := logger.With(slog.String("component", "pipeline"))
	logger = slog.New(logging.NewCollectorHandler(logger.Handler(), collector))

	cachePath := ""
	if cfg.CacheEnabled {
		cachePath = cfg.CachePath
	}
	cache := mediacache.New(cachePath, logger)

	analyzer := vision.New(cfg, cache, logger)
	if err := analyzer.Init(); err != nil {
		return nil, err
	}

	m, err := mapper.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	var dl download.Downloader
	if cfg.DryRun || !cfg.DownloadImages {
		dl = download.NewMock()
	} else {
		client := &http.Client{Timeout: cfg.HTTPTimeout}
		dl = download.NewHTTP(client, cfg.MaxImageWidth, logger)
	}

	return &Pipeline{
		cfg:        cfg,
		cache:      cache,
		analyzer:   analyzer,
		translator: translate.New(cfg, analyzer, collector, logger),
		mapper:     m,
		writer:     writer.New(cfg, logger),
		downloader: dl,
		collector:  collector,
		thresholds: translate.ThresholdsFromConfig(cfg),
		logger:     logger.With(slog.String("component", "pipeline")),
		direct:     direct,
		state:      StateIdle,
	}, nil
}

// Cache exposes the analysis cache for end-of-run reporting.
func (p *Pipeline) Cache() *mediacache.Cache { return p.cache }

// State returns the current phase.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	old := p.state
	p.state = s
	p.mu.Unlock()
	p.logger.Debug("state transition",
		slog.String("from", old.String()), slog.String("to", s.String()))
}

// postOutcome is one worker's verdict.
type postOutcome struct {
	converted bool
	skipped   bool
	err       *model.StructuredError
}

// Run executes the full conversion. The returned error is non-nil only
// for fatal run-level failures (unparseable input); per-post failures
// land in the result's error list instead.
func (p *Pipeline) Run(ctx context.Context) (model.ConversionResult, error) {
	result := model.ConversionResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	p.setState(StateParsing)
	export, err := wxr.ParseFile(p.cfg.InputFile)
	if err != nil {
		p.setState(StateFailed)
		result.Errors = append(result.Errors, model.StructuredError{
			Type:    model.ErrorTypeConvert,
			Message: err.Error(),
		})
		result.FinishedAt = time.Now()
		return result, err
	}
	wxr.ResolveFeaturedImages(export.Posts, export.Attachments)
	p.logger.Info("parsed export",
		slog.String("site", export.Site.Title),
		slog.Int("posts", len(export.Posts)),
		slog.Int("attachments", len(export.Attachments)))

	p.setState(StateFiltering)
	from, to, err := p.cfg.DateRange()
	if err != nil {
		p.setState(StateFailed)
		result.Errors = append(result.Errors, model.StructuredError{
			Type:    model.ErrorTypeConfig,
			Message: err.Error(),
		})
		result.FinishedAt = time.Now()
		return result, err
	}
	posts := wxr.FilterPosts(export.Posts, wxr.FilterOptions{
		SkipDrafts: p.cfg.SkipDrafts,
		From:       from,
		To:         to,
	})
	p.logger.Info("filtered posts",
		slog.Int("selected", len(posts)), slog.Int("total", len(export.Posts)))

	p.setState(StateBatching)
	outcomes := p.processBatches(ctx, posts, export.Attachments)

	p.setState(StateAggregating)
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			result.Errors = append(result.Errors, *o.err)
			result.PostsSkipped++
		case o.skipped:
			result.PostsSkipped++
		case o.converted:
			result.PostsConverted++
		}
	}
	p.collector.MergeInto(&result)
	result.ImagesDownloaded = p.downloader.Stats().Downloaded
	result.CreditsUsed = p.analyzer.Credits()
	result.Success = len(result.Errors) == 0
	result.FinishedAt = time.Now()

	if result.Success {
		p.setState(StateDone)
	} else {
		p.setState(StateFailed)
	}
	return result, nil
}

// processBatches runs the posts in input order, batchSize at a time,
// with the pacing delay between batches. Outcomes keep input order.
func (p *Pipeline) processBatches(ctx context.Context, posts []model.Post, attachments []model.Attachment) []postOutcome {
	outcomes := make([]postOutcome, len(posts))
	bar := p.progressBar(len(posts))

	size := p.cfg.BatchSize
	for start := 0; start < len(posts); start += size {
		if start > 0 && p.cfg.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				for i := start; i < len(posts); i++ {
					outcomes[i] = postOutcome{err: &model.StructuredError{
						Type:      model.ErrorTypeConvert,
						Message:   "run canceled",
						PostID:    posts[i].ID,
						PostTitle: posts[i].Title,
					}}
				}
				return outcomes
			case <-time.After(p.cfg.BatchDelay):
			}
		}

		end := min(start+size, len(posts))
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i] = p.processPost(ctx, posts[i], attachments)
				if bar != nil {
					_ = bar.Add(1)
				}
			}(i)
		}
		wg.Wait()
	}

	if bar != nil {
		_ = bar.Finish()
	}
	return outcomes
}

// processPost runs the per-post steps. Panics are contained here so a
// single bad post cannot take the batch down.
func (p *Pipeline) processPost(ctx context.Context, post model.Post, attachments []model.Attachment) (outcome postOutcome) {
	defer func() {
		if r := recover(); r != nil {
			// The outcome below is the single record of this failure;
			// the direct logger keeps it off the collector.
			p.direct.Error("panic while processing post",
				slog.Int("post_id", post.ID), slog.Any("panic", r))
			outcome = postOutcome{err: &model.StructuredError{
				Type:      model.ErrorTypeConvert,
				Message:   fmt.Sprintf("panic: %v", r),
				PostID:    post.ID,
				PostTitle: post.Title,
			}}
		}
	}()

	fail := func(errType string, err error) postOutcome {
		return postOutcome{err: &model.StructuredError{
			Type:      errType,
			Message:   err.Error(),
			PostID:    post.ID,
			PostTitle: post.Title,
		}}
	}

	dir, err := mapper.Dir(post)
	if err != nil {
		return fail(model.ErrorTypeConvert, err)
	}

	proceed, err := p.writer.Resolve(model.MappedPost{Dir: dir, PostID: post.ID})
	if err != nil {
		return fail(model.ErrorTypeConvert, err)
	}
	if !proceed {
		return postOutcome{skipped: true}
	}

	translated, err := p.translator.Translate(ctx, post, attachments)
	if err != nil {
		return fail(model.ErrorTypeConvert, err)
	}

	mp, err := p.mapper.MapPost(post, translated.Markdown, translated.Images)
	if err != nil {
		return fail(model.ErrorTypeConvert, err)
	}

	if err := p.downloadImages(ctx, post, &mp); err != nil {
		return fail(model.ErrorTypeDownload, err)
	}

	mp.Body = writer.RewriteImagePaths(mp.Body, mp.Refs)

	for _, warning := range validate.All(mp) {
		p.collector.AddWarning(warning)
	}

	if err := p.writer.WritePost(mp); err != nil {
		return fail(model.ErrorTypeConvert, err)
	}

	return postOutcome{converted: true}
}

// downloadImages fetches every body image plus the hero when it is not
// already covered by a body reference. Individual fetch failures are
// warnings; the post is still written with whatever arrived. References
// whose dimensions neither the markup nor attachment metadata supplied
// are reclassified from the downloaded file.
func (p *Pipeline) downloadImages(ctx context.Context, post model.Post, mp *model.MappedPost) error {
	destDir, err := p.writer.ImagesDir(*mp)
	if err != nil {
		return err
	}

	fetched := make(map[string]bool)
	for i := range mp.Refs {
		ref := &mp.Refs[i]
		if ref.LocalFile == "" {
			continue
		}
		res, err := p.downloader.Fetch(ctx, ref.URL, destDir, ref.LocalFile)
		if err != nil {
			p.collector.Warnf("post %d %q: downloading %s: %v", post.ID, post.Title, ref.URL, err)
			continue
		}
		fetched[ref.LocalFile] = true

		if ref.Width == 0 && res.Width > 0 {
			ref.Width, ref.Height = res.Width, res.Height
			if pos := translate.ClassifyPosition(ref.Width, ref.Height, p.thresholds); pos != ref.Position {
				ref.Position = pos
				mp.Body = translate.SetPosition(mp.Body, *ref, pos)
			}
		}
	}

	if hero := mp.Frontmatter.HeroImage; hero != nil && post.FeaturedImage != "" {
		name := strings.TrimPrefix(hero.Src, "./images/")
		if !fetched[name] {
			if _, err := p.downloader.Fetch(ctx, post.FeaturedImage, destDir, name); err != nil {
				p.collector.Warnf("post %d %q: downloading featured image %s: %v",
					post.ID, post.Title, post.FeaturedImage, err)
			}
		}
	}
	return nil
}

// progressBar builds a bar on interactive terminals only.
func (p *Pipeline) progressBar(total int) *progressbar.ProgressBar {
	if total == 0 || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
