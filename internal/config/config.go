// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the pipeline configuration loaded from environment
// variables. CLI flags override these values after Load.
type Config struct {
	// Input/output
	InputFile string `env:"WP2ASTRO_INPUT"`
	OutputDir string `env:"WP2ASTRO_OUTPUT" envDefault:"./src/content/blog"`
	LogLevel  string `env:"WP2ASTRO_LOG_LEVEL" envDefault:"info"`

	// Run behavior
	DryRun         bool          `env:"WP2ASTRO_DRY_RUN" envDefault:"false"`
	SkipDrafts     bool          `env:"WP2ASTRO_SKIP_DRAFTS" envDefault:"true"`
	DownloadImages bool          `env:"WP2ASTRO_DOWNLOAD_IMAGES" envDefault:"true"`
	RewriteImages  bool          `env:"WP2ASTRO_REWRITE_IMAGES" envDefault:"true"`
	GenerateTOC    bool          `env:"WP2ASTRO_GENERATE_TOC" envDefault:"false"`
	DateFrom       string        `env:"WP2ASTRO_DATE_FROM"`
	DateTo         string        `env:"WP2ASTRO_DATE_TO"`
	BatchSize      int           `env:"WP2ASTRO_BATCH_SIZE" envDefault:"5"`
	BatchDelay     time.Duration `env:"WP2ASTRO_BATCH_DELAY" envDefault:"1s"`
	HTTPTimeout    time.Duration `env:"WP2ASTRO_HTTP_TIMEOUT" envDefault:"30s"`
	ConflictPolicy string        `env:"WP2ASTRO_CONFLICT_POLICY" envDefault:"backup"`

	// Image handling
	MaxImageWidth     int     `env:"WP2ASTRO_MAX_IMAGE_WIDTH" envDefault:"0"` // 0 disables resizing
	SmallWidthMax     int     `env:"WP2ASTRO_SMALL_WIDTH_MAX" envDefault:"400"`
	PortraitRatioMax  float64 `env:"WP2ASTRO_PORTRAIT_RATIO_MAX" envDefault:"0.8"`
	LandscapeRatioMin float64 `env:"WP2ASTRO_LANDSCAPE_RATIO_MIN" envDefault:"1.6"`
	SquareTolerance   float64 `env:"WP2ASTRO_SQUARE_TOLERANCE" envDefault:"0.1"`

	// Mapping tables
	AuthorMapFile   string `env:"WP2ASTRO_AUTHOR_MAP"`
	CategoryMapFile string `env:"WP2ASTRO_CATEGORY_MAP"`

	// AI media analysis
	AIEnabled        bool    `env:"WP2ASTRO_AI_ENABLED" envDefault:"false"`
	AIAPIKey         string  `env:"WP2ASTRO_AI_API_KEY"`
	AIBackend        string  `env:"WP2ASTRO_AI_BACKEND" envDefault:"openai"`
	AIModel          string  `env:"WP2ASTRO_AI_MODEL" envDefault:"gpt-4o-mini"`
	AIPromptType     string  `env:"WP2ASTRO_AI_PROMPT_TYPE" envDefault:"general"`
	AIPromptOverride string  `env:"WP2ASTRO_AI_PROMPT"`
	AIRateLimit      float64 `env:"WP2ASTRO_AI_RATE_LIMIT" envDefault:"1"` // requests per second
	OllamaURL        string  `env:"WP2ASTRO_OLLAMA_URL" envDefault:"http://localhost:11434"`
	OutputLanguage   string  `env:"WP2ASTRO_OUTPUT_LANGUAGE" envDefault:"de"`
	MaxAltTextLength int     `env:"WP2ASTRO_MAX_ALT_TEXT_LENGTH" envDefault:"125"`

	// Analysis cache
	CacheEnabled bool   `env:"WP2ASTRO_CACHE_ENABLED" envDefault:"true"`
	CachePath    string `env:"WP2ASTRO_CACHE_PATH" envDefault:"./.wp2astro-cache.json"`
}

// Conflict policies for existing output folders.
const (
	ConflictSkip      = "skip"
	ConflictBackup    = "backup"
	ConflictOverwrite = "overwrite"
)

// Analysis backends.
const (
	BackendOpenAI = "openai"
	BackendClaude = "claude"
	BackendOllama = "ollama"
)

// Prompt types selecting the analysis prompt wording.
var promptTypes = map[string]bool{
	"general":    true,
	"medical":    true,
	"nutrition":  true,
	"wellness":   true,
	"scientific": true,
}

// dateLayouts accepted for the date-range filter.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints. It is called by Load and
// again after CLI flags have been applied.
func (c *Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize)
	}
	if c.BatchDelay < 0 {
		return fmt.Errorf("batch delay must not be negative")
	}
	if c.MaxAltTextLength < 10 {
		return fmt.Errorf("max alt text length must be at least 10, got %d", c.MaxAltTextLength)
	}

	switch c.ConflictPolicy {
	case ConflictSkip, ConflictBackup, ConflictOverwrite:
	default:
		return fmt.Errorf("conflict policy must be one of skip, backup, overwrite; got %q", c.ConflictPolicy)
	}

	switch c.AIBackend {
	case BackendOpenAI, BackendClaude, BackendOllama:
	default:
		return fmt.Errorf("analysis backend must be one of openai, claude, ollama; got %q", c.AIBackend)
	}

	if !promptTypes[c.AIPromptType] {
		return fmt.Errorf("prompt type must be one of general, medical, nutrition, wellness, scientific; got %q", c.AIPromptType)
	}

	if c.SmallWidthMax <= 0 {
		return fmt.Errorf("small width threshold must be positive, got %d", c.SmallWidthMax)
	}
	if c.PortraitRatioMax <= 0 || c.PortraitRatioMax >= 1 {
		return fmt.Errorf("portrait ratio ceiling must lie in (0, 1), got %g", c.PortraitRatioMax)
	}
	if c.LandscapeRatioMin <= 1 {
		return fmt.Errorf("landscape ratio floor must be greater than 1, got %g", c.LandscapeRatioMin)
	}
	if c.SquareTolerance <= 0 || c.SquareTolerance >= 1 {
		return fmt.Errorf("square tolerance must lie in (0, 1), got %g", c.SquareTolerance)
	}

	if _, _, err := c.DateRange(); err != nil {
		return err
	}

	return nil
}

// DateRange parses the optional date-range filter. Zero times mean the
// bound is open.
func (c *Config) DateRange() (from, to time.Time, err error) {
	from, err = parseDate(c.DateFrom)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date-from: %w", err)
	}
	to, err = parseDate(c.DateTo)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date-to: %w", err)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("date range end %s precedes start %s", c.DateTo, c.DateFrom)
	}
	return from, to, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, want YYYY-MM-DD or RFC3339", s)
}
