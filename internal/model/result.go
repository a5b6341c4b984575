// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Error types attached to StructuredError records.
const (
	ErrorTypeParse      = "parse"
	ErrorTypeConfig     = "config"
	ErrorTypeConvert    = "convert"
	ErrorTypeValidation = "validation"
	ErrorTypeDownload   = "download"
	ErrorTypeAnalysis   = "analysis"
)

// StructuredError is one recorded failure. PostID and PostTitle are
// zero-valued for run-level errors that are not tied to a post.
type StructuredError struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	PostID    int    `json:"post_id,omitempty"`
	PostTitle string `json:"post_title,omitempty"`
}

// ConversionResult is the run-level aggregate. It is created when a run
// starts, filled in during aggregation and reported once at the end; it
// is never persisted.
type ConversionResult struct {
	RunID            string            `json:"run_id"`
	PostsConverted   int               `json:"posts_converted"`
	PostsSkipped     int               `json:"posts_skipped"`
	ImagesDownloaded int               `json:"images_downloaded"`
	CreditsUsed      int               `json:"credits_used"`
	Errors           []StructuredError `json:"errors,omitempty"`
	Warnings         []string          `json:"warnings,omitempty"`
	Success          bool              `json:"success"`
	StartedAt        time.Time         `json:"started_at"`
	FinishedAt       time.Time         `json:"finished_at"`
}

// HasErrors reports whether any errors were recorded.
func (r *ConversionResult) HasErrors() bool { return len(r.Errors) > 0 }

// Duration returns the total run duration.
func (r *ConversionResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
