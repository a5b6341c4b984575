// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package convert

import (
	"fmt"
	"sync"

	"github.com/olegiv/wp2astro/internal/model"
)

// Collector accumulates structured errors and free-text warnings from
// one component. It accepts concurrent appends from all in-flight posts
// and is merged into the run result exactly once, after all posts
// finish.
type Collector struct {
	mu       sync.Mutex
	errors   []model.StructuredError
	warnings []string
	merged   bool
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// AddError records a structured error. postID may be 0 and postTitle
// empty for run-level errors.
func (c *Collector) AddError(errType, message string, postID int, postTitle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, model.StructuredError{
		Type:      errType,
		Message:   message,
		PostID:    postID,
		PostTitle: postTitle,
	})
}

// Errorf records a structured error with a formatted message.
func (c *Collector) Errorf(errType string, postID int, postTitle, format string, args ...any) {
	c.AddError(errType, fmt.Sprintf(format, args...), postID, postTitle)
}

// AddWarning records a free-text warning.
func (c *Collector) AddWarning(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, message)
}

// Warnf records a formatted warning.
func (c *Collector) Warnf(format string, args ...any) {
	c.AddWarning(fmt.Sprintf(format, args...))
}

// Errors returns a copy of the recorded errors.
func (c *Collector) Errors() []model.StructuredError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.StructuredError, len(c.errors))
	copy(out, c.errors)
	return out
}

// Warnings returns a copy of the recorded warnings.
func (c *Collector) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Len returns the number of recorded errors.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}

// MergeInto appends everything recorded so far to the run result. A
// collector merges once; repeat calls are ignored so an error cannot be
// double counted.
func (c *Collector) MergeInto(result *model.ConversionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.merged {
		return
	}
	c.merged = true
	result.Errors = append(result.Errors, c.errors...)
	result.Warnings = append(result.Warnings, c.warnings...)
}
