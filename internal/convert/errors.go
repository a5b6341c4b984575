// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package convert holds the error taxonomy and the append-only error
// collector shared by every pipeline component.
package convert

import "errors"

// Sentinel errors for the two fatal failure classes. Everything else is
// recorded per post and never aborts the run.
var (
	// ErrParse marks an unreadable or malformed export file. Fatal,
	// raised during parsing before any post is processed.
	ErrParse = errors.New("parse error")

	// ErrConfig marks an invalid configuration, such as analysis
	// enabled without an API key. Fatal, raised before processing.
	ErrConfig = errors.New("config error")
)

// IsFatal reports whether err belongs to the fatal classes.
func IsFatal(err error) bool {
	return errors.Is(err, ErrParse) || errors.Is(err, ErrConfig)
}
