// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"log/slog"

	"github.com/olegiv/wp2astro/internal/model"
)

// Sink receives records that cross the forwarding threshold. The
// pipeline's error collector implements it.
type Sink interface {
	AddError(errType, message string, postID int, postTitle string)
	AddWarning(message string)
}

// CollectorHandler is a slog.Handler that wraps another handler and
// also forwards WARN and ERROR level records into a Sink, so whatever
// a component logs above the threshold shows up in the run summary.
type CollectorHandler struct {
	inner slog.Handler
	sink  Sink
	level slog.Level // minimum level to forward (default: WARN)
}

// NewCollectorHandler creates a CollectorHandler that wraps the given
// handler. Records at WARN level and above are forwarded to the sink.
func NewCollectorHandler(inner slog.Handler, sink Sink) *CollectorHandler {
	return &CollectorHandler{
		inner: inner,
		sink:  sink,
		level: slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *CollectorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *CollectorHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.forward(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *CollectorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CollectorHandler{
		inner: h.inner.WithAttrs(attrs),
		sink:  h.sink,
		level: h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *CollectorHandler) WithGroup(name string) slog.Handler {
	return &CollectorHandler{
		inner: h.inner.WithGroup(name),
		sink:  h.sink,
		level: h.level,
	}
}

// forward hands a record to the sink. Errors become structured errors
// with type and post identity pulled from well-known attributes;
// warnings stay free text.
func (h *CollectorHandler) forward(r slog.Record) {
	if r.Level < slog.LevelError {
		h.sink.AddWarning(r.Message)
		return
	}

	errType := model.ErrorTypeConvert
	postID := 0
	postTitle := ""

	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "type":
			errType = a.Value.String()
		case "post_id":
			postID = int(a.Value.Int64())
		case "post_title":
			postTitle = a.Value.String()
		}
		return true
	})

	h.sink.AddError(errType, r.Message, postID, postTitle)
}
