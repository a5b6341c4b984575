// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"log/slog"
	"testing"
)

type fakeSink struct {
	errors   []string
	types    []string
	postIDs  []int
	warnings []string
}

func (s *fakeSink) AddError(errType, message string, postID int, postTitle string) {
	s.errors = append(s.errors, message)
	s.types = append(s.types, errType)
	s.postIDs = append(s.postIDs, postID)
}

func (s *fakeSink) AddWarning(message string) {
	s.warnings = append(s.warnings, message)
}

func newTestLogger(sink Sink) *slog.Logger {
	inner := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewCollectorHandler(inner, sink))
}

func TestCollectorHandlerForwardsWarnings(t *testing.T) {
	sink := &fakeSink{}
	logger := newTestLogger(sink)

	logger.Info("just info")
	logger.Warn("something odd")

	if len(sink.warnings) != 1 || sink.warnings[0] != "something odd" {
		t.Errorf("warnings = %v, want [something odd]", sink.warnings)
	}
	if len(sink.errors) != 0 {
		t.Errorf("errors = %v, want none", sink.errors)
	}
}

func TestCollectorHandlerForwardsErrorsWithAttrs(t *testing.T) {
	sink := &fakeSink{}
	logger := newTestLogger(sink)

	logger.Error("download failed",
		slog.String("type", "download"),
		slog.Int("post_id", 42),
		slog.String("post_title", "Ein Beitrag"))

	if len(sink.errors) != 1 {
		t.Fatalf("errors = %v, want one entry", sink.errors)
	}
	if sink.types[0] != "download" {
		t.Errorf("error type = %q, want download", sink.types[0])
	}
	if sink.postIDs[0] != 42 {
		t.Errorf("post id = %d, want 42", sink.postIDs[0])
	}
}

func TestCollectorHandlerDefaultsErrorType(t *testing.T) {
	sink := &fakeSink{}
	logger := newTestLogger(sink)

	logger.Error("bare error")

	if len(sink.types) != 1 || sink.types[0] != "convert" {
		t.Errorf("error type = %v, want [convert]", sink.types)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
