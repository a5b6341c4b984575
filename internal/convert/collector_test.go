// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package convert

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/olegiv/wp2astro/internal/model"
)

func TestCollectorAddError(t *testing.T) {
	c := NewCollector()
	c.AddError(model.ErrorTypeConvert, "boom", 7, "Some Post")
	c.Errorf(model.ErrorTypeDownload, 7, "Some Post", "fetch failed: %s", "timeout")

	errs := c.Errors()
	if len(errs) != 2 {
		t.Fatalf("Errors() len = %d, want 2", len(errs))
	}
	if errs[0].Type != model.ErrorTypeConvert || errs[0].PostID != 7 {
		t.Errorf("first error = %+v, want convert error for post 7", errs[0])
	}
	if errs[1].Message != "fetch failed: timeout" {
		t.Errorf("formatted message = %q", errs[1].Message)
	}
}

func TestCollectorConcurrentAppends(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.AddError(model.ErrorTypeConvert, fmt.Sprintf("error %d", n), n, "")
			c.Warnf("warning %d", n)
		}(i)
	}
	wg.Wait()

	if got := c.Len(); got != 50 {
		t.Errorf("Len() = %d, want 50", got)
	}
	if got := len(c.Warnings()); got != 50 {
		t.Errorf("Warnings() len = %d, want 50", got)
	}
}

func TestCollectorMergeOnce(t *testing.T) {
	c := NewCollector()
	c.AddError(model.ErrorTypeValidation, "missing title", 1, "First")
	c.AddWarning("layout check skipped")

	result := &model.ConversionResult{}
	c.MergeInto(result)
	c.MergeInto(result) // second merge must be a no-op

	if len(result.Errors) != 1 {
		t.Errorf("merged errors = %d, want 1", len(result.Errors))
	}
	if len(result.Warnings) != 1 {
		t.Errorf("merged warnings = %d, want 1", len(result.Warnings))
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"parse sentinel", ErrParse, true},
		{"wrapped parse", fmt.Errorf("reading export: %w", ErrParse), true},
		{"config sentinel", ErrConfig, true},
		{"plain error", errors.New("whatever"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
