// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package vision derives descriptive filenames and alt text for post
// images by calling an external image-understanding service, consulting
// the persistent media cache first so no URL is analyzed twice.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olegiv/wp2astro/internal/config"
)

// Description is what a provider extracts from an image.
type Description struct {
	Text string   `json:"description"`
	Tags []string `json:"tags"`
}

// Provider is the capability interface in front of a vision backend.
// Implementations must honor the context deadline.
type Provider interface {
	ID() string
	Describe(ctx context.Context, imageURL, prompt string) (Description, error)
}

// NeedsAPIKey reports whether a backend requires a configured key.
// Ollama talks to a local daemon and needs none.
func NeedsAPIKey(backend string) bool {
	return backend != config.BackendOllama
}

// NewProvider builds the provider for the configured backend. The
// backend value is validated by config.Load, so an unknown one here is
// a programming error.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.AIBackend {
	case config.BackendOpenAI:
		return newOpenAIProvider(cfg), nil
	case config.BackendClaude:
		return newClaudeProvider(cfg), nil
	case config.BackendOllama:
		return newOllamaProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown analysis backend %q", cfg.AIBackend)
	}
}

// parseDescription decodes the model's reply. Providers are prompted
// for a JSON object; replies that are not valid JSON (or wrap it in a
// code fence) degrade to plain-text descriptions with no tags.
func parseDescription(content string) Description {
	content = strings.TrimSpace(content)
	if fenced := strings.TrimPrefix(content, "```json"); fenced != content {
		content = strings.TrimSuffix(strings.TrimSpace(fenced), "```")
	} else if fenced := strings.TrimPrefix(content, "```"); fenced != content {
		content = strings.TrimSuffix(strings.TrimSpace(fenced), "```")
	}
	content = strings.TrimSpace(content)

	var d Description
	if err := json.Unmarshal([]byte(content), &d); err == nil && d.Text != "" {
		return d
	}
	return Description{Text: content}
}
