// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/olegiv/wp2astro/internal/config"
)

// ollamaProvider talks to a local Ollama daemon. Ollama takes inline
// base64 images rather than URLs, so the provider fetches the image
// bytes itself before the generate call.
type ollamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

func newOllamaProvider(cfg *config.Config) *ollamaProvider {
	return &ollamaProvider{
		baseURL: cfg.OllamaURL,
		model:   cfg.AIModel,
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func (p *ollamaProvider) ID() string { return config.BackendOllama }

func (p *ollamaProvider) Describe(ctx context.Context, imageURL, prompt string) (Description, error) {
	imgData, err := p.fetchImage(ctx, imageURL)
	if err != nil {
		return Description{}, fmt.Errorf("ollama fetch image: %w", err)
	}

	body := map[string]any{
		"model":  p.model,
		"prompt": prompt,
		"images": []string{base64.StdEncoding.EncodeToString(imgData)},
		"stream": false,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Description{}, fmt.Errorf("ollama marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return Description{}, fmt.Errorf("ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Description{}, fmt.Errorf("ollama call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Description{}, fmt.Errorf("ollama read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Description{}, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Description{}, fmt.Errorf("ollama decode: %w", err)
	}

	return parseDescription(result.Response), nil
}

func (p *ollamaProvider) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
