// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/olegiv/wp2astro/internal/config"
)

// claudeProvider talks to the Anthropic messages API with the image
// passed as a URL source block.
type claudeProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func newClaudeProvider(cfg *config.Config) *claudeProvider {
	return &claudeProvider{
		baseURL: "https://api.anthropic.com/v1",
		apiKey:  cfg.AIAPIKey,
		model:   cfg.AIModel,
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func (p *claudeProvider) ID() string { return config.BackendClaude }

func (p *claudeProvider) Describe(ctx context.Context, imageURL, prompt string) (Description, error) {
	body := map[string]any{
		"model":      p.model,
		"max_tokens": 1024,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{
						"type":   "image",
						"source": map[string]string{"type": "url", "url": imageURL},
					},
					{"type": "text", "text": prompt},
				},
			},
		},
	}

	respBody, err := p.doRequest(ctx, p.baseURL+"/messages", body)
	if err != nil {
		return Description{}, fmt.Errorf("claude describe: %w", err)
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Description{}, fmt.Errorf("claude decode: %w", err)
	}

	for _, part := range result.Content {
		if part.Type == "text" {
			return parseDescription(part.Text), nil
		}
	}
	return Description{}, fmt.Errorf("claude: no text content returned")
}

func (p *claudeProvider) doRequest(ctx context.Context, url string, body any) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
