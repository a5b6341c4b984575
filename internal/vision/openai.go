// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package vision

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/olegiv/wp2astro/internal/config"
)

// openAIProvider talks to the OpenAI chat completions API through the
// official SDK, sending the image as a URL content part.
type openAIProvider struct {
	client openai.Client
	model  string
}

func newOpenAIProvider(cfg *config.Config) *openAIProvider {
	return &openAIProvider{
		client: openai.NewClient(
			option.WithAPIKey(cfg.AIAPIKey),
			option.WithRequestTimeout(cfg.HTTPTimeout),
		),
		model: cfg.AIModel,
	}
}

func (p *openAIProvider) ID() string { return config.BackendOpenAI }

func (p *openAIProvider) Describe(ctx context.Context, imageURL, prompt string) (Description, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: imageURL,
				}),
			}),
		},
		MaxCompletionTokens: openai.Int(300),
	})
	if err != nil {
		return Description{}, fmt.Errorf("openai describe: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Description{}, fmt.Errorf("openai: no choices returned")
	}

	return parseDescription(resp.Choices[0].Message.Content), nil
}
