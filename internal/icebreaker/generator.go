package icebreaker

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadforge/enrich-cli/internal/model"
	"github.com/leadforge/enrich-cli/pkg/anthropic"
)

// Generator produces icebreakers from scraped company content.
type Generator interface {
	Generate(ctx context.Context, companyInfo, url string, tone model.IcebreakerTone) (string, *anthropic.TokenUsage, error)
}

type claudeGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// NewGenerator returns a Claude-backed Generator.
func NewGenerator(client anthropic.Client, modelName string, maxTokens int) Generator {
	return &claudeGenerator{client: client, model: modelName, maxTokens: maxTokens}
}

func (g *claudeGenerator) Generate(ctx context.Context, companyInfo, url string, tone model.IcebreakerTone) (string, *anthropic.TokenUsage, error) {
	prompt := BuildPrompt(companyInfo, url, tone)

	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", nil, eris.Wrapf(err, "icebreaker: generate for %s", url)
	}
	resp.Usage.LogCost(g.model, "icebreaker")

	text := ParseResponse(resp.Text)
	if text == "" {
		return "", &resp.Usage, eris.Errorf("icebreaker: empty response for %s", url)
	}
	if !Validate(text) {
		zap.L().Debug("icebreaker failed quality gate, keeping anyway",
			zap.String("url", url),
			zap.Int("length", len(strings.TrimSpace(text))))
	}

	return text, &resp.Usage, nil
}
