package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/leadforge/enrich-cli/internal/model"
	"github.com/leadforge/enrich-cli/internal/scrape"
	"github.com/leadforge/enrich-cli/pkg/anthropic"
)

// --- Scraper mock ---

type mockScraper struct {
	mock.Mock
}

func (m *mockScraper) Name() string { return "mock" }

func (m *mockScraper) Scrape(ctx context.Context, targetURL string) (*scrape.Result, error) {
	args := m.Called(ctx, targetURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scrape.Result), args.Error(1)
}

// --- Extractor mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, content, url string) (model.EmailExtraction, *anthropic.TokenUsage, error) {
	args := m.Called(ctx, content, url)
	var usage *anthropic.TokenUsage
	if u := args.Get(1); u != nil {
		usage = u.(*anthropic.TokenUsage)
	}
	return args.Get(0).(model.EmailExtraction), usage, args.Error(2)
}

// --- Generator mock ---

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, companyInfo, url string, tone model.IcebreakerTone) (string, *anthropic.TokenUsage, error) {
	args := m.Called(ctx, companyInfo, url, tone)
	var usage *anthropic.TokenUsage
	if u := args.Get(1); u != nil {
		usage = u.(*anthropic.TokenUsage)
	}
	return args.String(0), usage, args.Error(2)
}

// --- Helpers ---

func pageResult(url, markdown string) *scrape.Result {
	return &scrape.Result{
		Page:   scrape.Page{URL: url, Markdown: markdown, StatusCode: 200},
		Source: "mock",
	}
}
