package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadforge/enrich-cli/internal/extract"
	"github.com/leadforge/enrich-cli/internal/icebreaker"
	"github.com/leadforge/enrich-cli/internal/pipeline"
	"github.com/leadforge/enrich-cli/internal/scrape"
	"github.com/leadforge/enrich-cli/internal/store"
	anthropicpkg "github.com/leadforge/enrich-cli/pkg/anthropic"
	"github.com/leadforge/enrich-cli/pkg/firecrawl"
)

// pipelineEnv holds the initialized store, clients, and pipeline needed
// by the enrich/icebreak/serve commands. NewPipeline builds a fresh
// pipeline over the shared collaborators so each HTTP run gets its own
// usage totals and caches.
type pipelineEnv struct {
	Store       store.Store
	Pipeline    *pipeline.Pipeline
	NewPipeline func() *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "enrich.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline sets up the store, API clients, scraper chain, and the
// pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	health := pipeline.CheckHealth(cfg)
	if !health.HasAnthropicKey {
		return nil, eris.New("anthropic API key is required (ENRICH_ANTHROPIC_KEY)")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	if n, err := st.DeleteExpiredScrapes(ctx); err != nil {
		zap.L().Debug("scrape cache prune failed", zap.Error(err))
	} else if n > 0 {
		zap.L().Debug("pruned expired scrape cache entries", zap.Int("deleted", n))
	}

	timeout := time.Duration(cfg.Scrape.TimeoutSecs) * time.Second
	local := scrape.NewLocalScraper(timeout)

	var fcClient firecrawl.Client
	scrapers := []scrape.Scraper{local}
	if health.HasFirecrawlKey {
		fcClient = firecrawl.NewClient(cfg.Firecrawl.Key,
			firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL),
			firecrawl.WithRateLimit(cfg.Firecrawl.RequestsPerSec),
		)
		scrapers = append(scrapers, scrape.NewFirecrawlAdapter(fcClient))
	}
	chain := scrape.NewChain(scrapers...)
	prober := scrape.NewContactProber(chain, fcClient, cfg.Scrape.ContactPaths)

	aiClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	extractor := extract.NewLLMExtractor(aiClient, cfg.Anthropic.ExtractModel, int(cfg.Anthropic.MaxTokens))
	generator := icebreaker.NewGenerator(aiClient, cfg.Anthropic.IcebreakerModel, int(cfg.Anthropic.MaxTokens))

	newPipeline := func() *pipeline.Pipeline {
		return pipeline.New(cfg, chain, prober, extractor, generator, st)
	}

	return &pipelineEnv{Store: st, Pipeline: newPipeline(), NewPipeline: newPipeline}, nil
}
