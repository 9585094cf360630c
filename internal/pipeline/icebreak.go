package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadforge/enrich-cli/internal/model"
	"github.com/leadforge/enrich-cli/internal/resilience"
)

// GenerateIcebreakers runs phase 2 strictly sequentially over leads that
// completed discovery with a contact email. Scraped markdown is reused
// from phase 1's cache, then the store, then a fresh scrape; a lead whose
// content cannot be recovered gets a failed result without aborting the
// run. Leads that never passed through this pipeline's discovery phase
// are a setup error.
func (p *Pipeline) GenerateIcebreakers(ctx context.Context, leads []model.EnrichedLead, onProgress ProgressFunc) ([]model.EnrichedLead, error) {
	if p.generator == nil {
		return nil, eris.New("pipeline: no icebreaker generator configured")
	}

	tone := model.IcebreakerTone(p.cfg.Enrich.IcebreakerTone)
	if !model.ValidTone(tone) {
		tone = model.ToneProfessional
	}

	// Phase ordering check up front so a mis-wired caller fails fast
	// instead of half way through a run.
	for i := range leads {
		lead := &leads[i]
		if !eligible(lead) {
			continue
		}
		if !p.wasDiscovered(leadKey(lead)) {
			return nil, eris.Errorf("pipeline: lead %q has not been through email discovery", leadKey(lead))
		}
	}

	total := len(leads)
	results := make([]model.EnrichedLead, 0, total)

	for i := range leads {
		lead := leads[i]
		if !eligible(&lead) {
			results = append(results, lead)
			continue
		}

		if onProgress != nil {
			onProgress(Progress{Index: i, Total: total, Stage: StageGenerating, Lead: &lead, Usage: p.Usage()})
		}

		p.icebreakOne(ctx, &lead, tone)

		if onProgress != nil {
			onProgress(Progress{Index: i, Total: total, Stage: StageGenerated, Lead: &lead, Usage: p.Usage()})
		}
		results = append(results, lead)
	}

	return results, nil
}

// eligible reports whether a lead should receive an icebreaker: discovery
// completed and some contact address exists.
func eligible(lead *model.EnrichedLead) bool {
	return lead.Status == model.StatusCompleted && lead.ContactEmail() != ""
}

func (p *Pipeline) icebreakOne(ctx context.Context, lead *model.EnrichedLead, tone model.IcebreakerTone) {
	key := leadKey(lead)
	log := zap.L().With(zap.String("website", lead.Website))

	content, ok := p.contentFor(ctx, lead)
	if !ok {
		lead.Status = model.StatusFailed
		lead.ErrorMessage = "icebreaker: no scraped content available"
		log.Warn("pipeline: no content for icebreaker", zap.String("key", key))
		return
	}

	cfg := resilience.ForAttempts(p.cfg.Enrich.RetryAttempts)
	cfg.OnRetry = resilience.Logger("icebreaker", key)
	type genResult struct {
		text   string
		input  int
		output int
	}
	res, err := resilience.Do(ctx, cfg, func(ctx context.Context) (genResult, error) {
		text, tokens, genErr := p.generator.Generate(ctx, content, "https://"+lead.Validation.Domain, tone)
		if genErr != nil {
			return genResult{}, genErr
		}
		out := genResult{text: text}
		if tokens != nil {
			out.input = int(tokens.InputTokens)
			out.output = int(tokens.OutputTokens)
		}
		return out, nil
	})
	if err != nil {
		lead.Status = model.StatusFailed
		lead.ErrorMessage = fmt.Sprintf("icebreaker generation failed: %v", err)
		log.Warn("pipeline: icebreaker generation failed", zap.Error(err))
		return
	}

	lead.Icebreaker = res.text
	p.addUsage(model.Usage{InputTokens: res.input, OutputTokens: res.output})
}

// contentFor recovers scraped markdown for a lead: in-memory cache, then
// the store's scrape cache, then a fresh scrape of the main page.
func (p *Pipeline) contentFor(ctx context.Context, lead *model.EnrichedLead) (string, bool) {
	key := leadKey(lead)
	if md, ok := p.cacheGet(key); ok {
		return md, true
	}

	if p.store != nil {
		if data, err := p.store.GetCachedScrape(ctx, key); err == nil && len(data) > 0 {
			md := string(data)
			p.cachePut(key, md)
			return md, true
		}
	}

	if p.scraper == nil || lead.Validation.Domain == "" {
		return "", false
	}
	res, err := p.scrapeWithRetry(ctx, "https://"+lead.Validation.Domain)
	if err != nil {
		zap.L().Debug("pipeline: re-scrape for icebreaker failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return "", false
	}
	p.addUsage(model.Usage{PagesScraped: 1})
	p.cachePut(key, res.Page.Markdown)
	p.persistScrape(ctx, key, res.Page.Markdown)
	return res.Page.Markdown, true
}
