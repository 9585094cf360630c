package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leadforge/enrich-cli/internal/extract"
	"github.com/leadforge/enrich-cli/internal/model"
	"github.com/leadforge/enrich-cli/internal/resilience"
	"github.com/leadforge/enrich-cli/internal/scrape"
)

// DiscoverEmails runs phase 1 over the ingested leads: fixed batches of
// MaxConcurrency, leads within a batch concurrent, batches strictly
// sequential. Pending leads are scraped and run through email extraction;
// leads already in a terminal state (skipped at ingestion, pre-supplied
// email) pass through untouched and are appended after the batches.
// Per-lead failures never abort the run; only setup errors propagate.
func (p *Pipeline) DiscoverEmails(ctx context.Context, leads []model.EnrichedLead, onProgress ProgressFunc) ([]model.EnrichedLead, error) {
	if p.scraper == nil {
		return nil, eris.New("pipeline: no scraper configured")
	}
	if p.extractor == nil {
		return nil, eris.New("pipeline: no extractor configured")
	}

	batchSize := p.cfg.Enrich.MaxConcurrency
	if batchSize <= 0 {
		batchSize = 1
	}

	var work, deferred []model.EnrichedLead
	for _, lead := range leads {
		if lead.Status == model.StatusPending {
			work = append(work, lead)
		} else {
			deferred = append(deferred, lead)
		}
	}

	total := len(leads)
	results := make([]model.EnrichedLead, 0, total)

	for start := 0; start < len(work); start += batchSize {
		end := start + batchSize
		if end > len(work) {
			end = len(work)
		}
		batch := work[start:end]

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(batchSize)
		for i := range batch {
			idx := start + i
			lead := &batch[i]
			g.Go(func() error {
				p.discoverOne(gCtx, lead, idx, total, onProgress)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, eris.Wrap(err, "pipeline: discovery batch")
		}
		results = append(results, batch...)
	}

	for i := range deferred {
		lead := &deferred[i]
		if lead.Status == model.StatusCompleted && lead.ContactEmail() != "" {
			p.markDiscovered(leadKey(lead))
		}
		results = append(results, *lead)
	}

	return results, nil
}

// discoverOne processes a single pending lead to a terminal state.
func (p *Pipeline) discoverOne(ctx context.Context, lead *model.EnrichedLead, idx, total int, onProgress ProgressFunc) {
	log := zap.L().With(zap.String("website", lead.Website))
	lead.Status = model.StatusProcessing

	if onProgress != nil {
		onProgress(Progress{Index: idx, Total: total, Stage: StageScraping, Lead: lead, Usage: p.Usage()})
	}

	targetURL := "https://" + lead.Validation.Domain
	res, err := p.scrapeWithRetry(ctx, targetURL)
	if err != nil {
		lead.Status = model.StatusFailed
		lead.ErrorMessage = fmt.Sprintf("scrape failed: %v", err)
		log.Warn("pipeline: main page scrape failed", zap.Error(err))
		p.finishLead(idx, total, lead, onProgress)
		return
	}

	markdown := res.Page.Markdown
	usage := model.Usage{PagesScraped: 1}

	// Contact-path fallback only when the main page rendered but holds no
	// email-shaped text.
	if !extract.ContainsEmail(markdown) && p.prober != nil {
		if cres, probeErr := p.prober.Probe(ctx, lead.Validation.Domain, extract.ContainsEmail); probeErr == nil && cres != nil {
			markdown = markdown + "\n\n" + cres.Page.Markdown
			usage.PagesScraped++
		} else if probeErr != nil {
			log.Debug("pipeline: contact probe found nothing", zap.Error(probeErr))
		}
	}

	p.cachePut(leadKey(lead), markdown)
	p.persistScrape(ctx, leadKey(lead), markdown)

	extraction, tokens, err := p.extractor.Extract(ctx, markdown, targetURL)
	if err != nil {
		lead.Status = model.StatusFailed
		lead.ErrorMessage = fmt.Sprintf("extraction failed: %v", err)
		p.addUsage(usage)
		p.finishLead(idx, total, lead, onProgress)
		return
	}
	if tokens != nil {
		usage.InputTokens += int(tokens.InputTokens)
		usage.OutputTokens += int(tokens.OutputTokens)
	}

	if extraction.PrimaryEmail != "" {
		lead.EmailFound = extraction.PrimaryEmail
		log.Info("pipeline: email found",
			zap.String("email", extraction.PrimaryEmail),
			zap.String("confidence", string(extraction.Confidence)),
		)
	} else {
		log.Info("pipeline: no email found")
	}
	lead.Status = model.StatusCompleted

	usage.LeadsProcessed = 1
	p.addUsage(usage)
	p.markDiscovered(leadKey(lead))
	p.finishLead(idx, total, lead, onProgress)
}

func (p *Pipeline) finishLead(idx, total int, lead *model.EnrichedLead, onProgress ProgressFunc) {
	if onProgress != nil {
		onProgress(Progress{Index: idx, Total: total, Stage: StageExtracted, Lead: lead, Usage: p.Usage()})
	}
}

// scrapeWithRetry wraps the scraper chain with the configured retry policy.
func (p *Pipeline) scrapeWithRetry(ctx context.Context, url string) (*scrape.Result, error) {
	cfg := resilience.ForAttempts(p.cfg.Enrich.RetryAttempts)
	cfg.OnRetry = resilience.Logger("scrape", url)
	return resilience.Do(ctx, cfg, func(ctx context.Context) (*scrape.Result, error) {
		return p.scraper.Scrape(ctx, url)
	})
}

// persistScrape writes markdown to the store cache so a later icebreaker
// invocation in another process can reuse it.
func (p *Pipeline) persistScrape(ctx context.Context, key, markdown string) {
	if p.store == nil || key == "" || markdown == "" {
		return
	}
	if err := p.store.SetCachedScrape(ctx, key, []byte(markdown), p.cacheTTL()); err != nil {
		zap.L().Debug("pipeline: scrape cache write failed", zap.String("key", key), zap.Error(err))
	}
}
