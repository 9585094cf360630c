// Package pipeline orchestrates the two enrichment phases: bounded-concurrency
// email discovery over batches of leads, then sequential icebreaker generation
// reusing the discovery phase's scraped content.
package pipeline

import (
	"sync"
	"time"

	"github.com/leadforge/enrich-cli/internal/config"
	"github.com/leadforge/enrich-cli/internal/extract"
	"github.com/leadforge/enrich-cli/internal/icebreaker"
	"github.com/leadforge/enrich-cli/internal/model"
	"github.com/leadforge/enrich-cli/internal/scrape"
	"github.com/leadforge/enrich-cli/internal/store"
)

// Stage identifies where in a lead's processing a progress event fired.
type Stage string

const (
	StageScraping   Stage = "scraping"
	StageExtracted  Stage = "extracted"
	StageGenerating Stage = "generating"
	StageGenerated  Stage = "generated"
)

// Progress is delivered to the caller's callback before and after each
// lead is processed. Usage carries the running totals for the whole run.
type Progress struct {
	Index int
	Total int
	Stage Stage
	Lead  *model.EnrichedLead
	Usage model.Usage
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(Progress)

// Pipeline runs lead enrichment. All collaborators are injected; a nil
// store disables cross-process scrape caching but nothing else.
type Pipeline struct {
	cfg       *config.Config
	scraper   scrape.Scraper
	prober    *scrape.ContactProber
	extractor extract.Extractor
	generator icebreaker.Generator
	store     store.Store

	mu         sync.Mutex
	usage      model.Usage
	cache      map[string]string // website -> scraped markdown
	discovered map[string]bool   // leads that went through phase 1
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	scraper scrape.Scraper,
	prober *scrape.ContactProber,
	extractor extract.Extractor,
	generator icebreaker.Generator,
	st store.Store,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		scraper:    scraper,
		prober:     prober,
		extractor:  extractor,
		generator:  generator,
		store:      st,
		cache:      make(map[string]string),
		discovered: make(map[string]bool),
	}
}

// Usage returns a snapshot of the accumulated run totals.
func (p *Pipeline) Usage() model.Usage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.usage
}

func (p *Pipeline) addUsage(u model.Usage) model.Usage {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.usage.Add(u)
	return p.usage
}

func (p *Pipeline) cacheTTL() time.Duration {
	hours := p.cfg.Scrape.CacheTTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// leadKey identifies a lead in the cache and discovered set. Email-only
// rows key on the pre-supplied address.
func leadKey(lead *model.EnrichedLead) string {
	if lead.Website != "" {
		return lead.Website
	}
	return lead.Email
}

func (p *Pipeline) cachePut(key, markdown string) {
	if key == "" || markdown == "" {
		return
	}
	p.mu.Lock()
	p.cache[key] = markdown
	p.mu.Unlock()
}

func (p *Pipeline) cacheGet(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	md, ok := p.cache[key]
	return md, ok
}

func (p *Pipeline) markDiscovered(key string) {
	if key == "" {
		return
	}
	p.mu.Lock()
	p.discovered[key] = true
	p.mu.Unlock()
}

func (p *Pipeline) wasDiscovered(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.discovered[key]
}

// AdoptDiscovery seeds the discovered set from a persisted phase-1 run so
// icebreaker generation can resume in a new process. Only leads that
// completed discovery with a contact address count.
func (p *Pipeline) AdoptDiscovery(leads []model.EnrichedLead) {
	for i := range leads {
		lead := &leads[i]
		if lead.Status == model.StatusCompleted && lead.ContactEmail() != "" {
			p.markDiscovered(leadKey(lead))
		}
	}
}

// Health reports whether the external API credentials needed for a full
// enrichment run are configured.
type Health struct {
	HasAnthropicKey bool `json:"has_anthropic_key"`
	HasFirecrawlKey bool `json:"has_firecrawl_key"`
}

// CheckHealth inspects the configuration for required credentials.
func CheckHealth(cfg *config.Config) Health {
	return Health{
		HasAnthropicKey: cfg.Anthropic.Key != "",
		HasFirecrawlKey: cfg.Firecrawl.Key != "",
	}
}
