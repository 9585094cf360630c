package scrape

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadforge/enrich-cli/pkg/firecrawl"
)

// DefaultContactPaths are the guessed contact-page paths tried when a main
// page yields no email.
var DefaultContactPaths = []string{"/contact", "/contact-us", "/about"}

// ContactURLs builds absolute https URLs for the guessed paths of a domain.
func ContactURLs(domain string, paths []string) []string {
	if len(paths) == 0 {
		paths = DefaultContactPaths
	}
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		urls = append(urls, "https://"+domain+p)
	}
	return urls
}

// ContactProber fetches guessed contact pages for a domain. With a
// Firecrawl client it fetches all guesses in a single batch-scrape call;
// otherwise it walks the scraper sequentially and stops at the first page
// accepted by the predicate.
type ContactProber struct {
	scraper Scraper
	fc      firecrawl.Client
	paths   []string
}

// NewContactProber creates a ContactProber. fc may be nil.
func NewContactProber(scraper Scraper, fc firecrawl.Client, paths []string) *ContactProber {
	if len(paths) == 0 {
		paths = DefaultContactPaths
	}
	return &ContactProber{scraper: scraper, fc: fc, paths: paths}
}

// Probe returns the first guessed page whose markdown satisfies want, or an
// error when every guess fails or is rejected.
func (p *ContactProber) Probe(ctx context.Context, domain string, want func(markdown string) bool) (*Result, error) {
	urls := ContactURLs(domain, p.paths)

	if p.fc != nil {
		if res, err := p.probeBatch(ctx, urls, want); err == nil {
			return res, nil
		} else {
			zap.L().Debug("scrape: contact batch probe failed, falling back to sequential",
				zap.String("domain", domain),
				zap.Error(err),
			)
		}
	}

	var lastErr error
	for _, u := range urls {
		res, err := p.scraper.Scrape(ctx, u)
		if err != nil {
			lastErr = err
			continue
		}
		if want(res.Page.Markdown) {
			return res, nil
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: contact probe")
	}
	return nil, eris.Errorf("scrape: no contact page with usable content for %s", domain)
}

// probeBatch fetches all guesses in one Firecrawl batch-scrape call.
func (p *ContactProber) probeBatch(ctx context.Context, urls []string, want func(string) bool) (*Result, error) {
	resp, err := p.fc.BatchScrape(ctx, firecrawl.BatchScrapeRequest{
		URLs:    urls,
		Formats: []string{"markdown"},
	})
	if err != nil {
		return nil, err
	}

	status, err := firecrawl.PollBatchScrape(ctx, p.fc, resp.ID,
		firecrawl.WithPollInterval(2*time.Second),
		firecrawl.WithPollCap(10*time.Second),
	)
	if err != nil {
		return nil, err
	}

	// Keep guess-order preference, not response order.
	byURL := make(map[string]firecrawl.PageData, len(status.Data))
	for _, d := range status.Data {
		byURL[d.URL] = d
	}
	for _, u := range urls {
		d, ok := byURL[u]
		if !ok || d.Markdown == "" || !want(d.Markdown) {
			continue
		}
		return &Result{
			Page: Page{
				URL:         d.URL,
				Title:       d.Title,
				Description: d.Description,
				Markdown:    d.Markdown,
				StatusCode:  d.StatusCode,
			},
			Source: "firecrawl_batch",
		}, nil
	}
	return nil, eris.New("scrape: batch probe found no usable contact page")
}
