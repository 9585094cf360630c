package scrape

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadforge/enrich-cli/pkg/firecrawl"
)

func hasEmail(markdown string) bool {
	return strings.Contains(markdown, "@")
}

func TestContactURLs(t *testing.T) {
	urls := ContactURLs("acme.com", []string{"/contact", "about"})
	assert.Equal(t, []string{"https://acme.com/contact", "https://acme.com/about"}, urls)

	urls = ContactURLs("acme.com", nil)
	assert.Equal(t, []string{
		"https://acme.com/contact",
		"https://acme.com/contact-us",
		"https://acme.com/about",
	}, urls)
}

func TestProbe_SequentialStopsAtFirstMatch(t *testing.T) {
	s := &stubScraper{name: "stub", fn: func(_ context.Context, url string) (*Result, error) {
		if strings.HasSuffix(url, "/contact-us") {
			return &Result{Page: Page{URL: url, Markdown: "Write to hello@acme.com"}}, nil
		}
		return &Result{Page: Page{URL: url, Markdown: "nothing here"}}, nil
	}}

	p := NewContactProber(s, nil, nil)
	res, err := p.Probe(context.Background(), "acme.com", hasEmail)

	require.NoError(t, err)
	assert.Equal(t, "https://acme.com/contact-us", res.Page.URL)
	// /about was never tried.
	assert.Equal(t, []string{"https://acme.com/contact", "https://acme.com/contact-us"}, s.calls)
}

func TestProbe_AllGuessesFail(t *testing.T) {
	s := failScraper("stub")

	p := NewContactProber(s, nil, []string{"/contact"})
	_, err := p.Probe(context.Background(), "acme.com", hasEmail)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact probe")
}

func TestProbe_AllGuessesRejected(t *testing.T) {
	s := okScraper("stub", "no address on this page")

	p := NewContactProber(s, nil, []string{"/contact", "/about"})
	_, err := p.Probe(context.Background(), "acme.com", hasEmail)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no contact page with usable content")
}

// fakeFirecrawl returns a canned completed batch for prober batch tests.
type fakeFirecrawl struct {
	pages    []firecrawl.PageData
	batchErr error
}

func (f *fakeFirecrawl) Scrape(_ context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeFirecrawl) BatchScrape(_ context.Context, req firecrawl.BatchScrapeRequest) (*firecrawl.BatchScrapeResponse, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	return &firecrawl.BatchScrapeResponse{Success: true, ID: "batch-1"}, nil
}

func (f *fakeFirecrawl) GetBatchScrapeStatus(_ context.Context, id string) (*firecrawl.BatchScrapeStatusResponse, error) {
	return &firecrawl.BatchScrapeStatusResponse{Status: "completed", Total: len(f.pages), Data: f.pages}, nil
}

func TestProbe_BatchPrefersGuessOrder(t *testing.T) {
	fc := &fakeFirecrawl{pages: []firecrawl.PageData{
		// Response order reversed relative to guess order.
		{URL: "https://acme.com/about", Markdown: "story page, write team@acme.com", StatusCode: 200},
		{URL: "https://acme.com/contact", Markdown: "form only, hello@acme.com", StatusCode: 200},
	}}

	p := NewContactProber(failScraper("stub"), fc, []string{"/contact", "/about"})
	res, err := p.Probe(context.Background(), "acme.com", hasEmail)

	require.NoError(t, err)
	assert.Equal(t, "https://acme.com/contact", res.Page.URL)
	assert.Equal(t, "firecrawl_batch", res.Source)
}

func TestProbe_BatchFailureFallsBackToSequential(t *testing.T) {
	fc := &fakeFirecrawl{batchErr: errors.New("quota exceeded")}
	s := okScraper("stub", "fallback hello@acme.com")

	p := NewContactProber(s, fc, []string{"/contact"})
	res, err := p.Probe(context.Background(), "acme.com", hasEmail)

	require.NoError(t, err)
	assert.Equal(t, "fallback hello@acme.com", res.Page.Markdown)
	assert.Equal(t, []string{"https://acme.com/contact"}, s.calls)
}
