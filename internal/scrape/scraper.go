// Package scrape fetches lead websites as markdown/plaintext, trying a free
// local HTTP fetch before falling back to the Firecrawl API.
package scrape

import "context"

// Page is one scraped page.
type Page struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Markdown    string `json:"markdown"`
	StatusCode  int    `json:"status_code,omitempty"`
}

// Result holds a scraped page with its source.
type Result struct {
	Page   Page
	Source string // e.g. "local_http", "firecrawl"
}

// Scraper fetches a single URL and returns its content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
}
