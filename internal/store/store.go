package store

import (
	"context"
	"time"

	"github.com/leadforge/enrich-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for enrichment runs and the
// shared scrape cache.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string, leads int) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, totals model.Usage) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lead results
	SaveLeadResults(ctx context.Context, runID string, leads []model.EnrichedLead) error
	GetLeadResults(ctx context.Context, runID string) ([]model.EnrichedLead, error)

	// Scrape cache
	GetCachedScrape(ctx context.Context, url string) ([]byte, error)
	SetCachedScrape(ctx context.Context, url string, content []byte, ttl time.Duration) error
	DeleteExpiredScrapes(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
