package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leadforge/enrich-cli/internal/model"
	"github.com/leadforge/enrich-cli/internal/store"
	"github.com/leadforge/enrich-cli/pkg/anthropic"
)

func discoveredLead(website, email string) model.EnrichedLead {
	return model.EnrichedLead{
		Lead:       model.Lead{Website: website},
		EmailFound: email,
		Status:     model.StatusCompleted,
		Validation: model.DomainValidation{Valid: true, Domain: website, TLD: "com"},
	}
}

// stubStore backs only the scrape cache; everything else panics via the
// embedded nil interface.
type stubStore struct {
	store.Store
	scrapes map[string][]byte
}

func (s *stubStore) GetCachedScrape(_ context.Context, url string) ([]byte, error) {
	return s.scrapes[url], nil
}

func TestGenerateIcebreakers_RequiresDiscoveryFirst(t *testing.T) {
	p := New(testConfig(), nil, nil, nil, &mockGenerator{}, nil)

	_, err := p.GenerateIcebreakers(context.Background(), []model.EnrichedLead{discoveredLead("acme.com", "info@acme.com")}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "has not been through email discovery")
}

func TestGenerateIcebreakers_AdoptDiscoveryUnlocksPersistedRun(t *testing.T) {
	lead := discoveredLead("acme.com", "info@acme.com")

	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, "Acme builds rockets.", "https://acme.com", model.ToneProfessional).
		Return("Saw the rocket launch on your homepage, congrats.", &anthropic.TokenUsage{InputTokens: 120, OutputTokens: 40}, nil).Once()

	st := &stubStore{scrapes: map[string][]byte{"acme.com": []byte("Acme builds rockets.")}}
	p := New(testConfig(), nil, nil, nil, gen, st)
	p.AdoptDiscovery([]model.EnrichedLead{lead})

	results, err := p.GenerateIcebreakers(context.Background(), []model.EnrichedLead{lead}, nil)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Saw the rocket launch on your homepage, congrats.", results[0].Icebreaker)
	assert.Equal(t, model.StatusCompleted, results[0].Status)

	usage := p.Usage()
	assert.Equal(t, 120, usage.InputTokens)
	assert.Equal(t, 40, usage.OutputTokens)
	gen.AssertExpectations(t)
}

func TestGenerateIcebreakers_ReusesDiscoveryContent(t *testing.T) {
	scraper := &mockScraper{}
	scraper.On("Scrape", mock.Anything, "https://acme.com").
		Return(pageResult("https://acme.com", "Acme sells anvils. info@acme.com"), nil).Once()

	extractor := &mockExtractor{}
	extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Return(model.EmailExtraction{PrimaryEmail: "info@acme.com", Emails: []string{"info@acme.com"}}, nil, nil).Once()

	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, "Acme sells anvils. info@acme.com", "https://acme.com", model.ToneProfessional).
		Return("Noticed you sell anvils, classic.", nil, nil).Once()

	p := New(testConfig(), scraper, nil, extractor, gen, nil)

	discovered, err := p.DiscoverEmails(context.Background(), []model.EnrichedLead{pendingLead("acme.com")}, nil)
	require.NoError(t, err)

	results, err := p.GenerateIcebreakers(context.Background(), discovered, nil)
	require.NoError(t, err)
	assert.Equal(t, "Noticed you sell anvils, classic.", results[0].Icebreaker)

	// The page was fetched once; phase 2 came from the in-memory cache.
	scraper.AssertNumberOfCalls(t, "Scrape", 1)
}

func TestGenerateIcebreakers_RescrapesOnCacheMiss(t *testing.T) {
	lead := discoveredLead("acme.com", "info@acme.com")

	scraper := &mockScraper{}
	scraper.On("Scrape", mock.Anything, "https://acme.com").
		Return(pageResult("https://acme.com", "Fresh content."), nil).Once()

	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, "Fresh content.", "https://acme.com", model.ToneProfessional).
		Return("An opener about fresh content.", nil, nil).Once()

	p := New(testConfig(), scraper, nil, nil, gen, nil)
	p.AdoptDiscovery([]model.EnrichedLead{lead})

	results, err := p.GenerateIcebreakers(context.Background(), []model.EnrichedLead{lead}, nil)

	require.NoError(t, err)
	assert.Equal(t, "An opener about fresh content.", results[0].Icebreaker)
	assert.Equal(t, 1, p.Usage().PagesScraped)
	scraper.AssertExpectations(t)
}

func TestGenerateIcebreakers_NoContentFailsLead(t *testing.T) {
	lead := discoveredLead("gone.com", "info@gone.com")

	scraper := &mockScraper{}
	scraper.On("Scrape", mock.Anything, "https://gone.com").
		Return(nil, assert.AnError)

	p := New(testConfig(), scraper, nil, nil, &mockGenerator{}, nil)
	p.AdoptDiscovery([]model.EnrichedLead{lead})

	results, err := p.GenerateIcebreakers(context.Background(), []model.EnrichedLead{lead}, nil)

	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, results[0].Status)
	assert.Equal(t, "icebreaker: no scraped content available", results[0].ErrorMessage)
}

func TestGenerateIcebreakers_GenerationFailureIsolated(t *testing.T) {
	good := discoveredLead("acme.com", "info@acme.com")
	bad := discoveredLead("globex.com", "sales@globex.com")

	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything, "https://acme.com", mock.Anything).
		Return("A fine opener about acme.", nil, nil).Once()
	gen.On("Generate", mock.Anything, mock.Anything, "https://globex.com", mock.Anything).
		Return("", nil, assert.AnError).Once()

	st := &stubStore{scrapes: map[string][]byte{
		"acme.com":   []byte("acme content"),
		"globex.com": []byte("globex content"),
	}}
	p := New(testConfig(), nil, nil, nil, gen, st)
	p.AdoptDiscovery([]model.EnrichedLead{good, bad})

	results, err := p.GenerateIcebreakers(context.Background(), []model.EnrichedLead{good, bad}, nil)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "A fine opener about acme.", results[0].Icebreaker)
	assert.Equal(t, model.StatusFailed, results[1].Status)
	assert.Contains(t, results[1].ErrorMessage, "icebreaker generation failed")
}

func TestGenerateIcebreakers_IneligibleLeadsPassThrough(t *testing.T) {
	skipped := model.EnrichedLead{
		Lead:   model.Lead{Website: "bad"},
		Status: model.StatusSkipped,
	}
	noEmail := model.EnrichedLead{
		Lead:       model.Lead{Website: "quiet.com"},
		Status:     model.StatusCompleted,
		Validation: model.DomainValidation{Valid: true, Domain: "quiet.com"},
	}

	gen := &mockGenerator{}
	p := New(testConfig(), nil, nil, nil, gen, nil)

	results, err := p.GenerateIcebreakers(context.Background(), []model.EnrichedLead{skipped, noEmail}, nil)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Empty(t, results[0].Icebreaker)
	assert.Empty(t, results[1].Icebreaker)
	gen.AssertNotCalled(t, "Generate")
}

func TestGenerateIcebreakers_InvalidToneDefaultsProfessional(t *testing.T) {
	lead := discoveredLead("acme.com", "info@acme.com")

	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything, model.ToneProfessional).
		Return("An opener.", nil, nil).Once()

	cfg := testConfig()
	cfg.Enrich.IcebreakerTone = "sarcastic"

	st := &stubStore{scrapes: map[string][]byte{"acme.com": []byte("content")}}
	p := New(cfg, nil, nil, nil, gen, st)
	p.AdoptDiscovery([]model.EnrichedLead{lead})

	_, err := p.GenerateIcebreakers(context.Background(), []model.EnrichedLead{lead}, nil)
	require.NoError(t, err)
	gen.AssertExpectations(t)
}

func TestGenerateIcebreakers_NoGenerator(t *testing.T) {
	p := New(testConfig(), nil, nil, nil, nil, nil)
	_, err := p.GenerateIcebreakers(context.Background(), nil, nil)
	assert.Error(t, err)
}
