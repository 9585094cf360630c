package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeValidationStats(t *testing.T) {
	leads := []EnrichedLead{
		{Validation: DomainValidation{Valid: true}},
		{Validation: DomainValidation{Valid: true}},
		{Validation: DomainValidation{Valid: false, Reason: "unrecognized top-level domain"}},
	}

	stats := ComputeValidationStats(leads)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Valid)
	assert.Equal(t, 1, stats.Invalid)
}

func TestComputeEnrichmentStats(t *testing.T) {
	leads := []EnrichedLead{
		{Status: StatusCompleted, EmailFound: "info@acme.com", Icebreaker: "An opener."},
		{Status: StatusCompleted, Lead: Lead{Email: "jane@globex.com"}},
		{Status: StatusFailed},
		{Status: StatusSkipped},
	}

	stats := ComputeEnrichmentStats(leads)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[StatusCompleted])
	assert.Equal(t, 1, stats.ByStatus[StatusFailed])
	assert.Equal(t, 1, stats.ByStatus[StatusSkipped])
	assert.Equal(t, 2, stats.WithEmail)
	assert.Equal(t, 2, stats.WithoutEmail)
	assert.Equal(t, 1, stats.WithIcebreaker)
	assert.Equal(t, 3, stats.WithoutIcebreaker)
}

func TestContactEmail_PrefersDiscovered(t *testing.T) {
	lead := EnrichedLead{
		Lead:       Lead{Email: "old@acme.com"},
		EmailFound: "new@acme.com",
	}
	assert.Equal(t, "new@acme.com", lead.ContactEmail())

	lead.EmailFound = ""
	assert.Equal(t, "old@acme.com", lead.ContactEmail())
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusSkipped.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}
