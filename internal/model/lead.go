// Package model defines the lead records flowing through the enrichment pipeline.
package model

import "time"

// EnrichmentStatus represents the lifecycle state of a lead.
type EnrichmentStatus string

const (
	StatusPending    EnrichmentStatus = "pending"
	StatusProcessing EnrichmentStatus = "processing"
	StatusCompleted  EnrichmentStatus = "completed"
	StatusFailed     EnrichmentStatus = "failed"
	StatusSkipped    EnrichmentStatus = "skipped"
)

// Terminal reports whether the status is a terminal state.
func (s EnrichmentStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// ExtraField is one unrecognized CSV column preserved for output and
// merge-field substitution. Order matches the input header.
type ExtraField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Lead is a single input row: a prospective company to enrich.
// Immutable after ingestion.
type Lead struct {
	Website     string       `json:"website"`
	Company     string       `json:"company,omitempty"`
	Name        string       `json:"name,omitempty"`
	Email       string       `json:"email,omitempty"` // pre-supplied by the input CSV
	ExtraFields []ExtraField `json:"extra_fields,omitempty"`
}

// Extra returns the value of an extra field by key, or "".
func (l Lead) Extra(key string) string {
	for _, f := range l.ExtraFields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// DomainValidation classifies a lead's website string. Computed once at
// ingestion and never recomputed.
type DomainValidation struct {
	Valid  bool   `json:"is_valid"`
	Domain string `json:"domain,omitempty"`
	TLD    string `json:"tld,omitempty"`
	Reason string `json:"error,omitempty"`
}

// EnrichedLead is a Lead plus mutable enrichment state.
type EnrichedLead struct {
	Lead

	EmailFound   string           `json:"email_found,omitempty"`
	Icebreaker   string           `json:"icebreaker,omitempty"`
	Status       EnrichmentStatus `json:"enrichment_status"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Validation   DomainValidation `json:"domain_validation"`
}

// ContactEmail returns the discovered email, falling back to the
// pre-supplied one from the input CSV.
func (l EnrichedLead) ContactEmail() string {
	if l.EmailFound != "" {
		return l.EmailFound
	}
	return l.Email
}

// Confidence grades an email extraction result.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// EmailExtraction is the ephemeral result of one extraction call.
type EmailExtraction struct {
	Emails       []string   `json:"emails"` // ranked, best-first
	PrimaryEmail string     `json:"primary_email,omitempty"`
	Source       string     `json:"source,omitempty"`
	Confidence   Confidence `json:"confidence"`
}

// Usage accumulates token and page consumption across a run.
type Usage struct {
	InputTokens    int `json:"input_tokens"`
	OutputTokens   int `json:"output_tokens"`
	PagesScraped   int `json:"pages_scraped"`
	LeadsProcessed int `json:"leads_processed"`
}

// Add merges another Usage into u.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.PagesScraped += other.PagesScraped
	u.LeadsProcessed += other.LeadsProcessed
}

// IcebreakerTone selects the voice of the generated opener.
type IcebreakerTone string

const (
	ToneProfessional IcebreakerTone = "professional"
	ToneCasual       IcebreakerTone = "casual"
	ToneFriendly     IcebreakerTone = "friendly"
)

// ValidTone reports whether t is one of the supported tones.
func ValidTone(t IcebreakerTone) bool {
	switch t {
	case ToneProfessional, ToneCasual, ToneFriendly:
		return true
	}
	return false
}

// RunStatus represents the state of a persisted enrichment run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one CLI enrichment invocation.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"` // input CSV path or "http"
	Status    RunStatus `json:"status"`
	Totals    Usage     `json:"totals"`
	Leads     int       `json:"leads"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
