package model

// ValidationStats summarizes domain validation across a lead set.
type ValidationStats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// EnrichmentStats summarizes enrichment progress across a lead set.
type EnrichmentStats struct {
	Total             int                      `json:"total"`
	ByStatus          map[EnrichmentStatus]int `json:"by_status"`
	WithEmail         int                      `json:"with_email"`
	WithoutEmail      int                      `json:"without_email"`
	WithIcebreaker    int                      `json:"with_icebreaker"`
	WithoutIcebreaker int                      `json:"without_icebreaker"`
}

// ComputeValidationStats aggregates validation outcomes. Pure; safe to call
// at any pipeline stage.
func ComputeValidationStats(leads []EnrichedLead) ValidationStats {
	stats := ValidationStats{Total: len(leads)}
	for _, l := range leads {
		if l.Validation.Valid {
			stats.Valid++
		} else {
			stats.Invalid++
		}
	}
	return stats
}

// ComputeEnrichmentStats aggregates per-status and per-field counts. Pure.
func ComputeEnrichmentStats(leads []EnrichedLead) EnrichmentStats {
	stats := EnrichmentStats{
		Total:    len(leads),
		ByStatus: make(map[EnrichmentStatus]int),
	}
	for _, l := range leads {
		stats.ByStatus[l.Status]++
		if l.ContactEmail() != "" {
			stats.WithEmail++
		} else {
			stats.WithoutEmail++
		}
		if l.Icebreaker != "" {
			stats.WithIcebreaker++
		} else {
			stats.WithoutIcebreaker++
		}
	}
	return stats
}
