package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/leadforge/enrich-cli/internal/model"
)

// enrichmentColumns is the fixed output suffix, filtered to columns that
// actually carry data.
var enrichmentColumns = []string{"email", "icebreaker", "enrichmentStatus", "errorMessage"}

// ToCSV flattens enriched leads into CSV: original columns first (union
// across rows, input order), then the enrichment suffix. Domain validation
// detail is dropped; the status and error columns carry its outcome.
func ToCSV(leads []model.EnrichedLead) (string, error) {
	baseCols, extraCols := collectColumns(leads)
	suffix := presentEnrichmentColumns(leads)

	reserved := make(map[string]struct{}, len(baseCols)+len(suffix))
	for _, c := range append(append([]string{}, baseCols...), suffix...) {
		reserved[c] = struct{}{}
	}

	// An extra field colliding with a reserved output column keeps its data
	// under a suffixed name; the fixed column wins the original.
	header := append([]string{}, baseCols...)
	for _, c := range extraCols {
		name := c
		if _, clash := reserved[name]; clash {
			name = c + "_2"
		}
		header = append(header, name)
	}
	header = append(header, suffix...)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", eris.Wrap(err, "ingest: write csv header")
	}

	for _, lead := range leads {
		row := make([]string, 0, len(header))
		for _, col := range baseCols {
			row = append(row, baseValue(lead, col))
		}
		for _, col := range extraCols {
			// Header may be renamed on collision; values stay keyed by the
			// original header.
			row = append(row, lead.Extra(col))
		}
		for _, col := range suffix {
			row = append(row, enrichmentValue(lead, col))
		}
		if err := w.Write(row); err != nil {
			return "", eris.Wrap(err, "ingest: write csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", eris.Wrap(err, "ingest: flush csv")
	}
	return buf.String(), nil
}

// collectColumns returns the fixed input columns present in any lead and
// the union of extra-field keys in first-appearance order.
func collectColumns(leads []model.EnrichedLead) (base, extras []string) {
	var hasWebsite, hasCompany, hasName bool
	seen := make(map[string]struct{})
	for _, l := range leads {
		hasWebsite = hasWebsite || l.Website != ""
		hasCompany = hasCompany || l.Company != ""
		hasName = hasName || l.Name != ""
		for _, f := range l.ExtraFields {
			if _, ok := seen[f.Key]; ok {
				continue
			}
			seen[f.Key] = struct{}{}
			extras = append(extras, f.Key)
		}
	}
	if hasWebsite {
		base = append(base, "website")
	}
	if hasCompany {
		base = append(base, "company")
	}
	if hasName {
		base = append(base, "name")
	}
	return base, extras
}

// presentEnrichmentColumns filters the fixed suffix to columns with data.
func presentEnrichmentColumns(leads []model.EnrichedLead) []string {
	var present []string
	for _, col := range enrichmentColumns {
		for _, l := range leads {
			if enrichmentValue(l, col) != "" {
				present = append(present, col)
				break
			}
		}
	}
	return present
}

func baseValue(lead model.EnrichedLead, col string) string {
	switch col {
	case "website":
		return lead.Website
	case "company":
		return lead.Company
	case "name":
		return lead.Name
	}
	return ""
}

func enrichmentValue(lead model.EnrichedLead, col string) string {
	switch col {
	case "email":
		return lead.ContactEmail()
	case "icebreaker":
		return lead.Icebreaker
	case "enrichmentStatus":
		return string(lead.Status)
	case "errorMessage":
		return lead.ErrorMessage
	}
	return ""
}

// ToJSON dumps the enriched leads as indented JSON.
func ToJSON(leads []model.EnrichedLead) (string, error) {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(leads); err != nil {
		return "", eris.Wrap(err, "ingest: encode json")
	}
	return buf.String(), nil
}
