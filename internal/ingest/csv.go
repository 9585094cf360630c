// Package ingest parses heterogeneous lead CSVs into typed records and
// serializes enriched results back out.
package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/leadforge/enrich-cli/internal/domain"
	"github.com/leadforge/enrich-cli/internal/extract"
	"github.com/leadforge/enrich-cli/internal/model"
)

// ErrMissingWebsiteColumn is returned when no header matches the website
// alias set.
var ErrMissingWebsiteColumn = eris.New("ingest: no website column found")

// websiteAliases are accepted names for the website column, compared after
// normalizeHeader.
var websiteAliases = map[string]struct{}{
	"website": {}, "url": {}, "domain": {}, "site": {}, "companyurl": {},
	"companywebsite": {}, "web": {}, "homepage": {},
}

var companyAliases = map[string]struct{}{
	"company": {}, "companyname": {}, "organization": {}, "org": {},
	"business": {}, "businessname": {},
}

var nameAliases = map[string]struct{}{
	"name": {}, "fullname": {}, "contactname": {}, "contact": {},
}

var emailAliases = map[string]struct{}{
	"email": {}, "emailaddress": {}, "contactemail": {}, "mail": {},
}

// normalizeHeader lowercases and strips separators so "Company URL",
// "company_url" and "companyurl" all compare equal.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// columnMap locates the recognized columns in a header row.
type columnMap struct {
	website int
	company int
	name    int
	email   int
	extras  []int // indexes of unrecognized columns, input order
}

func mapColumns(header []string) columnMap {
	cols := columnMap{website: -1, company: -1, name: -1, email: -1}
	for i, h := range header {
		key := normalizeHeader(h)
		switch {
		case cols.website < 0 && hasAlias(websiteAliases, key):
			cols.website = i
		case cols.company < 0 && hasAlias(companyAliases, key):
			cols.company = i
		case cols.name < 0 && hasAlias(nameAliases, key):
			cols.name = i
		case cols.email < 0 && hasAlias(emailAliases, key):
			cols.email = i
		default:
			cols.extras = append(cols.extras, i)
		}
	}
	return cols
}

func hasAlias(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

// ParseCSV parses lead rows from r. The header row is required; a website
// column is required unless an email column is present. Unrecognized
// non-empty columns are preserved as ordered extra fields keyed by their
// original header.
func ParseCSV(r io.Reader) ([]model.Lead, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("ingest: empty input")
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read header")
	}

	cols := mapColumns(header)
	if cols.website < 0 && cols.email < 0 {
		return nil, eris.Wrap(ErrMissingWebsiteColumn, "ingest: parse header")
	}

	var leads []model.Lead
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read row")
		}

		lead := model.Lead{
			Website: cell(record, cols.website),
			Company: cell(record, cols.company),
			Name:    cell(record, cols.name),
			Email:   cell(record, cols.email),
		}
		for _, i := range cols.extras {
			if v := cell(record, i); v != "" {
				lead.ExtraFields = append(lead.ExtraFields, model.ExtraField{
					Key:   strings.TrimSpace(header[i]),
					Value: v,
				})
			}
		}

		// Rows with neither a website nor an email carry nothing to enrich.
		if lead.Website == "" && lead.Email == "" {
			continue
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// InitializeLeads validates each lead's domain once and assigns its initial
// status: skipped for invalid domains, completed for pre-supplied emails
// (discovery bypassed), pending otherwise. A lead with an email but no
// website is validated against the email's own domain.
func InitializeLeads(leads []model.Lead) []model.EnrichedLead {
	out := make([]model.EnrichedLead, 0, len(leads))
	for _, lead := range leads {
		enriched := model.EnrichedLead{Lead: lead}

		target := lead.Website
		if target == "" {
			_, emailDomain, _ := strings.Cut(lead.Email, "@")
			target = emailDomain
		}
		enriched.Validation = domain.Validate(target)

		switch {
		case !enriched.Validation.Valid:
			enriched.Status = model.StatusSkipped
			enriched.ErrorMessage = enriched.Validation.Reason
		case lead.Email != "" && extract.PlausibleAddress(lead.Email):
			enriched.Status = model.StatusCompleted
		default:
			enriched.Status = model.StatusPending
		}

		out = append(out, enriched)
	}
	return out
}
