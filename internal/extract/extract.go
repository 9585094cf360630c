// Package extract finds and ranks candidate contact emails in scraped page
// content. Heuristic scoring trades precision for recall: page text is
// noisy marketing and legal copy with no ground truth, and an address on
// the company's own domain is the strongest signal available.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/leadforge/enrich-cli/internal/domain"
	"github.com/leadforge/enrich-cli/internal/model"
)

// emailRe matches email-shaped substrings in free text.
var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// fullEmailRe rechecks a candidate as a complete address.
var fullEmailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// nameShapeRe matches first.last style local parts.
var nameShapeRe = regexp.MustCompile(`^[a-z]+\.[a-z]+$`)

// singleWordRe matches a plain lowercase word of 4-12 chars.
var singleWordRe = regexp.MustCompile(`^[a-z]{4,12}$`)

// genericLocalParts are role substrings that disqualify an address outright.
var genericLocalParts = []string{
	"noreply", "no-reply", "donotreply", "mailer-daemon", "postmaster",
	"webmaster", "example", "test", "demo", "sample",
}

// roleTokens boost outreach-friendly mailbox names during ranking.
var roleTokens = []string{"hello", "hi", "info", "contact", "sales", "team"}

// EmailsFromContent extracts deduplicated, plausible email addresses from
// raw page text. Generic role addresses and oversized addresses are dropped.
// Order follows first appearance in the content.
func EmailsFromContent(content string) []string {
	matches := emailRe.FindAllString(content, -1)

	seen := make(map[string]struct{}, len(matches))
	var emails []string
	for _, m := range matches {
		addr := strings.ToLower(m)
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		if !PlausibleAddress(addr) {
			continue
		}
		emails = append(emails, addr)
	}
	return emails
}

// PlausibleAddress applies the generic-address filter and length bounds to
// a single lowercase candidate.
func PlausibleAddress(addr string) bool {
	if len(addr) > 254 || !fullEmailRe.MatchString(addr) {
		return false
	}
	local, _, ok := strings.Cut(addr, "@")
	if !ok || len(local) > 64 {
		return false
	}
	for _, g := range genericLocalParts {
		if strings.Contains(local, g) {
			return false
		}
	}
	return true
}

// RankEmails sorts candidates best-first by additive score against the
// target domain. Ties keep insertion order.
func RankEmails(emails []string, targetDomain string) []string {
	type scored struct {
		email string
		score int
		pos   int
	}

	ranked := make([]scored, len(emails))
	for i, e := range emails {
		ranked[i] = scored{email: e, score: scoreEmail(e, targetDomain), pos: i}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].pos < ranked[b].pos
	})

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.email
	}
	return out
}

// scoreEmail computes the additive heuristic score for one candidate.
func scoreEmail(email, targetDomain string) int {
	score := 0
	local, emailDomain, _ := strings.Cut(email, "@")

	if DomainsMatch(emailDomain, targetDomain) {
		score += 50
	}
	for _, tok := range roleTokens {
		if strings.Contains(local, tok) {
			score += 20
			break
		}
	}
	if len(local) < 15 {
		score += 10
	}
	if nameShapeRe.MatchString(local) || singleWordRe.MatchString(local) {
		score += 15
	}
	return score
}

// DomainsMatch reports whether an email's domain plausibly belongs to the
// target: either is a substring of the other, with the email domain's own
// TLD stripped for the reverse check so "acme.io" matches "mail.acme.com".
func DomainsMatch(emailDomain, targetDomain string) bool {
	emailDomain = domain.ExtractDomain(emailDomain)
	targetDomain = domain.ExtractDomain(targetDomain)
	if emailDomain == "" || targetDomain == "" {
		return false
	}
	if strings.Contains(targetDomain, emailDomain) || strings.Contains(emailDomain, targetDomain) {
		return true
	}
	if i := strings.LastIndex(emailDomain, "."); i > 0 {
		if base := emailDomain[:i]; strings.Contains(targetDomain, base) {
			return true
		}
	}
	return false
}

// Analyze composes extraction and ranking for a page, reporting confidence
// from the domain-match rule: high when the top candidate matches the
// target domain, medium otherwise, low only when nothing survived.
func Analyze(content, url string) model.EmailExtraction {
	targetDomain := domain.ExtractDomain(url)
	ranked := RankEmails(EmailsFromContent(content), targetDomain)

	result := model.EmailExtraction{
		Emails:     ranked,
		Source:     url,
		Confidence: model.ConfidenceLow,
	}
	if len(ranked) == 0 {
		return result
	}

	result.PrimaryEmail = ranked[0]
	_, primaryDomain, _ := strings.Cut(ranked[0], "@")
	if DomainsMatch(primaryDomain, targetDomain) {
		result.Confidence = model.ConfidenceHigh
	} else {
		result.Confidence = model.ConfidenceMedium
	}
	return result
}

// ContainsEmail reports whether content has any email-shaped substring.
// Used by the orchestrator to decide on contact-page fallback scrapes.
func ContainsEmail(content string) bool {
	return emailRe.MatchString(content)
}
