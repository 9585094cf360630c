// Package domain classifies raw website strings as plausible registrable
// domains. Heuristic allow-list validation, not DNS: ingestion must stay
// synchronous and instant for thousands of rows, and downstream scraping
// fails naturally on bogus domains anyway.
package domain

import (
	"regexp"
	"strings"

	"github.com/leadforge/enrich-cli/internal/model"
)

// strictHostRe requires label(.label)+ where each label is alphanumeric
// with interior hyphens.
var strictHostRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$`)

// lenientHostRe tolerates underscores, seen in the wild on subdomain labels.
var lenientHostRe = regexp.MustCompile(`^[a-z0-9_]([a-z0-9_-]*[a-z0-9_])?(\.[a-z0-9_]([a-z0-9_-]*[a-z0-9_])?)+$`)

// fallbackTLDRe accepts unlisted new TLDs: 2-10 lowercase letters.
var fallbackTLDRe = regexp.MustCompile(`^[a-z]{2,10}$`)

// Normalize reduces a raw website string to a bare lowercase host:
// no scheme, no leading www, no path/query/fragment/port.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "/?#:"); i >= 0 {
		s = s[:i]
	}
	return s
}

// ExtractDomain is an alias projection of Normalize, kept as its own name
// because the extractor and orchestrator call it for domain comparison
// rather than URL cleanup.
func ExtractDomain(raw string) string {
	return Normalize(raw)
}

// Validate classifies a raw website string. The returned Domain and TLD are
// only set when Valid is true; Reason is only set when Valid is false.
func Validate(input string) model.DomainValidation {
	host := Normalize(input)

	if len(host) < 3 {
		return invalid("domain too short")
	}
	if strings.Contains(host, "..") || strings.Contains(host, "--") {
		return invalid("consecutive dots or hyphens")
	}
	if strings.HasPrefix(host, "-") || strings.HasSuffix(host, "-") {
		return invalid("domain starts or ends with a hyphen")
	}
	if !strictHostRe.MatchString(host) && !lenientHostRe.MatchString(host) {
		return invalid("not a valid domain format")
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return invalid("missing top-level domain")
	}

	// Multi-part TLDs only apply when a registrable label remains in front.
	if len(labels) >= 3 {
		suffix := labels[len(labels)-2] + "." + labels[len(labels)-1]
		if _, ok := multiPartTLDs[suffix]; ok {
			return model.DomainValidation{Valid: true, Domain: host, TLD: suffix}
		}
	}

	last := labels[len(labels)-1]
	if _, ok := singleTLDs[last]; ok {
		return model.DomainValidation{Valid: true, Domain: host, TLD: last}
	}

	// Permissive fallback for new gTLDs the allow-list misses.
	if fallbackTLDRe.MatchString(last) {
		return model.DomainValidation{Valid: true, Domain: host, TLD: last}
	}

	return invalid("unrecognized top-level domain: " + last)
}

func invalid(reason string) model.DomainValidation {
	return model.DomainValidation{Valid: false, Reason: reason}
}
