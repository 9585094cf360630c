// Package icebreaker builds prompts for and parses personalized cold-email
// openers generated by Claude.
package icebreaker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/leadforge/enrich-cli/internal/model"
)

// insightsBudget caps how much page text is fed to the model.
const insightsBudget = 3000

// toneGuidance maps each tone to prompt instructions.
var toneGuidance = map[model.IcebreakerTone]string{
	model.ToneProfessional: "Write in a polished, professional voice. No slang, no exclamation marks.",
	model.ToneCasual:       "Write in a relaxed, conversational voice, like a peer reaching out.",
	model.ToneFriendly:     "Write in a warm, upbeat voice that feels personal without being familiar.",
}

// genericOpeners disqualify an icebreaker that could open any cold email.
var genericOpeners = []string{
	"i hope this email finds you well",
	"i came across your website",
	"i was browsing your site",
	"my name is",
	"i wanted to reach out",
	"we are a company that",
	"to whom it may concern",
	"dear sir or madam",
}

const promptTemplate = `You are writing the opening line of a cold outreach email to a company.

Company website: %s

What we know about the company:
%s

%s

Write ONE personalized opening sentence (an "icebreaker") that references something specific about this company. It must:
- Mention a concrete detail from the company information above
- Be 20 to 300 characters long
- Not introduce the sender or pitch anything
- Not use generic openers like "I came across your website"

Return only the icebreaker sentence, nothing else.`

// BuildPrompt assembles the generation prompt from scraped company content.
func BuildPrompt(companyInfo, url string, tone model.IcebreakerTone) string {
	guidance, ok := toneGuidance[tone]
	if !ok {
		guidance = toneGuidance[model.ToneProfessional]
	}
	return fmt.Sprintf(promptTemplate, url, CompanyInsights(companyInfo), guidance)
}

// CompanyInsights trims page text to the prompt budget, accumulating whole
// paragraphs so the model never sees a sentence cut mid-thought. Hard
// truncation only applies when the first paragraph alone overflows.
func CompanyInsights(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= insightsBudget {
		return content
	}

	paragraphs := strings.Split(content, "\n\n")
	var b strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		need := len(p)
		if b.Len() > 0 {
			need += 2
		}
		if b.Len()+need > insightsBudget {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(p)
	}

	if b.Len() == 0 {
		// First paragraph alone overflows the budget. Back off to the
		// nearest rune boundary so the cut never splits a UTF-8 sequence.
		cut := insightsBudget
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		return content[:cut]
	}
	return b.String()
}

var prefixRe = regexp.MustCompile(`(?i)^\s*icebreaker\s*[:\-]\s*`)

// ParseResponse cleans the model's free-text reply into a usable opener:
// wrapping quotes and a leading "icebreaker:" style prefix are stripped.
func ParseResponse(raw string) string {
	s := strings.TrimSpace(raw)
	s = prefixRe.ReplaceAllString(s, "")
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// Validate enforces the quality gate: length within [20,300] and no
// generic opener phrases. Callers decide whether to regenerate; the
// generation flow itself does not.
func Validate(text string) bool {
	if len(text) < 20 || len(text) > 300 {
		return false
	}
	lower := strings.ToLower(text)
	for _, g := range genericOpeners {
		if strings.Contains(lower, g) {
			return false
		}
	}
	return true
}
