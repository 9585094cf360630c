package extract

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadforge/enrich-cli/internal/domain"
	"github.com/leadforge/enrich-cli/internal/model"
	"github.com/leadforge/enrich-cli/pkg/anthropic"
)

// Extractor finds contact emails in scraped page content.
type Extractor interface {
	Extract(ctx context.Context, content, url string) (model.EmailExtraction, *anthropic.TokenUsage, error)
}

// HeuristicExtractor applies the regex pipeline only. It never returns an
// error and reports no token usage.
type HeuristicExtractor struct{}

func (HeuristicExtractor) Extract(_ context.Context, content, url string) (model.EmailExtraction, *anthropic.TokenUsage, error) {
	return Analyze(content, url), nil, nil
}

const extractSystem = `You extract business contact email addresses from web page text. Respond with JSON only, no prose.`

const extractPrompt = `Below is text scraped from %TARGET%. Find every email address that could be used to contact this business. Ignore addresses that belong to unrelated third parties (widget vendors, image credits, privacy regulators).

Respond with this exact JSON shape:
{"emails": ["..."], "primary": "...", "reasoning": "..."}

"primary" is the single best address for cold outreach, or "" if none found.

Page text:
%CONTENT%`

// llmBudget caps how much page text is sent per extraction call.
const llmBudget = 8000

type llmResponse struct {
	Emails    []string `json:"emails"`
	Primary   string   `json:"primary"`
	Reasoning string   `json:"reasoning"`
}

// LLMExtractor asks Claude to pick contact emails out of page text and falls
// back to the heuristic pipeline when the call or parse fails. Results are
// always re-filtered through the plausibility rules so the model cannot
// introduce malformed addresses.
type LLMExtractor struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

func NewLLMExtractor(client anthropic.Client, modelName string, maxTokens int) *LLMExtractor {
	return &LLMExtractor{client: client, model: modelName, maxTokens: maxTokens}
}

func (e *LLMExtractor) Extract(ctx context.Context, content, url string) (model.EmailExtraction, *anthropic.TokenUsage, error) {
	trimmed := truncateToRune(content, llmBudget)
	prompt := strings.NewReplacer(
		"%TARGET%", url,
		"%CONTENT%", trimmed,
	).Replace(extractPrompt)

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: int64(e.maxTokens),
		System:    extractSystem,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		zap.L().Warn("llm extraction failed, using heuristics",
			zap.String("url", url),
			zap.Error(err))
		return Analyze(content, url), nil, nil
	}
	resp.Usage.LogCost(e.model, "extract")

	parsed, err := parseLLMResponse(resp.Text)
	if err != nil {
		zap.L().Warn("llm extraction returned unparseable json, using heuristics",
			zap.String("url", url),
			zap.Error(err))
		return Analyze(content, url), &resp.Usage, nil
	}

	result := mergeLLMResult(parsed, url)
	if len(result.Emails) == 0 {
		// The model found nothing usable; the regex pass may still.
		return Analyze(content, url), &resp.Usage, nil
	}
	return result, &resp.Usage, nil
}

// truncateToRune caps s at n bytes without splitting a UTF-8 sequence.
func truncateToRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// parseLLMResponse tolerates markdown fences around the JSON body.
func parseLLMResponse(text string) (llmResponse, error) {
	s := strings.TrimSpace(text)
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	var out llmResponse
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return llmResponse{}, eris.Wrap(err, "extract: decode llm response")
	}
	return out, nil
}

func mergeLLMResult(parsed llmResponse, url string) model.EmailExtraction {
	targetDomain := domain.ExtractDomain(url)

	var emails []string
	seen := make(map[string]bool)
	add := func(addr string) {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr == "" || seen[addr] || !PlausibleAddress(addr) {
			return
		}
		seen[addr] = true
		emails = append(emails, addr)
	}
	add(parsed.Primary)
	for _, e := range parsed.Emails {
		add(e)
	}

	if len(emails) == 0 {
		return model.EmailExtraction{Source: url, Confidence: model.ConfidenceLow}
	}

	ranked := RankEmails(emails, targetDomain)
	_, primaryDomain, _ := strings.Cut(ranked[0], "@")
	confidence := model.ConfidenceMedium
	if DomainsMatch(primaryDomain, targetDomain) {
		confidence = model.ConfidenceHigh
	}
	return model.EmailExtraction{
		Emails:       ranked,
		PrimaryEmail: ranked[0],
		Source:       url,
		Confidence:   confidence,
	}
}
