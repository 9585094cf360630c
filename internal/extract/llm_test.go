package extract

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leadforge/enrich-cli/internal/model"
	"github.com/leadforge/enrich-cli/pkg/anthropic"
)

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func TestLLMExtractor_PicksPrimary(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(&anthropic.MessageResponse{
			Text:  `{"emails": ["info@acme.com", "sales@acme.com"], "primary": "sales@acme.com", "reasoning": "sales is the outreach mailbox"}`,
			Usage: anthropic.TokenUsage{InputTokens: 500, OutputTokens: 40},
		}, nil).Once()

	e := NewLLMExtractor(client, "claude-haiku-4-5-20251001", 1024)
	got, usage, err := e.Extract(context.Background(), "page content", "https://acme.com")

	require.NoError(t, err)
	assert.Equal(t, "sales@acme.com", got.PrimaryEmail)
	assert.Equal(t, model.ConfidenceHigh, got.Confidence)
	require.NotNil(t, usage)
	assert.Equal(t, int64(500), usage.InputTokens)
	client.AssertExpectations(t)
}

func TestLLMExtractor_MarkdownFencedJSON(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{
			Text: "```json\n{\"emails\": [\"hello@acme.com\"], \"primary\": \"hello@acme.com\", \"reasoning\": \"\"}\n```",
		}, nil).Once()

	e := NewLLMExtractor(client, "claude-haiku-4-5-20251001", 1024)
	got, _, err := e.Extract(context.Background(), "page content", "https://acme.com")

	require.NoError(t, err)
	assert.Equal(t, "hello@acme.com", got.PrimaryEmail)
}

func TestLLMExtractor_FiltersImplausibleModelOutput(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{
			Text: `{"emails": ["noreply@acme.com", "not-an-email"], "primary": "noreply@acme.com", "reasoning": ""}`,
		}, nil).Once()

	e := NewLLMExtractor(client, "claude-haiku-4-5-20251001", 1024)
	got, _, err := e.Extract(context.Background(), "contact info@acme.com", "https://acme.com")

	// Every model suggestion is rejected, so the heuristic pass runs.
	require.NoError(t, err)
	assert.Equal(t, "info@acme.com", got.PrimaryEmail)
}

func TestLLMExtractor_FallsBackOnAPIError(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()

	e := NewLLMExtractor(client, "claude-haiku-4-5-20251001", 1024)
	got, usage, err := e.Extract(context.Background(), "contact info@acme.com", "https://acme.com")

	require.NoError(t, err)
	assert.Nil(t, usage)
	assert.Equal(t, "info@acme.com", got.PrimaryEmail)
}

func TestLLMExtractor_FallsBackOnGarbageJSON(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{Text: "I could not find any emails."}, nil).Once()

	e := NewLLMExtractor(client, "claude-haiku-4-5-20251001", 1024)
	got, _, err := e.Extract(context.Background(), "contact info@acme.com", "https://acme.com")

	require.NoError(t, err)
	assert.Equal(t, "info@acme.com", got.PrimaryEmail)
}

func TestHeuristicExtractor(t *testing.T) {
	e := HeuristicExtractor{}
	got, usage, err := e.Extract(context.Background(), "contact info@acme.com", "https://acme.com")
	require.NoError(t, err)
	assert.Nil(t, usage)
	assert.Equal(t, "info@acme.com", got.PrimaryEmail)
}

func TestTruncateToRune(t *testing.T) {
	// 3-byte runes laid down after a 1-byte prefix so the budget lands
	// mid-sequence.
	long := "a" + strings.Repeat("世", llmBudget)
	got := truncateToRune(long, llmBudget)
	assert.LessOrEqual(t, len(got), llmBudget)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasPrefix(long, got))

	assert.Equal(t, "short", truncateToRune("short", llmBudget))
	assert.Equal(t, "ab", truncateToRune("abc", 2))
}

func TestLLMExtractor_TruncatesContentToRuneBoundary(t *testing.T) {
	long := "a" + strings.Repeat("世", llmBudget)

	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return utf8.ValidString(req.Messages[0].Content)
	})).Return(&anthropic.MessageResponse{
		Text: `{"emails": [], "primary": "", "reasoning": ""}`,
	}, nil).Once()

	e := NewLLMExtractor(client, "claude-haiku-4-5-20251001", 1024)
	_, _, err := e.Extract(context.Background(), long, "https://acme.com")
	require.NoError(t, err)
	client.AssertExpectations(t)
}
