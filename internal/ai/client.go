package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hoanghai1803/newsbrief/internal/models"
)

// ErrSummarization wraps every failure of the summarization service: auth,
// quota, transport and malformed or empty answers.
var ErrSummarization = errors.New("summarization failed")

// Client asks a Provider for relevance-filtered summaries. The relevance
// decision belongs to the model; Client only maps the answer onto a
// SummaryResult.
type Client struct {
	provider Provider
	prompt   PromptConfig
}

// NewClient creates a Client. Zero-valued prompt fields use
// DefaultPromptConfig.
func NewClient(provider Provider, prompt PromptConfig) *Client {
	return &Client{provider: provider, prompt: prompt.withDefaults()}
}

// Prompt returns the effective prompt configuration.
func (c *Client) Prompt() PromptConfig {
	return c.prompt
}

// Summarize sends the article content and source URL to the provider and
// returns its trimmed answer. The sentinel answer maps to a NotRelevant
// result carrying the configured sentinel; anything else is a Text result.
func (c *Client) Summarize(ctx context.Context, content, sourceURL string) (models.SummaryResult, error) {
	systemPrompt, userPrompt := SummarizePrompt(c.prompt, content, sourceURL)

	answer, err := c.provider.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return models.SummaryResult{}, fmt.Errorf("%w: %s: %w", ErrSummarization, c.provider.Model(), err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return models.SummaryResult{}, fmt.Errorf("%w: %s: empty answer", ErrSummarization, c.provider.Model())
	}

	if isSentinel(answer, c.prompt.Sentinel) {
		return models.NotRelevantSummary(c.prompt.Sentinel), nil
	}
	return models.TextSummary(answer), nil
}
