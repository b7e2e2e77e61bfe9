// Package summarize produces the short AI memo text attached to enriched
// transactions. The reconciliation and sync core never calls this package; it
// only consumes the aiSummary field a summarize pass has left behind.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"amznsync/internal/domain"
)

// Summarizer condenses one transaction's order items into a short memo.
type Summarizer interface {
	Summarize(ctx context.Context, tx *domain.Transaction) (string, error)
}

// GeminiSummarizer is the concrete Summarizer backed by the Gemini API.
type GeminiSummarizer struct {
	model string
}

// NewGeminiSummarizer creates a summarizer using the given model name.
func NewGeminiSummarizer(model string) *GeminiSummarizer {
	return &GeminiSummarizer{model: model}
}

// Summarize sends the order's line items to the model and returns a cleaned
// one-line summary.
func (s *GeminiSummarizer) Summarize(ctx context.Context, tx *domain.Transaction) (string, error) {
	items, ok := tx.OrderItems.Get()
	if !ok || len(items) == 0 {
		return "", fmt.Errorf("Summarize: transaction %s has no order items", tx.OrderID)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("Summarize: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(items)},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Summarize: generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("Summarize: empty response from model")
	}

	return cleanModelText(raw), nil
}

var _ Summarizer = (*GeminiSummarizer)(nil)

// cleanModelText strips Markdown fences, quotes and surrounding noise if the
// model ignored the plain-text instruction, and collapses to one line.
func cleanModelText(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}

	s = strings.Trim(strings.TrimSpace(s), `"`)
	return strings.Join(strings.Fields(s), " ")
}
