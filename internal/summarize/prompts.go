package summarize

import (
	"fmt"
	"strings"

	"amznsync/internal/domain"
)

// buildPrompt constructs the summarization prompt from an order's line items.
// The model only ever sees item titles and quantities, never account or
// payment data.
func buildPrompt(items []domain.OrderItem) string {
	var b strings.Builder
	b.WriteString("You summarize Amazon orders for a personal budgeting ledger.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Write ONE short phrase (max 10 words) naming what was bought.\n")
	b.WriteString("- Plain text only: no quotes, no Markdown, no trailing period.\n")
	b.WriteString("- Group similar items (\"3 USB cables\"), keep brand names only when essential.\n\n")
	b.WriteString("Items:\n")

	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		fmt.Fprintf(&b, "- %dx %s\n", qty, it.Title)
	}

	return b.String()
}
