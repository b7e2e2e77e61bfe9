package normalize

import (
	"strings"

	"amznsync/internal/domain"
)

// loginSentinels are the fixed login-wall artifacts the scraper leaks into
// text fields when a session expires mid-scrape. Longer phrases come first so
// "Amazon Anmelden" is removed before the bare "Anmelden" would split it.
var loginSentinels = []string{
	"Bitte melden Sie sich an, um fortzufahren",
	"Amazon Anmelden",
	"Passwort vergessen",
	"Anmelden",
}

// scrubText removes every login sentinel from s and collapses the leftover
// whitespace.
func scrubText(s string) string {
	for _, sentinel := range loginSentinels {
		s = strings.ReplaceAll(s, sentinel, "")
	}
	return strings.Join(strings.Fields(s), " ")
}

// ScrubTransaction removes login-wall artifacts from every title and
// description field of tx. It runs once before persistence and again after
// every merge, because a transient scrape failure on either side of the merge
// can otherwise leak placeholder text into permanent records.
func ScrubTransaction(tx *domain.Transaction) {
	if desc, ok := tx.OrderDescription.Get(); ok {
		tx.OrderDescription = domain.Some(scrubText(desc))
	}
	if items, ok := tx.OrderItems.Get(); ok {
		for i := range items {
			items[i].Title = scrubText(items[i].Title)
		}
		tx.OrderItems = domain.Some(items)
	}
	if summary, ok := tx.AISummary.Get(); ok {
		tx.AISummary = domain.Some(scrubText(summary))
	}
}

// DedupItems removes repeated item titles, case-sensitive exact match,
// preserving first-seen order. The price stays associated with the slot of
// the surviving title; duplicate slots drop their prices with them.
func DedupItems(items []domain.OrderItem) []domain.OrderItem {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, it := range items {
		if seen[it.Title] {
			continue
		}
		seen[it.Title] = true
		out = append(out, it)
	}
	return out
}
