package store

import (
	"context"

	"amznsync/internal/domain"
	"amznsync/internal/logger"
	"amznsync/internal/normalize"
)

// Merge reconciles a freshly normalized batch into the persisted document and
// returns the merged document. Records are keyed by merge identity; an
// identity seen in both sets has its enrichment fields overlaid (non-null
// fresh values win, nulls never erase), an unseen identity is appended as
// new. Newly added records come first, most recent first as scraped, followed
// by the surviving persisted records in their original relative order.
//
// Persisted records are discarded up front when they are known upstream
// defects rather than operator mistakes: loyalty companions whose primary
// vanished, order ids with the malformed trailing separator, and single-order
// records now superseded by a freshly observed multi-order bundle over the
// same order id.
func Merge(ctx context.Context, existing *Document, fresh []*domain.Transaction) *Document {
	log := logger.FromContext(ctx)

	// Order ids covered by fresh multi-order bundles supersede any persisted
	// single-order view of the same order.
	freshBundled := make(map[string]bool)
	for _, tx := range fresh {
		if tx.MultiOrder != nil && tx.OrderID != "" {
			freshBundled[tx.OrderID] = true
		}
	}

	// A loyalty companion is only worth keeping while a non-loyalty record
	// shares its order id, in either the persisted or the fresh set.
	nonLoyalty := make(map[string]bool)
	for _, tx := range existing.Transactions {
		if tx.OrderID != "" && !tx.IsLoyaltyInstrument() {
			nonLoyalty[tx.OrderID] = true
		}
	}
	for _, tx := range fresh {
		if tx.OrderID != "" && !tx.IsLoyaltyInstrument() {
			nonLoyalty[tx.OrderID] = true
		}
	}

	var kept []*domain.Transaction
	byKey := make(map[string]*domain.Transaction)
	var dropped int
	for _, tx := range existing.Transactions {
		switch {
		case tx.IsLoyaltyInstrument() && !nonLoyalty[tx.OrderID]:
			dropped++
		case tx.HasMalformedOrderID():
			dropped++
		case tx.MultiOrder == nil && freshBundled[tx.OrderID]:
			dropped++
		default:
			kept = append(kept, tx)
			byKey[tx.MergeKey()] = tx
		}
	}

	var added []*domain.Transaction
	var enriched int
	for _, tx := range fresh {
		normalize.ScrubTransaction(tx)

		prev, ok := byKey[tx.MergeKey()]
		if !ok {
			added = append(added, tx)
			byKey[tx.MergeKey()] = tx
			continue
		}

		overlayEnrichment(prev, tx)
		normalize.ScrubTransaction(prev)
		enriched++
	}

	merged := &Document{Transactions: append(added, kept...)}
	merged.Refresh()

	log.Info().
		Int("added", len(added)).
		Int("enriched", enriched).
		Int("dropped", dropped).
		Int("total", merged.Count).
		Int("with_order_id", merged.WithOrderID).
		Msg("Merged batch into store")
	return merged
}

// overlayEnrichment applies the monotonic enrichment rule field by field.
// Everything else on the persisted record, sync state included, is left
// untouched.
func overlayEnrichment(prev, fresh *domain.Transaction) {
	prev.OrderDescription = domain.Overlay(prev.OrderDescription, fresh.OrderDescription)
	prev.OrderSummary = domain.Overlay(prev.OrderSummary, fresh.OrderSummary)
	prev.AISummary = domain.Overlay(prev.AISummary, fresh.AISummary)

	items := domain.Overlay(prev.OrderItems, fresh.OrderItems)
	prev.OrderItems = domain.Map(items, normalize.DedupItems)

	if prev.OrderURL == "" && fresh.OrderURL != "" {
		prev.OrderURL = fresh.OrderURL
	}
}
