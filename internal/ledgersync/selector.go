package ledgersync

import (
	"amznsync/internal/domain"
	"amznsync/internal/localeparse"
	"amznsync/internal/store"
)

// Status is the closed set of outcomes the audit trail attributes to an
// identifier. It lets a caller tell "nothing to do" from "everything failed"
// from "partially succeeded".
type Status string

const (
	StatusQueued        Status = "queued"
	StatusSynced        Status = "synced"
	StatusAlreadySynced Status = "already-synced"
	StatusInvalidDate   Status = "invalid-date"
	StatusInvalidAmount Status = "invalid-amount"
	StatusNotFound      Status = "not-found"
)

// maxInvalidDateSamples caps the sample identities reported for the
// invalid-date bucket.
const maxInvalidDateSamples = 5

// Selection is the outcome of eligibility filtering: the records to submit
// plus the audit statuses explaining every exclusion.
type Selection struct {
	Eligible           []*domain.Transaction
	Statuses           map[string]Status
	InvalidDateSamples []string
}

// Select applies the eligibility predicate over the persisted records, in
// fixed order: unparseable dates are bucketed first, then records the ledger
// already holds, then loyalty companions (folded into their primary at
// payload build), then non-primary bundle siblings, then records missing an
// amount, and finally the caller's explicit order-id selection when one was
// supplied. Caller-supplied ids that never appear in the store at all are
// reported as not-found. Every considered record lands in the status map;
// companions and siblings start at queued and are restated with their
// primary's outcome after classification.
func Select(doc *store.Document, orderIDs []string) *Selection {
	sel := &Selection{Statuses: make(map[string]Status)}

	var wanted map[string]bool
	if len(orderIDs) > 0 {
		wanted = make(map[string]bool, len(orderIDs))
		for _, id := range orderIDs {
			wanted[id] = true
		}
	}

	seen := make(map[string]bool)
	for _, tx := range doc.Transactions {
		if tx.OrderID != "" {
			seen[tx.OrderID] = true
		}

		if tx.ISODate == nil {
			d, err := localeparse.ParseDate(tx.DateText)
			if err != nil {
				sel.Statuses[identifier(tx)] = StatusInvalidDate
				if len(sel.InvalidDateSamples) < maxInvalidDateSamples {
					sel.InvalidDateSamples = append(sel.InvalidDateSamples, tx.MergeKey())
				}
				continue
			}
			tx.ISODate = &d
		}

		if tx.IsTerminallySynced() {
			sel.Statuses[identifier(tx)] = StatusAlreadySynced
			continue
		}

		if tx.IsLoyaltyInstrument() {
			sel.Statuses[identifier(tx)] = StatusQueued
			continue
		}

		if tx.IsMultiOrderSibling() {
			// The bundle submits through its primary; the sibling rides along.
			sel.Statuses[identifier(tx)] = StatusQueued
			continue
		}

		if tx.AmountMinorUnits == nil {
			// Only bundle siblings legitimately carry no amount; anything else
			// is a corrupted record that cannot form a payload.
			sel.Statuses[identifier(tx)] = StatusInvalidAmount
			continue
		}

		if wanted != nil && !wanted[tx.OrderID] {
			continue
		}

		sel.Eligible = append(sel.Eligible, tx)
		sel.Statuses[identifier(tx)] = StatusQueued
	}

	for _, id := range orderIDs {
		if !seen[id] {
			sel.Statuses[id] = StatusNotFound
		}
	}

	return sel
}

// identifier keys the status map: the order id when the record has one, the
// merge key otherwise. A loyalty companion shares its primary's order id, so
// its key gets the same suffix as its import id to keep the two entries apart.
func identifier(tx *domain.Transaction) string {
	if tx.OrderID == "" {
		return tx.MergeKey()
	}
	if tx.IsLoyaltyInstrument() {
		return tx.OrderID + ":pts"
	}
	return tx.OrderID
}
