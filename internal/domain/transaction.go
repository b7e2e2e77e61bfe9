package domain

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DefaultMerchant is used when a scraped block carries no merchant label.
const DefaultMerchant = "Amazon.de"

// Transaction is one observed ledger-worthy event from the retailer's
// transaction page, in canonical form. It is created by the normalizer,
// enriched by later merge passes, and finally annotated with sync state
// by the ledger sync protocol. Records are never deleted automatically.
type Transaction struct {
	// DateText is the original locale-formatted date ("17. September 2025"),
	// kept for display. ISODate is the parsed canonical form, nil until the
	// text has been parsed successfully.
	DateText string      `json:"date"`
	ISODate  *civil.Date `json:"isoDate,omitempty"`

	// AmountText is the original locale string ("-€4,99"); AmountMinorUnits
	// is its signed ledger minor-unit value (-4990). Debits are negative.
	// Siblings of a multi-order bundle carry nil so consumers never double
	// count the bundle total.
	AmountText       string `json:"amountText"`
	AmountMinorUnits *int64 `json:"amountMinorUnits"`

	PaymentInstrument string `json:"paymentInstrument"`
	Merchant          string `json:"merchant"`
	OrderID           string `json:"orderId,omitempty"`
	OrderURL          string `json:"orderUrl,omitempty"`
	IsRefund          bool   `json:"isRefund"`

	// Enrichment fields, populated by later passes (order-detail scrape, AI
	// summarizer). Merge never replaces a present value with null.
	OrderDescription Optional[string]       `json:"orderDescription,omitzero"`
	OrderItems       Optional[[]OrderItem]  `json:"orderItems,omitzero"`
	OrderSummary     Optional[OrderSummary] `json:"orderSummary,omitzero"`
	AISummary        Optional[string]       `json:"aiSummary,omitzero"`

	MultiOrder *MultiOrderGroup `json:"multiOrderGroup,omitempty"`
	SyncState  *SyncState       `json:"syncState,omitempty"`
}

// OrderItem is one purchased line item on an order.
type OrderItem struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// OrderSummary holds the cost breakdown block of an order page, in the
// original locale text.
type OrderSummary struct {
	Subtotal      string `json:"subtotal,omitempty"`
	Voucher       string `json:"voucher,omitempty"`
	LoyaltyPoints string `json:"loyaltyPoints,omitempty"`
	Shipping      string `json:"shipping,omitempty"`
	Total         string `json:"total,omitempty"`
}

// MultiOrderGroup tags a record that is one slice of a displayed transaction
// covering several retailer orders. Only OrderIndex 0 is ledger-eligible.
type MultiOrderGroup struct {
	TotalAmountMinorUnits int64 `json:"totalAmountMinorUnits"`
	OrderIndex            int   `json:"orderIndex"`
	TotalOrders           int   `json:"totalOrders"`
}

// SyncState records the outcome of a ledger submission attempt.
// LedgerTransactionID set means terminally synced. IsDuplicateImportID set
// means the ledger already held an equivalent entry, also terminal. Neither
// set means the attempt was ambiguous and may be retried with a new import id.
type SyncState struct {
	SyncedAt            time.Time `json:"syncedAt"`
	ImportID            string    `json:"importId"`
	LedgerTransactionID *string   `json:"ledgerTransactionId"`
	IsDuplicateImportID bool      `json:"isDuplicateImportId"`
	AmountMinorUnits    int64     `json:"amountMinorUnits"`
}

// MergeKey is the composite identity under which records are reconciled.
// No two records in a persisted store may share one.
func (t *Transaction) MergeKey() string {
	idx := 0
	if t.MultiOrder != nil {
		idx = t.MultiOrder.OrderIndex
	}
	return fmt.Sprintf("%s|%s|%s|%d", t.OrderID, t.AmountText, t.DateText, idx)
}

// IsLoyaltyInstrument reports whether the record was paid with the retailer's
// reward points. Such records are companions of a primary transaction sharing
// the same order id, never independent ledger events.
func (t *Transaction) IsLoyaltyInstrument() bool {
	return strings.Contains(strings.ToLower(t.PaymentInstrument), "punkte")
}

// IsMultiOrderSibling reports whether the record is a non-primary slice of a
// multi-order bundle. The primary (index 0) carries the bundle total.
func (t *Transaction) IsMultiOrderSibling() bool {
	return t.MultiOrder != nil && t.MultiOrder.OrderIndex != 0
}

// IsTerminallySynced reports whether the ledger is known to hold this record,
// either via a confirmed transaction id or via the ledger's own dedup.
func (t *Transaction) IsTerminallySynced() bool {
	return t.SyncState != nil &&
		(t.SyncState.LedgerTransactionID != nil || t.SyncState.IsDuplicateImportID)
}

// IsAmbiguousSync reports whether a prior submission neither confirmed nor
// deduplicated. Such records are retried with a fresh import id.
func (t *Transaction) IsAmbiguousSync() bool {
	return t.SyncState != nil &&
		t.SyncState.LedgerTransactionID == nil &&
		!t.SyncState.IsDuplicateImportID
}

// HasMalformedOrderID reports the known upstream data-quality defect of an
// order id truncated at a trailing separator ("304-1234567-").
func (t *Transaction) HasMalformedOrderID() bool {
	return strings.HasSuffix(t.OrderID, "-")
}

// PayeeName returns the merchant for ledger payloads, with the documented
// fallback literal for records scraped without one.
func (t *Transaction) PayeeName() string {
	if t.Merchant == "" {
		return "unknown-merchant"
	}
	return t.Merchant
}
