package domain

import (
	"encoding/json"
	"testing"
)

func TestOptionalStates(t *testing.T) {
	var unknown Optional[string]
	if !unknown.IsZero() || unknown.IsNull() || unknown.HasValue() {
		t.Error("zero Optional should be unknown")
	}

	null := Null[string]()
	if null.IsZero() || !null.IsNull() || null.HasValue() {
		t.Error("Null() should be explicitly null")
	}

	some := Some("x")
	if some.IsZero() || some.IsNull() || !some.HasValue() {
		t.Error("Some() should carry a value")
	}
	if v, ok := some.Get(); !ok || v != "x" {
		t.Errorf("Get() = %q, %v; want \"x\", true", v, ok)
	}
}

func TestOverlay(t *testing.T) {
	tests := []struct {
		name  string
		prev  Optional[string]
		fresh Optional[string]
		want  Optional[string]
	}{
		{name: "fresh value wins over unknown", prev: Optional[string]{}, fresh: Some("a"), want: Some("a")},
		{name: "fresh value wins over null", prev: Null[string](), fresh: Some("a"), want: Some("a")},
		{name: "fresh value replaces prev value", prev: Some("a"), fresh: Some("b"), want: Some("b")},
		{name: "fresh null never erases value", prev: Some("a"), fresh: Null[string](), want: Some("a")},
		{name: "fresh unknown never erases value", prev: Some("a"), fresh: Optional[string]{}, want: Some("a")},
		{name: "null observed where nothing was known", prev: Optional[string]{}, fresh: Null[string](), want: Null[string]()},
		{name: "null kept over fresh unknown", prev: Null[string](), fresh: Optional[string]{}, want: Null[string]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlay(tt.prev, tt.fresh); got != tt.want {
				t.Errorf("Overlay(%+v, %+v) = %+v, want %+v", tt.prev, tt.fresh, got, tt.want)
			}
		})
	}
}

func TestOptionalJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		A Optional[string] `json:"a,omitzero"`
		B Optional[string] `json:"b,omitzero"`
		C Optional[string] `json:"c,omitzero"`
	}

	in := wrapper{A: Some("hello"), B: Null[string]()}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Unknown fields are omitted entirely so a re-read stays unknown.
	want := `{"a":"hello","b":null}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var out wrapper
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out.A != Some("hello") {
		t.Errorf("A = %+v, want Some(hello)", out.A)
	}
	if !out.B.IsNull() {
		t.Errorf("B = %+v, want explicit null", out.B)
	}
	if !out.C.IsZero() {
		t.Errorf("C = %+v, want unknown", out.C)
	}
}

func TestTransactionPredicates(t *testing.T) {
	ledgerID := "tx-1"

	companion := &Transaction{PaymentInstrument: "Amazon Punkte", OrderID: "304-1111111-2222222"}
	if !companion.IsLoyaltyInstrument() {
		t.Error("Punkte instrument should be loyalty")
	}

	card := &Transaction{PaymentInstrument: "Visa ****1234"}
	if card.IsLoyaltyInstrument() {
		t.Error("card instrument should not be loyalty")
	}

	synced := &Transaction{SyncState: &SyncState{LedgerTransactionID: &ledgerID}}
	if !synced.IsTerminallySynced() || synced.IsAmbiguousSync() {
		t.Error("confirmed record must be terminal, not ambiguous")
	}

	dup := &Transaction{SyncState: &SyncState{IsDuplicateImportID: true}}
	if !dup.IsTerminallySynced() {
		t.Error("duplicate record must be terminal")
	}

	ambiguous := &Transaction{SyncState: &SyncState{ImportID: "AMZN:1:2025-01-01:1"}}
	if ambiguous.IsTerminallySynced() || !ambiguous.IsAmbiguousSync() {
		t.Error("unconfirmed record must be ambiguous, not terminal")
	}

	if (&Transaction{OrderID: "304-1111111-"}).HasMalformedOrderID() == false {
		t.Error("trailing separator order id must be malformed")
	}
	if (&Transaction{OrderID: "304-1111111-2222222"}).HasMalformedOrderID() {
		t.Error("well-formed order id flagged as malformed")
	}
}

func TestMergeKey(t *testing.T) {
	a := &Transaction{OrderID: "o1", AmountText: "-€4,99", DateText: "17. September 2025"}
	b := &Transaction{OrderID: "o1", AmountText: "-€4,99", DateText: "17. September 2025"}
	if a.MergeKey() != b.MergeKey() {
		t.Error("identical identity fields must produce equal merge keys")
	}

	c := &Transaction{OrderID: "o1", AmountText: "-€4,99", DateText: "17. September 2025",
		MultiOrder: &MultiOrderGroup{OrderIndex: 1, TotalOrders: 2}}
	if a.MergeKey() == c.MergeKey() {
		t.Error("order index must distinguish bundle siblings")
	}
}

func TestPayeeName(t *testing.T) {
	if got := (&Transaction{}).PayeeName(); got != "unknown-merchant" {
		t.Errorf("PayeeName() = %q, want unknown-merchant", got)
	}
	if got := (&Transaction{Merchant: "Amazon.de"}).PayeeName(); got != "Amazon.de" {
		t.Errorf("PayeeName() = %q, want Amazon.de", got)
	}
}
