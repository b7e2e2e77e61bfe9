package ledgersync

import (
	"fmt"
	"strings"

	"amznsync/internal/domain"
	"amznsync/internal/localeparse"
	"amznsync/internal/store"
)

// MaxMemoLen is the ledger API's memo length ceiling.
const MaxMemoLen = 200

// Payload is one ledger-ready transaction, shaped for the ledger's batch
// create endpoint.
type Payload struct {
	AccountID string `json:"account_id"`
	Date      string `json:"date"`
	Amount    int64  `json:"amount"`
	PayeeName string `json:"payee_name"`
	Memo      string `json:"memo"`
	Cleared   bool   `json:"cleared"`
	Approved  bool   `json:"approved"`
	ImportID  string `json:"import_id"`
}

// CreatedTransaction is one ledger-side record echoed back after creation.
type CreatedTransaction struct {
	ID       string `json:"id"`
	ImportID string `json:"import_id"`
}

// CreateResponse is the ledger's answer to a batch submission: the records
// it created plus the import ids it recognized as duplicates. Submitted ids
// appearing in neither set are unconfirmed.
type CreateResponse struct {
	Transactions       []CreatedTransaction
	DuplicateImportIDs []string
}

// buildMemo assembles the memo text for a primary record.
//
// A multi-order bundle rebuilds the memo from every sibling, ordered by order
// index, overriding any AI memo: the single ledger entry has to account for
// all bundled orders. Otherwise the AI summary wins, then the order
// description. A loyalty companion's annotation is appended last and is never
// dropped: the primary part is trimmed instead when the ceiling would be hit.
func buildMemo(doc *store.Document, tx *domain.Transaction) string {
	var memo string
	if tx.MultiOrder != nil && tx.MultiOrder.TotalOrders > 1 {
		memo = bundleMemo(doc, tx)
	} else if ai, ok := tx.AISummary.Get(); ok && ai != "" {
		memo = ai
	} else if desc, ok := tx.OrderDescription.Get(); ok {
		memo = desc
	}

	if comp := doc.FindCompanion(tx.OrderID, tx); comp != nil {
		annotation := fmt.Sprintf(" | Punkte: %s", comp.AmountText)
		memo = trimRunes(memo, MaxMemoLen-len([]rune(annotation))) + annotation
	}

	return trimRunes(memo, MaxMemoLen)
}

func bundleMemo(doc *store.Document, tx *domain.Transaction) string {
	siblings := doc.BundleSiblings(tx)
	ids := make([]string, 0, len(siblings))
	for _, sib := range siblings {
		ids = append(ids, sib.OrderID)
	}
	return fmt.Sprintf("%d Bestellungen (%s): %s",
		tx.MultiOrder.TotalOrders,
		localeparse.FormatAmount(tx.MultiOrder.TotalAmountMinorUnits),
		strings.Join(ids, ", "))
}

func trimRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
