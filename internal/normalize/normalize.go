// Package normalize turns raw scraped order blocks into canonical
// transactions. The scraper itself (browser automation) lives outside this
// module; it hands over plain {text, link} pairs and nothing else. All locale
// assumptions (German months, €-comma amounts) are resolved here, at the
// boundary, so the loose scraped shape never propagates further in.
package normalize

import (
	"context"
	"regexp"
	"strings"

	"amznsync/internal/domain"
	"amznsync/internal/localeparse"
	"amznsync/internal/logger"
)

// RawOrder is one scraped block from the retailer's transaction page. Text is
// the visible DOM text of the block, Link the order-detail URL if one was
// present.
type RawOrder struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

var (
	orderIDPattern = regexp.MustCompile(`\d{3}-\d{7}-\d{7}`)
	amountPattern  = regexp.MustCompile(`[-+]?\s?€\s?\d[\d.,]*`)
	// instrumentPattern matches the funding-source line of a block. The
	// Punkte variants mark loyalty companions.
	instrumentPattern = regexp.MustCompile(`(?i)(visa|mastercard|american express|kreditkarte|bankeinzug|gutschein|punkte)`)
)

// Normalize converts a sequence of raw blocks into canonical transactions.
// A block listing N order numbers yields N sibling records tagged with a
// MultiOrderGroup; the single displayed amount is the bundle total and only
// the first sibling carries it. Blocks without any order number still yield
// one record so refunds and fees are not lost.
func Normalize(ctx context.Context, raws []RawOrder) []*domain.Transaction {
	log := logger.FromContext(ctx)

	var out []*domain.Transaction
	for _, raw := range raws {
		txs := normalizeBlock(raw)
		if len(txs) == 0 {
			log.Warn().Str("text", firstLine(raw.Text)).Msg("Skipping block with no amount")
			continue
		}
		out = append(out, txs...)
	}

	log.Info().
		Int("blocks", len(raws)).
		Int("transactions", len(out)).
		Msg("Normalized scraped blocks")
	return out
}

func normalizeBlock(raw RawOrder) []*domain.Transaction {
	amountText := strings.TrimSpace(amountPattern.FindString(raw.Text))
	if amountText == "" {
		return nil
	}

	isRefund := strings.Contains(raw.Text, "Erstattung")
	total := localeparse.ParseAmount(amountText, isRefund)

	dateText, isoDate, dateErr := localeparse.ExtractDate(raw.Text)
	var datePtr = &isoDate
	if dateErr != nil {
		// Keep the record; the sync selector buckets it under invalid-date.
		dateText = firstLine(raw.Text)
		datePtr = nil
	}

	instrument := extractInstrument(raw.Text)
	orderIDs := orderIDPattern.FindAllString(raw.Text, -1)

	base := func(orderID string) *domain.Transaction {
		tx := &domain.Transaction{
			DateText:          dateText,
			ISODate:           datePtr,
			AmountText:        amountText,
			AmountMinorUnits:  &total,
			PaymentInstrument: instrument,
			Merchant:          domain.DefaultMerchant,
			OrderID:           orderID,
			OrderURL:          raw.Link,
			IsRefund:          isRefund,
		}
		ScrubTransaction(tx)
		return tx
	}

	if len(orderIDs) <= 1 {
		orderID := ""
		if len(orderIDs) == 1 {
			orderID = orderIDs[0]
		}
		return []*domain.Transaction{base(orderID)}
	}

	// Multi-order bundle: the displayed amount covers all orders. Siblings
	// after index 0 carry a nil amount so nothing totals them independently.
	txs := make([]*domain.Transaction, 0, len(orderIDs))
	for i, orderID := range orderIDs {
		tx := base(orderID)
		tx.MultiOrder = &domain.MultiOrderGroup{
			TotalAmountMinorUnits: total,
			OrderIndex:            i,
			TotalOrders:           len(orderIDs),
		}
		if i != 0 {
			tx.AmountMinorUnits = nil
		}
		txs = append(txs, tx)
	}
	return txs
}

func extractInstrument(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if instrumentPattern.MatchString(line) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
