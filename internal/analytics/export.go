// Package analytics mirrors terminally synced transactions into a BigQuery
// table so the budgeting data can be queried next to other finance datasets.
// The export is append-only and keyed by import id; it never feeds back into
// the reconciliation core.
package analytics

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"amznsync/internal/domain"
	"amznsync/internal/store"
)

// TransactionRow is the BigQuery schema for one synced transaction.
type TransactionRow struct {
	ImportID            string     `bigquery:"import_id"`
	LedgerTransactionID string     `bigquery:"ledger_transaction_id"`
	OrderID             string     `bigquery:"order_id"`
	Date                civil.Date `bigquery:"transaction_date"`
	AmountMinorUnits    int64      `bigquery:"amount_minor_units"`
	Merchant            string     `bigquery:"merchant"`
	PaymentInstrument   string     `bigquery:"payment_instrument"`
	IsRefund            bool       `bigquery:"is_refund"`
	IsDuplicateImportID bool       `bigquery:"is_duplicate_import_id"`
	SyncedAt            time.Time  `bigquery:"synced_at"`
}

// ExportSynced inserts every terminally synced record of the document into
// dataset.table under the given project, skipping import ids the table
// already holds.
func ExportSynced(ctx context.Context, projectID, dataset, table string, doc *store.Document) (int, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("ExportSynced: bigquery client: %w", err)
	}
	defer client.Close()

	exported, err := ListExportedImportIDs(ctx, client, dataset, table)
	if err != nil {
		return 0, err
	}
	return ExportSyncedWithClient(ctx, client, dataset, table, doc, exported)
}

// ExportSyncedWithClient is ExportSynced against a caller-owned client and an
// explicit skip set.
func ExportSyncedWithClient(ctx context.Context, client *bigquery.Client, dataset, table string, doc *store.Document, skip map[string]bool) (int, error) {
	rows := collectRows(doc, skip)
	if len(rows) == 0 {
		return 0, nil
	}

	inserter := client.Dataset(dataset).Table(table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return 0, fmt.Errorf("ExportSynced: inserting rows: %w", err)
	}
	return len(rows), nil
}

// ListExportedImportIDs returns the import ids already present in the export
// table, so a caller can skip rows exported by an earlier run.
func ListExportedImportIDs(ctx context.Context, client *bigquery.Client, dataset, table string) (map[string]bool, error) {
	q := client.Query(fmt.Sprintf("SELECT DISTINCT import_id FROM `%s.%s`", dataset, table))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListExportedImportIDs: query read: %w", err)
	}

	ids := make(map[string]bool)
	for {
		var row struct {
			ImportID string `bigquery:"import_id"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListExportedImportIDs: iterate: %w", err)
		}
		ids[row.ImportID] = true
	}
	return ids, nil
}

func collectRows(doc *store.Document, skip map[string]bool) []*TransactionRow {
	var rows []*TransactionRow
	for _, tx := range doc.Transactions {
		if !tx.IsTerminallySynced() || tx.ISODate == nil {
			continue
		}
		if skip[tx.SyncState.ImportID] {
			continue
		}
		rows = append(rows, toRow(tx))
	}
	return rows
}

func toRow(tx *domain.Transaction) *TransactionRow {
	row := &TransactionRow{
		ImportID:            tx.SyncState.ImportID,
		OrderID:             tx.OrderID,
		Date:                *tx.ISODate,
		AmountMinorUnits:    tx.SyncState.AmountMinorUnits,
		Merchant:            tx.PayeeName(),
		PaymentInstrument:   tx.PaymentInstrument,
		IsRefund:            tx.IsRefund,
		IsDuplicateImportID: tx.SyncState.IsDuplicateImportID,
		SyncedAt:            tx.SyncState.SyncedAt,
	}
	if tx.SyncState.LedgerTransactionID != nil {
		row.LedgerTransactionID = *tx.SyncState.LedgerTransactionID
	}
	return row
}
