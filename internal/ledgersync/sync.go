package ledgersync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"amznsync/internal/domain"
	"amznsync/internal/logger"
	"amznsync/internal/store"
)

// Options scope a sync run. An empty OrderIDs list means every eligible
// record; DryRun stops after payload construction and mutates nothing.
type Options struct {
	BudgetID  string
	AccountID string
	OrderIDs  []string
	DryRun    bool
}

// Result is the value a run returns instead of mutating shared state. It
// carries the full audit trail plus the constructed payloads, so a failed
// batch can still be diagnosed from what was about to be sent.
type Result struct {
	RunID              string
	Statuses           map[string]Status
	InvalidDateSamples []string
	Payloads           []Payload
	Confirmed          int
	Duplicates         int
	Unconfirmed        int
}

type submission struct {
	tx      *domain.Transaction
	payload Payload
}

// Sync drives the idempotent submission protocol over the in-memory document:
// select eligible records, derive import ids, fold companions into memos,
// submit one batch, and classify every payload as confirmed, duplicate or
// unconfirmed. The document is only mutated after a successful batch call;
// persisting the document is the caller's final step (see Run).
func Sync(ctx context.Context, doc *store.Document, ledger LedgerService, suffixes SuffixSource, sink StatusSink, opts Options) (*Result, error) {
	log := logger.FromContext(ctx)

	sel := Select(doc, opts.OrderIDs)
	res := &Result{
		RunID:              uuid.NewString(),
		Statuses:           sel.Statuses,
		InvalidDateSamples: sel.InvalidDateSamples,
	}

	sink.OnProgress(ProgressEvent{
		RunID:   res.RunID,
		Stage:   StageSelect,
		Message: fmt.Sprintf("%d eligible of %d records", len(sel.Eligible), len(doc.Transactions)),
	})

	subs := make([]submission, 0, len(sel.Eligible))
	for i, tx := range sel.Eligible {
		var importID string
		if tx.IsAmbiguousSync() {
			// A prior attempt was submitted but never confirmed; a fresh
			// suffix keeps the retry distinguishable on the ledger side.
			importID = RetryImportID(*tx.AmountMinorUnits, *tx.ISODate, suffixes.Next(i))
		} else {
			importID = ImportID(*tx.AmountMinorUnits, *tx.ISODate)
		}

		p := Payload{
			AccountID: opts.AccountID,
			Date:      tx.ISODate.String(),
			Amount:    *tx.AmountMinorUnits,
			PayeeName: tx.PayeeName(),
			Memo:      buildMemo(doc, tx),
			Cleared:   true,
			Approved:  false,
			ImportID:  importID,
		}
		subs = append(subs, submission{tx: tx, payload: p})
		res.Payloads = append(res.Payloads, p)

		sink.OnProgress(ProgressEvent{
			RunID:   res.RunID,
			Stage:   StagePayload,
			OrderID: tx.OrderID,
			Status:  StatusQueued,
			Message: importID,
		})
	}

	if opts.DryRun {
		log.Info().Int("payloads", len(res.Payloads)).Msg("Dry run, stopping before submission")
		return res, nil
	}
	if len(subs) == 0 {
		log.Info().Msg("Nothing to sync")
		return res, nil
	}

	sink.OnProgress(ProgressEvent{
		RunID:   res.RunID,
		Stage:   StageSubmit,
		Message: fmt.Sprintf("submitting %d payloads", len(subs)),
	})

	resp, err := ledger.CreateTransactions(ctx, opts.BudgetID, res.Payloads)
	if err != nil {
		// Hard failure for the whole batch: no local state was mutated, the
		// result still carries everything constructed so far for diagnosis.
		return res, fmt.Errorf("Sync: submit batch: %w", err)
	}

	createdByImportID := make(map[string]string, len(resp.Transactions))
	for _, created := range resp.Transactions {
		createdByImportID[created.ImportID] = created.ID
	}
	duplicate := make(map[string]bool, len(resp.DuplicateImportIDs))
	for _, id := range resp.DuplicateImportIDs {
		duplicate[id] = true
	}

	now := time.Now().UTC()
	for _, sub := range subs {
		state := &domain.SyncState{
			SyncedAt:         now,
			ImportID:         sub.payload.ImportID,
			AmountMinorUnits: sub.payload.Amount,
		}

		var status Status
		switch {
		case createdByImportID[sub.payload.ImportID] != "":
			id := createdByImportID[sub.payload.ImportID]
			state.LedgerTransactionID = &id
			status = StatusSynced
			res.Confirmed++
		case duplicate[sub.payload.ImportID]:
			state.IsDuplicateImportID = true
			status = StatusAlreadySynced
			res.Duplicates++
		default:
			// Neither created nor duplicate: unknown whether the ledger
			// accepted it. Not an error; a future run retries safely.
			status = StatusQueued
			res.Unconfirmed++
		}

		sub.tx.SyncState = state
		res.Statuses[identifier(sub.tx)] = status
		propagateToCompanion(doc, sub.tx, now)

		// Companions and bundle siblings were bucketed as queued at selection;
		// restate them with the outcome of the payload that carried them.
		if comp := doc.FindCompanion(sub.tx.OrderID, sub.tx); comp != nil {
			res.Statuses[identifier(comp)] = status
		}
		for _, sib := range doc.BundleSiblings(sub.tx) {
			if sib != sub.tx {
				res.Statuses[identifier(sib)] = status
			}
		}

		sink.OnProgress(ProgressEvent{
			RunID:   res.RunID,
			Stage:   StageClassify,
			OrderID: sub.tx.OrderID,
			Status:  status,
			Message: sub.payload.ImportID,
		})
	}

	log.Info().
		Str("run_id", res.RunID).
		Int("confirmed", res.Confirmed).
		Int("duplicates", res.Duplicates).
		Int("unconfirmed", res.Unconfirmed).
		Msg("Batch classified")
	return res, nil
}

// propagateToCompanion marks the folded loyalty companion with the primary's
// outcome under a suffixed import id, so the companion becomes terminal
// without ever being submitted on its own.
func propagateToCompanion(doc *store.Document, primary *domain.Transaction, now time.Time) {
	if primary.SyncState == nil || !primary.IsTerminallySynced() {
		return
	}
	comp := doc.FindCompanion(primary.OrderID, primary)
	if comp == nil {
		return
	}

	state := &domain.SyncState{
		SyncedAt:            now,
		ImportID:            CompanionImportID(primary.SyncState.ImportID),
		IsDuplicateImportID: primary.SyncState.IsDuplicateImportID,
	}
	if primary.SyncState.LedgerTransactionID != nil {
		id := *primary.SyncState.LedgerTransactionID
		state.LedgerTransactionID = &id
	}
	if comp.AmountMinorUnits != nil {
		state.AmountMinorUnits = *comp.AmountMinorUnits
	}
	comp.SyncState = state
}
