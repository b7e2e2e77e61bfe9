// Package store persists the reconciled transaction collection as a single
// JSON document, read and written wholesale. One invocation loads the full
// document, computes entirely in memory, and writes the full document back
// once; the file is a single-writer resource (see runner.Gate).
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"amznsync/internal/domain"
)

// Document is the persisted store: every known transaction plus derived
// counters kept in the file for cheap inspection.
type Document struct {
	Count        int                   `json:"count"`
	WithOrderID  int                   `json:"withOrderId"`
	Transactions []*domain.Transaction `json:"transactions"`
}

// Load reads the store document from path. A missing file is an empty store,
// not an error, so first runs need no setup step.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.Load: read %q: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store.Load: parse %q: %w", path, err)
	}
	return &doc, nil
}

// Save writes the whole document atomically: a temp file in the same
// directory followed by a rename, so a crash mid-write never leaves a partial
// store behind.
func (d *Document) Save(path string) error {
	d.Refresh()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("store.Save: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("store.Save: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store.Save: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store.Save: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store.Save: rename into place: %w", err)
	}
	return nil
}

// Refresh recomputes the derived counters. Count is the headline transaction
// count: loyalty companions whose order id also has a non-loyalty record are
// not counted twice. WithOrderID counts records carrying an order id.
func (d *Document) Refresh() {
	nonLoyalty := make(map[string]bool)
	for _, tx := range d.Transactions {
		if tx.OrderID != "" && !tx.IsLoyaltyInstrument() {
			nonLoyalty[tx.OrderID] = true
		}
	}

	count := 0
	withOrderID := 0
	for _, tx := range d.Transactions {
		if tx.OrderID != "" {
			withOrderID++
		}
		if tx.IsLoyaltyInstrument() && tx.OrderID != "" && nonLoyalty[tx.OrderID] {
			continue
		}
		count++
	}
	d.Count = count
	d.WithOrderID = withOrderID
}

// FindCompanion returns the loyalty-instrument companion sharing orderID, or
// nil. other excludes a record from matching itself.
func (d *Document) FindCompanion(orderID string, other *domain.Transaction) *domain.Transaction {
	if orderID == "" {
		return nil
	}
	for _, tx := range d.Transactions {
		if tx != other && tx.OrderID == orderID && tx.IsLoyaltyInstrument() {
			return tx
		}
	}
	return nil
}

// BundleSiblings returns every record of the same multi-order bundle as tx,
// ordered by order index. Bundles are linked by sharing the displayed date,
// amount text and bundle total.
func (d *Document) BundleSiblings(tx *domain.Transaction) []*domain.Transaction {
	if tx.MultiOrder == nil {
		return nil
	}
	var siblings []*domain.Transaction
	for _, other := range d.Transactions {
		if other.MultiOrder == nil {
			continue
		}
		if other.DateText == tx.DateText &&
			other.AmountText == tx.AmountText &&
			other.MultiOrder.TotalAmountMinorUnits == tx.MultiOrder.TotalAmountMinorUnits {
			siblings = append(siblings, other)
		}
	}
	for i := 1; i < len(siblings); i++ {
		for j := i; j > 0 && siblings[j-1].MultiOrder.OrderIndex > siblings[j].MultiOrder.OrderIndex; j-- {
			siblings[j-1], siblings[j] = siblings[j], siblings[j-1]
		}
	}
	return siblings
}
