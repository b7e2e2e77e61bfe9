package ledgersync

import (
	"fmt"

	"cloud.google.com/go/civil"
)

const (
	// MaxImportIDLen is the ledger API's hard limit on import identifiers.
	// Longer ids are truncated from the right.
	MaxImportIDLen = 36

	importIDPrefix = "AMZN"
)

// ImportID derives the ledger's deduplication key for a first submission.
// It is a pure function of the amount and canonical date, so two first
// attempts for the same transaction always collide on the ledger side.
func ImportID(amountMinorUnits int64, date civil.Date) string {
	return clampImportID(fmt.Sprintf("%s:%d:%s:1", importIDPrefix, amountMinorUnits, date))
}

// RetryImportID derives a distinguishable id for retrying a submission whose
// first attempt was ambiguous. The suffix makes the retry distinct from both
// the first attempt and any concurrent retry of a different record.
func RetryImportID(amountMinorUnits int64, date civil.Date, suffix string) string {
	return clampImportID(fmt.Sprintf("%s:%d:%s:R%s", importIDPrefix, amountMinorUnits, date, suffix))
}

// CompanionImportID derives the id under which a folded loyalty companion is
// marked synced. The companion is never submitted; its id only has to be
// unique in the local store.
func CompanionImportID(primaryImportID string) string {
	return clampImportID(primaryImportID + ":pts")
}

func clampImportID(id string) string {
	if len(id) > MaxImportIDLen {
		return id[:MaxImportIDLen]
	}
	return id
}
