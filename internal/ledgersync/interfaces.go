package ledgersync

import (
	"context"
	"strconv"
	"time"
)

// LedgerService is the external budgeting ledger boundary. The ledger has its
// own deduplication keyed on import ids; submitting the whole batch in one
// call lets it classify every payload as created or duplicate in one place.
// Implementations must apply a bounded timeout; on timeout the affected
// records stay unconfirmed and are safe to retry.
type LedgerService interface {
	CreateTransactions(ctx context.Context, budgetID string, payloads []Payload) (*CreateResponse, error)
}

// SuffixSource produces the short collision-resistant suffix appended to the
// import id of a retried submission. It is an interface so tests can supply
// deterministic suffixes instead of wall-clock entropy.
type SuffixSource interface {
	Next(seed int) string
}

type clockSuffixSource struct{}

func (clockSuffixSource) Next(seed int) string {
	return strconv.FormatInt(time.Now().UnixMilli()+int64(seed), 36)
}

// NewClockSuffixSource returns the production suffix source, seeded from the
// current time plus the record index within the run.
func NewClockSuffixSource() SuffixSource {
	return clockSuffixSource{}
}
