package ledgersync

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amznsync/internal/domain"
	"amznsync/internal/runner"
	"amznsync/internal/store"
)

func writeStore(t *testing.T, txs ...*domain.Transaction) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	doc := &store.Document{Transactions: txs}
	require.NoError(t, doc.Save(path))
	return path
}

func TestRunPersistsAfterSuccessfulBatch(t *testing.T) {
	path := writeStore(t, eligibleTx("304-1111111-2222222"))

	ledger := &mockLedger{createFunc: func(_ context.Context, _ string, payloads []Payload) (*CreateResponse, error) {
		return &CreateResponse{Transactions: []CreatedTransaction{
			{ID: "ledger-tx-1", ImportID: payloads[0].ImportID},
		}}, nil
	}}

	res, err := Run(context.Background(), runner.NewGate(), ledger, fixedSuffixes{}, NopSink{},
		RunConfig{StorePath: path, Options: syncOpts()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Confirmed)

	reloaded, err := store.Load(path)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Transactions[0].SyncState)
	assert.Equal(t, "AMZN:-4990:2025-09-17:1", reloaded.Transactions[0].SyncState.ImportID)
}

func TestRunDoesNotPersistOnBatchFailure(t *testing.T) {
	path := writeStore(t, eligibleTx("304-1111111-2222222"))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	ledger := &mockLedger{createFunc: func(_ context.Context, _ string, _ []Payload) (*CreateResponse, error) {
		return nil, errors.New("ledger unreachable")
	}}

	_, err = Run(context.Background(), runner.NewGate(), ledger, fixedSuffixes{}, NopSink{},
		RunConfig{StorePath: path, Options: syncOpts()})
	require.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(after))
	assert.Equal(t, before, after, "a failed batch must leave the store file untouched")
}

func TestRunDryRunDoesNotPersist(t *testing.T) {
	path := writeStore(t, eligibleTx("304-1111111-2222222"))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	ledger := &mockLedger{createFunc: func(_ context.Context, _ string, _ []Payload) (*CreateResponse, error) {
		return &CreateResponse{}, nil
	}}

	opts := syncOpts()
	opts.DryRun = true
	res, err := Run(context.Background(), runner.NewGate(), ledger, fixedSuffixes{}, NopSink{},
		RunConfig{StorePath: path, Options: opts})
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.calls)
	assert.Len(t, res.Payloads, 1)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	path := writeStore(t)

	gate := runner.NewGate()
	release, err := gate.Acquire(path)
	require.NoError(t, err)
	defer release()

	ledger := &mockLedger{createFunc: func(_ context.Context, _ string, _ []Payload) (*CreateResponse, error) {
		return &CreateResponse{}, nil
	}}

	_, err = Run(context.Background(), gate, ledger, fixedSuffixes{}, NopSink{},
		RunConfig{StorePath: path, Options: syncOpts()})
	require.ErrorIs(t, err, runner.ErrRunInProgress)
}
