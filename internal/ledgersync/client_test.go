package ledgersync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreateTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/budgets/budget-1/transactions", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Transactions []Payload `json:"transactions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Transactions, 2)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"transactions":[{"id":"tx-1","import_id":"AMZN:-4990:2025-09-17:1"}],"duplicate_import_ids":["AMZN:-9990:2025-09-01:1"]}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("token-1", srv.URL)
	resp, err := c.CreateTransactions(context.Background(), "budget-1", []Payload{
		{ImportID: "AMZN:-4990:2025-09-17:1"},
		{ImportID: "AMZN:-9990:2025-09-01:1"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "tx-1", resp.Transactions[0].ID)
	assert.Equal(t, []string{"AMZN:-9990:2025-09-01:1"}, resp.DuplicateImportIDs)
}

func TestClientRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"name":"rate_limit"}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("token-1", srv.URL)
	_, err := c.CreateTransactions(context.Background(), "budget-1", []Payload{{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate_limit")
}

func TestClientRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("token-1", srv.URL)
	_, err := c.CreateTransactions(context.Background(), "budget-1", []Payload{{}})
	require.Error(t, err)
}
