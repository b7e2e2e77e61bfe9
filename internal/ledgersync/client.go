package ledgersync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the budgeting ledger's API root.
const DefaultBaseURL = "https://api.ynab.com/v1"

const requestTimeout = 30 * time.Second

// Client is the concrete LedgerService over HTTPS. One batch submission is a
// single POST; a non-2xx response is a hard failure for the whole batch.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a ledger client with the provided API token and a
// bounded request timeout.
func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, DefaultBaseURL)
}

// NewClientWithBaseURL is NewClient against a non-default API root, used by
// tests pointed at an httptest server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		token:      token,
	}
}

type createRequest struct {
	Transactions []Payload `json:"transactions"`
}

type createResponseWire struct {
	Data struct {
		Transactions       []CreatedTransaction `json:"transactions"`
		DuplicateImportIDs []string             `json:"duplicate_import_ids"`
	} `json:"data"`
}

// CreateTransactions submits the batch to the ledger and returns its created
// and duplicate classifications.
func (c *Client) CreateTransactions(ctx context.Context, budgetID string, payloads []Payload) (*CreateResponse, error) {
	body, err := json.Marshal(createRequest{Transactions: payloads})
	if err != nil {
		return nil, fmt.Errorf("CreateTransactions: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/budgets/%s/transactions", c.baseURL, budgetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("CreateTransactions: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CreateTransactions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("CreateTransactions: ledger returned %d: %s", resp.StatusCode, snippet)
	}

	var wire createResponseWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("CreateTransactions: decode response: %w", err)
	}

	return &CreateResponse{
		Transactions:       wire.Data.Transactions,
		DuplicateImportIDs: wire.Data.DuplicateImportIDs,
	}, nil
}

var _ LedgerService = (*Client)(nil)
