// Package bling contains the HTTP adapter for the Bling v3 order API: the
// paginated listing endpoints, the per-record detail endpoints and the stock
// balance endpoint. The client performs plain requests; rate governance and
// retries are the application layer's concern.
package bling

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

const (
	// purchaseStatusFilter keeps only confirmed/settled purchase orders.
	purchaseStatusFilter = "1"
	// saleStatusFilter keeps only sale orders in the fulfilled situation.
	saleStatusFilter = "9"
)

// Client implements secondary.OrderAPI against the Bling v3 REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	depositID  string
	logger     *log.Logger
}

// NewClient creates a Bling API client. depositID scopes stock balance
// queries to one warehouse.
func NewClient(creds *secondary.Credentials, depositID string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    creds.APIBaseURL,
		token:      creds.AccessToken,
		depositID:  depositID,
		logger:     logger,
	}
}

// ListOrders returns one listing page. An empty slice signals an exhausted
// listing to the collector.
func (c *Client) ListOrders(ctx context.Context, kind models.OrderKind, q secondary.ListQuery) ([]secondary.OrderListing, error) {
	params := url.Values{}
	params.Set("pagina", strconv.Itoa(q.Page))
	params.Set("limite", strconv.Itoa(q.Limit))
	params.Set("dataInicial", q.Start.String())
	params.Set("dataFinal", q.End.String())
	switch kind {
	case models.KindPurchase:
		params.Set("valorSituacao", purchaseStatusFilter)
	case models.KindSale:
		params.Set("idsSituacoes[]", saleStatusFilter)
	}

	var resp listResponse
	if err := c.get(ctx, c.listPath(kind)+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	listings := make([]secondary.OrderListing, 0, len(resp.Data))
	for _, entry := range resp.Data {
		listings = append(listings, secondary.OrderListing{ID: entry.ID})
	}
	return listings, nil
}

// GetOrder fetches and normalizes one detail record.
func (c *Client) GetOrder(ctx context.Context, kind models.OrderKind, id int64) (*models.OrderRecord, error) {
	var resp detailResponse
	path := fmt.Sprintf("%s/%d", c.listPath(kind), id)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%s %d: detail response carried no data", kind, id)
	}
	return resp.Data.toRecord()
}

// StockBalance returns the physical balance for a SKU in the configured
// deposit.
func (c *Client) StockBalance(ctx context.Context, sku string) (float64, error) {
	params := url.Values{}
	params.Set("codigos[]", sku)

	var resp balanceResponse
	path := fmt.Sprintf("/estoques/saldos/%s?%s", c.depositID, params.Encode())
	if err := c.get(ctx, path, &resp); err != nil {
		return 0, err
	}
	if len(resp.Data) == 0 {
		return 0, nil
	}
	return resp.Data[0].PhysicalTotal, nil
}

func (c *Client) listPath(kind models.OrderKind) string {
	if kind == models.KindPurchase {
		return "/pedidos/compras"
	}
	return "/pedidos/vendas"
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response %s: %w", path, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("request %s returned status %d", path, res.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response %s: %w", path, err)
	}
	return nil
}

// Ensure Client implements the interface.
var _ secondary.OrderAPI = (*Client)(nil)
