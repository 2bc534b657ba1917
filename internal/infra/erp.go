package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrERPNotConfigured is returned when no ERP base URL was configured.
var ErrERPNotConfigured = errors.New("erp: ERP_API_URL no configurado")

// ERPProductRow is one raw row of the ERP by-ean endpoint. The ERP is loose
// about types (numbers may come as strings), so every field is decoded as-is
// and normalized by the catalog service.
type ERPProductRow struct {
	ID          any `json:"id"`
	Code        any `json:"code"`
	EAN         any `json:"ean"`
	Description any `json:"description"`
	Stock       any `json:"stock"`
	Unit        any `json:"unit"`
	Currency    any `json:"currency"`
	AverageCost any `json:"averageCost"`
	LastCost    any `json:"lastCost"`
}

// ERPClient queries the ERP product catalog over HTTP.
type ERPClient struct {
	baseURL      string
	productsPath string
	httpClient   *http.Client
	cb           *CircuitBreaker
}

func NewERPClient(baseURL, productsPath string) *ERPClient {
	if productsPath != "" && !strings.HasPrefix(productsPath, "/") {
		productsPath = "/" + productsPath
	}
	return &ERPClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		productsPath: productsPath,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		cb:           NewCircuitBreaker(DefaultBreakerConfig("erp")),
	}
}

// Breaker exposes the client's circuit breaker for health reporting.
func (c *ERPClient) Breaker() *CircuitBreaker { return c.cb }

// ProductsByEAN fetches the rows matching ean at branch.
// A non-array payload yields no rows rather than an error.
func (c *ERPClient) ProductsByEAN(ctx context.Context, ean, branchID string) ([]ERPProductRow, error) {
	if c.baseURL == "" {
		return nil, ErrERPNotConfigured
	}
	endpoint := fmt.Sprintf("%s%s/by-ean/%s/branch/%s",
		c.baseURL, c.productsPath, url.PathEscape(ean), url.PathEscape(branchID))

	var raw json.RawMessage
	err := c.cb.Execute(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("erp: create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("erp: unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("erp: returned %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return fmt.Errorf("erp: decode response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var rows []ERPProductRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, nil
	}
	return rows, nil
}
