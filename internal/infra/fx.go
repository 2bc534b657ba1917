package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ErrFXNotConfigured is returned when FX_API_URL is empty.
var ErrFXNotConfigured = errors.New("fx: FX_API_URL no configurado")

// FXQuote is the MXN-per-USD rate published by the rate provider.
type FXQuote struct {
	Rate decimal.Decimal `json:"rate"`
	Date string          `json:"date"`
}

// FXClient fetches the current exchange rate from an HTTP provider.
type FXClient struct {
	url        string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewFXClient(url string) *FXClient {
	return &FXClient{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cb:         NewCircuitBreaker(DefaultBreakerConfig("fx")),
	}
}

func (c *FXClient) Breaker() *CircuitBreaker { return c.cb }

// Latest returns the provider's current rate.
func (c *FXClient) Latest(ctx context.Context) (*FXQuote, error) {
	if c.url == "" {
		return nil, ErrFXNotConfigured
	}
	var q FXQuote
	err := c.cb.Execute(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return fmt.Errorf("fx: create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fx: unreachable: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fx: provider returned %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
			return fmt.Errorf("fx: decode response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !q.Rate.IsPositive() {
		return nil, fmt.Errorf("fx: provider returned non-positive rate %s", q.Rate)
	}
	return &q, nil
}
