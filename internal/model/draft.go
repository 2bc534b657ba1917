package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft is the in-progress quote of one editing session.
type Draft struct {
	ID                 string             `json:"id"`
	SavedQuoteID       string             `json:"saved_quote_id,omitempty"`
	Status             QuoteStatus        `json:"status"`
	Currency           Currency           `json:"currency"`
	ExchangeRate       decimal.Decimal    `json:"exchange_rate"`
	ExchangeRateDate   string             `json:"exchange_rate_date"` // YYYY-MM-DD
	ExchangeRateSource ExchangeRateSource `json:"exchange_rate_source"`
	TaxRate            decimal.Decimal    `json:"tax_rate"`
	CreatedByUserID    string             `json:"created_by_user_id"`
	CreatedByName      string             `json:"created_by_name"`
	BranchID           string             `json:"branch_id"`
	BranchName         string             `json:"branch_name"`
	Client             *Client            `json:"client"`
	Items              []QuoteLine        `json:"items"`
}

// Clone returns a deep copy; callers may mutate it freely.
func (d *Draft) Clone() Draft {
	out := *d
	out.Items = append([]QuoteLine(nil), d.Items...)
	if out.Items == nil {
		out.Items = []QuoteLine{}
	}
	if d.Client != nil {
		c := *d.Client
		out.Client = &c
	}
	return out
}

// DateOnly formats t the way exchange-rate dates are stored.
func DateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
