package dto

import (
	"cotizador/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SetCurrencyRequest struct {
	Currency string `json:"currency" validate:"required,oneof=MXN USD"`
}

// SetExchangeRateRequest: non-positive rates are accepted and replaced by the
// configured default.
type SetExchangeRateRequest struct {
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// SetClientRequest attaches a registered client; an empty id detaches it.
type SetClientRequest struct {
	ClientID string `json:"client_id"`
}

// AddLineRequest carries the catalog item picked from a search result.
type AddLineRequest struct {
	Code         string          `json:"code"          validate:"required"`
	EAN          string          `json:"ean"           validate:"required"`
	Description  string          `json:"description"   validate:"required"`
	Unit         string          `json:"unit"`
	CostAmount   decimal.Decimal `json:"cost_amount"   validate:"min=0"`
	CostCurrency string          `json:"cost_currency" validate:"omitempty,oneof=MXN USD"`
	Stock        int             `json:"stock"`
}

// UpdateLineRequest edits one line. Only the fields present are applied, in
// the order quantity, margin, unit price, delivery time.
type UpdateLineRequest struct {
	Quantity      *float64         `json:"quantity"`
	MarginPercent *decimal.Decimal `json:"margin_percent"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	DeliveryTime  *string          `json:"delivery_time" validate:"omitempty,min=1,max=40"`
}

// ExtractionRequest is the payload produced by the document extraction service.
type ExtractionRequest struct {
	Items []model.ExtractedItem `json:"items" validate:"required"`
}

type SaveDraftRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT PENDING QUOTED"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DraftResponse struct {
	ID                 string            `json:"id"`
	SavedQuoteID       string            `json:"saved_quote_id,omitempty"`
	Status             model.QuoteStatus `json:"status"`
	Currency           model.Currency    `json:"currency"`
	ExchangeRate       decimal.Decimal   `json:"exchange_rate"`
	ExchangeRateDate   string            `json:"exchange_rate_date"`
	ExchangeRateSource string            `json:"exchange_rate_source"`
	TaxRate            decimal.Decimal   `json:"tax_rate"`
	CreatedByUserID    string            `json:"created_by_user_id"`
	CreatedByName      string            `json:"created_by_name"`
	BranchID           string            `json:"branch_id"`
	BranchName         string            `json:"branch_name"`
	Client             *model.Client     `json:"client"`
	Items              []model.QuoteLine `json:"items"`
	Subtotal           decimal.Decimal   `json:"subtotal"`
	Tax                decimal.Decimal   `json:"tax"`
	Total              decimal.Decimal   `json:"total"`
	DeliveryOptions    []string          `json:"delivery_options"`
}

type SaveDraftResponse struct {
	QuoteID     string `json:"quote_id"`
	QuoteNumber string `json:"quote_number"`
}
