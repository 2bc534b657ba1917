package model

import "github.com/shopspring/decimal"

// DeliveryImmediate is the only delivery label allowed for lines with stock.
const DeliveryImmediate = "Immediate"

// QuoteLine is one priced item inside a draft or a saved quote.
// UnitPrice, LineSubtotal and RequiresReview are derived by the pricer and are
// never the source of truth; MarginPercent is.
type QuoteLine struct {
	ID                   string          `json:"id"`
	CatalogCode          string          `json:"catalog_code"`
	CatalogID            string          `json:"catalog_id"`
	Description          string          `json:"description"`
	CustomerDescription  string          `json:"customer_description,omitempty"`
	CustomerUnit         string          `json:"customer_unit,omitempty"`
	UnitOfMeasure        string          `json:"unit_of_measure"`
	Quantity             int             `json:"quantity"`
	StockAvailable       int             `json:"stock_available"`
	DeliveryTimeLabel    string          `json:"delivery_time_label"`
	CostAmount           decimal.Decimal `json:"cost_amount"`
	CostCurrency         Currency        `json:"cost_currency"`
	MarginPercent        decimal.Decimal `json:"margin_percent"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	LineSubtotal         decimal.Decimal `json:"line_subtotal"`
	SourceRequiresReview bool            `json:"source_requires_review,omitempty"`
	RequiresReview       bool            `json:"requires_review"`
}
