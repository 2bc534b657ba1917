package model

import "github.com/shopspring/decimal"

// CatalogItem is one ERP product as returned by a catalog search.
type CatalogItem struct {
	Code         string          `json:"code"`
	EAN          string          `json:"ean"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	CostAmount   decimal.Decimal `json:"cost_amount"`
	CostCurrency Currency        `json:"cost_currency"`
	Stock        int             `json:"stock"`
}

// ExtractedItem is one line produced by the document/text extraction service.
type ExtractedItem struct {
	DescriptionOriginal   string   `json:"description_original"`
	DescriptionNormalized string   `json:"description_normalizada"`
	Quantity              *float64 `json:"cantidad"`
	UnitOriginal          *string  `json:"unidad_original"`
	UnitNormalized        *string  `json:"unidad_normalizada"`
	Language              string   `json:"idioma"`
	RequiresReview        bool     `json:"requiere_revision"`
}
