package dto

import (
	"cotizador/internal/model"

	"github.com/shopspring/decimal"
)

// QuoteFilter is bound from the query string of GET /v1/quotes.
type QuoteFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=10" validate:"min=1,max=100"`
}

// QuoteListItem is one row of the quotes list.
type QuoteListItem struct {
	QuoteID        string            `json:"quote_id"`
	QuoteNumber    string            `json:"quote_number"`
	Status         model.QuoteStatus `json:"status"`
	ERPExportState model.ExportState `json:"erp_export_state"`
	ClientName     string            `json:"client_name"`
	CompanyName    string            `json:"company_name"`
	CreatedByName  string            `json:"created_by_name"`
	Currency       model.Currency    `json:"currency"`
	Total          decimal.Decimal   `json:"total"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
	AllowedActions []string          `json:"allowed_actions"`
}

type QuoteListResponse struct {
	Data  []QuoteListItem `json:"data"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type QuoteResponse struct {
	model.SavedQuote
	QuoteNumber    string   `json:"quote_number"`
	AllowedActions []string `json:"allowed_actions"`
}

// UpdateStatusRequest drives the status machine; only forward moves are offered.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=QUOTED CANCELLED"`
}

type ActionResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type OrderRequestResponse struct {
	QuoteID     string `json:"quote_id"`
	RequestedAt string `json:"requested_at"`
}
