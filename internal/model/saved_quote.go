package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteIDPrefix prefixes every persisted quote identifier.
const QuoteIDPrefix = "COT-"

// SavedQuote is the frozen snapshot of a draft written by the quote gateway.
// Subtotal, Tax and Total are computed at save time and never recomputed on read.
type SavedQuote struct {
	QuoteID         string          `json:"quote_id"`
	DraftID         string          `json:"draft_id"`
	Status          QuoteStatus     `json:"status"`
	ExportProfile   string          `json:"export_profile"`
	ERPExportState  ExportState     `json:"erp_export_state"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CreatedByUserID string          `json:"created_by_user_id"`
	CreatedByName   string          `json:"created_by_name"`
	BranchID        string          `json:"branch_id"`
	BranchName      string          `json:"branch_name"`
	Currency        Currency        `json:"currency"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Client          *Client         `json:"client"`
	Items           []QuoteLine     `json:"items"`
}

// QuoteNumber is the identifier without its COT- prefix, as shown on lists.
func (q *SavedQuote) QuoteNumber() string {
	return strings.TrimPrefix(q.QuoteID, QuoteIDPrefix)
}

// OrderRequest is one entry of the append-only ERP order log.
type OrderRequest struct {
	QuoteID     string    `json:"quote_id"`
	RequestedAt time.Time `json:"requested_at"`
}
