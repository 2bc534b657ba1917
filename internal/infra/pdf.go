package infra

// pdf.go: printable quote generated with go-pdf/fpdf.
// Letter-size page with:
//   - Header with quote number, branch and seller
//   - Client block
//   - Line table (description, unit, qty, delivery, unit price, subtotal)
//   - Subtotal / IVA / total in the quote currency
//
// The output file is saved to storagePath/{quote_id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"cotizador/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateQuotePDF renders q and returns the path of the written file.
func GenerateQuotePDF(q *model.SavedQuote, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, q.QuoteID+".pdf")

	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, tr("Cotización "+q.QuoteID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Fecha: %s   Sucursal: %s   Vendedor: %s",
		q.CreatedAt.Format("02/01/2006"), q.BranchName, q.CreatedByName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Moneda: %s   Tipo de cambio: %s", q.Currency, q.ExchangeRate.StringFixed(4))), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Client ───────────────────────────────────────────────────────────────
	if q.Client != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Cliente", "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW, 5, tr(q.Client.FullName()+" - "+q.Client.CompanyName), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("RFC: %s   Correo: %s   WhatsApp: %s", q.Client.RFC, q.Client.Email, q.Client.WhatsappPhone)), "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}

	// ── Lines ────────────────────────────────────────────────────────────────
	widths := []float64{contentW * 0.40, contentW * 0.08, contentW * 0.08, contentW * 0.14, contentW * 0.15, contentW * 0.15}
	headers := []string{"Descripción", "UM", "Cant", "Entrega", "P. Unitario", "Importe"}
	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range headers {
		align := "L"
		if i >= 4 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 6, tr(h), "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, line := range q.Items {
		desc := line.Description
		if len([]rune(desc)) > 48 {
			desc = string([]rune(desc)[:47]) + "…"
		}
		pdf.CellFormat(widths[0], 5, tr(desc), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 5, tr(line.UnitOfMeasure), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 5, fmt.Sprintf("%d", line.Quantity), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 5, tr(line.DeliveryTimeLabel), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 5, money(line.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 5, money(line.LineSubtotal), "", 1, "R", false, 0, "")
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(2)
	labelW := contentW - widths[5]
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 5, "Subtotal:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 5, money(q.Subtotal), "T", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 5, fmt.Sprintf("IVA (%s%%):", q.TaxRate.Mul(decimal.NewFromInt(100)).String()), "", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 5, money(q.Tax), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelW, 6, "Total "+string(q.Currency)+":", "", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 6, money(q.Total), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
