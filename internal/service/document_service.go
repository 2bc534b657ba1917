package service

// document_service.go
// Artifacts produced after a quote changes state: the client-facing PDF sent by
// email, and the GENERIC_TXT file picked up by the ERP importer. Both run from
// the worker pool, never on the request path.

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cotizador/internal/infra"
	"cotizador/internal/model"
	"cotizador/internal/repository"

	"github.com/rs/zerolog/log"
)

// QuoteMailer delivers a quote PDF. *infra.Mailer implements it.
type QuoteMailer interface {
	Configured() bool
	SendQuote(to, subject, body, pdfPath string) error
}

type DocumentService interface {
	SendQuoteEmail(ctx context.Context, quoteID string) error
	ExportOrder(ctx context.Context, quoteID string) (string, error)
}

type documentService struct {
	quotes     repository.QuoteRepository
	mailer     QuoteMailer
	pdfPath    string
	exportPath string
}

func NewDocumentService(quotes repository.QuoteRepository, mailer QuoteMailer, pdfPath, exportPath string) DocumentService {
	return &documentService{quotes: quotes, mailer: mailer, pdfPath: pdfPath, exportPath: exportPath}
}

func (s *documentService) load(ctx context.Context, quoteID string) (*model.SavedQuote, error) {
	q, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, quoteID)
	}
	return q, nil
}

// SendQuoteEmail renders the quote PDF and mails it to the client. Quotes
// without a client email, and deployments without SMTP, are skipped.
func (s *documentService) SendQuoteEmail(ctx context.Context, quoteID string) error {
	q, err := s.load(ctx, quoteID)
	if err != nil {
		return err
	}
	if q.Client == nil || strings.TrimSpace(q.Client.Email) == "" {
		log.Warn().Str("quote_id", quoteID).Msg("quote has no client email, skipping")
		return nil
	}
	if s.mailer == nil || !s.mailer.Configured() {
		log.Warn().Str("quote_id", quoteID).Msg("smtp not configured, skipping quote email")
		return nil
	}

	pdfPath, err := infra.GenerateQuotePDF(q, s.pdfPath)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Cotización %s", q.QuoteNumber())
	body := fmt.Sprintf("Hola %s,\n\nAdjuntamos la cotización %s por un total de $%s %s.\n\n%s",
		q.Client.FullName(), q.QuoteNumber(), q.Total.StringFixed(2), q.Currency, q.BranchName)
	if err := s.mailer.SendQuote(q.Client.Email, subject, body, pdfPath); err != nil {
		return fmt.Errorf("send quote %s: %w", quoteID, err)
	}
	log.Info().Str("quote_id", quoteID).Str("to", q.Client.Email).Msg("quote email sent")
	return nil
}

// ExportOrder writes the GENERIC_TXT export of the quote and returns its path.
// The layout is pipe separated: one H record followed by one D record per line.
func (s *documentService) ExportOrder(ctx context.Context, quoteID string) (string, error) {
	q, err := s.load(ctx, quoteID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}
	path := filepath.Join(s.exportPath, q.QuoteID+".txt")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create file: %w", err)
	}
	defer f.Close()

	if err := writeGenericTXT(f, q); err != nil {
		return "", fmt.Errorf("export %s: %w", quoteID, err)
	}
	log.Info().Str("quote_id", quoteID).Str("path", path).Msg("erp export written")
	return path, nil
}

func writeGenericTXT(f *os.File, q *model.SavedQuote) error {
	w := csv.NewWriter(f)
	w.Comma = '|'

	var clientName, rfc string
	if q.Client != nil {
		clientName = q.Client.CompanyName
		if clientName == "" {
			clientName = q.Client.FullName()
		}
		rfc = q.Client.RFC
	}
	header := []string{
		"H", q.QuoteNumber(), q.CreatedAt.Format("20060102"), q.BranchID,
		q.CreatedByUserID, rfc, clientName, string(q.Currency),
		q.ExchangeRate.StringFixed(4), q.Subtotal.StringFixed(2), q.Tax.StringFixed(2), q.Total.StringFixed(2),
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, line := range q.Items {
		code := line.CatalogCode
		if code == "" {
			code = line.CatalogID
		}
		record := []string{
			"D", strconv.Itoa(i + 1), code, line.CatalogID, strconv.Itoa(line.Quantity),
			line.UnitOfMeasure, line.UnitPrice.StringFixed(2), line.LineSubtotal.StringFixed(2),
			line.DeliveryTimeLabel, oneLine(line.Description),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
