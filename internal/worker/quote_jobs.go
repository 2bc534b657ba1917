package worker

// quote_jobs.go
// Handlers for the jobs raised by the quote gateway: mailing a QUOTED quote to
// its client and writing the ERP export of an ordered quote.

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// QuoteEmailSender renders and mails a quote. service.DocumentService implements it.
type QuoteEmailSender interface {
	SendQuoteEmail(ctx context.Context, quoteID string) error
}

// OrderExporter writes the ERP export of a quote. service.DocumentService implements it.
type OrderExporter interface {
	ExportOrder(ctx context.Context, quoteID string) (string, error)
}

// QuoteEmailWorker processes jobs from QueueQuoteEmail.
type QuoteEmailWorker struct {
	sender QuoteEmailSender
}

func NewQuoteEmailWorker(sender QuoteEmailSender) *QuoteEmailWorker {
	return &QuoteEmailWorker{sender: sender}
}

func (w *QuoteEmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	quoteID, err := decodeQuotePayload(raw)
	if err != nil {
		return err
	}
	return w.sender.SendQuoteEmail(ctx, quoteID)
}

// ERPExportWorker processes jobs from QueueERPExport.
type ERPExportWorker struct {
	exporter OrderExporter
}

func NewERPExportWorker(exporter OrderExporter) *ERPExportWorker {
	return &ERPExportWorker{exporter: exporter}
}

func (w *ERPExportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	quoteID, err := decodeQuotePayload(raw)
	if err != nil {
		return err
	}
	path, err := w.exporter.ExportOrder(ctx, quoteID)
	if err != nil {
		return err
	}
	log.Info().Str("quote_id", quoteID).Str("path", path).Msg("erp_export: file ready for import")
	return nil
}

// Register wires both workers into p.
func Register(p *Pool, email *QuoteEmailWorker, export *ERPExportWorker) {
	p.Handle(QueueQuoteEmail, JobQuoteEmail, email.Process)
	p.Handle(QueueERPExport, JobERPExport, export.Process)
}
