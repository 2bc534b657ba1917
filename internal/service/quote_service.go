package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cotizador/internal/model"
	"cotizador/internal/pricing"
	"cotizador/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// JobQueue receives the async work triggered by quote lifecycle events.
// worker.Dispatcher implements it.
type JobQueue interface {
	EnqueueQuoteEmail(ctx context.Context, quoteID string) error
	EnqueueERPExport(ctx context.Context, quoteID string) error
}

// ActionResult is the outcome of a status action. A refused action is not an
// error: Message explains it to the seller.
type ActionResult struct {
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
	NotFound bool   `json:"-"`
}

func notFound() ActionResult { return ActionResult{Message: msgQuoteNotFound, NotFound: true} }

// QuotePage is one page of the saved-quotes collection, most recent first.
type QuotePage struct {
	Items    []model.SavedQuote
	Total    int
	Page     int
	PageSize int
}

const defaultPageSize = 10

type QuoteService interface {
	Save(ctx context.Context, draft *DraftService, status model.QuoteStatus) (string, error)
	GetByID(ctx context.Context, quoteID string) (*model.SavedQuote, error)
	List(ctx context.Context, page, pageSize int) (*QuotePage, error)
	UpdateStatus(ctx context.Context, quoteID string, status model.QuoteStatus) (bool, error)
	MarkQuoted(ctx context.Context, quoteID string) (ActionResult, error)
	Cancel(ctx context.Context, quoteID string) (ActionResult, error)
	GenerateOrder(ctx context.Context, quoteID string) (ActionResult, error)
	LoadForEdit(ctx context.Context, quoteID string) (*model.Draft, error)
	OrderRequests(ctx context.Context) ([]model.OrderRequest, error)
}

type quoteService struct {
	quotes repository.QuoteRepository
	orders repository.OrderRequestRepository
	jobs   JobQueue
	now    func() time.Time

	// defaultRate replaces a missing rate on quotes loaded for edit.
	defaultRate decimal.Decimal
}

// NewQuoteService wires the gateway. jobs may be nil, in which case no async
// work is scheduled.
func NewQuoteService(quotes repository.QuoteRepository, orders repository.OrderRequestRepository, jobs JobQueue, settings DraftSettings) QuoteService {
	rate := settings.DefaultExchangeRate
	if !rate.IsPositive() {
		rate = DefaultDraftSettings().DefaultExchangeRate
	}
	return &quoteService{quotes: quotes, orders: orders, jobs: jobs, now: time.Now, defaultRate: rate}
}

// ValidateForSave reports why draft cannot be saved yet, or nil.
func ValidateForSave(draft *model.Draft) error {
	if draft.Client == nil {
		return validationf("Selecciona un cliente antes de guardar la cotización.")
	}
	if len(draft.Items) == 0 {
		return validationf("Agrega al menos una partida antes de guardar la cotización.")
	}
	return nil
}

// ── Save ──────────────────────────────────────────────────────────────────────

func (s *quoteService) Save(ctx context.Context, draft *DraftService, status model.QuoteStatus) (string, error) {
	if !status.Valid() {
		return "", validationf("Estado de cotización inválido.")
	}
	snapshot, totals := draft.SnapshotWithTotals()
	if err := ValidateForSave(&snapshot); err != nil {
		return "", err
	}

	quotes, err := s.quotes.List(ctx)
	if err != nil {
		return "", fmt.Errorf("load saved quotes: %w", err)
	}

	// An unknown saved id (e.g. the quote was removed meanwhile) saves as new.
	now := s.now().UTC()
	quoteID := snapshot.SavedQuoteID
	createdAt := now
	found := false
	rest := make([]model.SavedQuote, 0, len(quotes)+1)
	for _, q := range quotes {
		if quoteID != "" && q.QuoteID == quoteID {
			createdAt = q.CreatedAt
			found = true
			continue
		}
		rest = append(rest, q)
	}
	if !found {
		quoteID = mintQuoteID(now, quotes)
	}

	record := freeze(&snapshot, totals)
	record.QuoteID = quoteID
	record.Status = status
	record.CreatedAt = createdAt
	record.UpdatedAt = now

	if err := s.quotes.ReplaceAll(ctx, append([]model.SavedQuote{record}, rest...)); err != nil {
		return "", fmt.Errorf("persist quote %s: %w", quoteID, err)
	}
	draft.Clear()

	log.Info().Str("quote_id", quoteID).Str("status", string(status)).
		Str("total", totals.Total.StringFixed(2)).Msg("quote saved")

	if status == model.StatusQuoted {
		s.enqueueEmail(ctx, &record)
	}
	return quoteID, nil
}

func freeze(d *model.Draft, totals pricing.Totals) model.SavedQuote {
	return model.SavedQuote{
		DraftID:         d.ID,
		ExportProfile:   model.ExportProfileGenericTXT,
		ERPExportState:  model.ExportPending,
		CreatedByUserID: d.CreatedByUserID,
		CreatedByName:   d.CreatedByName,
		BranchID:        d.BranchID,
		BranchName:      d.BranchName,
		Currency:        d.Currency,
		ExchangeRate:    d.ExchangeRate,
		TaxRate:         d.TaxRate,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		Client:          d.Client,
		Items:           d.Items,
	}
}

// mintQuoteID derives the id from the save instant, stepping forward one
// millisecond at a time until it does not collide with an existing quote.
func mintQuoteID(now time.Time, existing []model.SavedQuote) string {
	taken := make(map[string]struct{}, len(existing))
	for i := range existing {
		taken[existing[i].QuoteID] = struct{}{}
	}
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("%s%d", model.QuoteIDPrefix, ms)
		if _, dup := taken[id]; !dup {
			return id
		}
		ms++
	}
}

// ── Queries ───────────────────────────────────────────────────────────────────

// GetByID returns nil when the quote does not exist.
func (s *quoteService) GetByID(ctx context.Context, quoteID string) (*model.SavedQuote, error) {
	return s.quotes.FindByID(ctx, strings.TrimSpace(quoteID))
}

func (s *quoteService) List(ctx context.Context, page, pageSize int) (*QuotePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	quotes, err := s.quotes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load saved quotes: %w", err)
	}
	out := &QuotePage{Items: []model.SavedQuote{}, Total: len(quotes), Page: page, PageSize: pageSize}
	start := (page - 1) * pageSize
	if start >= len(quotes) {
		return out, nil
	}
	end := start + pageSize
	if end > len(quotes) {
		end = len(quotes)
	}
	out.Items = quotes[start:end]
	return out, nil
}

func (s *quoteService) OrderRequests(ctx context.Context) ([]model.OrderRequest, error) {
	return s.orders.List(ctx)
}

// ── Status ────────────────────────────────────────────────────────────────────

// UpdateStatus rewrites status and updatedAt without consulting the status
// machine. It returns false, leaving the collection untouched, when the quote
// does not exist.
func (s *quoteService) UpdateStatus(ctx context.Context, quoteID string, status model.QuoteStatus) (bool, error) {
	if !status.Valid() {
		return false, validationf("Estado de cotización inválido.")
	}
	found, err := s.mutate(ctx, quoteID, func(q *model.SavedQuote) {
		q.Status = status
	})
	return found, err
}

func (s *quoteService) MarkQuoted(ctx context.Context, quoteID string) (ActionResult, error) {
	return s.transition(ctx, quoteID, ActionMarkQuoted, model.StatusQuoted, msgMarkedQuoted)
}

func (s *quoteService) Cancel(ctx context.Context, quoteID string) (ActionResult, error) {
	return s.transition(ctx, quoteID, ActionCancel, model.StatusCancelled, msgCancelled)
}

func (s *quoteService) transition(ctx context.Context, quoteID string, action QuoteAction, to model.QuoteStatus, okMsg string) (ActionResult, error) {
	current, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return ActionResult{}, err
	}
	if current == nil {
		return notFound(), nil
	}
	if err := Check(current.Status, action); err != nil {
		return ActionResult{Message: err.Error()}, nil
	}
	found, err := s.UpdateStatus(ctx, quoteID, to)
	if err != nil {
		return ActionResult{}, err
	}
	if !found {
		return notFound(), nil
	}
	log.Info().Str("quote_id", quoteID).Str("status", string(to)).Msg("quote status changed")
	if to == model.StatusQuoted {
		current.Status = to
		s.enqueueEmail(ctx, current)
	}
	return ActionResult{OK: true, Message: okMsg}, nil
}

// GenerateOrder hands a QUOTED quote to the ERP: the export state flips to
// EXPORTED and an entry is prepended to the order log. The status stays QUOTED.
func (s *quoteService) GenerateOrder(ctx context.Context, quoteID string) (ActionResult, error) {
	current, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return ActionResult{}, err
	}
	if current == nil {
		return notFound(), nil
	}
	if err := Check(current.Status, ActionGenerateOrder); err != nil {
		return ActionResult{Message: err.Error()}, nil
	}

	found, err := s.mutate(ctx, quoteID, func(q *model.SavedQuote) {
		q.ERPExportState = model.ExportExported
	})
	if err != nil {
		return ActionResult{}, err
	}
	if !found {
		return notFound(), nil
	}
	if err := s.orders.Append(ctx, model.OrderRequest{QuoteID: quoteID, RequestedAt: s.now().UTC()}); err != nil {
		return ActionResult{}, fmt.Errorf("append order request %s: %w", quoteID, err)
	}
	log.Info().Str("quote_id", quoteID).Msg("order generated")

	if s.jobs != nil {
		if err := s.jobs.EnqueueERPExport(ctx, quoteID); err != nil {
			log.Warn().Err(err).Str("quote_id", quoteID).Msg("failed to enqueue erp export")
		}
	}
	return ActionResult{OK: true, Message: msgOrderGenerated}, nil
}

// mutate applies fn to the stored quote in place, stamping updatedAt. The
// quote keeps its position in the collection.
func (s *quoteService) mutate(ctx context.Context, quoteID string, fn func(*model.SavedQuote)) (bool, error) {
	quotes, err := s.quotes.List(ctx)
	if err != nil {
		return false, fmt.Errorf("load saved quotes: %w", err)
	}
	for i := range quotes {
		if quotes[i].QuoteID != quoteID {
			continue
		}
		fn(&quotes[i])
		quotes[i].UpdatedAt = s.now().UTC()
		if err := s.quotes.ReplaceAll(ctx, quotes); err != nil {
			return false, fmt.Errorf("persist quote %s: %w", quoteID, err)
		}
		return true, nil
	}
	return false, nil
}

func (s *quoteService) enqueueEmail(ctx context.Context, q *model.SavedQuote) {
	if s.jobs == nil || q.Client == nil || strings.TrimSpace(q.Client.Email) == "" {
		return
	}
	if err := s.jobs.EnqueueQuoteEmail(ctx, q.QuoteID); err != nil {
		log.Warn().Err(err).Str("quote_id", q.QuoteID).Msg("failed to enqueue quote email")
	}
}

// ── LoadForEdit ───────────────────────────────────────────────────────────────

// LoadForEdit rebuilds an editable draft from a saved quote. Lines are re-priced
// against the quote's own currency and rate; the rate is re-dated to today as a
// manual entry. It returns nil when the quote does not exist.
func (s *quoteService) LoadForEdit(ctx context.Context, quoteID string) (*model.Draft, error) {
	q, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil || q == nil {
		return nil, err
	}

	currency := q.Currency
	if !currency.Valid() {
		currency = model.CurrencyMXN
	}
	draftID := q.DraftID
	if draftID == "" {
		draftID = uuid.NewString()
	}
	rate := q.ExchangeRate
	if !rate.IsPositive() {
		rate = s.defaultRate
	}
	d := &model.Draft{
		ID:                 draftID,
		SavedQuoteID:       q.QuoteID,
		Status:             q.Status,
		Currency:           currency,
		ExchangeRate:       rate,
		ExchangeRateDate:   model.DateOnly(s.now()),
		ExchangeRateSource: model.RateSourceManual,
		TaxRate:            q.TaxRate,
		CreatedByUserID:    q.CreatedByUserID,
		CreatedByName:      q.CreatedByName,
		BranchID:           q.BranchID,
		BranchName:         q.BranchName,
		Items:              make([]model.QuoteLine, 0, len(q.Items)),
	}
	if q.Client != nil {
		c := *q.Client
		d.Client = &c
	}
	for _, line := range q.Items {
		if line.CatalogID == "" {
			line.CatalogID = line.CatalogCode
		}
		if !line.CostCurrency.Valid() {
			line.CostCurrency = model.CurrencyUSD
		}
		if line.Quantity < 0 {
			line.Quantity = 0
		}
		pricing.Apply(&line, d.Currency, d.ExchangeRate)
		d.Items = append(d.Items, line)
	}
	return d, nil
}
