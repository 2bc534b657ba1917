package service

import (
	"strings"
	"sync"
	"time"

	"cotizador/internal/model"
	"cotizador/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftSettings are the business defaults a new draft starts from.
type DraftSettings struct {
	DefaultExchangeRate decimal.Decimal
	DefaultTaxRate      decimal.Decimal
	DefaultMarginPct    decimal.Decimal
	Delivery            pricing.DeliveryPolicy
}

// DefaultDraftSettings returns the values used when configuration is silent.
func DefaultDraftSettings() DraftSettings {
	return DraftSettings{
		DefaultExchangeRate: decimal.RequireFromString("17.25"),
		DefaultTaxRate:      decimal.RequireFromString("0.16"),
		DefaultMarginPct:    pricing.DefaultMarginPct,
		Delivery:            pricing.DefaultDeliveryPolicy(),
	}
}

// DraftService owns the draft of one editing session. Every mutation re-derives
// the affected line prices before returning, so readers never observe stale
// derived values. Methods are safe for concurrent use.
type DraftService struct {
	mu       sync.Mutex
	settings DraftSettings
	now      func() time.Time
	draft    model.Draft
}

func NewDraftService(settings DraftSettings) *DraftService {
	if !settings.DefaultExchangeRate.IsPositive() {
		settings.DefaultExchangeRate = DefaultDraftSettings().DefaultExchangeRate
	}
	s := &DraftService{settings: settings, now: time.Now}
	s.draft = s.fresh(model.Actor{})
	return s
}

func (s *DraftService) fresh(actor model.Actor) model.Draft {
	userID, name := attribution(actor)
	return model.Draft{
		ID:                 uuid.NewString(),
		Status:             model.StatusDraft,
		Currency:           model.CurrencyMXN,
		ExchangeRate:       s.settings.DefaultExchangeRate,
		ExchangeRateDate:   model.DateOnly(s.now()),
		ExchangeRateSource: model.RateSourceManual,
		TaxRate:            s.settings.DefaultTaxRate,
		CreatedByUserID:    userID,
		CreatedByName:      name,
		BranchID:           actor.BranchID,
		BranchName:         actor.BranchName,
		Items:              []model.QuoteLine{},
	}
}

func attribution(actor model.Actor) (string, string) {
	userID := strings.TrimSpace(actor.UserID)
	if userID == "" {
		userID = model.SystemUserID
	}
	name := strings.TrimSpace(actor.DisplayName)
	if name == "" {
		name = model.SystemUserName
	}
	return userID, name
}

// Initialize stamps the acting seller on the draft. Calling it again with the
// same actor leaves the draft unchanged.
func (s *DraftService) Initialize(actor model.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.CreatedByUserID, s.draft.CreatedByName = attribution(actor)
	s.draft.BranchID = actor.BranchID
	s.draft.BranchName = actor.BranchName
}

// Snapshot returns a copy of the current draft.
func (s *DraftService) Snapshot() model.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// SnapshotWithTotals returns the draft and its totals read under one lock.
func (s *DraftService) SnapshotWithTotals() (model.Draft, pricing.Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone(), pricing.Summarize(s.draft.Items, s.draft.TaxRate)
}

// Replace swaps the whole draft, e.g. with one rehydrated from a saved quote.
// Derived line values are recomputed against the new draft's currency and rate.
func (s *DraftService) Replace(d model.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d.Clone()
	if !s.draft.ExchangeRate.IsPositive() {
		s.draft.ExchangeRate = s.settings.DefaultExchangeRate
	}
	s.repriceAll()
}

// Clear starts a fresh draft, keeping who is working on it.
func (s *DraftService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = s.fresh(model.Actor{
		UserID:      s.draft.CreatedByUserID,
		DisplayName: s.draft.CreatedByName,
		BranchID:    s.draft.BranchID,
		BranchName:  s.draft.BranchName,
	})
}

// SetCurrency switches the quote currency and re-prices every line.
func (s *DraftService) SetCurrency(c model.Currency) error {
	if !c.Valid() {
		return validationf("Moneda no soportada.")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Currency = c
	s.repriceAll()
	return nil
}

// SetExchangeRate records a manually entered rate dated today. A non-positive
// rate falls back to the configured default.
func (s *DraftService) SetExchangeRate(rate decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRate(rate, model.DateOnly(s.now()), model.RateSourceManual)
}

// ApplyProvidedRate records a rate fetched from the exchange-rate provider.
func (s *DraftService) ApplyProvidedRate(rate decimal.Decimal, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(date) == "" {
		date = model.DateOnly(s.now())
	}
	s.setRate(rate, date, model.RateSourceAPI)
}

func (s *DraftService) setRate(rate decimal.Decimal, date string, source model.ExchangeRateSource) {
	if !rate.IsPositive() {
		rate = s.settings.DefaultExchangeRate
	}
	s.draft.ExchangeRate = rate
	s.draft.ExchangeRateDate = date
	s.draft.ExchangeRateSource = source
	s.repriceAll()
}

// AddLine appends a catalog item as a new line with quantity 1 and the default
// margin, and returns the priced line.
func (s *DraftService) AddLine(item model.CatalogItem) model.QuoteLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	costCurrency := item.CostCurrency
	if !costCurrency.Valid() {
		costCurrency = model.CurrencyUSD
	}
	stock := item.Stock
	if stock < 0 {
		stock = 0
	}
	line := model.QuoteLine{
		ID:             uuid.NewString(),
		CatalogCode:    item.Code,
		CatalogID:      item.EAN,
		Description:    item.Description,
		UnitOfMeasure:  item.Unit,
		Quantity:       1,
		StockAvailable: stock,
		CostAmount:     item.CostAmount,
		CostCurrency:   costCurrency,
		MarginPercent:  s.settings.DefaultMarginPct,
	}
	cost := pricing.CostIn(&line, s.draft.Currency, s.draft.ExchangeRate)
	line.DeliveryTimeLabel = s.settings.Delivery.Suggest(stock, cost)
	pricing.Apply(&line, s.draft.Currency, s.draft.ExchangeRate)

	s.draft.Items = append(s.draft.Items, line)
	return line
}

// SetItemsFromExtraction replaces all lines with the items read from a
// customer document. The lines carry no cost or margin yet; the seller matches
// them against the catalog afterwards.
func (s *DraftService) SetItemsFromExtraction(items []model.ExtractedItem) []model.QuoteLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]model.QuoteLine, 0, len(items))
	for _, it := range items {
		qty := 0
		if it.Quantity != nil {
			qty = pricing.ClampQuantity(*it.Quantity)
		}
		unit := firstNonBlank(it.UnitNormalized, it.UnitOriginal)
		description := strings.TrimSpace(it.DescriptionNormalized)
		if description == "" {
			description = strings.TrimSpace(it.DescriptionOriginal)
		}
		line := model.QuoteLine{
			ID:                   uuid.NewString(),
			Description:          description,
			CustomerDescription:  it.DescriptionOriginal,
			UnitOfMeasure:        unit,
			Quantity:             qty,
			DeliveryTimeLabel:    pricing.DeliveryShort,
			CostAmount:           decimal.Zero,
			CostCurrency:         s.draft.Currency,
			MarginPercent:        decimal.Zero,
			SourceRequiresReview: it.RequiresReview,
		}
		if it.UnitOriginal != nil {
			line.CustomerUnit = *it.UnitOriginal
		}
		pricing.Apply(&line, s.draft.Currency, s.draft.ExchangeRate)
		lines = append(lines, line)
	}
	s.draft.Items = lines
	return append([]model.QuoteLine(nil), lines...)
}

func firstNonBlank(values ...*string) string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return strings.TrimSpace(*v)
		}
	}
	return ""
}

// RemoveLine drops the line with lineID. Unknown ids are a no-op.
func (s *DraftService) RemoveLine(lineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.draft.Items {
		if s.draft.Items[i].ID == lineID {
			s.draft.Items = append(s.draft.Items[:i], s.draft.Items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity floors q, clamps it at zero and re-prices the line.
func (s *DraftService) SetQuantity(lineID string, q float64) bool {
	return s.updateLine(lineID, func(l *model.QuoteLine) {
		l.Quantity = pricing.ClampQuantity(q)
	})
}

// SetMargin stores the margin verbatim; negative margins are allowed.
func (s *DraftService) SetMargin(lineID string, pct decimal.Decimal) bool {
	return s.updateLine(lineID, func(l *model.QuoteLine) {
		l.MarginPercent = pct
	})
}

// SetUnitPrice back-solves the margin that yields price and re-prices from it,
// so the stored unit price is the one the margin produces after rounding.
func (s *DraftService) SetUnitPrice(lineID string, price decimal.Decimal) bool {
	return s.updateLine(lineID, func(l *model.QuoteLine) {
		cost := pricing.CostIn(l, s.draft.Currency, s.draft.ExchangeRate)
		l.MarginPercent = pricing.BackSolveMargin(price, cost)
	})
}

// SetDeliveryTime stores label verbatim unless the line has stock, in which
// case it stays Immediate.
func (s *DraftService) SetDeliveryTime(lineID, label string) bool {
	return s.updateLine(lineID, func(l *model.QuoteLine) {
		l.DeliveryTimeLabel = label
	})
}

// SetClient attaches a client, or detaches it when c is nil.
func (s *DraftService) SetClient(c *model.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == nil {
		s.draft.Client = nil
		return
	}
	cp := *c
	s.draft.Client = &cp
}

func (s *DraftService) Subtotal() decimal.Decimal { return s.Totals().Subtotal }

func (s *DraftService) Tax() decimal.Decimal { return s.Totals().Tax }

func (s *DraftService) Total() decimal.Decimal { return s.Totals().Total }

// Totals is computed on demand from the current lines.
func (s *DraftService) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Summarize(s.draft.Items, s.draft.TaxRate)
}

func (s *DraftService) updateLine(lineID string, mutate func(*model.QuoteLine)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.draft.Items {
		l := &s.draft.Items[i]
		if l.ID != lineID {
			continue
		}
		mutate(l)
		pricing.Apply(l, s.draft.Currency, s.draft.ExchangeRate)
		return true
	}
	return false
}

func (s *DraftService) repriceAll() {
	for i := range s.draft.Items {
		pricing.Apply(&s.draft.Items[i], s.draft.Currency, s.draft.ExchangeRate)
	}
}

