package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cotizador/internal/infra"
	"cotizador/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	catalogCachePrefix = "catalog:"
	defaultCatalogTTL  = 60 * time.Second
	defaultUnit        = "PZA"
)

// ProductSource is the ERP endpoint the catalog reads from. *infra.ERPClient
// implements it.
type ProductSource interface {
	ProductsByEAN(ctx context.Context, ean, branchID string) ([]infra.ERPProductRow, error)
}

type CatalogService interface {
	Search(ctx context.Context, ean, branchID string) ([]model.CatalogItem, error)
}

type catalogService struct {
	source ProductSource
	rdb    *redis.Client
	ttl    time.Duration
}

// NewCatalogService builds the ERP-backed catalog. rdb may be nil to disable
// the result cache.
func NewCatalogService(source ProductSource, rdb *redis.Client, ttl time.Duration) CatalogService {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &catalogService{source: source, rdb: rdb, ttl: ttl}
}

// Search returns the catalog items matching ean at branchID. Blank input yields
// no items without contacting the ERP. Rows missing a code, EAN or description
// are dropped.
func (s *catalogService) Search(ctx context.Context, ean, branchID string) ([]model.CatalogItem, error) {
	ean = strings.TrimSpace(ean)
	branchID = strings.TrimSpace(branchID)
	if ean == "" || branchID == "" {
		return []model.CatalogItem{}, nil
	}

	key := catalogCachePrefix + branchID + "::" + strings.ToUpper(ean)
	if items, ok := s.cached(ctx, key); ok {
		return items, nil
	}

	rows, err := s.source.ProductsByEAN(ctx, ean, branchID)
	if err != nil {
		return nil, fmt.Errorf("catalog search %s: %w", ean, err)
	}
	items := make([]model.CatalogItem, 0, len(rows))
	for _, row := range rows {
		if item, ok := mapERPRow(row); ok {
			items = append(items, item)
		}
	}
	s.store(ctx, key, items)
	return items, nil
}

func (s *catalogService) cached(ctx context.Context, key string) ([]model.CatalogItem, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		}
		return nil, false
	}
	var items []model.CatalogItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (s *catalogService) store(ctx context.Context, key string, items []model.CatalogItem) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}

// mapERPRow normalizes one loosely typed ERP row. The cost is the last purchase
// cost when known, else the average cost.
func mapERPRow(row infra.ERPProductRow) (model.CatalogItem, bool) {
	code := looseString(row.Code)
	ean := looseString(row.EAN)
	description := looseString(row.Description)
	if code == "" || ean == "" || description == "" {
		return model.CatalogItem{}, false
	}
	unit := looseString(row.Unit)
	if unit == "" {
		unit = defaultUnit
	}
	stock := looseNumber(row.Stock).Floor()
	if stock.IsNegative() {
		stock = decimal.Zero
	}
	cost := looseNumber(row.LastCost)
	if !cost.IsPositive() {
		cost = looseNumber(row.AverageCost)
	}
	if cost.IsNegative() {
		cost = decimal.Zero
	}
	return model.CatalogItem{
		Code:         code,
		EAN:          ean,
		Description:  description,
		Unit:         unit,
		CostAmount:   cost,
		CostCurrency: model.ParseCurrency(looseString(row.Currency)),
		Stock:        int(stock.IntPart()),
	}, true
}

func looseString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// looseNumber reads JSON numbers and numeric strings such as "1,250.50".
// Anything unparseable is zero.
func looseNumber(v any) decimal.Decimal {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t)
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(t), ",", ""))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}
