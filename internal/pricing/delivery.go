package pricing

import (
	"cotizador/internal/model"

	"github.com/shopspring/decimal"
)

// Lead-time bands offered for lines without stock.
const (
	DeliveryShort = "1-2 weeks"
	DeliveryMid   = "2-4 weeks"
	DeliveryLong  = "4-6 weeks"
)

// DeliveryBands lists the labels a seller may pick for a line without stock.
var DeliveryBands = []string{DeliveryShort, DeliveryMid, DeliveryLong}

// DeliveryPolicy holds the cost thresholds (in quote currency) used to suggest
// a lead time. They are business policy and come from configuration.
type DeliveryPolicy struct {
	LongThreshold decimal.Decimal
	MidThreshold  decimal.Decimal
}

// DefaultDeliveryPolicy mirrors what sales uses today.
func DefaultDeliveryPolicy() DeliveryPolicy {
	return DeliveryPolicy{
		LongThreshold: decimal.NewFromInt(100),
		MidThreshold:  decimal.NewFromInt(40),
	}
}

// Suggest picks the initial delivery label for a new line.
func (p DeliveryPolicy) Suggest(stock int, cost decimal.Decimal) string {
	switch {
	case stock > 0:
		return model.DeliveryImmediate
	case cost.GreaterThanOrEqual(p.LongThreshold):
		return DeliveryLong
	case cost.GreaterThanOrEqual(p.MidThreshold):
		return DeliveryMid
	default:
		return DeliveryShort
	}
}
