package pricing

import (
	"math"
	"strings"

	"cotizador/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultMarginPct is applied to every line added from the catalog.
var DefaultMarginPct = decimal.NewFromInt(15)

// marginPlaces is the precision kept when a margin is back-solved from a price.
const marginPlaces = 6

var hundred = decimal.NewFromInt(100)

// LinePrice holds the derived values of a line.
type LinePrice struct {
	UnitPrice      decimal.Decimal
	LineSubtotal   decimal.Decimal
	RequiresReview bool
}

// Round2 rounds half away from zero to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CostIn returns the line cost expressed in the quote currency, unrounded.
func CostIn(line *model.QuoteLine, currency model.Currency, rate decimal.Decimal) decimal.Decimal {
	return Convert(line.CostAmount, line.CostCurrency, currency, rate)
}

// PriceLine derives unit price, subtotal and the review flag of line.
func PriceLine(line *model.QuoteLine, currency model.Currency, rate decimal.Decimal) LinePrice {
	cost := CostIn(line, currency, rate)
	factor := decimal.NewFromInt(1).Add(line.MarginPercent.Div(hundred))
	unit := Round2(cost.Mul(factor))
	return LinePrice{
		UnitPrice:      unit,
		LineSubtotal:   Round2(unit.Mul(decimal.NewFromInt(int64(line.Quantity)))),
		RequiresReview: NeedsReview(line.Quantity, line.UnitOfMeasure),
	}
}

// NeedsReview flags lines without a positive quantity or a unit of measure.
func NeedsReview(quantity int, unit string) bool {
	return quantity <= 0 || strings.TrimSpace(unit) == ""
}

// Apply writes the derived fields into line and enforces the stock delivery rule.
func Apply(line *model.QuoteLine, currency model.Currency, rate decimal.Decimal) {
	if line.StockAvailable > 0 {
		line.DeliveryTimeLabel = model.DeliveryImmediate
	}
	p := PriceLine(line, currency, rate)
	line.UnitPrice = p.UnitPrice
	line.LineSubtotal = p.LineSubtotal
	line.RequiresReview = p.RequiresReview
}

// BackSolveMargin returns the margin that turns cost into price.
// A zero (or negative) cost has no defined margin; 0 is returned.
func BackSolveMargin(price, cost decimal.Decimal) decimal.Decimal {
	if cost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	return price.Div(cost).Sub(decimal.NewFromInt(1)).Mul(hundred).Round(marginPlaces)
}

// MaxQuantity caps line quantities so derived amounts stay in range.
const MaxQuantity = math.MaxInt32

// ClampQuantity floors q into [0, MaxQuantity]. NaN reads as 0.
func ClampQuantity(q float64) int {
	switch {
	case math.IsNaN(q) || q <= 0:
		return 0
	case q >= MaxQuantity:
		return MaxQuantity
	}
	return int(math.Floor(q))
}

// Totals is the money summary of a set of lines.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Summarize adds up line subtotals and applies taxRate.
func Summarize(lines []model.QuoteLine, taxRate decimal.Decimal) Totals {
	sum := decimal.Zero
	for i := range lines {
		sum = sum.Add(lines[i].LineSubtotal)
	}
	subtotal := Round2(sum)
	tax := Round2(subtotal.Mul(taxRate))
	return Totals{Subtotal: subtotal, Tax: tax, Total: Round2(subtotal.Add(tax))}
}
