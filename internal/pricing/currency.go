// Package pricing holds the pure money rules of the cotizador: currency
// conversion, line pricing and delivery-time suggestions. Nothing here does
// I/O or keeps state.
package pricing

import (
	"cotizador/internal/model"

	"github.com/shopspring/decimal"
)

// SafeRate returns rate, or 1 when rate is not positive.
func SafeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.NewFromInt(1)
	}
	return rate
}

// Convert moves amount between MXN and USD. rate is MXN per 1 USD.
// The result is not rounded.
func Convert(amount decimal.Decimal, from, to model.Currency, rate decimal.Decimal) decimal.Decimal {
	if from == to {
		return amount
	}
	rate = SafeRate(rate)
	if from == model.CurrencyUSD && to == model.CurrencyMXN {
		return amount.Mul(rate)
	}
	return amount.Div(rate)
}
