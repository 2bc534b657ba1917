package model

import "strings"

// Currency is one of the two currencies a quote can be priced in.
type Currency string

const (
	CurrencyMXN Currency = "MXN"
	CurrencyUSD Currency = "USD"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	return c == CurrencyMXN || c == CurrencyUSD
}

// ParseCurrency normalizes an ERP/user supplied currency code.
// Anything other than "MXN" falls back to USD, which is how the ERP
// reports imported stock.
func ParseCurrency(raw string) Currency {
	if strings.ToUpper(strings.TrimSpace(raw)) == string(CurrencyMXN) {
		return CurrencyMXN
	}
	return CurrencyUSD
}

// ExchangeRateSource tells whether the draft rate was typed by the seller or fetched.
type ExchangeRateSource string

const (
	RateSourceManual ExchangeRateSource = "manual"
	RateSourceAPI    ExchangeRateSource = "api"
)
