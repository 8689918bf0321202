package shipper

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyBRL is the carrier's domestic currency.
const CurrencyBRL = "BRL"

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// BRL builds a Money value in reais.
func BRL(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: CurrencyBRL}
}

// FormatBRL renders an amount the way the storefront shows it: "R$ 1.234,56".
// Fixed output always carries two decimals; otherwise up to two are shown and
// trailing zeros are dropped ("R$ 60").
func FormatBRL(amount decimal.Decimal, fixed bool) string {
	f, _ := amount.Round(2).Float64()
	opt := number.MaxFractionDigits(2)
	if fixed {
		opt = number.Scale(2)
	}
	return "R$ " + brPrinter.Sprint(number.Decimal(f, opt))
}
