package calculator

import "github.com/Rhymond/go-money"

// DisplayCurrency is the currency used to render cent amounts in messages.
// The engine itself is currency-agnostic.
var DisplayCurrency = money.USD

// FormatCents renders an amount of cents, e.g. 9000 -> "$90.00".
func FormatCents(cents int64) string {
	return FormatCentsIn(cents, DisplayCurrency)
}

// FormatCentsIn renders an amount of cents in the given ISO currency.
func FormatCentsIn(cents int64, currency string) string {
	return money.New(cents, currency).Display()
}
