package domain

// DefaultCurrency is used when a trip is created without a currency.
const DefaultCurrency = "NGN"

// Currency describes a currency offered to presentation clients.
type Currency struct {
	Code   string
	Symbol string
}

var supportedCurrencies = []Currency{
	{Code: "USD", Symbol: "$"},
	{Code: "EUR", Symbol: "€"},
	{Code: "GBP", Symbol: "£"},
	{Code: "JPY", Symbol: "¥"},
	{Code: "NGN", Symbol: "₦"},
	{Code: "CAD", Symbol: "$"},
	{Code: "AUD", Symbol: "$"},
}

// SupportedCurrencies returns the currencies offered by default, in display order.
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// CurrencySymbol returns the display symbol for a code, or the code itself when unknown.
func CurrencySymbol(code string) string {
	code = NormalizeCurrency(code)
	for _, c := range supportedCurrencies {
		if c.Code == code {
			return c.Symbol
		}
	}
	return code
}
