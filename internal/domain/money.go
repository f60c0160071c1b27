package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in the minor units of a trip's currency (cents for USD, yen for JPY).
type Money int64

// DefaultExponent is the number of minor-unit digits for currencies missing from currencyExponents.
const DefaultExponent int32 = 2

// currencyExponents lists ISO 4217 currencies whose minor unit is not two digits.
var currencyExponents = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0,
	"JPY": 0, "KMF": 0, "KRW": 0, "PYG": 0, "RWF": 0,
	"UGX": 0, "VND": 0, "VUV": 0, "XAF": 0, "XOF": 0,
	"XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3,
	"OMR": 3, "TND": 3,
}

// CurrencyExponent returns the number of decimal digits of the currency's minor unit.
func CurrencyExponent(currency string) int32 {
	if exp, ok := currencyExponents[NormalizeCurrency(currency)]; ok {
		return exp
	}
	return DefaultExponent
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// MoneyFromDecimal converts a decimal amount in currency units to minor units,
// rounding half away from zero. Amounts that do not fit in int64 minor units
// fail with ErrInvalidAmount.
func MoneyFromDecimal(amount decimal.Decimal, currency string) (Money, error) {
	minor := amount.Shift(CurrencyExponent(currency)).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, amount)
	}
	return Money(minor.IntPart()), nil
}

// ParseMoney parses a decimal string such as "12.50" into minor units.
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal amount", ErrInvalidAmount, s)
	}
	return MoneyFromDecimal(d, currency)
}

// Decimal returns the amount in currency units.
func (m Money) Decimal(currency string) decimal.Decimal {
	return decimal.New(int64(m), -CurrencyExponent(currency))
}

// Format renders the amount with exactly the currency's number of decimals.
func (m Money) Format(currency string) string {
	return m.Decimal(currency).StringFixed(CurrencyExponent(currency))
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// SettlementTolerance is 0.01 currency units expressed in minor units, floored.
// Balances whose magnitude does not exceed it are treated as settled.
func SettlementTolerance(currency string) Money {
	eps := decimal.New(1, -2).Shift(CurrencyExponent(currency)).Floor()
	return Money(eps.IntPart())
}
