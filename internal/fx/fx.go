// Package fx converts monetary amounts into HKD, the reporting currency.
// Rates are fixed: 1 USD = 7.8 HKD (the HKMA peg midpoint).
package fx

import "errors"

// Fixed conversion rates.
const (
	USDToHKD = 7.8
	HKDToUSD = 0.128
)

// ReportingCurrency is the currency every aggregate is expressed in.
const ReportingCurrency = "HKD"

// ErrUnsupportedCurrency is returned by ToHKD for currencies other than
// HKD and USD. Write boundaries validate currency up front so the
// aggregation path never observes it.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ToHKD converts an amount to HKD. Currency must be "HKD" or "USD".
func ToHKD(amount float64, currency string) (float64, error) {
	switch currency {
	case "HKD":
		return amount, nil
	case "USD":
		return amount * USDToHKD, nil
	default:
		return 0, ErrUnsupportedCurrency
	}
}

// ToHKDOrSame converts an amount to HKD, passing unknown currencies through
// unchanged. Used where a best-effort display value beats an error.
func ToHKDOrSame(amount float64, currency string) float64 {
	if currency == "USD" {
		return amount * USDToHKD
	}
	return amount
}

// ToUSD converts an amount to USD. Currency must be "HKD" or "USD".
func ToUSD(amount float64, currency string) (float64, error) {
	switch currency {
	case "USD":
		return amount, nil
	case "HKD":
		return amount * HKDToUSD, nil
	default:
		return 0, ErrUnsupportedCurrency
	}
}

// Supported reports whether a currency can be normalized.
func Supported(currency string) bool {
	return currency == "HKD" || currency == "USD"
}
