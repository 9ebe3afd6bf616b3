// Package vat implements the VAT and business-expense calculation core.
// Every function is pure: plain decimal inputs, a computed result, no I/O.
package vat

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidArgument marks a negative amount, a negative rate, or a
	// business usage percentage outside [0, 100].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRateNotFound marks a VAT rate or category id that did not resolve.
	ErrRateNotFound = errors.New("vat rate not found")
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Result is the full breakdown of a single VAT calculation. It is a plain
// return value; nothing in this package persists it.
type Result struct {
	NetAmount               decimal.Decimal `json:"net_amount"`
	VATRatePercentage       decimal.Decimal `json:"vat_rate_percentage"`
	VATAmount               decimal.Decimal `json:"vat_amount"`
	GrossAmount             decimal.Decimal `json:"gross_amount"`
	DeductibleAmount        decimal.Decimal `json:"deductible_amount"`
	BusinessUsagePercentage decimal.Decimal `json:"business_usage_percentage"`
}

// round2 rounds to 2 decimal places, half up. Decimal.Round rounds half
// away from zero, which is identical for the non-negative values accepted
// by this package.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func validateInputs(amount, ratePct, usagePct decimal.Decimal, amountField string) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s must not be negative: %w", amountField, ErrInvalidArgument)
	}
	if ratePct.IsNegative() {
		return fmt.Errorf("vat_rate_percentage must not be negative: %w", ErrInvalidArgument)
	}
	if usagePct.IsNegative() || usagePct.GreaterThan(hundred) {
		return fmt.Errorf("business_usage_percentage must be between 0 and 100: %w", ErrInvalidArgument)
	}
	return nil
}

// CalculateFromNet computes vat, gross and deductible amounts from a net
// amount:
//
//	vat        = round2(net * rate / 100)
//	gross      = net + vat
//	deductible = round2(net * usage / 100)
func CalculateFromNet(netAmount, ratePct, usagePct decimal.Decimal) (Result, error) {
	if err := validateInputs(netAmount, ratePct, usagePct, "net_amount"); err != nil {
		return Result{}, err
	}

	vatAmount := round2(netAmount.Mul(ratePct).Div(hundred))
	grossAmount := netAmount.Add(vatAmount)
	deductibleAmount := round2(netAmount.Mul(usagePct).Div(hundred))

	return Result{
		NetAmount:               netAmount,
		VATRatePercentage:       ratePct,
		VATAmount:               vatAmount,
		GrossAmount:             grossAmount,
		DeductibleAmount:        deductibleAmount,
		BusinessUsagePercentage: usagePct,
	}, nil
}

// CalculateFromGross reverses a gross amount into its net and vat parts:
//
//	net = round2(gross / (1 + rate/100))
//	vat = gross - net
//
// Because both directions round independently, feeding a forward result's
// gross back through this function does not reproduce the original net in
// every case. That is standard currency rounding, not an error.
func CalculateFromGross(grossAmount, ratePct, usagePct decimal.Decimal) (Result, error) {
	if err := validateInputs(grossAmount, ratePct, usagePct, "gross_amount"); err != nil {
		return Result{}, err
	}

	multiplier := one.Add(ratePct.Div(hundred))
	netAmount := round2(grossAmount.DivRound(multiplier, 8))
	vatAmount := grossAmount.Sub(netAmount)
	deductibleAmount := round2(netAmount.Mul(usagePct).Div(hundred))

	return Result{
		NetAmount:               netAmount,
		VATRatePercentage:       ratePct,
		VATAmount:               vatAmount,
		GrossAmount:             grossAmount,
		DeductibleAmount:        deductibleAmount,
		BusinessUsagePercentage: usagePct,
	}, nil
}

// EWorkerAmount derives the net expense amount for an e-worker period:
// days worked times the agreed daily rate, rounded to cents.
func EWorkerAmount(days, dailyRate decimal.Decimal) (decimal.Decimal, error) {
	if days.IsNegative() {
		return decimal.Zero, fmt.Errorf("days must not be negative: %w", ErrInvalidArgument)
	}
	if dailyRate.IsNegative() {
		return decimal.Zero, fmt.Errorf("daily_rate must not be negative: %w", ErrInvalidArgument)
	}
	return round2(days.Mul(dailyRate)), nil
}

// MileageAmount derives the net expense amount for a mileage log: distance
// in km times the per-km reimbursement rate, rounded to cents. The rate is
// supplied by the caller (configured per jurisdiction), never assumed here.
func MileageAmount(km, ratePerKm decimal.Decimal) (decimal.Decimal, error) {
	if km.IsNegative() {
		return decimal.Zero, fmt.Errorf("km must not be negative: %w", ErrInvalidArgument)
	}
	if ratePerKm.IsNegative() {
		return decimal.Zero, fmt.Errorf("rate_per_km must not be negative: %w", ErrInvalidArgument)
	}
	return round2(km.Mul(ratePerKm)), nil
}
