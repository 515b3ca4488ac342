package gst

import (
	"github.com/shopspring/decimal"

	money "github.com/rezonia/gst-engine/internal/decimal"
	"github.com/rezonia/gst-engine/internal/model"
)

// CalculateInclusive treats amount as GST-inclusive
func CalculateInclusive(amount, rate decimal.Decimal) (model.AmountResult, error) {
	return calculate(inclusiveTreatment{}, amount, rate)
}

// CalculateExclusive treats amount as GST-exclusive
func CalculateExclusive(amount, rate decimal.Decimal) (model.AmountResult, error) {
	return calculate(exclusiveTreatment{}, amount, rate)
}

// CalculateExempt converts amount to cents with no GST
func CalculateExempt(amount decimal.Decimal) (model.AmountResult, error) {
	return calculate(exemptTreatment{}, amount, money.Zero)
}

func calculate(t Treatment, amount, rate decimal.Decimal) (model.AmountResult, error) {
	if err := validateAmount("amount", amount); err != nil {
		return model.AmountResult{}, err
	}
	if err := validateRate(rate); err != nil {
		return model.AmountResult{}, err
	}
	if err := validateRange("amount", amount, rate); err != nil {
		return model.AmountResult{}, err
	}
	return t.Calculate(amount, rate), nil
}

func validateAmount(field string, amount decimal.Decimal) error {
	if !money.IsNonNegative(amount) {
		return model.NewInvalidAmountError(field, amount.String(), "must not be negative", nil)
	}
	return nil
}

// validateRange rejects amounts whose GST-inclusive cent value would not fit
// in money.Cents
func validateRange(field string, amount, rate decimal.Decimal) error {
	if !money.FitsCents(amount.Mul(rate.Add(decimal.NewFromInt(1)))) {
		return model.NewInvalidAmountError(field, amount.String(), "too large", money.ErrOverflow)
	}
	return nil
}

func validateRate(rate decimal.Decimal) error {
	if !money.IsNonNegative(rate) {
		return model.NewInvalidAmountError("rate", rate.String(), "must not be negative", nil)
	}
	return nil
}
