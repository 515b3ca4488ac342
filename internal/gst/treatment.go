package gst

import (
	"fmt"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/gst-engine/internal/decimal"
	"github.com/rezonia/gst-engine/internal/model"
)

// Treatment converts a validated, non-negative dollar amount into cents
type Treatment interface {
	Calculate(amount, rate decimal.Decimal) model.AmountResult
	Kind() model.TreatmentKind
}

type inclusiveTreatment struct{}

// Calculate backs GST out of a tax-inclusive amount. GST is derived by
// subtraction so exclusive + gst == inclusive exactly.
func (inclusiveTreatment) Calculate(amount, rate decimal.Decimal) model.AmountResult {
	inclusive := money.ToCents(amount)
	exclusive := money.DivideByOnePlus(inclusive, rate)
	return model.AmountResult{
		InclusiveCents: inclusive,
		ExclusiveCents: exclusive,
		GSTCents:       inclusive - exclusive,
		Rate:           rate,
		Treatment:      model.TreatmentInclusive,
	}
}

func (inclusiveTreatment) Kind() model.TreatmentKind { return model.TreatmentInclusive }

type exclusiveTreatment struct{}

// Calculate adds GST on top of a tax-exclusive amount
func (exclusiveTreatment) Calculate(amount, rate decimal.Decimal) model.AmountResult {
	exclusive := money.ToCents(amount)
	gst := money.MulRate(exclusive, rate)
	return model.AmountResult{
		InclusiveCents: exclusive + gst,
		ExclusiveCents: exclusive,
		GSTCents:       gst,
		Rate:           rate,
		Treatment:      model.TreatmentExclusive,
	}
}

func (exclusiveTreatment) Kind() model.TreatmentKind { return model.TreatmentExclusive }

type exemptTreatment struct{}

// Calculate ignores rate; exempt amounts carry no GST
func (exemptTreatment) Calculate(amount, _ decimal.Decimal) model.AmountResult {
	cents := money.ToCents(amount)
	return model.AmountResult{
		InclusiveCents: cents,
		ExclusiveCents: cents,
		GSTCents:       0,
		Rate:           money.Zero,
		Treatment:      model.TreatmentExempt,
	}
}

func (exemptTreatment) Kind() model.TreatmentKind { return model.TreatmentExempt }

var treatments = map[model.TreatmentKind]Treatment{
	model.TreatmentInclusive: inclusiveTreatment{},
	model.TreatmentExclusive: exclusiveTreatment{},
	model.TreatmentExempt:    exemptTreatment{},
}

// TreatmentFor returns the strategy for kind
func TreatmentFor(kind model.TreatmentKind) (Treatment, error) {
	t, ok := treatments[kind]
	if !ok {
		return nil, model.NewValidationError("treatment", string(kind), "oneof",
			fmt.Sprintf("must be one of %s, %s, %s", model.TreatmentInclusive, model.TreatmentExclusive, model.TreatmentExempt))
	}
	return t, nil
}
