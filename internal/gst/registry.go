package gst

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/gst-engine/internal/decimal"
	"github.com/rezonia/gst-engine/internal/model"
)

// Category codes known to the default registry
const (
	CategoryToolRental      = "TOOL_RENTAL"
	CategoryMembershipFee   = "MEMBERSHIP_FEE"
	CategoryLateFee         = "LATE_FEE"
	CategoryDamageFee       = "DAMAGE_FEE"
	CategorySecurityDeposit = "SECURITY_DEPOSIT"
	CategoryDonation        = "DONATION"
)

// StandardRate is the Australian GST rate
var StandardRate = decimal.RequireFromString("0.10")

// DefaultCategories returns the category table of the tool library
func DefaultCategories(rate decimal.Decimal) []model.CategoryDefinition {
	return []model.CategoryDefinition{
		{Code: CategoryToolRental, Name: "Tool Rental", Treatment: model.TreatmentInclusive, Rate: rate, Description: "Rental of tools and equipment"},
		{Code: CategoryMembershipFee, Name: "Membership Fee", Treatment: model.TreatmentInclusive, Rate: rate, Description: "Annual membership fees"},
		{Code: CategoryLateFee, Name: "Late Return Fee", Treatment: model.TreatmentInclusive, Rate: rate, Description: "Penalty for late return"},
		{Code: CategoryDamageFee, Name: "Damage/Repair Fee", Treatment: model.TreatmentInclusive, Rate: rate, Description: "Cost of repairs or replacement"},
		{Code: CategorySecurityDeposit, Name: "Security Deposit", Treatment: model.TreatmentExempt, Rate: money.Zero, Description: "Refundable security deposit (not subject to GST)"},
		{Code: CategoryDonation, Name: "Donation", Treatment: model.TreatmentExempt, Rate: money.Zero, Description: "Charitable donation (not subject to GST)"},
	}
}

// Category is a registered definition with its treatment resolved once
type Category struct {
	model.CategoryDefinition
	treatment Treatment
}

// Calculate applies the category's treatment and rate to amount.
// amount must already be validated as non-negative and in range.
func (c Category) Calculate(amount decimal.Decimal) model.AmountResult {
	result := c.treatment.Calculate(amount, c.Rate)
	result.CategoryCode = c.Code
	result.Category = c.Name
	result.Description = c.Description
	return result
}

// Registry is an immutable lookup from category code to definition.
// It is safe for concurrent use.
type Registry struct {
	rate       decimal.Decimal
	categories map[string]Category
	codes      []string
}

// NewRegistry builds a registry. rate is the standard rate reported on breakdowns.
func NewRegistry(rate decimal.Decimal, defs ...model.CategoryDefinition) (*Registry, error) {
	if !money.IsNonNegative(rate) {
		return nil, model.NewValidationError("rate", rate.String(), "gte=0", "standard rate must not be negative")
	}

	r := &Registry{
		rate:       rate,
		categories: make(map[string]Category, len(defs)),
		codes:      make([]string, 0, len(defs)),
	}

	for i, def := range defs {
		field := fmt.Sprintf("categories[%d]", i)
		if def.Code == "" {
			return nil, model.NewValidationError(field+".code", nil, "required", "category code is required")
		}
		if _, dup := r.categories[def.Code]; dup {
			return nil, model.NewValidationError(field+".code", def.Code, "unique", "duplicate category code")
		}
		t, err := TreatmentFor(def.Treatment)
		if err != nil {
			return nil, err
		}
		if !money.IsNonNegative(def.Rate) {
			return nil, model.NewValidationError(field+".rate", def.Rate.String(), "gte=0", "rate must not be negative")
		}
		if def.Treatment == model.TreatmentExempt && !def.Rate.IsZero() {
			return nil, model.NewValidationError(field+".rate", def.Rate.String(), "eq=0", "exempt categories must have a zero rate")
		}
		if def.Name == "" {
			def.Name = def.Code
		}

		r.categories[def.Code] = Category{CategoryDefinition: def, treatment: t}
		r.codes = append(r.codes, def.Code)
	}

	sort.Strings(r.codes)
	return r, nil
}

// DefaultRegistry returns a registry holding DefaultCategories at StandardRate
func DefaultRegistry() *Registry {
	r, err := NewRegistry(StandardRate, DefaultCategories(StandardRate)...)
	if err != nil {
		panic(err)
	}
	return r
}

// Rate returns the standard rate
func (r *Registry) Rate() decimal.Decimal {
	return r.rate
}

// Lookup returns the category for code
func (r *Registry) Lookup(code string) (Category, error) {
	c, ok := r.categories[code]
	if !ok {
		return Category{}, model.NewUnknownCategoryError(code)
	}
	return c, nil
}

// Resolve returns the definition for code
func (r *Registry) Resolve(code string) (model.CategoryDefinition, error) {
	c, err := r.Lookup(code)
	if err != nil {
		return model.CategoryDefinition{}, err
	}
	return c.CategoryDefinition, nil
}

// CalculateByCategory calculates amount under the treatment of category code
func (r *Registry) CalculateByCategory(amount decimal.Decimal, code string) (model.AmountResult, error) {
	c, err := r.Lookup(code)
	if err != nil {
		return model.AmountResult{}, err
	}
	if err := validateAmount("amount", amount); err != nil {
		return model.AmountResult{}, err
	}
	if err := validateRange("amount", amount, c.Rate); err != nil {
		return model.AmountResult{}, err
	}
	return c.Calculate(amount), nil
}

// Codes returns the registered codes in sorted order
func (r *Registry) Codes() []string {
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

// List returns every definition, sorted by code
func (r *Registry) List() []model.CategoryDefinition {
	out := make([]model.CategoryDefinition, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.categories[code].CategoryDefinition)
	}
	return out
}
