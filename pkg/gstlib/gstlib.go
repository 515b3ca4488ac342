// Package gstlib provides a public API for Australian GST calculation and
// tax invoice assembly.
//
// All money leaving this package is in integer cents, and every result
// satisfies exclusive + gst == inclusive exactly.
//
// Example usage:
//
//	result, err := gstlib.CalculateByCategory(decimal.RequireFromString("55.00"), gstlib.CategoryToolRental)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(gstlib.FormatMoney(result.GSTCents)) // $5.00
package gstlib

import (
	money "github.com/rezonia/gst-engine/internal/decimal"
	"github.com/rezonia/gst-engine/internal/gst"
	"github.com/rezonia/gst-engine/internal/model"
)

// Re-export core types for public API
type (
	Cents              = money.Cents
	TreatmentKind      = model.TreatmentKind
	CategoryDefinition = model.CategoryDefinition
	AmountResult       = model.AmountResult
	LineItem           = model.LineItem
	LineItemResult     = model.LineItemResult
	Breakdown          = model.Breakdown
	Address            = model.Address
	Party              = model.Party
	Supplier           = model.Supplier
	InvoiceMetadata    = model.InvoiceMetadata
	Invoice            = model.Invoice
	Clock              = gst.Clock
	Registry           = gst.Registry
	Assembler          = gst.Assembler
	AssemblerOption    = gst.AssemblerOption
)

// Re-export treatments
const (
	TreatmentInclusive = model.TreatmentInclusive
	TreatmentExclusive = model.TreatmentExclusive
	TreatmentExempt    = model.TreatmentExempt
)

// Re-export category codes of the default registry
const (
	CategoryToolRental      = gst.CategoryToolRental
	CategoryMembershipFee   = gst.CategoryMembershipFee
	CategoryLateFee         = gst.CategoryLateFee
	CategoryDamageFee       = gst.CategoryDamageFee
	CategorySecurityDeposit = gst.CategorySecurityDeposit
	CategoryDonation        = gst.CategoryDonation
)

// Re-export error types
type (
	UnknownCategoryError = model.UnknownCategoryError
	InvalidAmountError   = model.InvalidAmountError
	ValidationError      = model.ValidationError
)

// ErrNonFinite is wrapped by errors for NaN or infinite float amounts
var ErrNonFinite = money.ErrNonFinite

// Re-export constructors and options
var (
	StandardRate       = gst.StandardRate
	SystemClock        = gst.SystemClock
	FixedClock         = gst.FixedClock
	DefaultCategories  = gst.DefaultCategories
	NewRegistry        = gst.NewRegistry
	NewAssembler       = gst.NewAssembler
	WithSupplier       = gst.WithSupplier
	WithPaymentTerms   = gst.WithPaymentTerms
	WithPaymentMethods = gst.WithPaymentMethods
	WithCurrency       = gst.WithCurrency
)
